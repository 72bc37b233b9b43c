package main

import (
	"github.com/alecthomas/kong"

	"github.com/randomouscrap98/recovermov/units"
)

// A size flag where a bare number is a byte count
type byteSizeFlag uint64

func (b *byteSizeFlag) Decode(ctx *kong.DecodeContext) error {
	var s string
	if err := ctx.Scan.PopValueInto("size", &s); err != nil {
		return err
	}
	v, err := units.ParseBytes(s)
	if err != nil {
		return err
	}
	*b = byteSizeFlag(v)
	return nil
}

// A size flag where a bare number is in MiB
type mebiSizeFlag uint64

func (m *mebiSizeFlag) Decode(ctx *kong.DecodeContext) error {
	var s string
	if err := ctx.Scan.PopValueInto("size", &s); err != nil {
		return err
	}
	v, err := units.ParseMebibytes(s)
	if err != nil {
		return err
	}
	*m = mebiSizeFlag(v)
	return nil
}
