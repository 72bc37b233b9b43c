package mov

import (
	"fmt"
	"io"
)

// Read exactly len(buf) bytes, converting a short read into a TruncatedError.
func readFull(r io.Reader, buf []byte, offset int64) error {
	n, err := io.ReadFull(r, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		return &TruncatedError{Offset: offset, Want: len(buf), Got: n}
	}
	if err != nil {
		return fmt.Errorf("read at offset %d: %w", offset, err)
	}
	return nil
}

// PeekHeader reads the atom header at the current position of rs without
// consuming it. The position is restored on every path, including errors.
func PeekHeader(rs io.ReadSeeker) (h Header, err error) {
	start, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return h, fmt.Errorf("get position: %w", err)
	}
	defer func() {
		if _, serr := rs.Seek(start, io.SeekStart); serr != nil {
			// A failed restore is never a clean end of stream, so it
			// replaces any truncation error rather than joining it.
			err = fmt.Errorf("restore position %d: %w", start, serr)
		}
	}()

	var buf [HeaderSize]byte
	if err = readFull(rs, buf[:], start); err != nil {
		return h, err
	}
	return ParseHeader(buf[:]), nil
}
