// Package units parses human entered sizes such as "512", "4k", "2MiB" or "100MB".
package units

import (
	"fmt"
	"math/bits"
	"strconv"
	"strings"
)

const (
	KiB = 1024
	MiB = 1024 * KiB
)

// InvalidSizeError is returned for anything Parse can't make sense of.
type InvalidSizeError struct {
	Spec   string
	Reason string
}

func (e *InvalidSizeError) Error() string {
	return fmt.Sprintf("invalid size %q: %s", e.Spec, e.Reason)
}

// Parse converts a size with an optional suffix into a byte count. The suffix
// is case insensitive: "ib" selects powers of 1024, "b" powers of 1000, and
// k/m/g/t pick the power. A bare number is multiplied by defaultMultiplier;
// a number followed only by "b" or "ib" is an exact byte count.
func Parse(spec string, defaultMultiplier uint64) (uint64, error) {
	fail := func(reason string) (uint64, error) {
		return 0, &InvalidSizeError{Spec: spec, Reason: reason}
	}

	s := strings.ToLower(strings.TrimSpace(spec))
	var base uint64 = 1000
	explicit := false
	if rest, ok := strings.CutSuffix(s, "ib"); ok {
		s, base, explicit = rest, 1024, true
	} else if rest, ok := strings.CutSuffix(s, "b"); ok {
		s, explicit = rest, true
	}
	if s == "" {
		return fail("no number")
	}

	var multiplier uint64
	last := s[len(s)-1]
	switch {
	case last >= '0' && last <= '9':
		if explicit {
			multiplier = 1
		} else {
			multiplier = defaultMultiplier
		}
	case strings.IndexByte("kmgt", last) >= 0:
		multiplier = 1
		for i := 0; i <= strings.IndexByte("kmgt", last); i++ {
			multiplier *= base
		}
		s = s[:len(s)-1]
	default:
		return fail(fmt.Sprintf("unknown unit %q", last))
	}

	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return fail("not a number")
	}
	hi, lo := bits.Mul64(n, multiplier)
	if hi != 0 {
		return fail("overflows 64 bits")
	}
	return lo, nil
}

// ParseBytes parses a size where a bare number means bytes.
func ParseBytes(spec string) (uint64, error) {
	return Parse(spec, 1)
}

// ParseMebibytes parses a size where a bare number means MiB.
func ParseMebibytes(spec string) (uint64, error) {
	return Parse(spec, MiB)
}
