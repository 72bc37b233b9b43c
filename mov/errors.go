package mov

import (
	"errors"
	"fmt"
)

// TruncatedError is returned when the stream ends before a header or atom
// could be read in full. At the end of a device image this is the normal way
// for a scan to stop.
type TruncatedError struct {
	Offset int64 // where the read started
	Want   int
	Got    int
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("truncated read at offset %d: wanted %d bytes, got %d", e.Offset, e.Want, e.Got)
}

// IsTruncated reports whether err is (or wraps) a *TruncatedError.
func IsTruncated(err error) bool {
	var te *TruncatedError
	return errors.As(err, &te)
}
