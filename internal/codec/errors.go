package codec

import (
	"errors"
	"fmt"
)

// ErrDecode is the sentinel wrapped by every DecodeError.
// Use errors.Is(err, ErrDecode) to detect a malformed import.
var ErrDecode = errors.New("decode failed")

// DecodeError reports content that could not be parsed in a given format.
type DecodeError struct {
	Format Format
	Line   int   // 1-based line number, 0 when not tied to a line
	Cause  error // underlying parser error or structural problem
}

func (e *DecodeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s %s: line %d: %v", e.Format, ErrDecode, e.Line, e.Cause)
	}
	return fmt.Sprintf("%s %s: %v", e.Format, ErrDecode, e.Cause)
}

// Is makes errors.Is(err, ErrDecode) hold for every DecodeError.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

func decodeError(f Format, line int, cause error) error {
	return &DecodeError{Format: f, Line: line, Cause: cause}
}
