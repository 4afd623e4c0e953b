package atn

import (
	"errors"
	"fmt"
)

// ErrFormat marks malformed serialized ATN data.
var ErrFormat = errors.New("atn: invalid serialized ATN")

// FormatError describes why serialized data was rejected. Offset is the
// index of the offending value, or -1 when the failure is structural.
type FormatError struct {
	Offset int
	Msg    string
}

func (e *FormatError) Error() string {
	if e.Offset < 0 {
		return fmt.Sprintf("atn: invalid serialized ATN: %s", e.Msg)
	}
	return fmt.Sprintf("atn: invalid serialized ATN at offset %d: %s", e.Offset, e.Msg)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// CheckCondition returns a *FormatError carrying msg when cond is false.
func CheckCondition(cond bool, msg string) error {
	if cond {
		return nil
	}
	return &FormatError{Offset: -1, Msg: msg}
}

func checkf(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}
	return &FormatError{Offset: -1, Msg: fmt.Sprintf(format, args...)}
}
