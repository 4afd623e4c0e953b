package stream

import (
	"errors"
	"fmt"
)

var (
	// ErrIllegalState reports a violated precondition, e.g. consuming EOF.
	ErrIllegalState = errors.New("illegal stream state")
	// ErrOutOfRange reports direct access outside the buffered tokens.
	ErrOutOfRange = errors.New("token index out of range")
)

// RangeError describes an index that fell outside the known buffer.
type RangeError struct {
	Index int // offending index (Start for ranges)
	Stop  int // offending stop index, -1 for single-index access
	Size  int // tokens buffered at the time of the call
}

func (e *RangeError) Error() string {
	if e.Stop >= 0 {
		return fmt.Sprintf("start %d or stop %d not in 0..%d", e.Index, e.Stop, e.Size-1)
	}
	return fmt.Sprintf("token index %d out of range 0..%d", e.Index, e.Size-1)
}

// Unwrap lets errors.Is match ErrOutOfRange.
func (e *RangeError) Unwrap() error { return ErrOutOfRange }
