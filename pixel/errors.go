package pixel

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned (wrapped) whenever an operation rejects its
// inputs: mis-sized buffers, bad dimensions, malformed kernels, out-of-range
// quality or aliased buffers.
var ErrInvalidArgument = errors.New("invalid argument")

// ArgumentError describes which argument of which operation was rejected.
type ArgumentError struct {
	Op     string // "quantize", "resample", "convolve", ...
	Field  string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("pixel: %s: %s: %s", e.Op, e.Field, e.Reason)
}

// Unwrap makes errors.Is(err, ErrInvalidArgument) hold.
func (e *ArgumentError) Unwrap() error { return ErrInvalidArgument }

func invalid(op, field, format string, args ...any) error {
	return &ArgumentError{Op: op, Field: field, Reason: fmt.Sprintf(format, args...)}
}
