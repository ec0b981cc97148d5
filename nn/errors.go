package nn

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch reports vectors or matrices whose shapes disagree.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrEmptyNetwork reports a parameter set without layers.
	ErrEmptyNetwork = errors.New("network has no layers")

	// ErrEmptyBatch reports a training batch without examples.
	ErrEmptyBatch = errors.New("no training data provided")

	// ErrInvalidConfig reports an update or training configuration that cannot be used.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// DimensionError describes which array had the wrong shape.
// It unwraps to ErrDimensionMismatch.
type DimensionError struct {
	Op    string // operation that detected the mismatch, e.g. "forward"
	What  string // array that was checked, e.g. "weights row"
	Layer int    // layer index, or -1 when not layer specific
	Got   int
	Want  int
}

func (e *DimensionError) Error() string {
	if e.Layer < 0 {
		return fmt.Sprintf("%s: %s: got %d, expected %d: %v", e.Op, e.What, e.Got, e.Want, ErrDimensionMismatch)
	}
	return fmt.Sprintf("%s: layer %d %s: got %d, expected %d: %v", e.Op, e.Layer, e.What, e.Got, e.Want, ErrDimensionMismatch)
}

func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}

func dimErr(op, what string, layer, got, want int) error {
	return &DimensionError{Op: op, What: what, Layer: layer, Got: got, Want: want}
}
