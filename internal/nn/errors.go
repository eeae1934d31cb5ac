package nn

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrDimensionMismatch     = errors.New("dimension mismatch")
	ErrNotInputLayer         = errors.New("layer is not the input layer")
	ErrUnsupportedFunction   = errors.New("unsupported function")
	ErrInvalidArchitecture   = errors.New("invalid architecture")
	ErrInvalidState          = errors.New("invalid network state")
	ErrInvalidHyperparameter = errors.New("invalid hyperparameter")
)

// ShapeError reports a vector whose length does not match the layer it is applied to.
type ShapeError struct {
	Op   string // Operation that rejected the vector (e.g., "FeedForward")
	Want int    // Expected length (layer neuron count)
	Got  int    // Actual vector length
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %s: want %d values, got %d", e.Op, ErrDimensionMismatch, e.Want, e.Got)
}

// Unwrap allows errors.Is(err, ErrDimensionMismatch).
func (e *ShapeError) Unwrap() error {
	return ErrDimensionMismatch
}
