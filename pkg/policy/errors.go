package policy

import (
	"errors"
	"fmt"
)

// Common sentinel errors
var (
	// ErrFrozen indicates the vector is frozen and rejects mutation.
	ErrFrozen = errors.New("policy vector is frozen")

	// ErrUnknownDimension indicates a dimension outside the closed set.
	ErrUnknownDimension = errors.New("unknown policy dimension")
)

// BoostError describes a rejected boost operation.
type BoostError struct {
	Dimension Dimension
	Delta     float64
	Cause     error
}

// Error returns the error message.
func (e *BoostError) Error() string {
	return fmt.Sprintf("boost %q by %.4f rejected: %v", e.Dimension, e.Delta, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *BoostError) Unwrap() error {
	return e.Cause
}
