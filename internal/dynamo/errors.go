package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for integration runs.
var (
	// ErrInvalidState indicates a state vector containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates a system returned a derivative whose
	// length differs from the state it was given.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")

	// ErrStepsNegative indicates a negative step count.
	ErrStepsNegative = errors.New("dynamo: step count must be non-negative")
)

// RunError wraps an error with the step and simulated time it occurred at.
type RunError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *RunError) Unwrap() error {
	return e.Wrapped
}
