package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidMass indicates a body with zero, negative or non-finite mass.
	ErrInvalidMass = errors.New("dynamo: mass must be positive and finite")

	// ErrInvalidTimestep indicates a zero, negative or non-finite dt.
	ErrInvalidTimestep = errors.New("dynamo: timestep must be positive and finite")

	// ErrInvalidConfig indicates a rejected run or injector configuration.
	ErrInvalidConfig = errors.New("dynamo: invalid configuration")

	// ErrCoincidentBodies indicates two bodies at exactly the same position.
	ErrCoincidentBodies = errors.New("dynamo: coincident bodies (zero separation)")

	// ErrNonFinite indicates NaN or Inf in a force or state.
	ErrNonFinite = errors.New("dynamo: non-finite value (NaN or Inf detected)")

	// ErrIndexRange indicates a trajectory index outside the buffer.
	ErrIndexRange = errors.New("dynamo: trajectory index out of range")

	// ErrAlreadyWritten indicates a second write to a trajectory slot.
	ErrAlreadyWritten = errors.New("dynamo: trajectory slot already written")

	// ErrContextCanceled indicates the simulation was interrupted between steps.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
