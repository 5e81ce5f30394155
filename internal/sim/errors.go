package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrNoIntegrator indicates Step was called with no integrator attached.
	ErrNoIntegrator = errors.New("sim: no integrator configured")

	// ErrNoParticles indicates the simulation holds no particles.
	ErrNoParticles = errors.New("sim: simulation has no particles")

	// ErrInvalidState indicates a particle carries NaN or Inf components.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")
)

// StepError wraps an error with the step index and time it occurred at.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
