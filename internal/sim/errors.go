package sim

import (
	"errors"
	"fmt"
)

// Domain errors for simulation runs. All of them abort the current run;
// there is no internal retry.
var (
	// ErrSingularMass indicates a non-invertible generalized mass matrix.
	ErrSingularMass = errors.New("sim: singular generalized mass matrix")

	// ErrRotorStalled indicates a zero or negative rotor speed was fed to
	// the drivetrain torque balance.
	ErrRotorStalled = errors.New("sim: rotor speed must be positive")

	// ErrWindExhausted indicates the wind series is shorter than the time grid.
	ErrWindExhausted = errors.New("sim: wind series exhausted")

	// ErrInvalidState indicates a NaN or Inf entered the state vector.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")
)

// StepError wraps an error with the step and simulation time it occurred at.
type StepError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
