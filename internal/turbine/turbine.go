// Package turbine composes the platform force assembly and the two
// drivetrain units into the full 8-state derivative of the coupled
// floating-turbine model.
package turbine

import (
	"github.com/oceanlab/floatsim/internal/drivetrain"
	"github.com/oceanlab/floatsim/internal/platform"
	"github.com/oceanlab/floatsim/internal/rotor"
	"github.com/oceanlab/floatsim/internal/sim"
	"github.com/oceanlab/floatsim/internal/waves"
)

// Model is one fully parameterized turbine-and-sea configuration. All
// fields are read-only during a run; a Model may be shared by concurrent
// runs as long as each run owns its own wave field.
type Model struct {
	Platform platform.Params
	Drive    drivetrain.Params
	Table    *rotor.Table
	Sea      *waves.Field
}

// New assembles a model from the default parameter sets.
func New(tbl *rotor.Table, sea *waves.Field) *Model {
	return &Model{
		Platform: platform.Default(),
		Drive:    drivetrain.Default(),
		Table:    tbl,
		Sea:      sea,
	}
}

// StepOutput carries the per-evaluation by-products recorded alongside the
// trajectory.
type StepOutput struct {
	WaveAtPlatform float64
	Power          float64
	PowerFixed     float64
}

// Derive evaluates the full state derivative at time t. The state layout is
// documented on sim.State; pitch is the blade pitch in radians, genTorque
// the generator torque, vWind the instantaneous wind speed. Referentially
// transparent: no internal state is read or written.
func (m *Model) Derive(x sim.State, t, pitch, genTorque, vWind float64) (sim.State, StepOutput, error) {
	dxPlatform, out, err := m.Platform.Derivative(
		x[:sim.PlatformDim], t, pitch, x[sim.RotorSpeed], vWind, m.Table, m.Sea)
	if err != nil {
		return nil, StepOutput{}, err
	}

	dOmega, power, err := m.Drive.Step(x[sim.RotorSpeed], out.VIn, genTorque, out.Cp)
	if err != nil {
		return nil, StepOutput{}, err
	}

	dOmegaFixed, powerFixed, err := m.Drive.StepFixed(x[sim.RotorSpeedFixed], vWind, pitch, genTorque, m.Table)
	if err != nil {
		return nil, StepOutput{}, err
	}

	dx := make(sim.State, sim.StateDim)
	copy(dx, dxPlatform)
	dx[sim.RotorSpeed] = dOmega
	dx[sim.RotorSpeedFixed] = dOmegaFixed

	return dx, StepOutput{
		WaveAtPlatform: out.WaveAtPlatform,
		Power:          power,
		PowerFixed:     powerFixed,
	}, nil
}
