// Package drivetrain models the rotor/generator torque balance of the NREL
// 5 MW drivetrain, as a variable-speed unit coupled to the platform and a
// fixed-wind twin used as a decoupled reference trajectory.
package drivetrain

import (
	"fmt"

	"github.com/oceanlab/floatsim/internal/rotor"
	"github.com/oceanlab/floatsim/internal/sim"
)

// Params holds the drivetrain constants.
type Params struct {
	GenInertia  float64 // kg*m^2, generator and high-speed shaft
	HubInertia  float64 // kg*m^2, blades, hub and low-speed shaft
	GearRatio   float64 // high-speed to low-speed shaft
	AirDensity  float64 // kg/m^3
	RotorArea   float64 // m^2
	RotorRadius float64 // m
}

// Default returns the NREL 5 MW reference drivetrain.
func Default() Params {
	return Params{
		GenInertia:  534.116,
		HubInertia:  35444067,
		GearRatio:   97,
		AirDensity:  1.225,
		RotorArea:   12469,
		RotorRadius: 63,
	}
}

// TotalInertia is the rotor-side inertia with the generator reflected
// through the gearbox.
func (p Params) TotalInertia() float64 {
	return p.GearRatio*p.GearRatio*p.GenInertia + p.HubInertia
}

// Step computes the rotor-speed derivative and the captured aerodynamic
// power for the variable-speed unit. vIn is the rotor-relative inflow speed
// and cp the power coefficient already resolved by the force assembly;
// genTorque is the generator torque on the high-speed shaft.
//
// rotorSpeed must be positive: the aerodynamic torque is P/omega and a
// stalled rotor is an invalid input, reported as sim.ErrRotorStalled.
func (p Params) Step(rotorSpeed, vIn, genTorque, cp float64) (domega, power float64, err error) {
	if rotorSpeed <= 0 {
		return 0, 0, fmt.Errorf("%w: got %v rad/s", sim.ErrRotorStalled, rotorSpeed)
	}

	power = 0.5 * p.AirDensity * p.RotorArea * vIn * vIn * vIn * cp
	aeroTorque := power / rotorSpeed
	domega = (aeroTorque - p.GearRatio*genTorque) / p.TotalInertia()
	return domega, power, nil
}

// StepFixed is the fixed-wind twin: identical torque balance, but the tip
// speed ratio and power coefficient are recomputed from the undisturbed
// wind speed, ignoring platform motion. It never feeds back into the
// coupled state.
func (p Params) StepFixed(rotorSpeed, vWind, pitch, genTorque float64, tbl *rotor.Table) (domega, power float64, err error) {
	if rotorSpeed <= 0 {
		return 0, 0, fmt.Errorf("%w: fixed twin got %v rad/s", sim.ErrRotorStalled, rotorSpeed)
	}

	tsr := rotorSpeed * p.RotorRadius / vWind
	cp, _ := tbl.Coefficients(tsr, pitch)
	return p.Step(rotorSpeed, vWind, genTorque, cp)
}
