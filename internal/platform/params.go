// Package platform models the rigid-body dynamics of the floating support
// structure: a 3-DOF (surge, heave, pitch) force and moment balance between
// gravity, buoyancy, mooring tie rods, rotor thrust, and wave loads, closed
// by a generalized mass matrix solve.
package platform

import "math"

// Params collects the physical constants of the floater, tower, nacelle and
// mooring system. Values are immutable during a run; the zero value is not
// usable, start from Default.
type Params struct {
	Gravity      float64 // m/s^2
	WaterDensity float64 // kg/m^3
	AirDensity   float64 // kg/m^3

	NacelleMass   float64 // kg
	RotorMass     float64 // kg, blades and hub
	StructureMass float64 // kg, tower and floater
	AddedMassX    float64 // kg, horizontal hydrodynamic added mass
	AddedMassY    float64 // kg, vertical hydrodynamic added mass

	NacelleOffsetH float64 // m, horizontal lever from the structure CG to the nacelle
	NacelleOffsetV float64 // m, vertical lever from the structure CG to the nacelle
	RotorOffsetH   float64 // m, horizontal lever from the structure CG to the hub
	RotorOffsetV   float64 // m, vertical lever from the structure CG to the hub

	StructureInertia float64 // kg*m^2
	NacelleInertia   float64 // kg*m^2
	HubInertia       float64 // kg*m^2, blades, hub and low-speed shaft

	WaterDepth    float64 // m
	FloaterHeight float64 // m, physical draft of the floating cylinder
	FloaterRadius float64 // m
	BottomOffset  float64 // m, vertical distance from the structure CG to the floater bottom
	TowerRadius   float64 // m, column radius above the floater top
	HookOffset    float64 // m, vertical distance from the structure CG to the tie-rod hooks
	HookSpacing   float64 // m, horizontal distance between tie-rod hooks
	RodRestLength float64 // m
	RodStiffLat   float64 // N/m, each lateral tie rod
	RodStiffMid   float64 // N/m, central tie rod
	LineDensity   float64 // kg/m, mooring line
	LineDiameter  float64 // m, mooring line

	TowerOffset   float64 // m, vertical lever from the structure CG to the tower drag centre
	NacelleDrag   float64
	NacelleArea   float64 // m^2
	TowerDrag     float64
	TowerHeight   float64 // m
	TowerDiameter float64 // m

	RotorArea   float64 // m^2
	RotorRadius float64 // m

	SubCylinders int // submerged floater discretization
	DragPerp     float64
	DragPar      float64
	DragBottom   float64

	CGOffset float64 // m, heave shift applied by output post-processing
}

// Default returns the OC3 "Betti model" 5 MW spar parameter set.
func Default() Params {
	const rodRest = 151.73
	return Params{
		Gravity:      9.80665,
		WaterDensity: 1025,
		AirDensity:   1.225,

		NacelleMass:   240000,
		RotorMass:     110000,
		StructureMass: 8947870,
		AddedMassX:    11127000,
		AddedMassY:    1504400,

		NacelleOffsetH: -1.8,
		NacelleOffsetV: 126.9003,
		RotorOffsetH:   5.4305,
		RotorOffsetV:   127.5879,

		StructureInertia: 3.4917e9,
		NacelleInertia:   2607890,
		HubInertia:       50365000,

		WaterDepth:    200,
		FloaterHeight: 47.89,
		FloaterRadius: 9,
		BottomOffset:  10.3397,
		TowerRadius:   3,
		HookOffset:    10.3397,
		HookSpacing:   27,
		RodRestLength: rodRest,
		RodStiffLat:   2 * (1.5 / rodRest) * 1e9,
		RodStiffMid:   4 * (1.5 / rodRest) * 1e9,
		LineDensity:   116.027,
		LineDiameter:  0.127,

		TowerOffset:   75.7843,
		NacelleDrag:   1,
		NacelleArea:   9.62,
		TowerDrag:     1,
		TowerHeight:   87.6,
		TowerDiameter: 4.935,

		RotorArea:   12469,
		RotorRadius: 63,

		SubCylinders: 2,
		DragPerp:     1,
		DragPar:      0.006,
		DragBottom:   1.9,

		CGOffset: 37.550,
	}
}

// nacelleArm is the straight-line lever from the structure CG to the nacelle.
func (p *Params) nacelleArm() float64 {
	return math.Hypot(p.NacelleOffsetH, p.NacelleOffsetV)
}

// rotorArm is the straight-line lever from the structure CG to the hub.
func (p *Params) rotorArm() float64 {
	return math.Hypot(p.RotorOffsetH, p.RotorOffsetV)
}

// massMoment is the first mass moment of nacelle and rotor about the
// structure CG, the trigonometric coupling term of the mass matrix.
func (p *Params) massMoment() float64 {
	return p.NacelleMass*p.nacelleArm() + p.RotorMass*p.rotorArm()
}

// surgeMass and heaveMass include hydrodynamic added mass.
func (p *Params) surgeMass() float64 {
	return p.StructureMass + p.AddedMassX + p.NacelleMass + p.RotorMass
}

func (p *Params) heaveMass() float64 {
	return p.StructureMass + p.AddedMassY + p.NacelleMass + p.RotorMass
}

// pitchInertia is the total pitch moment of inertia about the structure CG.
func (p *Params) pitchInertia() float64 {
	dN := p.nacelleArm()
	dP := p.rotorArm()
	return p.StructureInertia + p.NacelleInertia + p.HubInertia +
		p.NacelleMass*dN*dN + p.RotorMass*dP*dP
}
