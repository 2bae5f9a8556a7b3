package platform

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/oceanlab/floatsim/internal/rotor"
	"github.com/oceanlab/floatsim/internal/sim"
	"github.com/oceanlab/floatsim/internal/waves"
)

// Loads is one generalized force contribution: surge force, heave force and
// pitch moment about the structure CG.
type Loads struct {
	Surge, Heave, Pitch float64
}

func (l Loads) add(o Loads) Loads {
	return Loads{l.Surge + o.Surge, l.Heave + o.Heave, l.Pitch + o.Pitch}
}

// Output carries the by-products of one derivative evaluation that the
// drivetrain and the trajectory recorder consume.
type Output struct {
	VIn            float64 // rotor-relative inflow speed, m/s
	Cp             float64 // instantaneous power coefficient
	WaveAtPlatform float64 // depth-referenced wave height at the platform, m
}

// Derivative evaluates the 6-DOF platform state derivative at time t.
//
// x is the platform sub-state [surge, surge_vel, heave, heave_vel, pitch,
// pitch_vel] in the downward-positive platform frame, pitch is the blade
// pitch angle in radians, rotorSpeed the rotor speed in rad/s, vWind the
// instantaneous free-stream wind speed and sea the frozen wave realization.
//
// The generalized force vector sums weight, buoyancy, mooring, aerodynamic,
// viscous drag and added-mass wave loads plus the gyroscopic centripetal
// terms; the result solves E(alpha) * dx = F. A singular mass matrix aborts
// the evaluation with sim.ErrSingularMass.
func (p *Params) Derivative(x sim.State, t, pitch, rotorSpeed, vWind float64, tbl *rotor.Table, sea *waves.Field) (sim.State, Output, error) {
	surge, surgeVel := x[0], x[1]
	heave, heaveVel := x[2], x[3]
	alpha, alphaVel := x[4], x[5]

	weight := p.weight(alpha)
	buoy, hWave, hSub, volume := p.buoyancy(sea, surge, heave, alpha, t)
	moor := p.mooring(surge, heave, alpha)
	aero, vIn, cp := p.aeroLoads(tbl, surgeVel, alpha, alphaVel, pitch, rotorSpeed, vWind)
	drag, inertial := p.hydroLoads(sea, surge, surgeVel, heaveVel, alpha, alphaVel, hSub, volume, t)

	// Viscous drag is applied twice in every balance, matching the Betti
	// reference model trajectories.
	total := weight.add(buoy).add(moor).add(aero).add(inertial).add(drag).add(drag)

	md := p.massMoment()
	sinA, cosA := math.Sincos(alpha)

	f := []float64{
		surgeVel,
		total.Surge + md*alphaVel*alphaVel*sinA,
		heaveVel,
		total.Heave - md*alphaVel*alphaVel*cosA,
		alphaVel,
		total.Pitch,
	}

	e := mat.NewDense(6, 6, []float64{
		1, 0, 0, 0, 0, 0,
		0, p.surgeMass(), 0, 0, 0, md * cosA,
		0, 0, 1, 0, 0, 0,
		0, 0, 0, p.heaveMass(), 0, md * sinA,
		0, 0, 0, 0, 1, 0,
		0, md * cosA, 0, md * sinA, 0, p.pitchInertia(),
	})

	var dx mat.VecDense
	if err := dx.SolveVec(e, mat.NewVecDense(6, f)); err != nil {
		return nil, Output{}, fmt.Errorf("%w: platform pitch %.6f rad: %v", sim.ErrSingularMass, alpha, err)
	}

	out := sim.State{dx.AtVec(0), dx.AtVec(1), dx.AtVec(2), dx.AtVec(3), dx.AtVec(4), dx.AtVec(5)}
	return out, Output{VIn: vIn, Cp: cp, WaveAtPlatform: hWave}, nil
}

// weight is the gravity force and its pitch moment.
func (p *Params) weight(alpha float64) Loads {
	sinA, cosA := math.Sincos(alpha)
	return Loads{
		Heave: (p.NacelleMass + p.RotorMass + p.StructureMass) * p.Gravity,
		Pitch: ((p.NacelleMass*p.NacelleOffsetV+p.RotorMass*p.RotorOffsetV)*sinA +
			(p.NacelleMass*p.NacelleOffsetH+p.RotorMass*p.RotorOffsetH)*cosA) * p.Gravity,
	}
}

// buoyancy computes the hydrostatic load from the displaced volume. The
// local depth is the wave elevation averaged over the centreline and one
// floater radius to each side; the submerged floater height clamps to the
// physical draft, with any excess column attributed to the tower radius.
// It also returns the depth-referenced wave height at the platform, the
// submerged height and the displaced volume for reuse by the wave loads.
func (p *Params) buoyancy(sea *waves.Field, surge, heave, alpha, t float64) (Loads, float64, float64, float64) {
	h := p.WaterDepth
	hWave := sea.Elevation(surge, t) + h
	hPlus := sea.Elevation(surge+p.FloaterRadius, t) + h
	hMinus := sea.Elevation(surge-p.FloaterRadius, t) + h
	hw := (hWave + hPlus + hMinus) / 3

	wetted := hw - h + heave + p.BottomOffset
	hSub := math.Min(wetted, p.FloaterHeight)

	dG := heave - hSub/2
	volume := hSub*math.Pi*p.FloaterRadius*p.FloaterRadius +
		math.Max(wetted-p.FloaterHeight, 0)*math.Pi*p.TowerRadius*p.TowerRadius

	f := p.WaterDensity * volume * p.Gravity
	return Loads{
		Heave: -f,
		Pitch: -f * dG * math.Sin(alpha),
	}, hWave, hSub, volume
}

// mooring evaluates the three tension-only tie rods. Line geometry is
// recomputed from the platform pose each call; the constant term is the
// wet weight of the lines acting as pretension.
func (p *Params) mooring(surge, heave, alpha float64) Loads {
	h := p.WaterDepth
	la := p.HookSpacing
	dt := p.HookOffset
	anchor := la // horizontal anchor offset

	sinA, cosA := math.Sincos(alpha)

	// Instantaneous rod lengths.
	l1 := math.Hypot(h-heave-la*sinA-dt*cosA, anchor-surge-la*cosA+dt*sinA)
	l2 := math.Hypot(h-heave+la*sinA-dt*cosA, anchor+surge-la*cosA-dt*sinA)
	l3 := math.Hypot(h-heave-dt*cosA, surge-dt*sinA)

	// Tension-only spring forces.
	f1 := math.Max(0, p.RodStiffLat*(l1-p.RodRestLength))
	f2 := math.Max(0, p.RodStiffLat*(l2-p.RodRestLength))
	f3 := math.Max(0, p.RodStiffMid*(l3-p.RodRestLength))

	theta1 := math.Atan((anchor - surge - la*cosA + dt*sinA) / (h - heave - la*sinA - dt*cosA))
	theta2 := math.Atan((anchor + surge - la*cosA - dt*sinA) / (h - heave + la*sinA - dt*cosA))
	theta3 := math.Atan((surge - dt*sinA) / (h - heave - dt*cosA))

	// Net wet weight per unit length of a line.
	lineVolume := math.Pi * (0.5 * p.LineDiameter) * (0.5 * p.LineDiameter)
	wet := p.LineDensity*p.Gravity - p.WaterDensity*p.Gravity*lineVolume
	pretension := wet * p.RodRestLength

	return Loads{
		Surge: f1*math.Sin(theta1) - f2*math.Sin(theta2) - f3*math.Sin(theta3),
		Heave: f1*math.Cos(theta1) + f2*math.Cos(theta2) + f3*math.Cos(theta3) + 4*pretension,
		Pitch: f1*(la*math.Cos(theta1+alpha)-dt*math.Sin(theta1+alpha)) -
			f2*(la*math.Cos(theta2-alpha)-dt*math.Sin(theta2-alpha)) +
			f3*dt*math.Sin(theta3-alpha) +
			pretension*(la*cosA-dt*sinA) -
			pretension*(la*cosA+dt*sinA) -
			2*pretension*dt*sinA,
	}
}

// aeroLoads computes rotor thrust plus nacelle and tower drag. The inflow
// speed seen by the rotor adds the platform surge velocity and the pitch
// lever-arm rotation to the free-stream wind; the thrust coefficient comes
// from the performance table at the instantaneous tip speed ratio.
func (p *Params) aeroLoads(tbl *rotor.Table, surgeVel, alpha, alphaVel, pitch, rotorSpeed, vWind float64) (Loads, float64, float64) {
	sinA, cosA := math.Sincos(alpha)

	vIn := vWind + surgeVel + p.rotorArm()*alphaVel*cosA
	tsr := rotorSpeed * p.RotorRadius / vIn
	cp, ct := tbl.Coefficients(tsr, pitch)

	thrust := 0.5 * p.AirDensity * p.RotorArea * ct * vIn * vIn

	vNac := vWind + surgeVel + p.nacelleArm()*alphaVel*cosA
	nacelle := 0.5 * p.AirDensity * p.NacelleDrag * p.NacelleArea * cosA * vNac * vNac

	vTow := vWind + surgeVel + p.TowerOffset*alphaVel*cosA
	tower := 0.5 * p.AirDensity * p.TowerDrag * p.TowerHeight * p.TowerDiameter * cosA * vTow * vTow

	return Loads{
		Surge: -(thrust + nacelle + tower),
		Pitch: -thrust*(p.RotorOffsetV*cosA-p.RotorOffsetH*sinA) -
			nacelle*(p.NacelleOffsetV*cosA-p.NacelleOffsetH*sinA) -
			tower*p.TowerOffset*cosA,
	}, vIn, cp
}

// hydroLoads discretizes the submerged floater into SubCylinders vertical
// slices. Each slice combines local wave particle kinematics with the
// structural velocity at its depth into perpendicular/parallel components,
// yielding quadratic viscous drag plus an added-mass (Froude-Krylov style)
// inertial force; the deepest slice also contributes bottom drag.
func (p *Params) hydroLoads(sea *waves.Field, surge, surgeVel, heaveVel, alpha, alphaVel, hSub, volume, t float64) (drag, inertial Loads) {
	n := float64(p.SubCylinders)
	sinA, cosA := math.Sincos(alpha)

	var vParBottom float64
	for i := 0; i < p.SubCylinders; i++ {
		// Slice centre, measured up from the floater bottom, and its wave
		// frame depth (negative below the surface).
		hpg := (float64(i) + 0.5) * hSub / n
		_, kin := sea.At(surge, -(hSub - hpg), t)

		arm := hpg - p.BottomOffset
		vPer := (surgeVel+arm*alphaVel*cosA-kin.VX)*cosA +
			(heaveVel+arm*alphaVel*sinA-kin.VY)*sinA
		vPar := (surgeVel+arm*alphaVel*cosA-kin.VX)*math.Sin(-alpha) +
			(heaveVel+arm*alphaVel*sinA-kin.VY)*cosA
		aPer := kin.AX*cosA + kin.AY*sinA

		if i == 0 {
			vParBottom = vPar
		}

		slice := hSub / n
		dragSurge := -0.5*p.DragPerp*p.WaterDensity*2*p.FloaterRadius*slice*math.Abs(vPer)*vPer*cosA -
			0.5*p.DragPar*p.WaterDensity*math.Pi*2*p.FloaterRadius*slice*math.Abs(vPar)*vPar*sinA
		dragHeave := -0.5*p.DragPerp*p.WaterDensity*2*p.FloaterRadius*slice*math.Abs(vPer)*vPer*sinA -
			0.5*p.DragPar*p.WaterDensity*math.Pi*2*p.FloaterRadius*slice*math.Abs(vPar)*vPar*cosA
		waSurge := (p.WaterDensity*volume + p.AddedMassX) * aPer * cosA / n
		waHeave := (p.WaterDensity*volume + p.AddedMassX) * aPer * sinA / n

		drag.Surge += dragSurge
		drag.Heave += dragHeave
		drag.Pitch += dragSurge*arm*cosA + dragHeave*arm*sinA
		inertial.Surge += waSurge
		inertial.Heave += waHeave
		inertial.Pitch += waSurge*arm*cosA + waHeave*arm*sinA
	}

	// Bottom drag from the deepest slice's parallel velocity; force only,
	// no pitch moment.
	bottom := 0.5 * p.DragBottom * p.WaterDensity * math.Pi * p.FloaterRadius * p.FloaterRadius *
		math.Abs(vParBottom) * vParBottom
	drag.Surge -= bottom * sinA
	drag.Heave -= bottom * cosA

	return drag, inertial
}
