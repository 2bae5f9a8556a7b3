// Package control provides blade-pitch strategies for the turbine runner.
//
//   - [Fixed]: constant blade pitch (the default operating mode)
//   - [BladePitch]: gain-scheduled PI-D rotor-speed regulator
//
// A strategy is consulted once per integration step, before the derivative
// evaluations of that step.
package control

import "math"

// Strategy yields the blade pitch angle (radians) for the next step given
// the current rotor speed and the step size.
type Strategy interface {
	Pitch(rotorSpeed, dt float64) float64
}

// Fixed holds the blade pitch constant.
type Fixed struct {
	Beta float64 // radians
}

func (f Fixed) Pitch(_, _ float64) float64 { return f.Beta }

// BladePitch is the above-rated rotor-speed regulator: a PI-D law whose
// proportional and integral gains are scheduled on the current pitch angle,
// with a pitch-rate limit of 8 deg/s and the command clamped to [0, 45]
// degrees. Controller state (integral accumulator, previous error) is
// explicit; one instance serves one run.
type BladePitch struct {
	RatedSpeed float64 // rad/s
	DampRatio  float64 // closed-loop damping ratio
	NatFreq    float64 // closed-loop natural frequency, rad/s
	GainPitch  float64 // pitch angle that halves the scheduled gains
	PowerSlope float64 // dP/dbeta at rated, W/rad (negative)
	Kd         float64
	GearRatio  float64
	Inertia    float64 // rotor-side total inertia

	// RateLimit bounds |dbeta/dt| in rad/s; MaxPitch caps the command.
	RateLimit float64
	MaxPitch  float64

	beta     float64
	integral float64
	prevErr  float64
	first    bool
}

// NewBladePitch returns the regulator tuned for the NREL 5 MW drivetrain,
// starting from the given initial pitch (radians).
func NewBladePitch(beta0 float64) *BladePitch {
	const (
		gearRatio  = 97.0
		genInertia = 534.116
		hubInertia = 35444067.0
	)
	return &BladePitch{
		RatedSpeed: 1.26711, // 12.1 rpm
		DampRatio:  0.7,
		NatFreq:    0.6,
		GainPitch:  0.1099965,
		PowerSlope: -25.52e6,
		Kd:         0.187437,
		GearRatio:  gearRatio,
		Inertia:    gearRatio*gearRatio*genInertia + hubInertia,
		RateLimit:  0.139626, // 8 deg/s
		MaxPitch:   math.Pi / 4,
		beta:       beta0,
		first:      true,
	}
}

// Pitch advances the controller one step and returns the new blade pitch.
func (c *BladePitch) Pitch(rotorSpeed, dt float64) float64 {
	// Gain scheduling on the current pitch angle.
	gk := 1 / (1 + c.beta/c.GainPitch)
	kp := 0.0765 * (2 * c.Inertia * c.RatedSpeed * c.DampRatio * c.NatFreq * gk) /
		(c.GearRatio * -c.PowerSlope)
	ki := 0.013 * (c.Inertia * c.RatedSpeed * c.NatFreq * c.NatFreq * gk) /
		(c.GearRatio * -c.PowerSlope)

	err := rotorSpeed - c.RatedSpeed
	if c.first {
		c.prevErr = err
		c.first = false
	}

	proportional := kp * c.GearRatio * err
	c.integral += dt * ki * c.GearRatio * err
	derivative := c.Kd * (err - c.prevErr) / dt
	c.prevErr = err

	delta := proportional + c.integral + derivative

	// Pitch-rate limiter.
	if delta > c.RateLimit*dt {
		delta = c.RateLimit * dt
	} else if delta < -c.RateLimit*dt {
		delta = -c.RateLimit * dt
	}

	c.beta += delta
	if c.beta < 0 {
		c.beta = 0
	} else if c.beta > c.MaxPitch {
		c.beta = c.MaxPitch
	}
	return c.beta
}

// Reset clears the controller state and restores the initial pitch.
func (c *BladePitch) Reset(beta0 float64) {
	c.beta = beta0
	c.integral = 0
	c.prevErr = 0
	c.first = true
}
