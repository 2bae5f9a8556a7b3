package sim

import "math"

// State is a dense vector of simulation state variables. The coupled
// turbine model uses the 8-entry layout
// [surge, surge_vel, heave, heave_vel, pitch, pitch_vel, rotor_speed, rotor_speed_fixed].
type State []float64

// Indices into the 8-state turbine vector.
const (
	Surge = iota
	SurgeVel
	Heave
	HeaveVel
	Pitch
	PitchVel
	RotorSpeed
	RotorSpeedFixed

	StateDim = 8

	// PlatformDim is the rigid-body sub-state handled by the force assembly.
	PlatformDim = 6
)

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Sample is one retained output step of a run, handed to metrics and
// observers after unit conversion.
type Sample struct {
	Time       float64
	State      State
	Wind       float64
	WaveEta    float64
	Power      float64
	PowerFixed float64
}

// Metric accumulates a scalar summary over the retained trajectory.
type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Observer receives every retained sample, e.g. for streaming output.
type Observer interface {
	OnSample(s Sample)
}

// Trajectory is the post-processed result bundle of one run. All slices
// share the same length and subsampling; times start at zero.
//
// Units after post-processing: surge/heave in m (sign-flipped to the output
// convention, heave shifted to the centre of gravity), platform pitch and
// pitch rate in degrees, rotor speeds in rpm, powers in W.
type Trajectory struct {
	Times          []float64
	States         []State
	Wind           []float64
	WaveEta        []float64 // elevation at the fixed reference position
	WaveAtPlatform []float64 // depth-referenced wave height at the floater
	PitchDeg       []float64 // blade pitch history; empty with a fixed pitch
	Power          []float64
	PowerFixed     []float64
	Metrics        map[string]float64
}

func (tr *Trajectory) Len() int { return len(tr.Times) }
