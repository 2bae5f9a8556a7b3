package metrics

import (
	"math"

	"github.com/oceanlab/floatsim/internal/sim"
)

// MeanPower averages the variable-speed aerodynamic power over the
// retained trajectory.
type MeanPower struct {
	name    string
	sum     float64
	samples int
}

func NewMeanPower() *MeanPower {
	return &MeanPower{name: "mean_power"}
}

func (m *MeanPower) Name() string { return m.name }

func (m *MeanPower) Observe(s sim.Sample) {
	m.sum += s.Power
	m.samples++
}

func (m *MeanPower) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanPower) Reset() {
	m.sum = 0
	m.samples = 0
}

// SpeedDeviation is the RMS deviation of the variable rotor speed from a
// target, both in rpm.
type SpeedDeviation struct {
	name      string
	targetRPM float64
	sumSq     float64
	samples   int
}

func NewSpeedDeviation(targetRPM float64) *SpeedDeviation {
	return &SpeedDeviation{name: "speed_rms_dev", targetRPM: targetRPM}
}

func (m *SpeedDeviation) Name() string { return m.name }

func (m *SpeedDeviation) Observe(s sim.Sample) {
	if len(s.State) <= sim.RotorSpeed {
		return
	}
	d := s.State[sim.RotorSpeed] - m.targetRPM
	m.sumSq += d * d
	m.samples++
}

func (m *SpeedDeviation) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return math.Sqrt(m.sumSq / float64(m.samples))
}

func (m *SpeedDeviation) Reset() {
	m.sumSq = 0
	m.samples = 0
}

// SurgeExcursion tracks the peak-to-peak surge range.
type SurgeExcursion struct {
	name    string
	min     float64
	max     float64
	samples int
}

func NewSurgeExcursion() *SurgeExcursion {
	return &SurgeExcursion{name: "surge_excursion"}
}

func (m *SurgeExcursion) Name() string { return m.name }

func (m *SurgeExcursion) Observe(s sim.Sample) {
	if len(s.State) <= sim.Surge {
		return
	}
	v := s.State[sim.Surge]
	if m.samples == 0 || v < m.min {
		m.min = v
	}
	if m.samples == 0 || v > m.max {
		m.max = v
	}
	m.samples++
}

func (m *SurgeExcursion) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.max - m.min
}

func (m *SurgeExcursion) Reset() {
	m.min = 0
	m.max = 0
	m.samples = 0
}
