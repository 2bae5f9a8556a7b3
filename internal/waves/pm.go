// Package waves synthesizes linear sea-surface waves from a
// Pierson-Moskowitz spectrum: a fixed 400-component superposition of
// sinusoids with run-scoped random phases, deep-water dispersion and
// exponential depth decay.
//
// Coordinate note: the vertical argument here is positive upward with the
// mean surface at zero, which is the opposite sign convention from the
// platform frame (platform heave grows downward). Callers translate.
package waves

import (
	"math"
	"math/rand"
)

const (
	// NumComponents is the fixed number of spectral bins per realization.
	NumComponents = 400

	// lowCutoff is the lowest synthesized frequency in Hz.
	lowCutoff = 0.1

	gravity  = 9.81
	phillips = 0.0081 // Phillips' constant
)

// NewPhases draws the run's fixed set of component phases in [0, 2pi) from
// an explicitly seeded source. Two runs with the same seed see the same sea.
func NewPhases(seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	phases := make([]float64, NumComponents)
	for i := range phases {
		phases[i] = 2 * math.Pi * rng.Float64()
	}
	return phases
}

// Kinematics holds local wave particle velocity and acceleration,
// horizontal (X) and vertical (Y) components in the wave frame.
type Kinematics struct {
	VX, VY float64
	AX, AY float64
}

// Field is one frozen wave realization: a reference wind speed at 19.5 m
// above the surface plus the run's phase set. Immutable and safe for
// concurrent readers.
type Field struct {
	u195   float64
	phases []float64
}

// NewField builds a wave field for the given reference wind speed (m/s at
// 19.5 m) and phase set. The phase slice is not copied; it must stay
// unmodified for the lifetime of the field.
func NewField(u195 float64, phases []float64) *Field {
	return &Field{u195: u195, phases: phases}
}

// PeakFrequency returns the spectral peak frequency in Hz.
func (f *Field) PeakFrequency() float64 {
	return 0.14 * gravity / f.u195
}

// Elevation returns the surface elevation at horizontal position zeta and
// time t.
func (f *Field) Elevation(zeta, t float64) float64 {
	eta, _ := f.At(zeta, 0, t)
	return eta
}

// At evaluates the wave realization at horizontal position zeta, vertical
// position y (positive up, 0 at the mean surface) and time t. It returns
// the surface elevation and the local particle kinematics. Output is a
// pure function of the arguments and the frozen phase set.
func (f *Field) At(zeta, y, t float64) (elevation float64, kin Kinematics) {
	fPeak := f.PeakFrequency()
	cutoff := 3 * fPeak
	df := (cutoff - lowCutoff) / float64(NumComponents-1)

	for i := 0; i < NumComponents; i++ {
		freq := lowCutoff + df*float64(i)
		omega := 2 * math.Pi * freq

		// Pierson-Moskowitz spectral density and component amplitude.
		s := phillips * gravity * gravity /
			(math.Pow(2*math.Pi, 4) * math.Pow(freq, 5)) *
			math.Exp(-1.25*math.Pow(fPeak/freq, 4))
		a := math.Sqrt(2 * s * df)

		k := omega * omega / gravity // deep-water dispersion
		phase := omega*t - k*zeta + f.phases[i]
		sin, cos := math.Sincos(phase)
		decay := math.Exp(k * y)

		elevation += a * sin
		kin.VX += omega * a * decay * sin
		kin.VY += omega * a * decay * cos
		kin.AX += omega * omega * a * decay * cos
		kin.AY -= omega * omega * a * decay * sin
	}
	return elevation, kin
}
