package integrator

import (
	"fmt"
	"math"

	"github.com/oceanlab/floatsim/internal/sim"
)

const (
	radToDeg = 180 / math.Pi
	radToRPM = 60 / (2 * math.Pi)
)

// finish converts the raw trajectory to the output conventions, recomputes
// the wave elevation series at the fixed reference position, discards the
// warm-up transient and subsamples everything on the output grid, then
// feeds metrics and observers.
//
// Conversions: platform pitch and pitch rate are negated and reported in
// degrees, rotor speeds in rpm, the translational states are sign-flipped
// into the output frame and heave is shifted to the centre of gravity.
func (r *Runner) finish(times []float64, raw []sim.State, windUsed, hWave, power, powerFixed, pitchHist []float64, waveRef float64, cfg Config) (*sim.Trajectory, error) {
	cg := r.model.Platform.CGOffset

	states := make([]sim.State, len(raw))
	for i, x := range raw {
		s := x.Clone()
		s[sim.Pitch] = -s[sim.Pitch] * radToDeg
		s[sim.PitchVel] = -s[sim.PitchVel] * radToDeg
		s[sim.RotorSpeed] *= radToRPM
		s[sim.RotorSpeedFixed] *= radToRPM
		for j := sim.Surge; j <= sim.HeaveVel; j++ {
			s[j] = -s[j]
		}
		s[sim.Heave] += cg
		states[i] = s
	}

	// The output elevation series is an independent recomputation at the
	// run's reference surge position, not the per-step value used by the
	// force assembly.
	waveEta := make([]float64, len(times))
	for i, t := range times {
		waveEta[i] = r.model.Sea.Elevation(waveRef, t)
	}

	stride := int(cfg.OutputEvery / cfg.Dt)
	discard := int(cfg.Discard / cfg.OutputEvery)

	tr := &sim.Trajectory{
		Times:          subsample(times, stride, discard),
		Wind:           subsample(windUsed, stride, discard),
		WaveEta:        subsample(waveEta, stride, discard),
		WaveAtPlatform: subsample(hWave, stride, discard),
		Power:          subsample(power, stride, discard),
		PowerFixed:     subsample(powerFixed, stride, discard),
		PitchDeg:       nil,
		Metrics:        make(map[string]float64),
	}

	sub := subsampleStates(states, stride, discard)
	tr.States = sub

	// The per-step series carry one fewer grid point than the state columns,
	// so a discard that swallows exactly the per-step tail would leave them
	// empty while a retained time survives.
	if len(tr.Times) == 0 || len(tr.Power) == 0 {
		return nil, fmt.Errorf("integrator: discard %v consumed the retained output window", cfg.Discard)
	}

	if pitchHist != nil {
		deg := make([]float64, len(pitchHist))
		for i, b := range pitchHist {
			deg[i] = b * radToDeg
		}
		tr.PitchDeg = subsample(deg, stride, discard)
		tr.PitchDeg = padToLen(tr.PitchDeg, len(tr.Times))
	}

	// The per-step series are one shorter than the grid; repeat the final
	// sample so every output column shares the retained length.
	tr.WaveAtPlatform = padToLen(tr.WaveAtPlatform, len(tr.Times))
	tr.Power = padToLen(tr.Power, len(tr.Times))
	tr.PowerFixed = padToLen(tr.PowerFixed, len(tr.Times))

	// Retained times restart at zero.
	if len(tr.Times) > 0 {
		t0 := tr.Times[0]
		for i := range tr.Times {
			tr.Times[i] -= t0
		}
	}

	for _, m := range r.metrics {
		m.Reset()
	}
	for i := range tr.Times {
		s := sim.Sample{
			Time:       tr.Times[i],
			State:      tr.States[i],
			Wind:       tr.Wind[i],
			WaveEta:    tr.WaveEta[i],
			Power:      tr.Power[i],
			PowerFixed: tr.PowerFixed[i],
		}
		for _, m := range r.metrics {
			m.Observe(s)
		}
		for _, o := range r.observers {
			o.OnSample(s)
		}
	}
	for _, m := range r.metrics {
		tr.Metrics[m.Name()] = m.Value()
	}

	return tr, nil
}

func subsample(data []float64, stride, discard int) []float64 {
	out := make([]float64, 0, len(data)/stride+1)
	for i := 0; i < len(data); i += stride {
		out = append(out, data[i])
	}
	if discard >= len(out) {
		return nil
	}
	return out[discard:]
}

func subsampleStates(data []sim.State, stride, discard int) []sim.State {
	out := make([]sim.State, 0, len(data)/stride+1)
	for i := 0; i < len(data); i += stride {
		out = append(out, data[i])
	}
	if discard >= len(out) {
		return nil
	}
	return out[discard:]
}

func padToLen(data []float64, n int) []float64 {
	if len(data) == 0 || len(data) >= n {
		return data
	}
	last := data[len(data)-1]
	for len(data) < n {
		data = append(data, last)
	}
	return data
}
