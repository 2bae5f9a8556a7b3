// Package integrator advances the coupled turbine model on a fixed time
// grid with the classic fourth-order Runge-Kutta scheme and shapes the raw
// trajectory into the output bundle (unit conversion, transient discard,
// subsampling).
package integrator

import (
	"context"
	"fmt"
	"math"

	"github.com/oceanlab/floatsim/internal/control"
	"github.com/oceanlab/floatsim/internal/sim"
	"github.com/oceanlab/floatsim/internal/turbine"
	"github.com/oceanlab/floatsim/internal/wind"
)

// Config are the run parameters of one integration.
type Config struct {
	Start     float64 // s
	End       float64 // s
	Dt        float64 // s
	GenTorque float64 // N*m, constant generator torque

	// OutputEvery is the retained sample spacing; Discard is the initial
	// transient removed from the output, both in seconds.
	OutputEvery float64
	Discard     float64
}

func (c Config) validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("integrator: dt must be positive, got %v", c.Dt)
	}
	if c.End <= c.Start {
		return fmt.Errorf("integrator: end %v must be after start %v", c.End, c.Start)
	}
	if c.End-c.Start < c.Dt {
		return fmt.Errorf("integrator: window %v shorter than dt %v", c.End-c.Start, c.Dt)
	}
	if c.OutputEvery < c.Dt {
		return fmt.Errorf("integrator: output interval %v smaller than dt %v", c.OutputEvery, c.Dt)
	}
	if c.Discard < 0 {
		return fmt.Errorf("integrator: negative discard %v", c.Discard)
	}
	if c.Discard >= c.End-c.Start {
		return fmt.Errorf("integrator: discard %v leaves no retained window in [%v, %v]", c.Discard, c.Start, c.End)
	}
	return nil
}

// Steps returns the number of grid points n = floor((end-start)/dt) + 1.
func (c Config) Steps() int {
	return int(math.Floor((c.End-c.Start)/c.Dt)) + 1
}

// Runner integrates one turbine model. Not safe for concurrent use; run
// ensembles with one Runner per goroutine.
type Runner struct {
	model     *turbine.Model
	pitch     control.Strategy
	metrics   []sim.Metric
	observers []sim.Observer
}

// New builds a runner. A nil strategy holds the blade pitch at zero; pass
// control.Fixed for the constant-pitch operating mode or a *control.BladePitch
// to close the rotor-speed loop.
func New(model *turbine.Model, pitch control.Strategy) *Runner {
	if pitch == nil {
		pitch = control.Fixed{}
	}
	return &Runner{model: model, pitch: pitch}
}

func (r *Runner) AddMetric(m sim.Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o sim.Observer) { r.observers = append(r.observers, o) }

// derivFunc is a bare state-derivative evaluation at fixed step inputs.
type derivFunc func(x sim.State, t float64) (sim.State, error)

// Run integrates from x0 over the configured grid and returns the
// post-processed trajectory. Each step consumes one wind sample, feeding
// all four stage evaluations of that step. Any failed evaluation aborts
// the run with a StepError; no partial trajectory is returned.
func (r *Runner) Run(ctx context.Context, x0 sim.State, series wind.Series, cfg Config) (*sim.Trajectory, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if len(x0) != sim.StateDim {
		return nil, fmt.Errorf("integrator: initial state has %d entries, want %d", len(x0), sim.StateDim)
	}

	n := cfg.Steps()
	if series.Len() < n {
		return nil, fmt.Errorf("%w: need %d samples, have %d", sim.ErrWindExhausted, n, series.Len())
	}

	times := make([]float64, n)
	for i := range times {
		times[i] = cfg.Start + (cfg.End-cfg.Start)*float64(i)/float64(n-1)
	}

	raw := make([]sim.State, n)
	raw[0] = x0.Clone()
	windUsed := make([]float64, n)
	hWave := make([]float64, 0, n-1)
	power := make([]float64, 0, n-1)
	powerFixed := make([]float64, 0, n-1)

	_, fixedPitch := r.pitch.(control.Fixed)
	var pitchHist []float64
	if !fixedPitch {
		pitchHist = make([]float64, 0, n-1)
	}

	for i := 0; i < n-1; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		vw, err := series.At(i)
		if err != nil {
			return nil, &sim.StepError{Step: i, Time: times[i], Wrapped: err}
		}
		windUsed[i] = vw

		beta := r.pitch.Pitch(raw[i][sim.RotorSpeed], cfg.Dt)
		if !fixedPitch {
			pitchHist = append(pitchHist, beta)
		}

		deriv := func(x sim.State, t float64) (sim.State, error) {
			dx, _, err := r.model.Derive(x, t, beta, cfg.GenTorque, vw)
			return dx, err
		}

		k1, extra, err := r.model.Derive(raw[i], times[i], beta, cfg.GenTorque, vw)
		if err != nil {
			return nil, &sim.StepError{Step: i, Time: times[i], Wrapped: err}
		}
		next, err := stepWithK1(deriv, raw[i], k1, times[i], cfg.Dt)
		if err != nil {
			return nil, &sim.StepError{Step: i, Time: times[i], Wrapped: err}
		}
		if !next.IsValid() {
			return nil, &sim.StepError{Step: i, Time: times[i], Wrapped: sim.ErrInvalidState}
		}

		raw[i+1] = next
		hWave = append(hWave, extra.WaveAtPlatform)
		power = append(power, extra.Power)
		powerFixed = append(powerFixed, extra.PowerFixed)
	}
	if v, err := series.At(n - 1); err == nil {
		windUsed[n-1] = v
	}

	return r.finish(times, raw, windUsed, hWave, power, powerFixed, pitchHist, x0[sim.Surge], cfg)
}

// stepWithK1 performs stages two to four and the combination, reusing an
// already-evaluated first stage.
func stepWithK1(f derivFunc, x, k1 sim.State, t, dt float64) (sim.State, error) {
	m := len(x)
	scratch := make(sim.State, m)

	for i := 0; i < m; i++ {
		scratch[i] = x[i] + 0.5*dt*k1[i]
	}
	k2, err := f(scratch, t+0.5*dt)
	if err != nil {
		return nil, err
	}

	for i := 0; i < m; i++ {
		scratch[i] = x[i] + 0.5*dt*k2[i]
	}
	k3, err := f(scratch, t+0.5*dt)
	if err != nil {
		return nil, err
	}

	for i := 0; i < m; i++ {
		scratch[i] = x[i] + dt*k3[i]
	}
	k4, err := f(scratch, t+dt)
	if err != nil {
		return nil, err
	}

	next := make(sim.State, m)
	dt6 := dt / 6
	for i := 0; i < m; i++ {
		next[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return next, nil
}
