package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/oceanlab/floatsim/internal/sim"
)

const (
	DefaultDt          = 0.05
	DefaultDuration    = 300.0
	DefaultWarmup      = 500.0
	DefaultOutputEvery = 0.5
	DefaultWindSpeed   = 8.0
	DefaultPitchDeg    = 3.83
	DefaultGenTorque   = 43093.55
	DefaultWaveSeed    = 7762480
)

type Config struct {
	Controller string  `yaml:"controller"` // "fixed" or "pitch"
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"` // retained simulated time, s
	Warmup     float64 `yaml:"warmup"`   // discarded start-up transient, s
	Output     float64 `yaml:"output"`   // retained sample spacing, s

	WindSpeed float64 `yaml:"wind_speed"` // m/s, used when wind_file is empty
	WindFile  string  `yaml:"wind_file"`  // TurbSim hub-height series
	TableFile string  `yaml:"table_file"` // AeroDyn performance table

	PitchDeg  float64 `yaml:"pitch_deg"` // constant blade pitch
	GenTorque float64 `yaml:"gen_torque"`
	WaveSeed  int64   `yaml:"wave_seed"`

	InitState InitStateConfig `yaml:"init_state"`
}

type InitStateConfig struct {
	Surge           float64 `yaml:"surge"`
	SurgeVel        float64 `yaml:"surge_vel"`
	Heave           float64 `yaml:"heave"`
	HeaveVel        float64 `yaml:"heave_vel"`
	Pitch           float64 `yaml:"pitch"`
	PitchVel        float64 `yaml:"pitch_vel"`
	RotorSpeed      float64 `yaml:"rotor_speed"`
	RotorSpeedFixed float64 `yaml:"rotor_speed_fixed"`
}

// DefaultConfig is the 8 m/s below-rated reference case.
func DefaultConfig() *Config {
	return &Config{
		Controller: "fixed",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Warmup:     DefaultWarmup,
		Output:     DefaultOutputEvery,
		WindSpeed:  DefaultWindSpeed,
		PitchDeg:   DefaultPitchDeg,
		GenTorque:  DefaultGenTorque,
		WaveSeed:   DefaultWaveSeed,
		InitState:  referenceInitState,
	}
}

var referenceInitState = InitStateConfig{
	Surge:           -2.61426271,
	SurgeVel:        -0.00299848190,
	Heave:           37.5499264,
	HeaveVel:        -0.0558194064,
	Pitch:           0.00147344971,
	PitchVel:        -0.000391112846,
	RotorSpeed:      1.26855822,
	RotorSpeedFixed: 1.26855822,
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %v", c.Dt)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("config: duration must be positive, got %v", c.Duration)
	}
	if c.Warmup < 0 {
		return fmt.Errorf("config: negative warmup %v", c.Warmup)
	}
	if c.Output < c.Dt {
		return fmt.Errorf("config: output interval %v smaller than dt %v", c.Output, c.Dt)
	}
	switch c.Controller {
	case "", "fixed", "pitch":
	default:
		return fmt.Errorf("config: unknown controller %q", c.Controller)
	}
	return nil
}

func (c *Config) GetInitState() sim.State {
	s := c.InitState
	return sim.State{
		s.Surge, s.SurgeVel, s.Heave, s.HeaveVel,
		s.Pitch, s.PitchVel, s.RotorSpeed, s.RotorSpeedFixed,
	}
}
