package config

import (
	"path/filepath"
	"testing"

	"github.com/oceanlab/floatsim/internal/sim"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.WindSpeed != 8.0 {
		t.Errorf("wind speed = %v, want 8", cfg.WindSpeed)
	}
	if cfg.Dt != 0.05 || cfg.Output != 0.5 || cfg.Warmup != 500 {
		t.Errorf("grid defaults = (%v, %v, %v), want (0.05, 0.5, 500)", cfg.Dt, cfg.Output, cfg.Warmup)
	}
	if cfg.WaveSeed != 7762480 {
		t.Errorf("wave seed = %v, want 7762480", cfg.WaveSeed)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestGetInitState(t *testing.T) {
	cfg := DefaultConfig()
	x0 := cfg.GetInitState()

	if len(x0) != sim.StateDim {
		t.Fatalf("init state has %d entries, want %d", len(x0), sim.StateDim)
	}
	if x0[sim.Surge] != -2.61426271 {
		t.Errorf("surge = %v, want -2.61426271", x0[sim.Surge])
	}
	if x0[sim.RotorSpeed] != x0[sim.RotorSpeedFixed] {
		t.Errorf("rotor speeds differ at start: %v vs %v", x0[sim.RotorSpeed], x0[sim.RotorSpeedFixed])
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(c *Config) {}, true},
		{"zero dt", func(c *Config) { c.Dt = 0 }, false},
		{"negative duration", func(c *Config) { c.Duration = -1 }, false},
		{"negative warmup", func(c *Config) { c.Warmup = -1 }, false},
		{"output below dt", func(c *Config) { c.Output = c.Dt / 2 }, false},
		{"unknown controller", func(c *Config) { c.Controller = "lqr" }, false},
		{"pitch controller", func(c *Config) { c.Controller = "pitch" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.WindSpeed = 11.4
	cfg.Controller = "pitch"
	cfg.WaveSeed = 99

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.WindSpeed != 11.4 || loaded.Controller != "pitch" || loaded.WaveSeed != 99 {
		t.Errorf("round trip lost values: %+v", loaded)
	}
	if loaded.InitState != cfg.InitState {
		t.Errorf("init state changed in round trip: %+v", loaded.InitState)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := Save(path, &Config{WindSpeed: 18}); err != nil {
		t.Fatal(err)
	}

	// A file setting only some keys would zero the rest; Load starts from
	// the defaults, so explicit zeros in the file win but the YAML above
	// carries every field.
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.WindSpeed != 18 {
		t.Errorf("wind speed = %v, want 18", loaded.WindSpeed)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != 3 {
		t.Fatalf("got %d presets, want 3", len(names))
	}

	for _, name := range names {
		cfg := GetPreset(name)
		if cfg == nil {
			t.Fatalf("preset %q missing", name)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("preset %q invalid: %v", name, err)
		}
	}

	above := GetPreset("above-rated")
	if above.Controller != "pitch" {
		t.Errorf("above-rated controller = %q, want pitch", above.Controller)
	}
	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for unknown preset")
	}
}
