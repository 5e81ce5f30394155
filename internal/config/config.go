package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt          = 0.01
	DefaultDuration    = 100.0
	DefaultOutputEvery = 10
	DefaultG           = 1.0
)

// Config describes one integration run: a named scenario (or explicit
// bodies), the integrator driving it, and the step and force parameters.
type Config struct {
	Scenario    string  `yaml:"scenario"`
	Integrator  string  `yaml:"integrator"`
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	OutputEvery int     `yaml:"output_every"`
	G           float64 `yaml:"g"`
	Softening   float64 `yaml:"softening"`

	WKM WKMConfig `yaml:"wkm"`

	// Bodies populates the "custom" scenario. Other scenarios ignore it.
	Bodies []BodyConfig `yaml:"bodies"`
}

// WKMConfig selects kernel and synchronization behavior for the wkm
// integrator; other integrators ignore it.
type WKMConfig struct {
	Kernel         string `yaml:"kernel"` // composition or lazy
	CorrectorOrder int    `yaml:"corrector_order"`

	// Unsafe disables per-step synchronization. Faster, but inertial
	// coordinates are only valid after an explicit synchronize.
	Unsafe bool `yaml:"unsafe"`

	KeepUnsynchronized bool `yaml:"keep_unsynchronized"`
}

// BodyConfig is one particle, either as cartesian state or, when A is
// nonzero, as orbital elements around the first body of the list.
type BodyConfig struct {
	M  float64 `yaml:"m"`
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
	Z  float64 `yaml:"z"`
	Vx float64 `yaml:"vx"`
	Vy float64 `yaml:"vy"`
	Vz float64 `yaml:"vz"`

	A    float64 `yaml:"a"`
	E    float64 `yaml:"e"`
	Inc  float64 `yaml:"inc"`
	Node float64 `yaml:"node"`
	Peri float64 `yaml:"peri"`
	F    float64 `yaml:"f"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:    "kepler",
		Integrator:  "wkm",
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		OutputEvery: DefaultOutputEvery,
		G:           DefaultG,
		WKM: WKMConfig{
			Kernel:         "composition",
			CorrectorOrder: 1,
		},
	}
}

// Load reads a YAML config. Absent fields keep their defaults.
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
	if c.Scenario == "" {
		return fmt.Errorf("config: scenario must be set")
	}
	if c.Integrator == "" {
		return fmt.Errorf("config: integrator must be set")
	}
	if c.Dt == 0 {
		return fmt.Errorf("config: dt must be nonzero")
	}
	if c.Duration <= 0 {
		return fmt.Errorf("config: duration must be positive, got %g", c.Duration)
	}
	if c.OutputEvery < 0 {
		return fmt.Errorf("config: output interval must not be negative, got %d", c.OutputEvery)
	}
	if c.WKM.CorrectorOrder < 0 {
		return fmt.Errorf("config: corrector order must not be negative, got %d", c.WKM.CorrectorOrder)
	}
	return nil
}
