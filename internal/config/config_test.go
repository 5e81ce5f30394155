package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Scenario != "kepler" {
		t.Errorf("expected scenario kepler, got %s", cfg.Scenario)
	}
	if cfg.Integrator != "wkm" {
		t.Errorf("expected integrator wkm, got %s", cfg.Integrator)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.WKM.CorrectorOrder != 1 {
		t.Errorf("expected corrector order 1, got %d", cfg.WKM.CorrectorOrder)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config fails validation: %v", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Scenario = "pair"
	cfg.Dt = 0.05
	cfg.WKM.Kernel = "lazy"
	cfg.WKM.Unsafe = true
	cfg.Bodies = []BodyConfig{
		{M: 1},
		{M: 1e-3, A: 1.0, E: 0.05},
	}

	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if got.Scenario != "pair" || got.Dt != 0.05 {
		t.Errorf("loaded scenario %q dt %v, want pair 0.05", got.Scenario, got.Dt)
	}
	if got.WKM.Kernel != "lazy" || !got.WKM.Unsafe {
		t.Errorf("loaded wkm section %+v does not match saved one", got.WKM)
	}
	if len(got.Bodies) != 2 || got.Bodies[1].A != 1.0 {
		t.Errorf("loaded bodies %+v do not match saved ones", got.Bodies)
	}
}

func TestLoadKeepsDefaultsForAbsentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("scenario: outer\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Scenario != "outer" {
		t.Errorf("scenario = %q, want outer", cfg.Scenario)
	}
	if cfg.Dt != DefaultDt || cfg.WKM.CorrectorOrder != 1 {
		t.Errorf("absent fields lost their defaults: dt %v, corrector %d", cfg.Dt, cfg.WKM.CorrectorOrder)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("dt: [not, a, number]\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected an error for malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty scenario", func(c *Config) { c.Scenario = "" }},
		{"empty integrator", func(c *Config) { c.Integrator = "" }},
		{"zero dt", func(c *Config) { c.Dt = 0 }},
		{"negative duration", func(c *Config) { c.Duration = -1 }},
		{"negative output interval", func(c *Config) { c.OutputEvery = -1 }},
		{"negative corrector order", func(c *Config) { c.WKM.CorrectorOrder = -1 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected a validation error")
			}
		})
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("pair", "lazy")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.WKM.Kernel != "lazy" {
		t.Errorf("expected lazy kernel, got %q", cfg.WKM.Kernel)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("preset fails validation: %v", err)
	}
}

func TestGetPresetNotFound(t *testing.T) {
	if cfg := GetPreset("pair", "nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if cfg := GetPreset("nonexistent", "lazy"); cfg != nil {
		t.Error("expected nil for nonexistent scenario")
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("kepler")
	if len(presets) == 0 {
		t.Error("expected presets for kepler")
	}
	if presets := ListPresets("nonexistent"); presets != nil {
		t.Error("expected nil for nonexistent scenario")
	}
}

func TestEveryPresetValidates(t *testing.T) {
	for scenario, byName := range Presets {
		for name, cfg := range byName {
			if err := cfg.Validate(); err != nil {
				t.Errorf("preset %s/%s: %v", scenario, name, err)
			}
		}
	}
}
