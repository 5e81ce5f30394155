package config

// Presets are ready-made run configurations keyed by scenario, then by
// preset name. Every preset spells out its full configuration so that a
// preset never silently inherits a default it did not ask for.
var Presets = map[string]map[string]*Config{
	"kepler": {
		"baseline": {
			Scenario: "kepler", Integrator: "wkm", Dt: 0.01, Duration: 100, OutputEvery: 10, G: 1,
			WKM: WKMConfig{Kernel: "composition", CorrectorOrder: 1},
		},
		"coarse": {
			Scenario: "kepler", Integrator: "wkm", Dt: 0.1, Duration: 1000, OutputEvery: 10, G: 1,
			WKM: WKMConfig{Kernel: "composition", CorrectorOrder: 2},
		},
	},
	"pair": {
		"standard": {
			Scenario: "pair", Integrator: "wkm", Dt: 0.01, Duration: 500, OutputEvery: 20, G: 1,
			WKM: WKMConfig{Kernel: "composition", CorrectorOrder: 1},
		},
		"lazy": {
			Scenario: "pair", Integrator: "wkm", Dt: 0.01, Duration: 500, OutputEvery: 20, G: 1,
			WKM: WKMConfig{Kernel: "lazy", CorrectorOrder: 1},
		},
		"turbo": {
			Scenario: "pair", Integrator: "wkm", Dt: 0.05, Duration: 5000, OutputEvery: 100, G: 1,
			WKM: WKMConfig{Kernel: "composition", CorrectorOrder: 2, Unsafe: true},
		},
	},
	"outer": {
		"giants": {
			Scenario: "outer", Integrator: "wkm", Dt: 0.5, Duration: 100000, OutputEvery: 200, G: 1,
			WKM: WKMConfig{Kernel: "composition", CorrectorOrder: 2, Unsafe: true},
		},
		"survey": {
			Scenario: "outer", Integrator: "whfast", Dt: 0.5, Duration: 10000, OutputEvery: 100, G: 1,
		},
	},
	"chaotic": {
		"lyapunov": {
			Scenario: "chaotic", Integrator: "whfast", Dt: 0.01, Duration: 200, OutputEvery: 10, G: 1,
		},
		"reference": {
			Scenario: "chaotic", Integrator: "rk4", Dt: 0.001, Duration: 200, OutputEvery: 100, G: 1,
		},
	},
}

func GetPreset(scenario, preset string) *Config {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	cfg, ok := scenarioPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(scenario string) []string {
	scenarioPresets, ok := Presets[scenario]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(scenarioPresets))
	for name := range scenarioPresets {
		names = append(names, name)
	}
	return names
}
