package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/thomasantony/rebound/internal/sim"
)

// ExportData is the JSON shape of a run export: parameters, per-snapshot
// times and energies, and the flattened particle states.
type ExportData struct {
	Scenario    string             `json:"scenario"`
	Integrator  string             `json:"integrator"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Steps       int                `json:"steps"`
	EnergyDrift float64            `json:"energy_drift"`
	Masses      []float64          `json:"masses"`
	Times       []float64          `json:"times"`
	Energies    []float64          `json:"energies"`
	States      [][]float64        `json:"states"`
	Metrics     map[string]float64 `json:"metrics"`
}

func buildExport(scn *sim.Simulation, scenario, integrator string, duration float64, result *sim.Result) ExportData {
	data := ExportData{
		Scenario:    scenario,
		Integrator:  integrator,
		Dt:          scn.Dt,
		Duration:    duration,
		Steps:       result.StepsTaken,
		EnergyDrift: result.EnergyDrift,
		Masses:      make([]float64, 0, len(scn.Particles)),
		Times:       make([]float64, 0, len(result.Snapshots)),
		Energies:    make([]float64, 0, len(result.Snapshots)),
		States:      make([][]float64, 0, len(result.Snapshots)),
		Metrics:     result.Metrics,
	}
	for i := range scn.Particles {
		data.Masses = append(data.Masses, scn.Particles[i].M)
	}
	for i := range result.Snapshots {
		snap := result.Snapshots[i]
		data.Times = append(data.Times, snap.T)
		data.Energies = append(data.Energies, snapshotEnergy(scn, snap))
		data.States = append(data.States, flattenParticles(snap.Particles))
	}
	return data
}

func exportTo(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportJSON writes a run export to path.
func ExportJSON(path string, scn *sim.Simulation, scenario, integrator string, duration float64, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return exportTo(file, buildExport(scn, scenario, integrator, duration, result))
}

// ExportJSONStdout writes a run export to standard output.
func ExportJSONStdout(scn *sim.Simulation, scenario, integrator string, duration float64, result *sim.Result) error {
	return exportTo(os.Stdout, buildExport(scn, scenario, integrator, duration, result))
}
