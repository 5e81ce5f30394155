package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/thomasantony/rebound/internal/particle"
	"github.com/thomasantony/rebound/internal/sim"
)

// Store persists runs under a base directory, one subdirectory per run:
// metadata.json with the run parameters and final metrics, states.csv with
// the snapshot series.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Timestamp   time.Time          `json:"timestamp"`
	Dt          float64            `json:"dt"`
	Duration    float64            `json:"duration"`
	Integrator  string             `json:"integrator"`
	G           float64            `json:"g"`
	Softening   float64            `json:"softening"`
	Masses      []float64          `json:"masses"`
	StepsTaken  int                `json:"steps_taken"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Bodies returns the number of particles the stored run carried.
func (m *RunMetadata) Bodies() int { return len(m.Masses) }

// Series is the recorded history of a run: one row per snapshot, with the
// total energy alongside the flattened x, y, z, vx, vy, vz state per body.
type Series struct {
	Times    []float64
	Energies []float64
	States   [][]float64
}

// Save writes the result of a run and returns the generated run ID,
// scenario name plus unix timestamp. Floats are stored at full precision
// so reloaded series reproduce the run exactly.
func (s *Store) Save(scn *sim.Simulation, scenario, integrator string, duration float64, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	masses := make([]float64, 0, len(scn.Particles))
	for i := range scn.Particles {
		masses = append(masses, scn.Particles[i].M)
	}

	meta := RunMetadata{
		ID:          runID,
		Scenario:    scenario,
		Timestamp:   time.Now(),
		Dt:          scn.Dt,
		Duration:    duration,
		Integrator:  integrator,
		G:           scn.G,
		Softening:   scn.Softening,
		Masses:      masses,
		StepsTaken:  result.StepsTaken,
		EnergyDrift: result.EnergyDrift,
		Metrics:     result.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "states.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(result.Snapshots) == 0 {
		return runID, nil
	}

	header := []string{"time", "energy"}
	for i := range result.Snapshots[0].Particles {
		header = append(header,
			fmt.Sprintf("x%d", i), fmt.Sprintf("y%d", i), fmt.Sprintf("z%d", i),
			fmt.Sprintf("vx%d", i), fmt.Sprintf("vy%d", i), fmt.Sprintf("vz%d", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := range result.Snapshots {
		snap := result.Snapshots[i]
		row := make([]string, 0, len(header))
		row = append(row, formatFloat(snap.T))
		row = append(row, formatFloat(snapshotEnergy(scn, snap)))
		for _, v := range flattenParticles(snap.Particles) {
			row = append(row, formatFloat(v))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// LoadSeries reads back the snapshot history of a run. Rows that fail to
// parse are skipped rather than failing the whole load.
func (s *Store) LoadSeries(runID string) (*Series, error) {
	csvPath := filepath.Join(s.baseDir, runID, "states.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	series := &Series{}
	if len(records) < 2 {
		return series, nil
	}

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 2 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		energy, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}

		state := make([]float64, 0, len(record)-2)
		for j := 2; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			state = append(state, val)
		}

		series.Times = append(series.Times, t)
		series.Energies = append(series.Energies, energy)
		series.States = append(series.States, state)
	}

	return series, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func flattenParticles(ps []particle.Particle) []float64 {
	out := make([]float64, 0, 6*len(ps))
	for i := range ps {
		p := ps[i]
		out = append(out, p.X, p.Y, p.Z, p.Vx, p.Vy, p.Vz)
	}
	return out
}

// snapshotEnergy evaluates the stored snapshot with the run's force
// parameters.
func snapshotEnergy(scn *sim.Simulation, snap sim.Snapshot) float64 {
	tmp := sim.Simulation{
		Particles: snap.Particles,
		G:         scn.G,
		Softening: scn.Softening,
	}
	return tmp.Energy()
}
