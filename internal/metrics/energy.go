package metrics

import (
	"math"

	"github.com/thomasantony/rebound/internal/sim"
)

// EnergyDrift tracks the worst relative total-energy excursion of a run,
// measured against the energy at the first observation. For symplectic
// integrators the maximum is the honest figure: averaging would hide the
// oscillating error term.
type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
	}
}

func (e *EnergyDrift) Name() string { return e.name }

// Observe samples the current total energy. The state must be synchronized
// for the sample to be meaningful; run in safe mode when in doubt.
func (e *EnergyDrift) Observe(s *sim.Simulation) {
	energy := s.Energy()
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
