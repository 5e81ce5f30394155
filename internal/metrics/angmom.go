package metrics

import (
	"math"

	"github.com/thomasantony/rebound/internal/sim"
)

// AngularMomentumDrift tracks the worst relative excursion of the total
// angular momentum vector from its value at the first observation.
// Newtonian point-mass gravity conserves it exactly, so any drift beyond
// roundoff points at the integrator.
type AngularMomentumDrift struct {
	name          string
	lx0, ly0, lz0 float64
	norm0         float64
	maxDrift      float64
	samples       int
}

func NewAngularMomentumDrift() *AngularMomentumDrift {
	return &AngularMomentumDrift{
		name: "angmom_drift",
	}
}

func (a *AngularMomentumDrift) Name() string { return a.name }

func (a *AngularMomentumDrift) Observe(s *sim.Simulation) {
	lx, ly, lz := s.AngularMomentum()
	if a.samples == 0 {
		a.lx0, a.ly0, a.lz0 = lx, ly, lz
		a.norm0 = math.Sqrt(lx*lx + ly*ly + lz*lz)
	}
	a.samples++

	if a.norm0 != 0 {
		dx := lx - a.lx0
		dy := ly - a.ly0
		dz := lz - a.lz0
		drift := math.Sqrt(dx*dx+dy*dy+dz*dz) / a.norm0
		a.maxDrift = math.Max(a.maxDrift, drift)
	}
}

func (a *AngularMomentumDrift) Value() float64 {
	return a.maxDrift
}

func (a *AngularMomentumDrift) Reset() {
	a.lx0, a.ly0, a.lz0 = 0, 0, 0
	a.norm0 = 0
	a.maxDrift = 0
	a.samples = 0
}
