package sim

import (
	"math"

	"github.com/thomasantony/rebound/internal/gravity"
	"github.com/thomasantony/rebound/internal/particle"
)

// Integrator advances a simulation by one timestep in two halves. Part1 runs
// before the gravity evaluation, Part2 after it. Part1 reports configuration
// errors; a failed Part1 leaves the simulation time untouched. Synchronize
// brings lazily-advanced internal state back to inertial coordinates and
// must be a no-op when nothing is pending.
type Integrator interface {
	Name() string
	Part1(s *Simulation) error
	Part2(s *Simulation)
	Synchronize(s *Simulation)
	Reset(s *Simulation)
}

// Metric accumulates a scalar diagnostic over a run.
type Metric interface {
	Name() string
	Observe(s *Simulation)
	Value() float64
	Reset()
}

// Observer receives a callback after every completed step.
type Observer interface {
	OnStep(s *Simulation)
}

// Simulation is the explicit integration state: particles in inertial
// cartesian coordinates plus time, timestep and force-law parameters.
// Instances are not safe for concurrent use.
type Simulation struct {
	Particles []particle.Particle

	// NVar counts trailing variational particles. This library does not
	// propagate them; integrators that cannot ignore them refuse to run.
	NVar int

	T          float64
	Dt         float64
	DtLastDone float64

	G         float64
	Softening float64

	Gravity gravity.Method
	// GravityIgnoreTerms is set by integrators that carry part of the
	// interaction analytically. Mode 1 drops the direct 0-1 pair.
	GravityIgnoreTerms int

	Integrator Integrator

	metrics   []Metric
	observers []Observer
}

// New returns a simulation with G=1 units, a default timestep and direct
// summation gravity.
func New() *Simulation {
	return &Simulation{
		Dt:      0.01,
		G:       1.0,
		Gravity: gravity.Basic,
	}
}

func (s *Simulation) N() int { return len(s.Particles) }

func (s *Simulation) AddParticle(p particle.Particle) {
	s.Particles = append(s.Particles, p)
}

func (s *Simulation) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// UpdateAcceleration re-evaluates gravity for the current inertial positions.
func (s *Simulation) UpdateAcceleration() {
	gravity.Acceleration(s.Gravity, s.Particles, s.G, s.Softening, s.GravityIgnoreTerms)
}

// Step advances the simulation by one timestep: integrator first half,
// gravity, integrator second half. On error the state is unchanged.
func (s *Simulation) Step() error {
	if s.Integrator == nil {
		return ErrNoIntegrator
	}
	if len(s.Particles) == 0 {
		return ErrNoParticles
	}
	if err := s.Integrator.Part1(s); err != nil {
		return err
	}
	s.UpdateAcceleration()
	s.Integrator.Part2(s)
	return nil
}

// Integrate advances in whole steps of Dt until T reaches tmax, then
// synchronizes. T may overshoot tmax by less than one step. Negative Dt
// integrates backward.
func (s *Simulation) Integrate(tmax float64) error {
	for (s.Dt > 0 && s.T < tmax) || (s.Dt < 0 && s.T > tmax) {
		if err := s.Step(); err != nil {
			return err
		}
	}
	s.Synchronize()
	return nil
}

// Synchronize asks the integrator to bring the particle set back to a
// consistent inertial state. Safe to call at any time.
func (s *Simulation) Synchronize() {
	if s.Integrator != nil {
		s.Integrator.Synchronize(s)
	}
}

// Energy returns kinetic plus pairwise potential energy, using the same
// softening the force evaluation uses.
func (s *Simulation) Energy() float64 {
	e := 0.0
	soft2 := s.Softening * s.Softening
	for i := range s.Particles {
		pi := s.Particles[i]
		e += 0.5 * pi.M * pi.V2()
		for j := i + 1; j < len(s.Particles); j++ {
			pj := s.Particles[j]
			dx := pi.X - pj.X
			dy := pi.Y - pj.Y
			dz := pi.Z - pj.Z
			e -= s.G * pi.M * pj.M / math.Sqrt(dx*dx+dy*dy+dz*dz+soft2)
		}
	}
	return e
}

// AngularMomentum returns the total angular momentum vector about the origin.
func (s *Simulation) AngularMomentum() (lx, ly, lz float64) {
	for i := range s.Particles {
		p := s.Particles[i]
		lx += p.M * (p.Y*p.Vz - p.Z*p.Vy)
		ly += p.M * (p.Z*p.Vx - p.X*p.Vz)
		lz += p.M * (p.X*p.Vy - p.Y*p.Vx)
	}
	return lx, ly, lz
}
