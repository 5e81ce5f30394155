package integrators

import "github.com/thomasantony/rebound/internal/sim"

// Leapfrog is a second order drift-kick-drift integrator on inertial
// coordinates. It carries no internal state and is always synchronized.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog { return &Leapfrog{} }

func (l *Leapfrog) Name() string { return "leapfrog" }

func (l *Leapfrog) Part1(s *sim.Simulation) error {
	s.GravityIgnoreTerms = 0
	half := s.Dt / 2
	for i := range s.Particles {
		p := &s.Particles[i]
		p.X += half * p.Vx
		p.Y += half * p.Vy
		p.Z += half * p.Vz
	}
	s.T += half
	return nil
}

func (l *Leapfrog) Part2(s *sim.Simulation) {
	half := s.Dt / 2
	for i := range s.Particles {
		p := &s.Particles[i]
		p.Vx += s.Dt * p.Ax
		p.Vy += s.Dt * p.Ay
		p.Vz += s.Dt * p.Az
		p.X += half * p.Vx
		p.Y += half * p.Vy
		p.Z += half * p.Vz
	}
	s.T += half
	s.DtLastDone = s.Dt
}

func (l *Leapfrog) Synchronize(s *sim.Simulation) {}

func (l *Leapfrog) Reset(s *sim.Simulation) {}
