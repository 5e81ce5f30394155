package integrators

import (
	"github.com/thomasantony/rebound/internal/particle"
	"github.com/thomasantony/rebound/internal/sim"
)

// RK4 is the classical fourth order Runge-Kutta method on inertial
// coordinates. It is not symplectic; its energy error grows secularly,
// which makes it the reference point the splitting integrators are
// compared against. The whole step happens in Part2 using the already
// evaluated accelerations as the first stage.
type RK4 struct {
	y0, k2, k3 []particle.Particle
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Name() string { return "rk4" }

func (r *RK4) ensureScratch(n int) {
	if len(r.y0) != n {
		r.y0 = make([]particle.Particle, n)
		r.k2 = make([]particle.Particle, n)
		r.k3 = make([]particle.Particle, n)
	}
}

func (r *RK4) Part1(s *sim.Simulation) error {
	s.GravityIgnoreTerms = 0
	return nil
}

func (r *RK4) Part2(s *sim.Simulation) {
	n := len(s.Particles)
	r.ensureScratch(n)
	copy(r.y0, s.Particles)
	dt := s.Dt
	half := dt / 2

	// Stage 2 at x0 + dt/2 v0.
	for i := 0; i < n; i++ {
		y := r.y0[i]
		s.Particles[i].X = y.X + half*y.Vx
		s.Particles[i].Y = y.Y + half*y.Vy
		s.Particles[i].Z = y.Z + half*y.Vz
	}
	s.UpdateAcceleration()
	copy(r.k2, s.Particles)

	// Stage 3 at x0 + dt/2 (v0 + dt/2 a1).
	for i := 0; i < n; i++ {
		y := r.y0[i]
		s.Particles[i].X = y.X + half*(y.Vx+half*y.Ax)
		s.Particles[i].Y = y.Y + half*(y.Vy+half*y.Ay)
		s.Particles[i].Z = y.Z + half*(y.Vz+half*y.Az)
	}
	s.UpdateAcceleration()
	copy(r.k3, s.Particles)

	// Stage 4 at x0 + dt (v0 + dt/2 a2).
	for i := 0; i < n; i++ {
		y := r.y0[i]
		s.Particles[i].X = y.X + dt*(y.Vx+half*r.k2[i].Ax)
		s.Particles[i].Y = y.Y + dt*(y.Vy+half*r.k2[i].Ay)
		s.Particles[i].Z = y.Z + dt*(y.Vz+half*r.k2[i].Az)
	}
	s.UpdateAcceleration()

	dt6 := dt / 6
	dtSq6 := dt * dt / 6
	for i := 0; i < n; i++ {
		p := &s.Particles[i]
		y := r.y0[i]
		// For a second order system the position combination collapses to
		// x0 + dt v0 + dt^2/6 (a1 + a2 + a3).
		p.X = y.X + dt*y.Vx + dtSq6*(y.Ax+r.k2[i].Ax+r.k3[i].Ax)
		p.Y = y.Y + dt*y.Vy + dtSq6*(y.Ay+r.k2[i].Ay+r.k3[i].Ay)
		p.Z = y.Z + dt*y.Vz + dtSq6*(y.Az+r.k2[i].Az+r.k3[i].Az)
		p.Vx = y.Vx + dt6*(y.Ax+2*r.k2[i].Ax+2*r.k3[i].Ax+p.Ax)
		p.Vy = y.Vy + dt6*(y.Ay+2*r.k2[i].Ay+2*r.k3[i].Ay+p.Ay)
		p.Vz = y.Vz + dt6*(y.Az+2*r.k2[i].Az+2*r.k3[i].Az+p.Az)
	}
	s.T += dt
	s.DtLastDone = dt
}

func (r *RK4) Synchronize(s *sim.Simulation) {}

func (r *RK4) Reset(s *sim.Simulation) {
	r.y0 = nil
	r.k2 = nil
	r.k3 = nil
}
