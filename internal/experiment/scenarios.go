package experiment

import (
	"fmt"

	"github.com/thomasantony/rebound/internal/config"
	"github.com/thomasantony/rebound/internal/orbit"
	"github.com/thomasantony/rebound/internal/particle"
	"github.com/thomasantony/rebound/internal/sim"
)

// newSim applies the shared force and step parameters of a config.
func newSim(cfg *config.Config) *sim.Simulation {
	s := sim.New()
	s.Dt = cfg.Dt
	if cfg.G > 0 {
		s.G = cfg.G
	}
	s.Softening = cfg.Softening
	return s
}

// addFromElements appends a body on an orbit around the first particle.
func addFromElements(s *sim.Simulation, m, a, e, inc, node, peri, f float64) error {
	p, err := orbit.NewParticle(s.G, s.Particles[0], m, a, e, inc, node, peri, f)
	if err != nil {
		return err
	}
	s.AddParticle(p)
	return nil
}

// buildKepler is a star with one light planet on a mildly eccentric orbit.
func buildKepler(cfg *config.Config) (*sim.Simulation, error) {
	s := newSim(cfg)
	s.AddParticle(particle.Particle{M: 1})
	if err := addFromElements(s, 1e-3, 1.0, 0.05, 0, 0, 0, 0); err != nil {
		return nil, err
	}
	return s, nil
}

// buildPair is a star with two well separated planets, the standard
// configuration for watching secular element exchange.
func buildPair(cfg *config.Config) (*sim.Simulation, error) {
	s := newSim(cfg)
	s.AddParticle(particle.Particle{M: 1})
	if err := addFromElements(s, 1e-3, 1.0, 0.05, 0, 0, 0, 0); err != nil {
		return nil, err
	}
	if err := addFromElements(s, 3e-4, 1.52, 0.05, 0, 0, 1.3, 2.1); err != nil {
		return nil, err
	}
	return s, nil
}

// buildOuter is the four giant planets around a solar mass, with masses,
// eccentricities and inclinations close to the real ones. Times are years
// over 2 pi with G=1.
func buildOuter(cfg *config.Config) (*sim.Simulation, error) {
	s := newSim(cfg)
	s.AddParticle(particle.Particle{M: 1})
	giants := []struct {
		m, a, e, inc, node, peri, f float64
	}{
		{9.547919e-4, 5.2044, 0.0489, 0.0228, 1.754, 4.780, 0.60},
		{2.858857e-4, 9.5826, 0.0565, 0.0435, 1.984, 5.863, 5.53},
		{4.366244e-5, 19.2184, 0.0457, 0.0135, 1.292, 1.687, 2.49},
		{5.151389e-5, 30.1104, 0.0113, 0.0309, 2.300, 4.637, 4.47},
	}
	for _, g := range giants {
		if err := addFromElements(s, g.m, g.a, g.e, g.inc, g.node, g.peri, g.f); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// buildChaotic is a tightly packed planet pair a few mutual Hill radii
// apart, a configuration with a short Lyapunov time.
func buildChaotic(cfg *config.Config) (*sim.Simulation, error) {
	s := newSim(cfg)
	s.AddParticle(particle.Particle{M: 1})
	if err := addFromElements(s, 1e-3, 1.0, 0, 0, 0, 0, 0); err != nil {
		return nil, err
	}
	if err := addFromElements(s, 1e-3, 1.15, 0, 0, 0, 0, 3.1); err != nil {
		return nil, err
	}
	return s, nil
}

// buildCustom assembles the particle set from the config body list. The
// first body anchors the frame and must be given as cartesian state; later
// bodies may use orbital elements around it instead.
func buildCustom(cfg *config.Config) (*sim.Simulation, error) {
	if len(cfg.Bodies) == 0 {
		return nil, fmt.Errorf("experiment: custom scenario needs at least one body")
	}
	first := cfg.Bodies[0]
	if first.A != 0 {
		return nil, fmt.Errorf("experiment: the first body must use cartesian state, not elements")
	}

	s := newSim(cfg)
	s.AddParticle(particle.Particle{
		M: first.M,
		X: first.X, Y: first.Y, Z: first.Z,
		Vx: first.Vx, Vy: first.Vy, Vz: first.Vz,
	})
	for i, b := range cfg.Bodies[1:] {
		if b.A != 0 {
			if err := addFromElements(s, b.M, b.A, b.E, b.Inc, b.Node, b.Peri, b.F); err != nil {
				return nil, fmt.Errorf("experiment: body %d: %w", i+1, err)
			}
			continue
		}
		s.AddParticle(particle.Particle{
			M: b.M,
			X: b.X, Y: b.Y, Z: b.Z,
			Vx: b.Vx, Vy: b.Vy, Vz: b.Vz,
		})
	}
	return s, nil
}
