package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/thomasantony/rebound/internal/particle"
	"github.com/thomasantony/rebound/internal/sim"
)

// keplerTestSim is a star with one light planet on a near circular orbit.
// With only two bodies the interaction terms vanish and the splitting
// integrators reduce to the bare Kepler solver.
func keplerTestSim(dt float64) *sim.Simulation {
	s := sim.New()
	s.Dt = dt
	s.AddParticle(particle.Particle{M: 1})
	s.AddParticle(particle.Particle{M: 1e-3, X: 1, Vy: 1})
	return s
}

// planetPairSim adds a second planet so the interaction kicks are nonzero.
func planetPairSim(dt float64) *sim.Simulation {
	s := keplerTestSim(dt)
	s.AddParticle(particle.Particle{M: 1e-3, X: 1.52, Vy: 0.8112})
	return s
}

func maxPosVelDiff(a, b particle.Particle) float64 {
	d := math.Abs(a.X - b.X)
	for _, v := range []float64{
		math.Abs(a.Y - b.Y), math.Abs(a.Z - b.Z),
		math.Abs(a.Vx - b.Vx), math.Abs(a.Vy - b.Vy), math.Abs(a.Vz - b.Vz),
	} {
		if v > d {
			d = v
		}
	}
	return d
}

func TestWHFastTwoBodyEnergy(t *testing.T) {
	s := keplerTestSim(1e-3)
	s.Integrator = NewWHFast()
	e0 := s.Energy()
	if err := s.Integrate(10); err != nil {
		t.Fatal(err)
	}
	if drift := math.Abs((s.Energy() - e0) / e0); drift > 1e-11 {
		t.Errorf("two body energy drift %.3g, want < 1e-11", drift)
	}
}

func TestWHFastThreeBodyEnergy(t *testing.T) {
	s := planetPairSim(0.02)
	s.Integrator = NewWHFast()
	e0 := s.Energy()
	if err := s.Integrate(50); err != nil {
		t.Fatal(err)
	}
	if drift := math.Abs((s.Energy() - e0) / e0); drift > 1e-5 {
		t.Errorf("three body energy drift %.3g, want < 1e-5", drift)
	}
}

func TestWHFastSynchronizeIdempotent(t *testing.T) {
	s := planetPairSim(0.01)
	w := NewWHFast()
	w.SafeMode = false
	s.Integrator = w
	for i := 0; i < 10; i++ {
		if err := s.Step(); err != nil {
			t.Fatal(err)
		}
	}
	s.Synchronize()
	after := particle.Clone(s.Particles)
	s.Synchronize()
	for i := range after {
		if s.Particles[i] != after[i] {
			t.Fatalf("second synchronize changed particle %d", i)
		}
	}
}

func TestWHFastSafeModeMatchesManualSync(t *testing.T) {
	a := keplerTestSim(0.01)
	a.Integrator = NewWHFast()

	b := keplerTestSim(0.01)
	wb := NewWHFast()
	wb.SafeMode = false
	b.Integrator = wb

	for i := 0; i < 100; i++ {
		if err := a.Step(); err != nil {
			t.Fatal(err)
		}
		if err := b.Step(); err != nil {
			t.Fatal(err)
		}
	}
	b.Synchronize()
	for i := range a.Particles {
		if d := maxPosVelDiff(a.Particles[i], b.Particles[i]); d > 1e-10 {
			t.Errorf("particle %d: safe mode and deferred sync differ by %.3g", i, d)
		}
	}
}

func TestWHFastCorrectorReducesEnergyError(t *testing.T) {
	run := func(corrector int) float64 {
		s := planetPairSim(0.05)
		w := NewWHFast()
		w.Corrector = corrector
		s.Integrator = w
		e0 := s.Energy()
		worst := 0.0
		for i := 0; i < 400; i++ {
			if err := s.Step(); err != nil {
				t.Fatal(err)
			}
			if d := math.Abs((s.Energy() - e0) / e0); d > worst {
				worst = d
			}
		}
		return worst
	}
	plain := run(0)
	corrected := run(11)
	if plain < 1e-12 {
		t.Fatalf("uncorrected error %.3g too small for a meaningful comparison", plain)
	}
	if corrected > plain/10 {
		t.Errorf("corrector 11 error %.3g not well below uncorrected %.3g", corrected, plain)
	}
}

func TestWHFastKeepUnsynchronizedContinuation(t *testing.T) {
	a := planetPairSim(0.01)
	wa := NewWHFast()
	wa.SafeMode = false
	a.Integrator = wa

	b := planetPairSim(0.01)
	wb := NewWHFast()
	wb.SafeMode = false
	wb.KeepUnsynchronized = true
	b.Integrator = wb

	for i := 0; i < 50; i++ {
		if err := a.Step(); err != nil {
			t.Fatal(err)
		}
		if err := b.Step(); err != nil {
			t.Fatal(err)
		}
		// Read out the synchronized state mid-run; must not disturb b.
		b.Synchronize()
	}
	wb.KeepUnsynchronized = false
	a.Synchronize()
	b.Synchronize()
	for i := range a.Particles {
		if a.Particles[i] != b.Particles[i] {
			t.Fatalf("mid-run readouts changed the trajectory at particle %d:\n  a=%+v\n  b=%+v",
				i, a.Particles[i], b.Particles[i])
		}
	}
}

func TestWHFastRejectsConfiguration(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*sim.Simulation, *WHFast)
		want   error
	}{
		{"democratic heliocentric", func(s *sim.Simulation, w *WHFast) { w.Coordinates = DemocraticHeliocentric }, ErrJacobiRequired},
		{"whds", func(s *sim.Simulation, w *WHFast) { w.Coordinates = WHDS }, ErrJacobiRequired},
		{"variational", func(s *sim.Simulation, w *WHFast) { s.NVar = 1 }, ErrVariational},
		{"corrector order", func(s *sim.Simulation, w *WHFast) { w.Corrector = 4 }, ErrUnknownCorrector},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := keplerTestSim(0.01)
			w := NewWHFast()
			s.Integrator = w
			tc.mutate(s, w)
			err := s.Step()
			if !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
			if s.T != 0 {
				t.Errorf("time advanced to %v on a rejected step", s.T)
			}
		})
	}
}

func TestWHFastPart2BeforePart1(t *testing.T) {
	s := keplerTestSim(0.01)
	w := NewWHFast()
	w.Part2(s)
	if s.T != 0 {
		t.Errorf("part2 with no jacobi state advanced time to %v", s.T)
	}
}

func TestWHFastReset(t *testing.T) {
	s := planetPairSim(0.01)
	w := NewWHFast()
	w.Corrector = 11
	w.SafeMode = false
	w.KeepUnsynchronized = true
	s.Integrator = w
	for i := 0; i < 3; i++ {
		if err := s.Step(); err != nil {
			t.Fatal(err)
		}
	}
	w.Reset(s)
	if w.PJ != nil || w.allocatedN != 0 {
		t.Errorf("reset kept the jacobi buffer")
	}
	if w.Corrector != 0 || !w.SafeMode || w.KeepUnsynchronized || !w.IsSynchronized {
		t.Errorf("reset left non-default configuration: %+v", w)
	}
	if w.TimestepWarning != 0 {
		t.Errorf("reset kept the timestep warning")
	}
}
