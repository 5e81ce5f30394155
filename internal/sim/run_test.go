package sim

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/thomasantony/rebound/internal/particle"
)

type countingMetric struct {
	count int
}

func (c *countingMetric) Name() string          { return "observed_steps" }
func (c *countingMetric) Observe(s *Simulation) { c.count++ }
func (c *countingMetric) Value() float64        { return float64(c.count) }
func (c *countingMetric) Reset()                { c.count = 0 }

type recordingObserver struct {
	times []float64
}

func (r *recordingObserver) OnStep(s *Simulation) { r.times = append(r.times, s.T) }

// nanIntegrator drifts normally, then poisons the state on a chosen step.
type nanIntegrator struct {
	driftIntegrator
	poisonAfter int
	steps       int
}

func (n *nanIntegrator) Part2(s *Simulation) {
	n.driftIntegrator.Part2(s)
	n.steps++
	if n.steps > n.poisonAfter {
		s.Particles[0].X = math.NaN()
	}
}

func runTestSim() *Simulation {
	s := New()
	s.Dt = 0.125
	s.Integrator = &driftIntegrator{}
	s.AddParticle(particle.Particle{M: 1, Vx: 1})
	return s
}

func TestRunRecordsSnapshotsAndMetrics(t *testing.T) {
	s := runTestSim()
	m := &countingMetric{count: 99} // Run must reset it
	obs := &recordingObserver{}
	s.AddMetric(m)
	s.AddObserver(obs)

	result, err := s.Run(context.Background(), RunConfig{
		Duration:      1.0,
		OutputEvery:   2,
		ValidateState: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.StepsTaken != 8 {
		t.Errorf("steps taken = %d, want 8", result.StepsTaken)
	}
	// Initial snapshot, one every second step, one after the final
	// synchronize.
	if len(result.Snapshots) != 6 {
		t.Errorf("snapshots = %d, want 6", len(result.Snapshots))
	}
	if got := result.Metrics["observed_steps"]; got != 8 {
		t.Errorf("metric value = %v, want 8", got)
	}
	if len(obs.times) != 8 {
		t.Errorf("observer callbacks = %d, want 8", len(obs.times))
	}

	last := result.Snapshots[len(result.Snapshots)-1]
	if last.T != 1.0 || last.Particles[0].X != 1.0 {
		t.Errorf("final snapshot t = %v, x = %v, want 1.0, 1.0", last.T, last.Particles[0].X)
	}
	if result.EnergyDrift != 0 {
		t.Errorf("force-free drift = %v, want 0", result.EnergyDrift)
	}
}

func TestRunSnapshotsAreCopies(t *testing.T) {
	s := runTestSim()
	result, err := s.Run(context.Background(), DefaultRunConfig())
	if err != nil {
		t.Fatal(err)
	}
	first := result.Snapshots[0].Particles[0].X
	s.Particles[0].X = -100
	if result.Snapshots[0].Particles[0].X != first {
		t.Error("snapshot aliases the live particle slice")
	}
}

func TestRunContextCancel(t *testing.T) {
	s := runTestSim()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, RunConfig{Duration: 1.0})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if result.StepsTaken != 0 {
		t.Errorf("steps taken after cancel = %d, want 0", result.StepsTaken)
	}
	if len(result.Snapshots) != 1 {
		t.Errorf("snapshots after cancel = %d, want the initial one", len(result.Snapshots))
	}
}

func TestRunValidatesConfig(t *testing.T) {
	cases := []struct {
		name string
		dt   float64
		cfg  RunConfig
	}{
		{"zero dt", 0, RunConfig{Duration: 1}},
		{"zero duration", 0.1, RunConfig{Duration: 0}},
		{"negative duration", 0.1, RunConfig{Duration: -1}},
		{"negative output interval", 0.1, RunConfig{Duration: 1, OutputEvery: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := runTestSim()
			s.Dt = tc.dt
			result, err := s.Run(context.Background(), tc.cfg)
			if err == nil {
				t.Fatal("expected a config error")
			}
			if result != nil {
				t.Error("invalid config still produced a result")
			}
		})
	}
}

func TestRunWrapsStepErrors(t *testing.T) {
	s := runTestSim()
	s.Integrator = &failingIntegrator{}

	_, err := s.Run(context.Background(), RunConfig{Duration: 1.0})
	if !errors.Is(err, errPart1) {
		t.Fatalf("error = %v, want wrapped part1 error", err)
	}
	var se *StepError
	if !errors.As(err, &se) {
		t.Fatalf("error %T does not unwrap to StepError", err)
	}
	if se.Step != 0 {
		t.Errorf("failing step = %d, want 0", se.Step)
	}
}

func TestRunStopsOnInvalidState(t *testing.T) {
	s := runTestSim()
	s.Integrator = &nanIntegrator{poisonAfter: 3}

	result, err := s.Run(context.Background(), RunConfig{
		Duration:      1.0,
		ValidateState: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Errors) != 1 || !errors.Is(result.Errors[0], ErrInvalidState) {
		t.Fatalf("recorded errors = %v, want one ErrInvalidState", result.Errors)
	}
	if result.StepsTaken != 3 {
		t.Errorf("steps taken = %d, want 3 before the poisoned step", result.StepsTaken)
	}
}

func TestStepErrorMessage(t *testing.T) {
	e := &StepError{Step: 3, Time: 0.25, Wrapped: errPart1}
	want := "step 3 (t=0.25): part1 refused"
	if e.Error() != want {
		t.Errorf("message = %q, want %q", e.Error(), want)
	}
	if !errors.Is(e, errPart1) {
		t.Error("StepError does not unwrap to its cause")
	}
}

func TestEnsembleRunsAllMembers(t *testing.T) {
	ens := NewEnsemble(4, func(run int) *Simulation {
		s := New()
		s.Dt = 0.25
		s.Integrator = &driftIntegrator{}
		s.AddParticle(particle.Particle{M: 1, Vx: float64(run)})
		return s
	})

	results, err := ens.Run(context.Background(), RunConfig{Duration: 1.0})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("results = %d, want 4", len(results))
	}
	for i, r := range results {
		if r.StepsTaken != 4 {
			t.Errorf("run %d steps = %d, want 4", i, r.StepsTaken)
		}
		last := r.Snapshots[len(r.Snapshots)-1]
		if want := float64(i); last.Particles[0].X != want {
			t.Errorf("run %d final x = %v, want %v", i, last.Particles[0].X, want)
		}
	}
}

func TestEnsemblePropagatesMemberError(t *testing.T) {
	ens := NewEnsemble(3, func(run int) *Simulation {
		s := runTestSim()
		if run == 1 {
			s.Integrator = &failingIntegrator{}
		}
		return s
	})
	results, err := ens.Run(context.Background(), RunConfig{Duration: 1.0})
	if !errors.Is(err, errPart1) {
		t.Fatalf("error = %v, want the member part1 error", err)
	}
	if results != nil {
		t.Error("failed ensemble still returned results")
	}
}
