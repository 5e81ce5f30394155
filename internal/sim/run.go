package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/thomasantony/rebound/internal/particle"
)

type RunConfig struct {
	Duration      float64
	OutputEvery   int
	ValidateState bool
}

func DefaultRunConfig() RunConfig {
	return RunConfig{
		Duration:      10.0,
		OutputEvery:   10,
		ValidateState: true,
	}
}

// Snapshot is a copy of the particle set at a moment of a run.
type Snapshot struct {
	T         float64
	Particles []particle.Particle
}

type Result struct {
	Snapshots   []Snapshot
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}

// Run integrates for cfg.Duration, recording snapshots and feeding metrics
// and observers after each step. Metrics observe the state exactly as the
// integrator leaves it; run with an integrator in safe mode when they need
// synchronized coordinates. The final energy drift is measured against the
// initial energy after a terminal synchronize.
func (s *Simulation) Run(ctx context.Context, cfg RunConfig) (*Result, error) {
	if err := s.validateRunConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / math.Abs(s.Dt))
	result := &Result{
		Snapshots: make([]Snapshot, 0, snapshotCap(steps, cfg.OutputEvery)),
		Metrics:   make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	initialEnergy := s.Energy()
	result.Snapshots = append(result.Snapshots, s.snapshot())

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := s.Step(); err != nil {
			return result, &StepError{Step: i, Time: s.T, Wrapped: err}
		}

		for _, m := range s.metrics {
			m.Observe(s)
		}
		for _, obs := range s.observers {
			obs.OnStep(s)
		}

		if cfg.ValidateState && !particle.Valid(s.Particles) {
			result.Errors = append(result.Errors, &StepError{Step: i, Time: s.T, Wrapped: ErrInvalidState})
			break
		}

		result.StepsTaken++
		if cfg.OutputEvery > 0 && (i+1)%cfg.OutputEvery == 0 {
			result.Snapshots = append(result.Snapshots, s.snapshot())
		}
	}

	s.Synchronize()
	result.Snapshots = append(result.Snapshots, s.snapshot())

	if initialEnergy != 0 {
		finalEnergy := s.Energy()
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulation) validateRunConfig(cfg RunConfig) error {
	if s.Dt == 0 {
		return fmt.Errorf("sim: dt must be nonzero")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("sim: duration must be positive, got %f", cfg.Duration)
	}
	if cfg.OutputEvery < 0 {
		return fmt.Errorf("sim: output interval must not be negative, got %d", cfg.OutputEvery)
	}
	return nil
}

func (s *Simulation) snapshot() Snapshot {
	return Snapshot{T: s.T, Particles: particle.Clone(s.Particles)}
}

func snapshotCap(steps, every int) int {
	if every <= 0 {
		return 2
	}
	return steps/every + 2
}
