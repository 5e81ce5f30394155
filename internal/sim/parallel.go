package sim

import (
	"context"
	"sync"
)

// Ensemble runs a batch of independently constructed simulations
// concurrently and collects their results in run order. Build is invoked
// once per run index from the worker goroutines and must return a fresh
// Simulation every time; a Simulation is never safe to share between runs.
type Ensemble struct {
	Runs  int
	Build func(run int) *Simulation
}

func NewEnsemble(runs int, build func(run int) *Simulation) *Ensemble {
	return &Ensemble{Runs: runs, Build: build}
}

// Run executes every member of the ensemble under the same RunConfig. The
// first member error is returned; partial results are discarded with it.
func (e *Ensemble) Run(ctx context.Context, cfg RunConfig) ([]*Result, error) {
	results := make([]*Result, e.Runs)
	errs := make([]error, e.Runs)

	var wg sync.WaitGroup
	for i := 0; i < e.Runs; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			s := e.Build(idx)
			results[idx], errs[idx] = s.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
