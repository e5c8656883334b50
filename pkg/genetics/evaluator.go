package genetics

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	"github.com/XiaoConstantine/genetics-go/pkg/errors"
	"github.com/XiaoConstantine/genetics-go/pkg/logging"
)

// DefaultMaxGoroutines bounds concurrent metric calls when the evaluator is
// not configured explicitly.
const DefaultMaxGoroutines = 4

// Evaluator scores a whole population concurrently. It is the opt-in batch
// path for expensive metrics; Population.UpdateFitness remains the
// synchronous default. The metric must be pure with respect to evaluation
// order.
type Evaluator struct {
	// MaxGoroutines bounds concurrent metric calls. Values <= 0 fall back
	// to DefaultMaxGoroutines.
	MaxGoroutines int
}

// EvaluateFitness applies the metric to every member's artifact with bounded
// concurrency. Scores are collected index-aligned and assigned only after
// every metric call succeeded, preserving the all-or-nothing contract of
// Population.UpdateFitness: any failure leaves all fitness values untouched.
func (e *Evaluator) EvaluateFitness(ctx context.Context, population *Population, metric Metric) error {
	if err := errors.CheckContext(ctx, "evaluate fitness"); err != nil {
		return err
	}

	maxGoroutines := e.MaxGoroutines
	if maxGoroutines <= 0 {
		maxGoroutines = DefaultMaxGoroutines
	}

	members := population.Individuals()
	scores := make([]float64, len(members))
	errs := make([]error, len(members))

	p := pool.New().WithMaxGoroutines(maxGoroutines)
	for i, individual := range members {
		i, individual := i, individual
		p.Go(func() {
			scores[i], errs[i] = metric(individual.Artifact())
		})
	}
	p.Wait()

	for _, err := range errs {
		if err != nil {
			// Metric failures pass through unchanged.
			return err
		}
	}

	for i, individual := range members {
		individual.SetScore(FitnessScore, scores[i])
	}

	logging.GetLogger().Debug(ctx, "evaluated %d individuals with %d goroutines",
		len(members), maxGoroutines)
	return nil
}
