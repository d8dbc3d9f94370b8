package physics

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/lixenwraith/barslide/core"
)

// StepStats summarises one batch step
type StepStats struct {
	Processed int // Active bodies integrated
	Skipped   int // Inactive bodies left untouched
	Clamped   int // Bodies floored at terminal velocity
	Snapped   int // Bodies whose X velocity snapped to zero
}

// Add accumulates o into s
func (s *StepStats) Add(o StepStats) {
	s.Processed += o.Processed
	s.Skipped += o.Skipped
	s.Clamped += o.Clamped
	s.Snapped += o.Snapped
}

func (s *StepStats) record(out Outcome) {
	if out.Has(OutcomeSkipped) {
		s.Skipped++
		return
	}
	s.Processed++
	if out.Has(OutcomeClamped) {
		s.Clamped++
	}
	if out.Has(OutcomeSnapped) {
		s.Snapped++
	}
}

// Step integrates every body of the batch in place
// Inputs are validated before any mutation so a rejected call leaves the batch unchanged
func Step(bodies []core.RigidBody, positions []core.Translation, dt float64) (StepStats, error) {
	if err := validateBatch(bodies, positions, dt); err != nil {
		return StepStats{}, err
	}
	return stepRange(bodies, positions, dt), nil
}

// StepParallel integrates the batch across contiguous, disjoint partitions
// Results are identical to Step since no body reads another's state
// ctx is checked once before mutation, a started frame always completes
func StepParallel(ctx context.Context, bodies []core.RigidBody, positions []core.Translation, dt float64, workers int) (StepStats, error) {
	if err := validateBatch(bodies, positions, dt); err != nil {
		return StepStats{}, err
	}
	if err := ctx.Err(); err != nil {
		return StepStats{}, errors.Wrap(err, "parallel step")
	}

	n := len(bodies)
	if workers > n {
		workers = n
	}
	if workers <= 1 {
		return stepRange(bodies, positions, dt), nil
	}

	chunk := (n + workers - 1) / workers
	partials := make([]StepStats, workers)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= n {
			break
		}
		hi := min(lo+chunk, n)
		g.Go(func() error {
			partials[w] = stepRange(bodies[lo:hi], positions[lo:hi], dt)
			return nil
		})
	}
	// Workers never fail, Wait only joins
	_ = g.Wait()

	var stats StepStats
	for i := range partials {
		stats.Add(partials[i])
	}
	return stats, nil
}

func validateBatch(bodies []core.RigidBody, positions []core.Translation, dt float64) error {
	if len(bodies) != len(positions) {
		return errors.Wrapf(ErrLengthMismatch, "bodies=%d translations=%d", len(bodies), len(positions))
	}
	return ValidateDelta(dt)
}

func stepRange(bodies []core.RigidBody, positions []core.Translation, dt float64) StepStats {
	var stats StepStats
	for i := range bodies {
		stats.record(Integrate(&bodies[i], &positions[i], dt))
	}
	return stats
}
