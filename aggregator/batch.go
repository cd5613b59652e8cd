package aggregator

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/bitagg/bvector"
	"github.com/hupe1980/bitagg/resource"
)

// Strategy selects the aggregation path of a Job.
type Strategy uint8

const (
	// StrategyOptimized walks block coordinates once (bounded by MaxOperands).
	StrategyOptimized Strategy = iota
	// StrategyHorizontal applies whole-vector operations pairwise.
	StrategyHorizontal
)

func (s Strategy) String() string {
	if s == StrategyHorizontal {
		return "horizontal"
	}
	return "optimized"
}

// Job is one independent aggregation. For OpOr and OpAnd the operands are
// taken from And and Sub must be empty; Sub is only used by OpAndSub.
type Job struct {
	Op       Op
	Dst      *bvector.BVector
	And      []*bvector.BVector
	Sub      []*bvector.BVector
	Strategy Strategy
}

// Run executes the job with a.
func (j Job) Run(a *Aggregator) error {
	if j.Op != OpAndSub && len(j.Sub) > 0 {
		return fmt.Errorf("%w: %s with %d subtrahends", ErrInvalidJob, j.Op, len(j.Sub))
	}
	switch j.Op {
	case OpOr:
		if j.Strategy == StrategyHorizontal {
			return a.CombineOrHorizontal(j.Dst, j.And)
		}
		return a.CombineOr(j.Dst, j.And)
	case OpAnd:
		if j.Strategy == StrategyHorizontal {
			return a.CombineAndHorizontal(j.Dst, j.And)
		}
		return a.CombineAnd(j.Dst, j.And)
	case OpAndSub:
		if j.Strategy == StrategyHorizontal {
			return a.CombineAndSubHorizontal(j.Dst, j.And, j.Sub)
		}
		return a.CombineAndSub(j.Dst, j.And, j.Sub)
	default:
		return fmt.Errorf("aggregator: unsupported op %s", j.Op)
	}
}

// BatchOptions configures RunBatch.
type BatchOptions struct {
	// Concurrency bounds the number of jobs running at once.
	// If 0, the number of jobs is used.
	Concurrency int

	// Controller, if set, must grant a background slot to every job.
	Controller *resource.Controller
}

// RunBatch runs independent jobs concurrently, each with its own aggregator
// from pool. Jobs must not share destinations. The first error cancels the
// jobs that have not started yet and is returned.
func RunBatch(ctx context.Context, pool *Pool, jobs []Job, opts BatchOptions) error {
	g, ctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}

	for k, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if opts.Controller != nil {
				if err := opts.Controller.AcquireBackground(ctx); err != nil {
					return err
				}
				defer opts.Controller.ReleaseBackground()
			}

			a, err := pool.Get()
			if err != nil {
				return fmt.Errorf("job %d: %w", k, err)
			}
			defer pool.Put(a)

			if err := job.Run(a); err != nil {
				return fmt.Errorf("job %d: %w", k, err)
			}
			return nil
		})
	}
	return g.Wait()
}
