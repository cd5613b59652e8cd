package bitagg

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hupe1980/bitagg/aggregator"
	"github.com/hupe1980/bitagg/blobstore"
	"github.com/hupe1980/bitagg/bvector"
	"github.com/hupe1980/bitagg/catalog"
	"github.com/hupe1980/bitagg/internal/cache"
	"github.com/hupe1980/bitagg/resource"
	"github.com/hupe1980/bitagg/sparse"
)

// Engine runs aggregations over bit-vectors with pooled aggregators and,
// when configured with a store, persists named vectors.
//
// An Engine is safe for concurrent use. The vectors passed to one call must
// not be modified concurrently.
type Engine struct {
	pool             *aggregator.Pool
	rc               *resource.Controller
	alloc            bvector.Allocator
	logger           *Logger
	metrics          MetricsCollector
	strategy         aggregator.Strategy
	batchConcurrency int

	catalog *catalog.Catalog
	cache   cache.BlockCache

	closed atomic.Bool
}

// New creates an Engine.
func New(optFns ...Option) (*Engine, error) {
	o := applyOptions(optFns)

	rc := o.rc
	if rc == nil && o.resourceConfig != nil {
		rc = resource.NewController(*o.resourceConfig)
	}

	e := &Engine{
		rc:               rc,
		logger:           o.logger,
		metrics:          o.metricsCollector,
		strategy:         o.strategy,
		batchConcurrency: o.batchConcurrency,
	}
	if o.accounted && rc != nil {
		e.alloc = bvector.NewAccountedAllocator(rc)
	}
	e.pool = aggregator.NewPool(
		aggregator.WithLogger(o.logger.Logger),
		aggregator.WithResourceController(rc),
		aggregator.WithMetricsObserver(observer{mc: o.metricsCollector}),
	)

	// Fail early when the controller cannot fit a single arena.
	a, err := e.pool.Get()
	if err != nil {
		return nil, translateError(err)
	}
	e.pool.Put(a)

	if o.store != nil {
		store := o.store
		if o.cacheBytes > 0 {
			e.cache = cache.NewShardedLRUBlockCache(o.cacheBytes, rc)
			store = blobstore.NewCachingStore(store, e.cache, o.cacheBlockSize)
		}
		e.catalog = catalog.New(store,
			catalog.WithResourceController(rc),
			catalog.WithLogger(o.logger.Logger),
			catalog.WithCompression(o.compression),
			catalog.WithAllocator(e.alloc),
			catalog.WithAggregatorPool(e.pool),
			catalog.WithLoadConcurrency(o.loadConcurrency),
		)
	}

	o.logger.Debug("engine created",
		"store", o.store != nil,
		"cache_bytes", o.cacheBytes,
		"strategy", o.strategy.String(),
	)
	return e, nil
}

// NewVector creates an empty bit-vector using the engine's block allocator.
func (e *Engine) NewVector(opts ...bvector.Option) *bvector.BVector {
	if e.alloc != nil {
		opts = append([]bvector.Option{bvector.WithAllocator(e.alloc)}, opts...)
	}
	return bvector.New(opts...)
}

// ResourceController returns the engine's controller, nil when unlimited.
func (e *Engine) ResourceController() *resource.Controller {
	return e.rc
}

// Or sets dst to the union of srcs.
func (e *Engine) Or(ctx context.Context, dst *bvector.BVector, srcs ...*bvector.BVector) error {
	return e.run(ctx, aggregator.Job{Op: aggregator.OpOr, Dst: dst, And: srcs, Strategy: e.strategy})
}

// And sets dst to the intersection of srcs.
func (e *Engine) And(ctx context.Context, dst *bvector.BVector, srcs ...*bvector.BVector) error {
	return e.run(ctx, aggregator.Job{Op: aggregator.OpAnd, Dst: dst, And: srcs, Strategy: e.strategy})
}

// AndSub sets dst to the intersection of and minus the union of sub.
func (e *Engine) AndSub(ctx context.Context, dst *bvector.BVector, and, sub []*bvector.BVector) error {
	return e.run(ctx, aggregator.Job{Op: aggregator.OpAndSub, Dst: dst, And: and, Sub: sub, Strategy: e.strategy})
}

func (e *Engine) run(ctx context.Context, job aggregator.Job) (err error) {
	if e.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	defer func() {
		e.logger.LogCombine(ctx, job.Op, len(job.And)+len(job.Sub), err)
	}()

	if job.Strategy == aggregator.StrategyOptimized {
		if err := checkOperands(job.Op, job.And, job.Sub); err != nil {
			return err
		}
	}
	a, err := e.pool.Get()
	if err != nil {
		return translateError(err)
	}
	defer e.pool.Put(a)
	return translateError(job.Run(a))
}

// Batch runs independent jobs concurrently. Jobs must not share
// destinations. The first error cancels the jobs not yet started.
func (e *Engine) Batch(ctx context.Context, jobs []aggregator.Job) (err error) {
	if e.closed.Load() {
		return ErrClosed
	}
	start := time.Now()
	defer func() {
		e.metrics.RecordBatch(len(jobs), time.Since(start), err)
		e.logger.LogBatch(ctx, len(jobs), err)
	}()

	for _, job := range jobs {
		if job.Strategy == aggregator.StrategyOptimized {
			if err := checkOperands(job.Op, job.And, job.Sub); err != nil {
				return err
			}
		}
	}
	err = aggregator.RunBatch(ctx, e.pool, jobs, aggregator.BatchOptions{
		Concurrency: e.batchConcurrency,
		Controller:  e.rc,
	})
	return translateError(err)
}

// FindEq sets dst to the positions of sv holding val.
func (e *Engine) FindEq(ctx context.Context, sv *sparse.Vector, val uint32, dst *bvector.BVector) error {
	if e.closed.Load() {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	a, err := e.pool.Get()
	if err != nil {
		return translateError(err)
	}
	defer e.pool.Put(a)
	return translateError(sparse.NewScanner(a).FindEq(sv, val, dst))
}

func (e *Engine) store() (*catalog.Catalog, error) {
	if e.closed.Load() {
		return nil, ErrClosed
	}
	if e.catalog == nil {
		return nil, ErrNoStore
	}
	return e.catalog, nil
}

// Save stores v under name, replacing any previous vector.
func (e *Engine) Save(ctx context.Context, name string, v *bvector.BVector) (err error) {
	c, err := e.store()
	if err != nil {
		return err
	}
	start := time.Now()
	defer func() {
		e.metrics.RecordSave(time.Since(start), err)
	}()
	err = translateError(c.Save(ctx, name, v))
	var count uint64
	if err == nil {
		count = v.Count()
	}
	e.logger.LogSave(ctx, name, count, err)
	return err
}

// Load reads the vector stored under name. It returns an error matching
// ErrNotFound for unknown names.
func (e *Engine) Load(ctx context.Context, name string) (v *bvector.BVector, err error) {
	c, err := e.store()
	if err != nil {
		return nil, err
	}
	start := time.Now()
	defer func() {
		e.metrics.RecordLoad(time.Since(start), err)
		e.logger.LogLoad(ctx, name, err)
	}()
	v, err = c.Load(ctx, name)
	return v, translateError(err)
}

// Delete removes the vector stored under name. Unknown names are ignored.
func (e *Engine) Delete(ctx context.Context, name string) (err error) {
	c, err := e.store()
	if err != nil {
		return err
	}
	defer func() {
		e.logger.LogDelete(ctx, name, err)
	}()
	return translateError(c.Delete(ctx, name))
}

// List returns the sorted names of stored vectors.
func (e *Engine) List(ctx context.Context) ([]string, error) {
	c, err := e.store()
	if err != nil {
		return nil, err
	}
	names, err := c.List(ctx)
	return names, translateError(err)
}

// Aggregate combines the stored vectors named srcs with op and saves the
// result under dst. OpAndSub treats every source as part of the AND group;
// use AggregateAndSub for a subtracted group.
func (e *Engine) Aggregate(ctx context.Context, op aggregator.Op, dst string, srcs ...string) (err error) {
	c, err := e.store()
	if err != nil {
		return err
	}
	defer func() {
		e.logger.LogAggregate(ctx, op, dst, len(srcs), err)
	}()
	if len(srcs) > aggregator.MaxOperands {
		return &ErrTooManyOperands{Op: op, Count: len(srcs), Max: aggregator.MaxOperands}
	}
	return translateError(c.Aggregate(ctx, op, dst, srcs))
}

// AggregateAndSub saves under dst the intersection of the stored vectors
// named and minus the union of those named sub.
func (e *Engine) AggregateAndSub(ctx context.Context, dst string, and, sub []string) (err error) {
	c, err := e.store()
	if err != nil {
		return err
	}
	defer func() {
		e.logger.LogAggregate(ctx, aggregator.OpAndSub, dst, len(and)+len(sub), err)
	}()
	for _, g := range [][]string{and, sub} {
		if len(g) > aggregator.MaxOperands {
			return &ErrTooManyOperands{Op: aggregator.OpAndSub, Count: len(g), Max: aggregator.MaxOperands}
		}
	}
	return translateError(c.AggregateAndSub(ctx, dst, and, sub))
}

// CacheStats returns the hit and miss counts of the block cache, zero when
// WithCache is not set.
func (e *Engine) CacheStats() (hits, misses int64) {
	if e.cache == nil {
		return 0, 0
	}
	return e.cache.Stats()
}
