package bitagg

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/bitagg/aggregator"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    combineCounter   *prometheus.CounterVec
//	    combineHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordCombine(op aggregator.Op, operands int, duration time.Duration, err error) {
//	    p.combineCounter.WithLabelValues(op.String()).Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordCombine is called after each aggregator call, including the
	// calls made by batches and stored-vector aggregations.
	RecordCombine(op aggregator.Op, operands int, duration time.Duration, err error)

	// RecordBlocks reports the per-coordinate outcomes of an optimized call.
	RecordBlocks(op aggregator.Op, allOnes, empty, partial int)

	// RecordBatch is called after each batch. jobs is the number of jobs
	// submitted.
	RecordBatch(jobs int, duration time.Duration, err error)

	// RecordSave is called after a named vector is written.
	RecordSave(duration time.Duration, err error)

	// RecordLoad is called after a named vector is read.
	RecordLoad(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCombine(aggregator.Op, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordBlocks(aggregator.Op, int, int, int)              {}
func (NoopMetricsCollector) RecordBatch(int, time.Duration, error)                  {}
func (NoopMetricsCollector) RecordSave(time.Duration, error)                        {}
func (NoopMetricsCollector) RecordLoad(time.Duration, error)                        {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	OrCount           atomic.Int64
	AndCount          atomic.Int64
	AndSubCount       atomic.Int64
	CombineErrors     atomic.Int64
	CombineTotalNanos atomic.Int64
	BlocksAllOnes     atomic.Int64
	BlocksEmpty       atomic.Int64
	BlocksPartial     atomic.Int64
	BatchCount        atomic.Int64
	BatchJobs         atomic.Int64
	BatchErrors       atomic.Int64
	SaveCount         atomic.Int64
	SaveErrors        atomic.Int64
	LoadCount         atomic.Int64
	LoadErrors        atomic.Int64
}

// RecordCombine implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCombine(op aggregator.Op, operands int, duration time.Duration, err error) {
	switch op {
	case aggregator.OpOr:
		b.OrCount.Add(1)
	case aggregator.OpAnd:
		b.AndCount.Add(1)
	case aggregator.OpAndSub:
		b.AndSubCount.Add(1)
	}
	b.CombineTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.CombineErrors.Add(1)
	}
}

// RecordBlocks implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBlocks(op aggregator.Op, allOnes, empty, partial int) {
	b.BlocksAllOnes.Add(int64(allOnes))
	b.BlocksEmpty.Add(int64(empty))
	b.BlocksPartial.Add(int64(partial))
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(jobs int, duration time.Duration, err error) {
	b.BatchCount.Add(1)
	b.BatchJobs.Add(int64(jobs))
	if err != nil {
		b.BatchErrors.Add(1)
	}
}

// RecordSave implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSave(duration time.Duration, err error) {
	b.SaveCount.Add(1)
	if err != nil {
		b.SaveErrors.Add(1)
	}
}

// RecordLoad implements MetricsCollector.
func (b *BasicMetricsCollector) RecordLoad(duration time.Duration, err error) {
	b.LoadCount.Add(1)
	if err != nil {
		b.LoadErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		OrCount:         b.OrCount.Load(),
		AndCount:        b.AndCount.Load(),
		AndSubCount:     b.AndSubCount.Load(),
		CombineErrors:   b.CombineErrors.Load(),
		CombineAvgNanos: b.getAvgCombineNanos(),
		BlocksAllOnes:   b.BlocksAllOnes.Load(),
		BlocksEmpty:     b.BlocksEmpty.Load(),
		BlocksPartial:   b.BlocksPartial.Load(),
		BatchCount:      b.BatchCount.Load(),
		BatchJobs:       b.BatchJobs.Load(),
		BatchErrors:     b.BatchErrors.Load(),
		SaveCount:       b.SaveCount.Load(),
		SaveErrors:      b.SaveErrors.Load(),
		LoadCount:       b.LoadCount.Load(),
		LoadErrors:      b.LoadErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgCombineNanos() int64 {
	count := b.OrCount.Load() + b.AndCount.Load() + b.AndSubCount.Load()
	if count == 0 {
		return 0
	}
	return b.CombineTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	OrCount         int64
	AndCount        int64
	AndSubCount     int64
	CombineErrors   int64
	CombineAvgNanos int64
	BlocksAllOnes   int64
	BlocksEmpty     int64
	BlocksPartial   int64
	BatchCount      int64
	BatchJobs       int64
	BatchErrors     int64
	SaveCount       int64
	SaveErrors      int64
	LoadCount       int64
	LoadErrors      int64
}

// observer feeds aggregator events into a MetricsCollector.
type observer struct {
	mc MetricsCollector
}

func (o observer) OnCombine(op aggregator.Op, operands int, duration time.Duration, err error) {
	o.mc.RecordCombine(op, operands, duration, err)
}

func (o observer) OnBlocks(op aggregator.Op, allOnes, empty, partial int) {
	o.mc.RecordBlocks(op, allOnes, empty, partial)
}
