package aggregator

import "time"

// MetricsObserver receives aggregation events.
type MetricsObserver interface {
	// OnCombine is called when a combine call returns.
	OnCombine(op Op, operands int, duration time.Duration, err error)

	// OnBlocks reports the per-coordinate outcomes of an optimized call.
	OnBlocks(op Op, allOnes, empty, partial int)
}

// NoopMetricsObserver is a no-op implementation of MetricsObserver.
type NoopMetricsObserver struct{}

func (NoopMetricsObserver) OnCombine(op Op, operands int, duration time.Duration, err error) {}
func (NoopMetricsObserver) OnBlocks(op Op, allOnes, empty, partial int)                     {}
