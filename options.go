package bitagg

import (
	"log/slog"

	"github.com/hupe1980/bitagg/aggregator"
	"github.com/hupe1980/bitagg/blobstore"
	"github.com/hupe1980/bitagg/resource"
	"github.com/hupe1980/bitagg/serial"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	rc               *resource.Controller
	resourceConfig   *resource.Config
	store            blobstore.BlobStore
	cacheBytes       int64
	cacheBlockSize   int64
	compression      serial.Compression
	strategy         aggregator.Strategy
	batchConcurrency int
	loadConcurrency  int
	accounted        bool
}

// Option configures an Engine.
//
// Breaking changes are expected while bitagg is pre-release.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &bitagg.BasicMetricsCollector{}
//	eng, _ := bitagg.New(bitagg.WithMetricsCollector(metrics))
//	// ... use eng ...
//	stats := metrics.GetStats()
//	fmt.Printf("ORs: %d, Avg latency: %dns\n", stats.OrCount, stats.CombineAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := bitagg.NewJSONLogger(slog.LevelInfo)
//	eng, _ := bitagg.New(bitagg.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithResourceLimits creates a resource controller from cfg. Scratch arenas,
// batch concurrency and catalog IO are bounded by it.
func WithResourceLimits(cfg resource.Config) Option {
	return func(o *options) {
		o.resourceConfig = &cfg
	}
}

// WithResourceController shares an existing controller. It takes precedence
// over WithResourceLimits.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.rc = rc
	}
}

// WithAccountedBlocks charges the dense blocks of loaded and aggregated
// vectors to the resource controller, in addition to scratch arenas.
//
// Vectors created this way release their memory only when cleared.
func WithAccountedBlocks() Option {
	return func(o *options) {
		o.accounted = true
	}
}

// WithStore enables Save, Load, Delete, List and Aggregate over store.
func WithStore(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithCache puts an in-memory block cache of the given capacity in front of
// the store. blockSize is the cached read granularity; if 0, 64 KiB.
func WithCache(capacityBytes, blockSize int64) Option {
	return func(o *options) {
		o.cacheBytes = capacityBytes
		o.cacheBlockSize = blockSize
	}
}

// WithCompression sets the frame compression of saved vectors.
func WithCompression(c serial.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithStrategy selects the aggregation path of Or, And and AndSub.
// Defaults to aggregator.StrategyOptimized.
func WithStrategy(s aggregator.Strategy) Option {
	return func(o *options) {
		o.strategy = s
	}
}

// WithBatchConcurrency bounds the number of batch jobs running at once.
// If 0, all jobs of a batch may run concurrently, subject to the resource
// controller's background worker limit.
func WithBatchConcurrency(n int) Option {
	return func(o *options) {
		o.batchConcurrency = n
	}
}

// WithLoadConcurrency bounds the parallel loads of one stored aggregation.
func WithLoadConcurrency(n int) Option {
	return func(o *options) {
		o.loadConcurrency = n
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
