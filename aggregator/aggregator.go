package aggregator

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/hupe1980/bitagg/bvector"
	"github.com/hupe1980/bitagg/resource"
)

// MaxOperands is the largest operand group accepted by the optimized path.
const MaxOperands = 256

var (
	// ErrAllocation is returned when scratch or result memory cannot be reserved.
	ErrAllocation = errors.New("aggregator: allocation failed")

	// ErrRange is returned when an operand group exceeds MaxOperands.
	ErrRange = errors.New("aggregator: too many operands")

	// ErrNilVector is returned for a nil destination or operand.
	ErrNilVector = errors.New("aggregator: nil bit-vector")

	// ErrAliasedTarget is returned when the destination is also an operand.
	ErrAliasedTarget = errors.New("aggregator: destination is also an operand")

	// ErrClosed is returned when the aggregator is used after Close.
	ErrClosed = errors.New("aggregator: closed")

	// ErrInvalidJob is returned for a Job whose operands do not fit its Op.
	ErrInvalidJob = errors.New("aggregator: invalid job")
)

// Op identifies an aggregation operation.
type Op uint8

const (
	OpOr Op = iota
	OpAnd
	OpAndSub
)

func (o Op) String() string {
	switch o {
	case OpOr:
		return "or"
	case OpAnd:
		return "and"
	case OpAndSub:
		return "and-sub"
	default:
		return fmt.Sprintf("op(%d)", uint8(o))
	}
}

// ParseOp parses the String form of an Op.
func ParseOp(s string) (Op, error) {
	switch s {
	case "or":
		return OpOr, nil
	case "and":
		return OpAnd, nil
	case "and-sub", "andsub":
		return OpAndSub, nil
	default:
		return 0, fmt.Errorf("aggregator: unknown op %q", s)
	}
}

// noCopy may be embedded into structs which must not be copied after first
// use. See https://golang.org/issues/8005#issuecomment-190753527.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Stats counts per-coordinate outcomes since the aggregator was created.
type Stats struct {
	Calls   uint64
	AllOnes uint64
	Empty   uint64
	Partial uint64
}

// Aggregator computes multi-operand aggregations. It must not be copied and
// is not safe for concurrent use.
type Aggregator struct {
	noCopy noCopy

	ar       *arena
	reserved int64
	rc       *resource.Controller
	logger   *slog.Logger
	metrics  MetricsObserver
	stats    Stats
	closed   bool

	cleanup    runtime.Cleanup
	hasCleanup bool
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger for the aggregator.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithResourceController charges the scratch arena to rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(a *Aggregator) {
		a.rc = rc
	}
}

// WithMetricsObserver sets the metrics observer for the aggregator.
func WithMetricsObserver(m MetricsObserver) Option {
	return func(a *Aggregator) {
		if m != nil {
			a.metrics = m
		}
	}
}

// New creates an aggregator and its scratch arena.
func New(opts ...Option) (*Aggregator, error) {
	a := &Aggregator{
		logger:  slog.New(slog.DiscardHandler),
		metrics: NoopMetricsObserver{},
	}
	for _, opt := range opts {
		opt(a)
	}

	n := arenaBytes()
	if !a.rc.TryAcquireMemory(n) {
		return nil, fmt.Errorf("%w: arena of %d bytes exceeds memory limit", ErrAllocation, n)
	}
	ar, err := newArena()
	if err != nil {
		a.rc.ReleaseMemory(n)
		return nil, fmt.Errorf("%w: %w", ErrAllocation, err)
	}
	a.ar = ar
	a.reserved = n
	if a.rc != nil {
		// Aggregators dropped by a Pool are never closed.
		a.cleanup = runtime.AddCleanup(a, a.rc.ReleaseMemory, n)
		a.hasCleanup = true
	}
	return a, nil
}

// Close releases the scratch arena. Further calls return ErrClosed.
func (a *Aggregator) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.ar = nil
	if a.hasCleanup {
		a.cleanup.Stop()
	}
	a.rc.ReleaseMemory(a.reserved)
	a.reserved = 0
	return nil
}

// Stats returns the outcome counters.
func (a *Aggregator) Stats() Stats {
	return a.stats
}

func (a *Aggregator) checkArgs(op Op, dst *bvector.BVector, limit int, groups ...[]*bvector.BVector) error {
	if a.closed {
		return ErrClosed
	}
	if dst == nil {
		return fmt.Errorf("%s: destination: %w", op, ErrNilVector)
	}
	for _, g := range groups {
		if limit > 0 && len(g) > limit {
			return fmt.Errorf("%s: %d operands (max %d): %w", op, len(g), limit, ErrRange)
		}
		for k, v := range g {
			if v == nil {
				return fmt.Errorf("%s: operand %d: %w", op, k, ErrNilVector)
			}
			if v == dst {
				return fmt.Errorf("%s: operand %d: %w", op, k, ErrAliasedTarget)
			}
		}
	}
	return nil
}
