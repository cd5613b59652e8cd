package bitagg

import (
	"errors"
	"fmt"

	"github.com/hupe1980/bitagg/aggregator"
	"github.com/hupe1980/bitagg/blobstore"
	"github.com/hupe1980/bitagg/bvector"
	"github.com/hupe1980/bitagg/catalog"
	"github.com/hupe1980/bitagg/resource"
)

var (
	// ErrClosed is returned when the engine is used after Close.
	ErrClosed = errors.New("bitagg: engine closed")

	// ErrNoStore is returned by persistence calls on an engine without a store.
	ErrNoStore = errors.New("bitagg: no blob store configured")

	// ErrNotFound is returned for names without a saved vector.
	ErrNotFound = errors.New("bitagg: not found")

	// ErrInvalidName is returned for vector names the catalog rejects.
	ErrInvalidName = catalog.ErrInvalidName

	// ErrAllocation is returned when scratch or block memory cannot be reserved.
	ErrAllocation = aggregator.ErrAllocation

	// ErrRange is returned when an operand group exceeds aggregator.MaxOperands.
	ErrRange = aggregator.ErrRange

	// ErrNilVector is returned for a nil destination or operand.
	ErrNilVector = aggregator.ErrNilVector

	// ErrAliasedTarget is returned when the destination is also an operand.
	ErrAliasedTarget = aggregator.ErrAliasedTarget

	// ErrInvalidJob is returned for a batch job whose operands do not fit its Op.
	ErrInvalidJob = aggregator.ErrInvalidJob
)

// ErrTooManyOperands indicates an operand group larger than the aggregator
// accepts.
//
// It matches ErrRange with errors.Is.
type ErrTooManyOperands struct {
	Op    aggregator.Op
	Count int
	Max   int
}

func (e *ErrTooManyOperands) Error() string {
	return fmt.Sprintf("%s: %d operands exceed the limit of %d", e.Op, e.Count, e.Max)
}

func (e *ErrTooManyOperands) Unwrap() error { return ErrRange }

func checkOperands(op aggregator.Op, groups ...[]*bvector.BVector) error {
	for _, g := range groups {
		if len(g) > aggregator.MaxOperands {
			return &ErrTooManyOperands{Op: op, Count: len(g), Max: aggregator.MaxOperands}
		}
	}
	return nil
}

func translateError(err error) error {
	if err == nil {
		return nil
	}

	// Not found unification.
	if errors.Is(err, catalog.ErrNotFound) || errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	// Memory refusals from the controller or an accounted allocator.
	if errors.Is(err, resource.ErrMemoryLimitExceeded) || errors.Is(err, bvector.ErrAllocation) {
		if !errors.Is(err, ErrAllocation) {
			return fmt.Errorf("%w: %w", ErrAllocation, err)
		}
	}

	return err
}
