package bvector

import (
	"errors"

	"github.com/hupe1980/bitagg/internal/layout"
)

// ErrAllocation is returned when an Allocator refuses a dense block.
var ErrAllocation = errors.New("bvector: block allocation refused")

// Allocator provides dense block storage. AllocDense must return zeroed words.
type Allocator interface {
	AllocDense() (*layout.Words, error)
	FreeDense(w *layout.Words)
}

// HeapAllocator allocates dense blocks on the Go heap.
type HeapAllocator struct{}

// AllocDense implements Allocator.
func (HeapAllocator) AllocDense() (*layout.Words, error) {
	return new(layout.Words), nil
}

// FreeDense implements Allocator. The garbage collector reclaims the block.
func (HeapAllocator) FreeDense(*layout.Words) {}

// MemoryAcquirer is the subset of resource.Controller used for accounting.
type MemoryAcquirer interface {
	TryAcquireMemory(bytes int64) bool
	ReleaseMemory(bytes int64)
}

type accountedAllocator struct {
	m MemoryAcquirer
}

// NewAccountedAllocator returns an Allocator charging layout.BlockBytes to m
// for every live dense block. Allocation fails with ErrAllocation when m
// refuses the reservation.
//
// Blocks are only released through FreeDense, so vectors using this
// allocator should be cleared when no longer needed.
func NewAccountedAllocator(m MemoryAcquirer) Allocator {
	return &accountedAllocator{m: m}
}

func (a *accountedAllocator) AllocDense() (*layout.Words, error) {
	if !a.m.TryAcquireMemory(layout.BlockBytes) {
		return nil, ErrAllocation
	}
	return new(layout.Words), nil
}

func (a *accountedAllocator) FreeDense(w *layout.Words) {
	if w == nil {
		return
	}
	a.m.ReleaseMemory(layout.BlockBytes)
}
