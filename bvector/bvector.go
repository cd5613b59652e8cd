package bvector

import (
	"errors"

	"github.com/hupe1980/bitagg/internal/layout"
)

// ErrRange is returned for inverted or out-of-space bit ranges.
var ErrRange = errors.New("bvector: invalid range")

// BVector is a block-compressed bit-vector.
type BVector struct {
	top   [][]Block
	size  uint64
	alloc Allocator
}

// Option configures a BVector.
type Option func(*BVector)

// WithSize sets the initial logical length in bits.
func WithSize(n uint64) Option {
	return func(v *BVector) {
		v.size = min(n, layout.MaxSize)
	}
}

// WithAllocator sets the dense block allocator. Defaults to HeapAllocator.
func WithAllocator(a Allocator) Option {
	return func(v *BVector) {
		if a != nil {
			v.alloc = a
		}
	}
}

// New creates an empty bit-vector.
func New(opts ...Option) *BVector {
	v := &BVector{alloc: HeapAllocator{}}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Size returns the logical length in bits.
func (v *BVector) Size() uint64 { return v.size }

// Allocator returns the dense block allocator.
func (v *BVector) Allocator() Allocator { return v.alloc }

// IsInit reports whether the block tree has been created.
func (v *BVector) IsInit() bool { return v.top != nil }

// InitTree creates an empty block tree.
func (v *BVector) InitTree() {
	if v.top == nil {
		v.top = make([][]Block, 0, 4)
	}
}

// TopBlocks returns the number of top-level entries in the block tree.
func (v *BVector) TopBlocks() int { return len(v.top) }

// ReserveTop grows the block tree to at least n top-level entries.
func (v *BVector) ReserveTop(n int) {
	n = min(n, layout.TopBlocks)
	v.InitTree()
	for len(v.top) < n {
		v.top = append(v.top, nil)
	}
}

// Block returns the block at coordinate (i, j). Out-of-tree coordinates are Absent.
func (v *BVector) Block(i, j int) Block {
	if i >= len(v.top) || v.top[i] == nil {
		return Block{}
	}
	return v.top[i][j]
}

// SubBlocks returns the block slots of top entry i, or nil when none exist.
// The slice must not be modified.
func (v *BVector) SubBlocks(i int) []Block {
	if i >= len(v.top) {
		return nil
	}
	return v.top[i]
}

// SetBlock stores b at (i, j), releasing the dense storage it replaces.
// The vector takes ownership of dense storage in b.
func (v *BVector) SetBlock(i, j int, b Block) {
	if b.IsAbsent() && (i >= len(v.top) || v.top[i] == nil) {
		return
	}
	v.ReserveTop(i + 1)
	if v.top[i] == nil {
		v.top[i] = make([]Block, layout.SubBlocks)
	}
	old := v.top[i][j]
	if old.kind == KindDense && old.words != b.words {
		v.alloc.FreeDense(old.words)
	}
	v.top[i][j] = b
}

// Clear releases every block. The size and the initialized tree are kept.
func (v *BVector) Clear() {
	for _, sub := range v.top {
		for _, b := range sub {
			if b.kind == KindDense {
				v.alloc.FreeDense(b.words)
			}
		}
	}
	clear(v.top)
	if v.top != nil {
		v.top = v.top[:0]
	}
}

// Resize sets the logical length. Shrinking clears the bits past the new end.
func (v *BVector) Resize(n uint64) error {
	n = min(n, layout.MaxSize)
	if n < v.size {
		if err := v.clearRange(n, v.size-1); err != nil {
			return err
		}
	}
	v.size = n
	return nil
}

// writable converts the block at (i, j) to dense storage and returns it.
func (v *BVector) writable(i, j int) (*layout.Words, error) {
	b := v.Block(i, j)
	if b.kind == KindDense {
		return b.words, nil
	}
	w, err := v.alloc.AllocDense()
	if err != nil {
		return nil, err
	}
	switch b.kind {
	case KindAllOnes:
		*w = layout.AllOnesWords
	case KindGap:
		b.runs.ToWords(w)
	}
	v.SetBlock(i, j, Dense(w))
	return w, nil
}

func (v *BVector) cloneBlock(b Block) (Block, error) {
	switch b.kind {
	case KindDense:
		w, err := v.alloc.AllocDense()
		if err != nil {
			return Block{}, err
		}
		*w = *b.words
		return Dense(w), nil
	case KindGap:
		return Gap(b.runs.Clone()), nil
	default:
		return b, nil
	}
}

// ForEachBlock calls fn for every non-absent block in coordinate order until
// fn returns false. fn must not modify v.
func (v *BVector) ForEachBlock(fn func(i, j int, b Block) bool) {
	for i, sub := range v.top {
		for j, b := range sub {
			if b.kind == KindAbsent {
				continue
			}
			if !fn(i, j, b) {
				return
			}
		}
	}
}
