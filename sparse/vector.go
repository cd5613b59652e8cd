package sparse

import (
	"errors"
	"fmt"

	"github.com/hupe1980/bitagg/bvector"
	"github.com/hupe1980/bitagg/internal/layout"
)

// Planes is the number of bit-planes of a uint32 vector.
const Planes = 32

var (
	// ErrRange is returned for out-of-order or out-of-space indexes.
	ErrRange = errors.New("sparse: index out of range")

	// ErrNotNullable is returned for NULL operations on a vector created without WithNulls.
	ErrNotNullable = errors.New("sparse: vector is not nullable")
)

// Vector is a sparse vector of uint32 values.
type Vector struct {
	planes [Planes]*bvector.BVector
	null   *bvector.BVector
	size   uint64
	alloc  bvector.Allocator
}

// Option configures a Vector.
type Option func(*Vector)

// WithNulls makes unassigned elements NULL instead of zero.
func WithNulls() Option {
	return func(v *Vector) {
		v.null = bvector.New(bvector.WithAllocator(v.alloc))
	}
}

// WithAllocator sets the allocator of the plane bit-vectors.
func WithAllocator(a bvector.Allocator) Option {
	return func(v *Vector) {
		if a == nil {
			return
		}
		v.alloc = a
		if v.null != nil {
			v.null = bvector.New(bvector.WithAllocator(a))
		}
	}
}

// New creates an empty vector.
func New(opts ...Option) *Vector {
	v := &Vector{alloc: bvector.HeapAllocator{}}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Size returns the number of elements, NULL ones included.
func (v *Vector) Size() uint64 { return v.size }

// IsNullable reports whether the vector tracks NULL elements.
func (v *Vector) IsNullable() bool { return v.null != nil }

// NullVector returns the bitmap of assigned elements, or nil if the vector
// is not nullable.
func (v *Vector) NullVector() *bvector.BVector { return v.null }

// Plane returns bit-plane k, or nil if no element has bit k set yet.
func (v *Vector) Plane(k int) *bvector.BVector { return v.planes[k] }

// EffectivePlanes returns one past the highest allocated plane.
func (v *Vector) EffectivePlanes() int {
	for k := Planes - 1; k >= 0; k-- {
		if v.planes[k] != nil {
			return k + 1
		}
	}
	return 0
}

func (v *Vector) plane(k int) *bvector.BVector {
	if v.planes[k] == nil {
		v.planes[k] = bvector.New(bvector.WithAllocator(v.alloc))
	}
	return v.planes[k]
}

// Set assigns element idx, growing the vector when needed.
func (v *Vector) Set(idx uint32, val uint32) error {
	for k := 0; k < Planes; k++ {
		if val&(1<<k) != 0 {
			if err := v.plane(k).Set(idx); err != nil {
				return err
			}
		} else if p := v.planes[k]; p != nil {
			if err := p.Unset(idx); err != nil {
				return err
			}
		}
	}
	if v.null != nil {
		if err := v.null.Set(idx); err != nil {
			return err
		}
	}
	v.size = max(v.size, uint64(idx)+1)
	return nil
}

// SetNull makes element idx NULL.
func (v *Vector) SetNull(idx uint32) error {
	if v.null == nil {
		return ErrNotNullable
	}
	for _, p := range v.planes {
		if p != nil {
			if err := p.Unset(idx); err != nil {
				return err
			}
		}
	}
	if err := v.null.Unset(idx); err != nil {
		return err
	}
	v.size = max(v.size, uint64(idx)+1)
	return nil
}

// PushBack appends val.
func (v *Vector) PushBack(val uint32) error {
	if v.size >= layout.MaxSize {
		return fmt.Errorf("%w: vector is full", ErrRange)
	}
	return v.Set(uint32(v.size), val)
}

// PushBackNull appends a NULL element.
func (v *Vector) PushBackNull() error {
	if v.null == nil {
		return ErrNotNullable
	}
	if v.size >= layout.MaxSize {
		return fmt.Errorf("%w: vector is full", ErrRange)
	}
	v.size++
	return nil
}

// Get returns element idx. The boolean is false for NULL or out-of-range elements.
func (v *Vector) Get(idx uint32) (uint32, bool) {
	if uint64(idx) >= v.size {
		return 0, false
	}
	if v.null != nil && !v.null.Test(idx) {
		return 0, false
	}
	var val uint32
	for k, p := range v.planes {
		if p != nil && p.Test(idx) {
			val |= 1 << k
		}
	}
	return val, true
}

// Optimize compacts every plane and the NULL bitmap.
func (v *Vector) Optimize() {
	for _, p := range v.planes {
		if p != nil {
			p.Optimize()
		}
	}
	if v.null != nil {
		v.null.Optimize()
	}
}

// Clear removes all elements and releases plane storage.
func (v *Vector) Clear() {
	for k, p := range v.planes {
		if p != nil {
			p.Clear()
			v.planes[k] = nil
		}
	}
	if v.null != nil {
		v.null.Clear()
	}
	v.size = 0
}

// Equal reports whether v and o hold the same elements.
func (v *Vector) Equal(o *Vector) bool {
	if v == o {
		return true
	}
	if v.size != o.size || v.IsNullable() != o.IsNullable() {
		return false
	}
	if v.null != nil && !v.null.Equal(o.null) {
		return false
	}
	for k := range v.planes {
		if !planeEqual(v.planes[k], o.planes[k]) {
			return false
		}
	}
	return true
}

func planeEqual(a, b *bvector.BVector) bool {
	switch {
	case a == nil && b == nil:
		return true
	case a == nil:
		return !b.Any()
	case b == nil:
		return !a.Any()
	default:
		return a.Equal(b)
	}
}
