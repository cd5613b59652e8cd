package sparse

import (
	"errors"
	"fmt"

	"github.com/hupe1980/bitagg/bvector"
)

// Compressed is a NULL-able sparse vector that stores only assigned values,
// densely by rank. Element idx lives at Rank(idx)-1 of the value planes.
type Compressed struct {
	null   *bvector.BVector
	values *Vector
	maxID  uint32
	alloc  bvector.Allocator
}

// NewCompressed creates an empty compressed vector.
func NewCompressed(opts ...Option) *Compressed {
	v := New(opts...)
	return &Compressed{
		null:   bvector.New(bvector.WithAllocator(v.alloc)),
		values: New(WithAllocator(v.alloc)),
		alloc:  v.alloc,
	}
}

// Size returns the number of assigned elements.
func (c *Compressed) Size() uint64 { return c.values.Size() }

// MaxID returns the highest assigned index. It is meaningless while Size is 0.
func (c *Compressed) MaxID() uint32 { return c.maxID }

// NullVector returns the bitmap of assigned indexes.
func (c *Compressed) NullVector() *bvector.BVector { return c.null }

// PushBack assigns val at idx. Indexes must be strictly ascending.
func (c *Compressed) PushBack(idx uint32, val uint32) error {
	if c.Size() > 0 && idx <= c.maxID {
		return fmt.Errorf("%w: index %d not above %d", ErrRange, idx, c.maxID)
	}
	if err := c.null.Set(idx); err != nil {
		return err
	}
	if err := c.values.PushBack(val); err != nil {
		return errors.Join(err, c.null.Unset(idx))
	}
	c.maxID = idx
	return nil
}

// Get returns the value at idx. The boolean is false for NULL elements.
func (c *Compressed) Get(idx uint32) (uint32, bool) {
	if !c.null.Test(idx) {
		return 0, false
	}
	return c.values.Get(uint32(c.null.Rank(idx) - 1))
}

// LoadFrom replaces the content of c with the assigned elements of sv.
func (c *Compressed) LoadFrom(sv *Vector) error {
	var rc RankCompressor

	c.null.Clear()
	c.values.Clear()
	c.maxID = 0

	if sv.IsNullable() {
		if err := c.null.Copy(sv.NullVector()); err != nil {
			return err
		}
	} else if sv.Size() > 0 {
		if err := c.null.SetRange(0, uint32(sv.Size()-1)); err != nil {
			return err
		}
	}

	for k := 0; k < Planes; k++ {
		p := sv.Plane(k)
		if p == nil {
			continue
		}
		if err := rc.Compress(c.values.plane(k), c.null, p); err != nil {
			return err
		}
	}

	n := c.null.Count()
	c.values.size = n
	if n > 0 {
		last, _ := c.null.Select(n - 1)
		c.maxID = last
	}
	c.values.Optimize()
	return nil
}

// Expand writes every assigned element of c into the nullable vector dst.
func (c *Compressed) Expand(dst *Vector) error {
	if !dst.IsNullable() {
		return ErrNotNullable
	}
	var rc RankCompressor

	dst.Clear()
	if err := dst.null.Copy(c.null); err != nil {
		return err
	}
	for k := 0; k < Planes; k++ {
		p := c.values.Plane(k)
		if p == nil {
			continue
		}
		if err := rc.Decompress(dst.plane(k), c.null, p); err != nil {
			return err
		}
	}
	if c.Size() > 0 {
		dst.size = uint64(c.maxID) + 1
	}
	return nil
}

// Equal reports whether c and o hold the same elements.
func (c *Compressed) Equal(o *Compressed) bool {
	if c == o {
		return true
	}
	return c.maxID == o.maxID && c.null.Equal(o.null) && c.values.Equal(o.values)
}
