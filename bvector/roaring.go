package bvector

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/bitagg/internal/layout"
)

// ToRoaring converts v into a roaring bitmap.
func (v *BVector) ToRoaring() *roaring.Bitmap {
	rb := roaring.New()
	buf := make([]uint32, 0, 1024)
	v.ForEachBlock(func(i, j int, b Block) bool {
		base := layout.BlockBase(i, j)
		switch b.kind {
		case KindAllOnes:
			rb.AddRange(base, base+layout.BlockBits)
		case KindGap:
			b.runs.ForEachRun(func(start, end uint16, set bool) bool {
				if set {
					rb.AddRange(base+uint64(start), base+uint64(end)+1)
				}
				return true
			})
		case KindDense:
			buf = buf[:0]
			forEachInBlock(b, uint32(base), func(idx uint32) bool {
				buf = append(buf, idx)
				return true
			})
			rb.AddMany(buf)
		}
		return true
	})
	return rb
}

// FromRoaring builds a bit-vector holding the bits of rb. The size is one
// past the largest set bit unless WithSize asks for more.
func FromRoaring(rb *roaring.Bitmap, opts ...Option) (*BVector, error) {
	v := New(opts...)
	it := rb.Iterator()
	for it.HasNext() {
		if err := v.Set(it.Next()); err != nil {
			v.Clear()
			return nil, err
		}
	}
	return v, nil
}
