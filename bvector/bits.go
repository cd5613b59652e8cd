package bvector

import (
	"fmt"
	"math/bits"

	"github.com/hupe1980/bitagg/internal/layout"
	"github.com/hupe1980/bitagg/internal/simd"
)

// Set sets bit idx, growing the size to idx+1 when needed.
func (v *BVector) Set(idx uint32) error {
	i, j, off := layout.Coord(idx)
	if !v.Block(i, j).Test(off) {
		w, err := v.writable(i, j)
		if err != nil {
			return err
		}
		w[off>>6] |= 1 << (off & 63)
	}
	if uint64(idx) >= v.size {
		v.size = uint64(idx) + 1
	}
	return nil
}

// Unset clears bit idx.
func (v *BVector) Unset(idx uint32) error {
	i, j, off := layout.Coord(idx)
	if !v.Block(i, j).Test(off) {
		return nil
	}
	w, err := v.writable(i, j)
	if err != nil {
		return err
	}
	w[off>>6] &^= 1 << (off & 63)
	return nil
}

// SetRange sets every bit in [from, to]. Fully covered blocks become AllOnes.
func (v *BVector) SetRange(from, to uint32) error {
	if from > to {
		return fmt.Errorf("%w: [%d, %d]", ErrRange, from, to)
	}
	err := v.walkRange(uint64(from), uint64(to), func(i, j int, lo, hi int) error {
		if lo == 0 && hi == layout.BlockMask {
			v.SetBlock(i, j, AllOnes())
			return nil
		}
		if v.Block(i, j).kind == KindAllOnes {
			return nil
		}
		w, err := v.writable(i, j)
		if err != nil {
			return err
		}
		simd.SetBitRange(w[:], lo, hi)
		return nil
	})
	if err != nil {
		return err
	}
	if uint64(to) >= v.size {
		v.size = uint64(to) + 1
	}
	return nil
}

func (v *BVector) clearRange(from, to uint64) error {
	return v.walkRange(from, to, func(i, j int, lo, hi int) error {
		b := v.Block(i, j)
		if b.IsAbsent() {
			return nil
		}
		if lo == 0 && hi == layout.BlockMask {
			v.SetBlock(i, j, Absent())
			return nil
		}
		w, err := v.writable(i, j)
		if err != nil {
			return err
		}
		simd.ClearBitRange(w[:], lo, hi)
		return nil
	})
}

// walkRange calls fn with the in-block bounds of every block overlapping
// the inclusive bit range [from, to].
func (v *BVector) walkRange(from, to uint64, fn func(i, j int, lo, hi int) error) error {
	for nb := from >> layout.BlockShift; nb <= to>>layout.BlockShift; nb++ {
		base := nb << layout.BlockShift
		lo := int(max(from, base) - base)
		hi := int(min(to, base+layout.BlockMask) - base)
		i, j := int(nb>>layout.SubShift), int(nb&(layout.SubBlocks-1))
		if err := fn(i, j, lo, hi); err != nil {
			return err
		}
	}
	return nil
}

// Test reports whether bit idx is set.
func (v *BVector) Test(idx uint32) bool {
	i, j, off := layout.Coord(idx)
	return v.Block(i, j).Test(off)
}

// Count returns the number of set bits.
func (v *BVector) Count() uint64 {
	var n uint64
	v.ForEachBlock(func(_, _ int, b Block) bool {
		n += uint64(b.Count())
		return true
	})
	return n
}

// Any reports whether at least one bit is set.
func (v *BVector) Any() bool {
	found := false
	v.ForEachBlock(func(_, _ int, b Block) bool {
		switch b.kind {
		case KindDense:
			found = !simd.IsAllZero(b.words[:])
		case KindGap:
			found = !b.runs.IsAllZero()
		default:
			found = true
		}
		return !found
	})
	return found
}

// Rank returns the number of set bits in [0, idx].
func (v *BVector) Rank(idx uint32) uint64 {
	ti, tj, off := layout.Coord(idx)
	var n uint64
	v.ForEachBlock(func(i, j int, b Block) bool {
		switch {
		case i < ti || (i == ti && j < tj):
			n += uint64(b.Count())
			return true
		case i == ti && j == tj:
			n += uint64(b.CountTo(off))
		}
		return false
	})
	return n
}

// Select returns the position of the set bit with zero-based rank n, that is
// the smallest p with Rank(p) == n+1. It reports false when fewer than n+1
// bits are set.
func (v *BVector) Select(n uint64) (uint32, bool) {
	var (
		pos   uint32
		found bool
	)
	v.ForEachBlock(func(i, j int, b Block) bool {
		c := uint64(b.Count())
		if n >= c {
			n -= c
			return true
		}
		base := uint32(layout.BlockBase(i, j))
		pos, found = base+uint32(selectInBlock(b, int(n))), true
		return false
	})
	return pos, found
}

func selectInBlock(b Block, n int) uint16 {
	switch b.kind {
	case KindAllOnes:
		return uint16(n)
	case KindGap:
		var pos uint16
		b.runs.ForEachRun(func(start, end uint16, set bool) bool {
			if !set {
				return true
			}
			l := int(end-start) + 1
			if n < l {
				pos = start + uint16(n)
				return false
			}
			n -= l
			return true
		})
		return pos
	default:
		for k, w := range b.words {
			c := bits.OnesCount64(w)
			if n >= c {
				n -= c
				continue
			}
			for ; n > 0; n-- {
				w &= w - 1
			}
			return uint16(k*64 + bits.TrailingZeros64(w))
		}
		return 0
	}
}

// ForEach calls fn for every set bit in ascending order until fn returns false.
func (v *BVector) ForEach(fn func(idx uint32) bool) {
	v.ForEachBlock(func(i, j int, b Block) bool {
		return forEachInBlock(b, uint32(layout.BlockBase(i, j)), fn)
	})
}

func forEachInBlock(b Block, base uint32, fn func(idx uint32) bool) bool {
	switch b.kind {
	case KindAllOnes:
		for off := uint32(0); off < layout.BlockBits; off++ {
			if !fn(base + off) {
				return false
			}
		}
	case KindGap:
		ok := true
		b.runs.ForEachRun(func(start, end uint16, set bool) bool {
			if !set {
				return true
			}
			for off := uint32(start); off <= uint32(end); off++ {
				if !fn(base + off) {
					ok = false
					return false
				}
			}
			return true
		})
		return ok
	case KindDense:
		for k, w := range b.words {
			for w != 0 {
				t := bits.TrailingZeros64(w)
				if !fn(base + uint32(k*64+t)) {
					return false
				}
				w &= w - 1
			}
		}
	}
	return true
}

// ToSlice returns the set bits in ascending order.
func (v *BVector) ToSlice() []uint32 {
	out := make([]uint32, 0, v.Count())
	v.ForEach(func(idx uint32) bool {
		out = append(out, idx)
		return true
	})
	return out
}

// FromSlice builds a bit-vector with the given bits set.
func FromSlice(idx []uint32, opts ...Option) (*BVector, error) {
	v := New(opts...)
	for _, x := range idx {
		if err := v.Set(x); err != nil {
			return nil, err
		}
	}
	return v, nil
}
