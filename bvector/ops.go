package bvector

import (
	"github.com/hupe1980/bitagg/internal/gap"
	"github.com/hupe1980/bitagg/internal/layout"
	"github.com/hupe1980/bitagg/internal/simd"
)

type bitOp uint8

const (
	opOr bitOp = iota
	opAnd
	opSub
	opXor
)

var gapOps = [...]gap.Op{
	opOr:  gap.OpOr,
	opAnd: gap.OpAnd,
	opSub: gap.OpSub,
	opXor: gap.OpXor,
}

// Or sets v to v | src.
func (v *BVector) Or(src *BVector) error { return v.combine(src, opOr) }

// And sets v to v & src.
func (v *BVector) And(src *BVector) error { return v.combine(src, opAnd) }

// Sub sets v to v &^ src.
func (v *BVector) Sub(src *BVector) error { return v.combine(src, opSub) }

// Xor sets v to v ^ src.
func (v *BVector) Xor(src *BVector) error { return v.combine(src, opXor) }

func (v *BVector) combine(src *BVector, op bitOp) error {
	if src == v {
		switch op {
		case opOr, opAnd:
			return nil
		default:
			v.Clear()
			return nil
		}
	}
	v.size = max(v.size, src.size)
	n := max(len(v.top), len(src.top))
	v.ReserveTop(n)
	for i := 0; i < n; i++ {
		as, bs := v.SubBlocks(i), src.SubBlocks(i)
		if as == nil && (bs == nil || op == opAnd || op == opSub) {
			continue
		}
		if bs == nil && op != opAnd {
			continue
		}
		for j := 0; j < layout.SubBlocks; j++ {
			a, b := v.Block(i, j), src.Block(i, j)
			if a.IsAbsent() && b.IsAbsent() {
				continue
			}
			r, err := v.combineBlock(a, b, op)
			if err != nil {
				return err
			}
			v.SetBlock(i, j, r)
		}
	}
	return nil
}

// combineBlock computes a op b. Dense storage of a may be reused for the result.
func (v *BVector) combineBlock(a, b Block, op bitOp) (Block, error) {
	switch op {
	case opOr:
		switch {
		case b.IsAbsent():
			return a, nil
		case a.IsAbsent():
			return v.cloneBlock(b)
		case a.kind == KindAllOnes || b.kind == KindAllOnes:
			return AllOnes(), nil
		}
	case opAnd:
		switch {
		case a.IsAbsent() || b.IsAbsent():
			return Absent(), nil
		case b.kind == KindAllOnes:
			return a, nil
		case a.kind == KindAllOnes:
			return v.cloneBlock(b)
		}
	case opSub:
		switch {
		case a.IsAbsent() || b.IsAbsent():
			return a, nil
		case b.kind == KindAllOnes:
			return Absent(), nil
		}
	case opXor:
		switch {
		case b.IsAbsent():
			return a, nil
		case a.IsAbsent():
			return v.cloneBlock(b)
		}
	}

	if a.kind != KindDense && b.kind != KindDense {
		r := gap.Merge(a.gapView(), b.gapView(), gapOps[op], nil)
		switch {
		case r.IsAllZero():
			return Absent(), nil
		case r.IsAllOnes():
			return AllOnes(), nil
		case r.Runs() <= gap.MaxLen:
			return Gap(r), nil
		}
		w, err := v.alloc.AllocDense()
		if err != nil {
			return Block{}, err
		}
		r.ToWords(w)
		return Dense(w), nil
	}

	w := a.words
	if a.kind != KindDense {
		var err error
		if w, err = v.alloc.AllocDense(); err != nil {
			return Block{}, err
		}
		switch a.kind {
		case KindAllOnes:
			*w = layout.AllOnesWords
		case KindGap:
			a.runs.ToWords(w)
		}
	}
	var tmp layout.Words
	src := b.wordsView(&tmp)
	switch op {
	case opOr:
		simd.OrWords(w[:], src[:])
	case opAnd:
		simd.AndWords(w[:], src[:])
	case opSub:
		simd.AndNotWords(w[:], src[:])
	case opXor:
		simd.XorWords(w[:], src[:])
	}
	if simd.IsAllZero(w[:]) {
		if w != a.words {
			v.alloc.FreeDense(w)
		}
		return Absent(), nil
	}
	return Dense(w), nil
}

// Copy makes v a deep copy of src, keeping v's allocator.
func (v *BVector) Copy(src *BVector) error {
	if src == v {
		return nil
	}
	v.Clear()
	v.size = src.size
	if !src.IsInit() {
		return nil
	}
	v.ReserveTop(len(src.top))
	var err error
	src.ForEachBlock(func(i, j int, b Block) bool {
		var c Block
		if c, err = v.cloneBlock(b); err != nil {
			return false
		}
		v.SetBlock(i, j, c)
		return true
	})
	return err
}

// Clone returns a deep copy of v sharing its allocator.
func (v *BVector) Clone() (*BVector, error) {
	c := New(WithAllocator(v.alloc))
	if err := c.Copy(v); err != nil {
		c.Clear()
		return nil, err
	}
	return c, nil
}

// Equal reports whether v and o hold the same set bits. Sizes and block
// representations are not compared.
func (v *BVector) Equal(o *BVector) bool {
	var ta, tb layout.Words
	n := max(len(v.top), len(o.top))
	for i := 0; i < n; i++ {
		if v.SubBlocks(i) == nil && o.SubBlocks(i) == nil {
			continue
		}
		for j := 0; j < layout.SubBlocks; j++ {
			a, b := v.Block(i, j), o.Block(i, j)
			if a.IsAbsent() && b.IsAbsent() {
				continue
			}
			if a.kind == KindAllOnes && b.kind == KindAllOnes {
				continue
			}
			if *a.wordsView(&ta) != *b.wordsView(&tb) {
				return false
			}
		}
	}
	return true
}
