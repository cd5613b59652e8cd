package aggregator

import (
	"fmt"
	"time"

	"github.com/hupe1980/bitagg/bvector"
	"github.com/hupe1980/bitagg/internal/digest"
	"github.com/hupe1980/bitagg/internal/simd"
)

// blockCounts tallies coordinate outcomes of one call.
type blockCounts struct {
	allOnes, empty, partial int
}

// CombineOr sets dst to the union of src. An empty src clears dst.
func (a *Aggregator) CombineOr(dst *bvector.BVector, src []*bvector.BVector) (err error) {
	if err := a.checkArgs(OpOr, dst, MaxOperands, src); err != nil {
		return err
	}
	defer a.observe(OpOr, len(src), time.Now(), &err)

	if len(src) == 0 {
		dst.Clear()
		return nil
	}

	var bc blockCounts
	top := resizeTarget(dst, src, true)
	for i := 0; i < top; i++ {
		width := effectiveSubBlocks(i, src)
		for j := 0; j < width; j++ {
			if err := a.combineOrAt(dst, src, i, j, &bc); err != nil {
				return fmt.Errorf("%s: block %d/%d: %w", OpOr, i, j, err)
			}
		}
	}
	a.finish(OpOr, bc)
	return nil
}

// CombineAnd sets dst to the intersection of src. An empty src clears dst.
func (a *Aggregator) CombineAnd(dst *bvector.BVector, src []*bvector.BVector) (err error) {
	if err := a.checkArgs(OpAnd, dst, MaxOperands, src); err != nil {
		return err
	}
	defer a.observe(OpAnd, len(src), time.Now(), &err)

	if len(src) == 0 {
		dst.Clear()
		return nil
	}

	var bc blockCounts
	top := resizeTarget(dst, src, true)
	for i := 0; i < top; i++ {
		width := effectiveSubBlocks(i, src)
		for j := 0; j < width; j++ {
			if err := a.combineAndSubAt(dst, src, nil, i, j, &bc); err != nil {
				return fmt.Errorf("%s: block %d/%d: %w", OpAnd, i, j, err)
			}
		}
	}
	a.finish(OpAnd, bc)
	return nil
}

// CombineAndSub sets dst to the intersection of and minus the union of sub.
// An empty sub group makes this a plain intersection; an empty and group
// clears dst.
func (a *Aggregator) CombineAndSub(dst *bvector.BVector, and, sub []*bvector.BVector) (err error) {
	if err := a.checkArgs(OpAndSub, dst, MaxOperands, and, sub); err != nil {
		return err
	}
	defer a.observe(OpAndSub, len(and)+len(sub), time.Now(), &err)

	if len(and) == 0 {
		dst.Clear()
		return nil
	}

	var bc blockCounts
	top := resizeTarget(dst, and, true)
	top = max(top, resizeTarget(dst, sub, false))
	for i := 0; i < top; i++ {
		width := effectiveSubBlocks(i, and)
		if len(sub) > 0 {
			width = max(width, effectiveSubBlocks(i, sub))
		}
		for j := 0; j < width; j++ {
			if err := a.combineAndSubAt(dst, and, sub, i, j, &bc); err != nil {
				return fmt.Errorf("%s: block %d/%d: %w", OpAndSub, i, j, err)
			}
		}
	}
	a.finish(OpAndSub, bc)
	return nil
}

func (a *Aggregator) combineOrAt(dst *bvector.BVector, src []*bvector.BVector, i, j int, bc *blockCounts) error {
	ar := a.ar
	oc, err := ar.classifyOr(src, i, j)
	if err != nil {
		return err
	}
	switch oc {
	case outcomeEmpty:
		bc.empty++
		return nil
	case outcomeAllOnes:
		bc.allOnes++
		dst.SetBlock(i, j, bvector.AllOnes())
		return nil
	}

	if ar.denseOr() || (len(ar.gaps) > 0 && ar.gapOr()) {
		bc.allOnes++
		dst.SetBlock(i, j, bvector.AllOnes())
		return nil
	}
	return a.writeBack(dst, i, j, digest.Full, bc)
}

// combineAndSubAt computes one coordinate of AND(and) - OR(sub). A nil sub
// group computes a plain intersection.
func (a *Aggregator) combineAndSubAt(dst *bvector.BVector, and, sub []*bvector.BVector, i, j int, bc *blockCounts) error {
	ar := a.ar
	oc, err := ar.classifyAnd(and, i, j)
	if err != nil {
		return err
	}
	if oc == outcomeEmpty {
		bc.empty++
		return nil
	}
	if oc == outcomeAllOnes && len(sub) == 0 {
		bc.allOnes++
		dst.SetBlock(i, j, bvector.AllOnes())
		return nil
	}

	d := ar.denseAnd()
	if d != 0 && len(ar.gaps) > 0 {
		d = ar.gapAnd(d)
	}
	if d == 0 {
		bc.empty++
		return nil
	}

	if len(sub) > 0 {
		oc, err := ar.classifyOr(sub, i, j)
		if err != nil {
			return err
		}
		switch oc {
		case outcomeAllOnes:
			bc.empty++
			return nil
		case outcomePartial:
			d = ar.denseSub(d)
			if d != 0 && len(ar.gaps) > 0 {
				d = ar.gapSub(d)
			}
			if d == 0 {
				bc.empty++
				return nil
			}
		}
	}
	return a.writeBack(dst, i, j, d, bc)
}

// writeBack copies the scratch block into a new dense block of dst. A full
// digest over an all-ones scratch block is stored as the AllOnes sentinel.
func (a *Aggregator) writeBack(dst *bvector.BVector, i, j int, d uint64, bc *blockCounts) error {
	tb := a.ar.tb
	if d == digest.Full && simd.IsAllOnes(tb[:]) {
		bc.allOnes++
		dst.SetBlock(i, j, bvector.AllOnes())
		return nil
	}
	w, err := dst.Allocator().AllocDense()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrAllocation, err)
	}
	*w = *tb
	dst.SetBlock(i, j, bvector.Dense(w))
	bc.partial++
	return nil
}

// resizeTarget prepares dst for a call over src and returns the number of
// top-level entries to walk. With initClear an uninitialized dst gets an
// empty tree and an initialized one is cleared. dst never shrinks.
func resizeTarget(dst *bvector.BVector, src []*bvector.BVector, initClear bool) int {
	if initClear {
		if !dst.IsInit() {
			dst.InitTree()
		} else {
			dst.Clear()
		}
	}
	top, size := dst.TopBlocks(), dst.Size()
	for _, v := range src {
		if n := v.TopBlocks(); n > top {
			dst.ReserveTop(n)
			top = dst.TopBlocks()
		}
		if n := v.Size(); n > size {
			_ = dst.Resize(n) // growing never fails
			size = n
		}
	}
	return top
}

// effectiveSubBlocks returns one past the highest sub index at top entry i
// holding a block in any operand, and at least 1.
func effectiveSubBlocks(i int, src []*bvector.BVector) int {
	n := 1
	for _, v := range src {
		sub := v.SubBlocks(i)
		for j := len(sub) - 1; j >= n; j-- {
			if !sub[j].IsAbsent() {
				n = j + 1
				break
			}
		}
	}
	return n
}

func (a *Aggregator) observe(op Op, operands int, start time.Time, err *error) {
	a.metrics.OnCombine(op, operands, time.Since(start), *err)
}

func (a *Aggregator) finish(op Op, bc blockCounts) {
	a.stats.Calls++
	a.stats.AllOnes += uint64(bc.allOnes)
	a.stats.Empty += uint64(bc.empty)
	a.stats.Partial += uint64(bc.partial)
	a.metrics.OnBlocks(op, bc.allOnes, bc.empty, bc.partial)
	a.logger.Debug("aggregate",
		"op", op.String(),
		"all_ones", bc.allOnes,
		"empty", bc.empty,
		"partial", bc.partial,
	)
}
