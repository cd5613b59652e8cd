package aggregator

import (
	"github.com/hupe1980/bitagg/internal/digest"
	"github.com/hupe1980/bitagg/internal/gap"
	"github.com/hupe1980/bitagg/internal/simd"
)

// gapOr merges the gap operands into the scratch block and reports whether
// the result is all ones.
//
// Operands are first merged in groups of four (then two) in the gap
// buffers; a merged group that already covers the whole block ends the
// coordinate without touching the scratch block.
func (ar *arena) gapOr() bool {
	blk, src := ar.tb, ar.gaps
	k := 0
	for ; k+4 <= len(src); k += 4 {
		ar.gapBuf1 = gap.Or(src[k], src[k+1], ar.gapBuf1)
		if gap.Block(ar.gapBuf1).IsAllOnes() {
			return true
		}
		ar.gapBuf2 = gap.Or(src[k+2], src[k+3], ar.gapBuf2)
		if gap.Block(ar.gapBuf2).IsAllOnes() {
			return true
		}
		ar.gapBuf3 = gap.Or(ar.gapBuf1, ar.gapBuf2, ar.gapBuf3)
		if gap.Block(ar.gapBuf3).IsAllOnes() {
			return true
		}
		gap.OrInto(blk, ar.gapBuf3)
	}
	for ; k+2 <= len(src); k += 2 {
		ar.gapBuf1 = gap.Or(src[k], src[k+1], ar.gapBuf1)
		if gap.Block(ar.gapBuf1).IsAllOnes() {
			return true
		}
		gap.OrInto(blk, ar.gapBuf1)
	}
	for ; k < len(src); k++ {
		gap.OrInto(blk, src[k])
	}
	return simd.IsAllOnes(blk[:])
}

// gapAnd clears the zero runs of every gap operand from the scratch block,
// restricted to d, and returns the refreshed digest.
func (ar *arena) gapAnd(d uint64) uint64 {
	for _, g := range ar.gaps {
		gap.AndInto(ar.tb, g, d)
		if d = digest.Update(ar.tb, d); d == 0 {
			break
		}
	}
	return d
}

// gapSub clears the one runs of every gap operand from the scratch block,
// restricted to d, and returns the refreshed digest.
func (ar *arena) gapSub(d uint64) uint64 {
	for _, g := range ar.gaps {
		gap.SubInto(ar.tb, g, d)
		if d = digest.Update(ar.tb, d); d == 0 {
			break
		}
	}
	return d
}
