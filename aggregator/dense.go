package aggregator

import (
	"github.com/hupe1980/bitagg/internal/digest"
	"github.com/hupe1980/bitagg/internal/layout"
	"github.com/hupe1980/bitagg/internal/simd"
)

// denseOr folds the dense operands into the scratch block and reports
// whether the result is all ones. Operands are consumed four, then two,
// then one at a time.
func (ar *arena) denseOr() bool {
	blk, src := ar.tb, ar.dense
	k := 0
	if len(src) > 0 {
		*blk = *src[0]
		k++
	} else {
		clear(blk[:])
	}

	for ; k+4 <= len(src); k += 4 {
		if simd.OrBlock5(blk, src[k], src[k+1], src[k+2], src[k+3]) {
			return true
		}
	}
	for ; k+2 <= len(src); k += 2 {
		if simd.OrBlock3(blk, src[k], src[k+1]) {
			return true
		}
	}
	for ; k < len(src); k++ {
		if simd.OrBlock(blk, src[k]) {
			return true
		}
	}
	return false
}

// denseAnd intersects the dense operands into the scratch block and returns
// its digest. A zero digest means the result is empty.
func (ar *arena) denseAnd() uint64 {
	blk, src := ar.tb, ar.dense
	var d uint64
	switch len(src) {
	case 0:
		*blk = layout.AllOnesWords
		return digest.Full
	case 1:
		*blk = *src[0]
		return digest.Calc(blk)
	default:
		d = simd.AndBlock2(blk, src[0], src[1])
	}
	for k := 2; k < len(src) && d != 0; k++ {
		d = simd.AndBlock(blk, src[k], d)
	}
	return d
}

// denseSub subtracts the dense operands from the scratch block within d and
// returns the refreshed digest.
func (ar *arena) denseSub(d uint64) uint64 {
	for _, w := range ar.dense {
		if d == 0 {
			break
		}
		d = simd.SubBlock(ar.tb, w, d)
	}
	return d
}
