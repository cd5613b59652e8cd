package aggregator

import (
	"unsafe"

	"github.com/hupe1980/bitagg/internal/gap"
	"github.com/hupe1980/bitagg/internal/layout"
	"github.com/hupe1980/bitagg/internal/mem"
	"github.com/hupe1980/bitagg/internal/simd"
)

// Gap scratch capacities in uint16 units. The third buffer holds the merge
// of the first two.
const (
	gapBuf1Len = 3 * layout.GapEquivLen
	gapBuf2Len = 3 * layout.GapEquivLen
	gapBuf3Len = 6 * layout.GapEquivLen
)

// arena is the scratch memory of one Aggregator.
type arena struct {
	tb *layout.Words // dense scratch block, SIMD aligned

	gapBuf1 []uint16
	gapBuf2 []uint16
	gapBuf3 []uint16

	dense []*layout.Words // dense operands of the current coordinate
	gaps  []gap.Block     // gap operands of the current coordinate
}

func newArena() (*arena, error) {
	words, err := mem.AllocAlignedWords(layout.BlockWords, simd.VectorBytes())
	if err != nil {
		return nil, err
	}
	return &arena{
		tb:      (*layout.Words)(words),
		gapBuf1: make([]uint16, 0, gapBuf1Len),
		gapBuf2: make([]uint16, 0, gapBuf2Len),
		gapBuf3: make([]uint16, 0, gapBuf3Len),
		dense:   make([]*layout.Words, 0, MaxOperands),
		gaps:    make([]gap.Block, 0, MaxOperands),
	}, nil
}

// arenaBytes is the memory charged for one arena.
func arenaBytes() int64 {
	gapBytes := (gapBuf1Len + gapBuf2Len + gapBuf3Len) * 2
	ptrs := MaxOperands * int(unsafe.Sizeof((*layout.Words)(nil))+unsafe.Sizeof(gap.Block(nil)))
	return int64(layout.BlockBytes + gapBytes + ptrs)
}

func (ar *arena) reset() {
	clear(ar.dense)
	clear(ar.gaps)
	ar.dense = ar.dense[:0]
	ar.gaps = ar.gaps[:0]
}
