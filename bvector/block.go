package bvector

import (
	"math/bits"

	"github.com/hupe1980/bitagg/internal/gap"
	"github.com/hupe1980/bitagg/internal/layout"
	"github.com/hupe1980/bitagg/internal/simd"
)

// Kind identifies the representation of a block slot.
type Kind uint8

const (
	KindAbsent Kind = iota
	KindAllOnes
	KindDense
	KindGap
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindAllOnes:
		return "all-ones"
	case KindDense:
		return "dense"
	case KindGap:
		return "gap"
	default:
		return "unknown"
	}
}

// allOnesGap is the run form of the all-ones sentinel. Read-only.
var allOnesGap = gap.New(true)

// Block is the content of one block slot. The zero value is Absent.
type Block struct {
	kind  Kind
	words *layout.Words
	runs  gap.Block
}

// Absent returns the empty block.
func Absent() Block { return Block{} }

// AllOnes returns the all-ones sentinel.
func AllOnes() Block { return Block{kind: KindAllOnes} }

// Dense wraps w. A nil w yields Absent.
func Dense(w *layout.Words) Block {
	if w == nil {
		return Block{}
	}
	return Block{kind: KindDense, words: w}
}

// Gap wraps a run-length encoded block. A nil g yields Absent.
func Gap(g gap.Block) Block {
	if g == nil {
		return Block{}
	}
	return Block{kind: KindGap, runs: g}
}

// Kind returns the block representation.
func (b Block) Kind() Kind { return b.kind }

// IsAbsent reports whether the slot holds no block.
func (b Block) IsAbsent() bool { return b.kind == KindAbsent }

// Words returns the dense storage, or nil for other kinds.
func (b Block) Words() *layout.Words { return b.words }

// Runs returns the gap encoding, or nil for other kinds.
func (b Block) Runs() gap.Block { return b.runs }

// Test reports whether the bit at in-block offset off is set.
func (b Block) Test(off uint16) bool {
	switch b.kind {
	case KindAllOnes:
		return true
	case KindDense:
		return b.words[off>>6]&(1<<(off&63)) != 0
	case KindGap:
		return b.runs.Test(off)
	default:
		return false
	}
}

// Count returns the number of set bits in the block.
func (b Block) Count() int {
	switch b.kind {
	case KindAllOnes:
		return layout.BlockBits
	case KindDense:
		return simd.PopcountWords(b.words[:])
	case KindGap:
		return b.runs.Count()
	default:
		return 0
	}
}

// CountTo returns the number of set bits in [0, off].
func (b Block) CountTo(off uint16) int {
	switch b.kind {
	case KindAllOnes:
		return int(off) + 1
	case KindDense:
		nw := int(off >> 6)
		n := simd.PopcountWords(b.words[:nw])
		mask := ^uint64(0) >> (63 - uint(off&63))
		return n + bits.OnesCount64(b.words[nw]&mask)
	case KindGap:
		return b.runs.CountTo(off)
	default:
		return 0
	}
}

// gapView returns the run form of a gap or all-ones block.
func (b Block) gapView() gap.Block {
	if b.kind == KindAllOnes {
		return allOnesGap
	}
	return b.runs
}

// wordsView returns the dense form of b, expanding into tmp when b has no
// dense storage. The result must not be modified unless it is tmp.
func (b Block) wordsView(tmp *layout.Words) *layout.Words {
	switch b.kind {
	case KindDense:
		return b.words
	case KindAllOnes:
		return &layout.AllOnesWords
	case KindGap:
		b.runs.ToWords(tmp)
		return tmp
	default:
		clear(tmp[:])
		return tmp
	}
}
