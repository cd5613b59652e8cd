package bvector

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/bitagg/internal/layout"
)

// ToBitSet converts v into a flat bitset covering every populated block.
func (v *BVector) ToBitSet() *bitset.BitSet {
	var end uint64
	v.ForEachBlock(func(i, j int, _ Block) bool {
		end = layout.BlockBase(i, j) + layout.BlockBits
		return true
	})

	words := make([]uint64, end/layout.WordBits)
	var tmp layout.Words
	v.ForEachBlock(func(i, j int, b Block) bool {
		w := layout.BlockBase(i, j) / layout.WordBits
		copy(words[w:w+layout.BlockWords], b.wordsView(&tmp)[:])
		return true
	})
	return bitset.From(words)
}

// FromBitSet builds a bit-vector holding the bits of bs.
func FromBitSet(bs *bitset.BitSet, opts ...Option) (*BVector, error) {
	v := New(opts...)
	for i, ok := bs.NextSet(0); ok; i, ok = bs.NextSet(i + 1) {
		if uint64(i) >= layout.MaxSize {
			v.Clear()
			return nil, fmt.Errorf("%w: bit %d", ErrRange, i)
		}
		if err := v.Set(uint32(i)); err != nil {
			v.Clear()
			return nil, err
		}
	}
	return v, nil
}
