package bvector

import (
	"github.com/hupe1980/bitagg/internal/gap"
	"github.com/hupe1980/bitagg/internal/layout"
	"github.com/hupe1980/bitagg/internal/simd"
)

// OptimizeStats reports what Optimize changed.
type OptimizeStats struct {
	Freed      int // blocks that became Absent
	ToAllOnes  int // blocks that became the AllOnes sentinel
	ToGap      int // dense blocks re-encoded as gap blocks
	BytesSaved int64
}

// Optimize re-encodes every block into its most compact representation and
// drops top entries that no longer hold any block.
func (v *BVector) Optimize() OptimizeStats {
	var st OptimizeStats
	buf := make([]uint16, 0, gap.MaxLen+1)
	for i, sub := range v.top {
		live := false
		for j, b := range sub {
			switch b.kind {
			case KindDense:
				switch {
				case simd.IsAllZero(b.words[:]):
					v.SetBlock(i, j, Absent())
					st.Freed++
					st.BytesSaved += layout.BlockBytes
				case simd.IsAllOnes(b.words[:]):
					v.SetBlock(i, j, AllOnes())
					st.ToAllOnes++
					st.BytesSaved += layout.BlockBytes
				default:
					r, ok := gap.FromWords(b.words, buf, gap.MaxLen)
					if ok {
						v.SetBlock(i, j, Gap(r.Clone()))
						st.ToGap++
						st.BytesSaved += layout.BlockBytes - int64(2*len(r))
					}
					buf = r[:0]
				}
			case KindGap:
				switch {
				case b.runs.IsAllZero():
					v.SetBlock(i, j, Absent())
					st.Freed++
					st.BytesSaved += int64(2 * len(b.runs))
				case b.runs.IsAllOnes():
					v.SetBlock(i, j, AllOnes())
					st.ToAllOnes++
					st.BytesSaved += int64(2 * len(b.runs))
				}
			}
			if v.top[i][j].kind != KindAbsent {
				live = true
			}
		}
		if !live {
			v.top[i] = nil
		}
	}
	return st
}

// Stats describes the storage used by a bit-vector.
type Stats struct {
	TopBlocks     int
	DenseBlocks   int
	GapBlocks     int
	AllOnesBlocks int
	// MemoryBytes is the block payload size, excluding tree overhead.
	MemoryBytes int64
}

// Stats returns storage statistics.
func (v *BVector) Stats() Stats {
	st := Stats{TopBlocks: len(v.top)}
	v.ForEachBlock(func(_, _ int, b Block) bool {
		switch b.kind {
		case KindDense:
			st.DenseBlocks++
			st.MemoryBytes += layout.BlockBytes
		case KindGap:
			st.GapBlocks++
			st.MemoryBytes += int64(2 * len(b.runs))
		case KindAllOnes:
			st.AllOnesBlocks++
		}
		return true
	})
	return st
}
