package gap

import (
	"errors"
	"fmt"
	"math/bits"
	"sort"

	"github.com/hupe1980/bitagg/internal/layout"
	"github.com/hupe1980/bitagg/internal/simd"
)

// MaxLen is the largest number of runs a stored gap block may hold. Denser
// blocks are kept as dense blocks.
const MaxLen = 1280

const lastBit = layout.BlockMask

// ErrMalformed is returned by Validate for blocks violating the encoding.
var ErrMalformed = errors.New("gap: malformed block")

// Block is a run-length encoded block. See the package documentation for the layout.
type Block []uint16

// New returns a block holding a single run of value v.
func New(v bool) Block {
	return Block{header(v), lastBit}
}

// FromRuns builds a block from the value of the first run and the run ends.
// The final end (65535) is appended when missing.
func FromRuns(first bool, ends ...uint16) Block {
	b := make(Block, 0, len(ends)+2)
	b = append(b, header(first))
	b = append(b, ends...)
	if len(ends) == 0 || ends[len(ends)-1] != lastBit {
		b = append(b, lastBit)
	}
	return b
}

func header(v bool) uint16 {
	if v {
		return 1
	}
	return 0
}

// First returns the value of the first run.
func (b Block) First() bool {
	return b[0]&1 != 0
}

// Runs returns the number of runs.
func (b Block) Runs() int {
	return len(b) - 1
}

// IsAllOnes reports whether the block is a single run of ones.
func (b Block) IsAllOnes() bool {
	return len(b) == 2 && b.First()
}

// IsAllZero reports whether the block is a single run of zeros.
func (b Block) IsAllZero() bool {
	return len(b) == 2 && !b.First()
}

// Clone returns a copy of b that does not share storage.
func (b Block) Clone() Block {
	out := make(Block, len(b))
	copy(out, b)
	return out
}

// Validate checks the encoding invariants.
func (b Block) Validate() error {
	if len(b) < 2 {
		return fmt.Errorf("%w: %d words", ErrMalformed, len(b))
	}
	if b[0]&^1 != 0 {
		return fmt.Errorf("%w: reserved header bits %#x", ErrMalformed, b[0])
	}
	for k := 2; k < len(b); k++ {
		if b[k] <= b[k-1] {
			return fmt.Errorf("%w: run end %d not ascending", ErrMalformed, k)
		}
	}
	if b[len(b)-1] != lastBit {
		return fmt.Errorf("%w: last run ends at %d", ErrMalformed, b[len(b)-1])
	}
	return nil
}

// runValue returns the value of run k (0-based).
func (b Block) runValue(k int) bool {
	return b.First() != (k&1 == 1)
}

// Test reports whether bit pos is set.
func (b Block) Test(pos uint16) bool {
	ends := b[1:]
	k := sort.Search(len(ends), func(i int) bool { return ends[i] >= pos })
	return b.runValue(k)
}

// ForEachRun calls fn for every run in ascending order until fn returns false.
func (b Block) ForEachRun(fn func(start, end uint16, v bool) bool) {
	start := uint16(0)
	v := b.First()
	for _, end := range b[1:] {
		if !fn(start, end, v) {
			return
		}
		start = end + 1
		v = !v
	}
}

// Count returns the number of set bits.
func (b Block) Count() int {
	return b.CountTo(lastBit)
}

// CountTo returns the number of set bits in [0, pos].
func (b Block) CountTo(pos uint16) int {
	n := 0
	b.ForEachRun(func(start, end uint16, v bool) bool {
		if start > pos {
			return false
		}
		if v {
			n += int(min(end, pos)-start) + 1
		}
		return true
	})
	return n
}

// FromWords encodes a dense block into dst (reusing its storage). When limit
// is positive and the block needs more than limit runs, it returns false.
func FromWords(w *layout.Words, dst []uint16, limit int) (Block, bool) {
	cur := w[0]&1 != 0
	dst = append(dst[:0], header(cur))
	for i, word := range w {
		base := i * layout.WordBits
		pos := uint(0)
		for {
			x := word
			if cur {
				x = ^x
			}
			x &= ^uint64(0) << pos
			if x == 0 {
				break
			}
			tz := uint(bits.TrailingZeros64(x))
			dst = append(dst, uint16(base+int(tz)-1))
			if limit > 0 && len(dst) > limit {
				return dst, false
			}
			cur = !cur
			pos = tz
		}
	}
	dst = append(dst, lastBit)
	return dst, true
}

// ToWords expands b into w, overwriting its contents.
func (b Block) ToWords(w *layout.Words) {
	clear(w[:])
	OrInto(w, b)
}

// OrInto sets every bit of w that is set in b.
func OrInto(w *layout.Words, b Block) {
	b.ForEachRun(func(start, end uint16, v bool) bool {
		if v {
			simd.SetBitRange(w[:], int(start), int(end))
		}
		return true
	})
}

// AndInto clears every bit of w that is clear in b, restricted to the
// segments marked in digest. The caller refreshes the digest afterwards.
func AndInto(w *layout.Words, b Block, digest uint64) {
	b.ForEachRun(func(start, end uint16, v bool) bool {
		if !v {
			clearMasked(w, start, end, digest)
		}
		return true
	})
}

// SubInto clears every bit of w that is set in b, restricted to the
// segments marked in digest.
func SubInto(w *layout.Words, b Block, digest uint64) {
	b.ForEachRun(func(start, end uint16, v bool) bool {
		if v {
			clearMasked(w, start, end, digest)
		}
		return true
	})
}

func clearMasked(w *layout.Words, start, end uint16, digest uint64) {
	lo := int(start) / layout.SegmentBits
	hi := int(end) / layout.SegmentBits
	for seg := lo; seg <= hi; seg++ {
		if digest&(1<<seg) == 0 {
			continue
		}
		from := max(int(start), seg*layout.SegmentBits)
		to := min(int(end), (seg+1)*layout.SegmentBits-1)
		simd.ClearBitRange(w[:], from, to)
	}
}
