// Package digest computes the 64-bit occupancy digest of a dense block.
//
// Bit k of a digest covers segment k of the block (layout.SegmentWords words).
// A set bit means the segment may contain a set bit; a clear bit proves the
// segment is zero. A zero digest therefore proves the whole block is empty,
// which lets AND/SUB chains stop early.
package digest

import (
	"math/bits"

	"github.com/hupe1980/bitagg/internal/layout"
)

// Full is the conservative digest with every segment marked.
const Full = ^uint64(0)

// Calc computes the exact digest of blk.
func Calc(blk *layout.Words) uint64 {
	var d uint64
	for seg := 0; seg < layout.DigestSegments; seg++ {
		if !segmentZero(blk, seg) {
			d |= 1 << seg
		}
	}
	return d
}

// Update re-checks only the segments marked in d and clears those that have
// become zero. Segments outside d are assumed to be zero already.
func Update(blk *layout.Words, d uint64) uint64 {
	for m := d; m != 0; m &= m - 1 {
		seg := bits.TrailingZeros64(m)
		if segmentZero(blk, seg) {
			d &^= 1 << seg
		}
	}
	return d
}

// SegmentRange returns the digest mask of all segments overlapping the
// inclusive bit range [from, to] of a block.
func SegmentRange(from, to uint16) uint64 {
	lo := uint(from) / layout.SegmentBits
	hi := uint(to) / layout.SegmentBits
	if hi-lo == 63 {
		return Full
	}
	return ((uint64(1) << (hi - lo + 1)) - 1) << lo
}

// Segments returns the word range [start, end) covered by segment seg.
func Segments(seg int) (start, end int) {
	start = seg * layout.SegmentWords
	return start, start + layout.SegmentWords
}

// Zero clears the words of every segment marked in d.
func Zero(blk *layout.Words, d uint64) {
	for m := d; m != 0; m &= m - 1 {
		start, end := Segments(bits.TrailingZeros64(m))
		clear(blk[start:end])
	}
}

func segmentZero(blk *layout.Words, seg int) bool {
	start := seg * layout.SegmentWords
	w := blk[start : start+layout.SegmentWords : start+layout.SegmentWords]
	var acc uint64
	for i := 0; i < len(w); i += 4 {
		acc |= w[i] | w[i+1] | w[i+2] | w[i+3]
	}
	return acc == 0
}
