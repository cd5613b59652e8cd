package simd

import (
	"math/bits"

	"github.com/hupe1980/bitagg/internal/layout"
)

const allOnes = ^uint64(0)

// OrBlock performs dst |= a and reports whether dst is now all ones.
// The all-ones check is accumulated while the words are written.
func OrBlock(dst, a *layout.Words) bool {
	acc := allOnes
	for i := 0; i < layout.BlockWords; i += 4 {
		w0 := dst[i] | a[i]
		w1 := dst[i+1] | a[i+1]
		w2 := dst[i+2] | a[i+2]
		w3 := dst[i+3] | a[i+3]
		dst[i], dst[i+1], dst[i+2], dst[i+3] = w0, w1, w2, w3
		acc &= w0 & w1 & w2 & w3
	}
	return acc == allOnes
}

// OrBlock3 performs dst |= a | b and reports whether dst is now all ones.
func OrBlock3(dst, a, b *layout.Words) bool {
	acc := allOnes
	for i := 0; i < layout.BlockWords; i += 4 {
		w0 := dst[i] | a[i] | b[i]
		w1 := dst[i+1] | a[i+1] | b[i+1]
		w2 := dst[i+2] | a[i+2] | b[i+2]
		w3 := dst[i+3] | a[i+3] | b[i+3]
		dst[i], dst[i+1], dst[i+2], dst[i+3] = w0, w1, w2, w3
		acc &= w0 & w1 & w2 & w3
	}
	return acc == allOnes
}

// OrBlock5 performs dst |= a | b | c | d and reports whether dst is now all ones.
func OrBlock5(dst, a, b, c, d *layout.Words) bool {
	acc := allOnes
	for i := 0; i < layout.BlockWords; i += 4 {
		w0 := dst[i] | a[i] | b[i] | c[i] | d[i]
		w1 := dst[i+1] | a[i+1] | b[i+1] | c[i+1] | d[i+1]
		w2 := dst[i+2] | a[i+2] | b[i+2] | c[i+2] | d[i+2]
		w3 := dst[i+3] | a[i+3] | b[i+3] | c[i+3] | d[i+3]
		dst[i], dst[i+1], dst[i+2], dst[i+3] = w0, w1, w2, w3
		acc &= w0 & w1 & w2 & w3
	}
	return acc == allOnes
}

// AndBlock2 stores a & b into dst and returns the digest of the result.
func AndBlock2(dst, a, b *layout.Words) uint64 {
	var digest uint64
	for seg := 0; seg < layout.DigestSegments; seg++ {
		off := seg * layout.SegmentWords
		var acc uint64
		for i := off; i < off+layout.SegmentWords; i += 4 {
			w0 := a[i] & b[i]
			w1 := a[i+1] & b[i+1]
			w2 := a[i+2] & b[i+2]
			w3 := a[i+3] & b[i+3]
			dst[i], dst[i+1], dst[i+2], dst[i+3] = w0, w1, w2, w3
			acc |= w0 | w1 | w2 | w3
		}
		if acc != 0 {
			digest |= 1 << seg
		}
	}
	return digest
}

// AndBlock performs dst &= src over the segments marked in digest and
// returns the refreshed digest. Segments outside digest must already be zero.
func AndBlock(dst, src *layout.Words, digest uint64) uint64 {
	for m := digest; m != 0; m &= m - 1 {
		seg := bits.TrailingZeros64(m)
		off := seg * layout.SegmentWords
		var acc uint64
		for i := off; i < off+layout.SegmentWords; i += 4 {
			dst[i] &= src[i]
			dst[i+1] &= src[i+1]
			dst[i+2] &= src[i+2]
			dst[i+3] &= src[i+3]
			acc |= dst[i] | dst[i+1] | dst[i+2] | dst[i+3]
		}
		if acc == 0 {
			digest &^= 1 << seg
		}
	}
	return digest
}

// SubBlock performs dst &^= src over the segments marked in digest and
// returns the refreshed digest.
func SubBlock(dst, src *layout.Words, digest uint64) uint64 {
	for m := digest; m != 0; m &= m - 1 {
		seg := bits.TrailingZeros64(m)
		off := seg * layout.SegmentWords
		var acc uint64
		for i := off; i < off+layout.SegmentWords; i += 4 {
			dst[i] &^= src[i]
			dst[i+1] &^= src[i+1]
			dst[i+2] &^= src[i+2]
			dst[i+3] &^= src[i+3]
			acc |= dst[i] | dst[i+1] | dst[i+2] | dst[i+3]
		}
		if acc == 0 {
			digest &^= 1 << seg
		}
	}
	return digest
}
