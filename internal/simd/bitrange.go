package simd

// SetBitRange sets the bits [from, to] (inclusive) of words.
func SetBitRange(words []uint64, from, to int) {
	if from > to {
		return
	}
	fw, lw := from>>6, to>>6
	fm := ^uint64(0) << (uint(from) & 63)
	lm := ^uint64(0) >> (63 - uint(to)&63)
	if fw == lw {
		words[fw] |= fm & lm
		return
	}
	words[fw] |= fm
	for i := fw + 1; i < lw; i++ {
		words[i] = ^uint64(0)
	}
	words[lw] |= lm
}

// ClearBitRange clears the bits [from, to] (inclusive) of words.
func ClearBitRange(words []uint64, from, to int) {
	if from > to {
		return
	}
	fw, lw := from>>6, to>>6
	fm := ^uint64(0) << (uint(from) & 63)
	lm := ^uint64(0) >> (63 - uint(to)&63)
	if fw == lw {
		words[fw] &^= fm & lm
		return
	}
	words[fw] &^= fm
	for i := fw + 1; i < lw; i++ {
		words[i] = 0
	}
	words[lw] &^= lm
}
