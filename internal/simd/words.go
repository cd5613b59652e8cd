package simd

import "math/bits"

// Word kernels operate on equally sized []uint64 slices; dst and src must
// have the same length.

// AndWords performs dst[i] &= src[i].
func AndWords(dst, src []uint64) {
	src = src[:len(dst)]
	i := 0
	for ; i+4 <= len(dst); i += 4 {
		dst[i] &= src[i]
		dst[i+1] &= src[i+1]
		dst[i+2] &= src[i+2]
		dst[i+3] &= src[i+3]
	}
	for ; i < len(dst); i++ {
		dst[i] &= src[i]
	}
}

// AndNotWords performs dst[i] &^= src[i].
func AndNotWords(dst, src []uint64) {
	src = src[:len(dst)]
	i := 0
	for ; i+4 <= len(dst); i += 4 {
		dst[i] &^= src[i]
		dst[i+1] &^= src[i+1]
		dst[i+2] &^= src[i+2]
		dst[i+3] &^= src[i+3]
	}
	for ; i < len(dst); i++ {
		dst[i] &^= src[i]
	}
}

// OrWords performs dst[i] |= src[i].
func OrWords(dst, src []uint64) {
	src = src[:len(dst)]
	i := 0
	for ; i+4 <= len(dst); i += 4 {
		dst[i] |= src[i]
		dst[i+1] |= src[i+1]
		dst[i+2] |= src[i+2]
		dst[i+3] |= src[i+3]
	}
	for ; i < len(dst); i++ {
		dst[i] |= src[i]
	}
}

// XorWords performs dst[i] ^= src[i].
func XorWords(dst, src []uint64) {
	src = src[:len(dst)]
	i := 0
	for ; i+4 <= len(dst); i += 4 {
		dst[i] ^= src[i]
		dst[i+1] ^= src[i+1]
		dst[i+2] ^= src[i+2]
		dst[i+3] ^= src[i+3]
	}
	for ; i < len(dst); i++ {
		dst[i] ^= src[i]
	}
}

// PopcountWords counts all set bits across words.
func PopcountWords(words []uint64) int {
	count := 0
	i := 0
	for ; i+4 <= len(words); i += 4 {
		count += bits.OnesCount64(words[i]) +
			bits.OnesCount64(words[i+1]) +
			bits.OnesCount64(words[i+2]) +
			bits.OnesCount64(words[i+3])
	}
	for ; i < len(words); i++ {
		count += bits.OnesCount64(words[i])
	}
	return count
}

// IsAllOnes reports whether every bit in words is set.
func IsAllOnes(words []uint64) bool {
	i := 0
	for ; i+4 <= len(words); i += 4 {
		if words[i]&words[i+1]&words[i+2]&words[i+3] != ^uint64(0) {
			return false
		}
	}
	for ; i < len(words); i++ {
		if words[i] != ^uint64(0) {
			return false
		}
	}
	return true
}

// IsAllZero reports whether no bit in words is set.
func IsAllZero(words []uint64) bool {
	i := 0
	for ; i+4 <= len(words); i += 4 {
		if words[i]|words[i+1]|words[i+2]|words[i+3] != 0 {
			return false
		}
	}
	for ; i < len(words); i++ {
		if words[i] != 0 {
			return false
		}
	}
	return true
}

// Fill sets every word to v.
func Fill(words []uint64, v uint64) {
	for i := range words {
		words[i] = v
	}
}
