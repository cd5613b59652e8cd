// Package mem provides memory allocation utilities.
//
// # Aligned Allocation
//
// Provides aligned allocation of word buffers so block kernels start on a
// vector-register boundary (16 bytes for NEON, 32 for AVX2, 64 for AVX-512).
package mem
