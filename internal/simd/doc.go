// Package simd provides the word and block kernels used by bit-vector
// operations and the aggregation engine.
//
// # Supported Platforms
//
//   - x86-64: AVX-512, AVX2
//   - ARM64: NEON, SVE2
//
// Runtime CPU feature detection selects the active ISA, which decides the
// scratch-buffer alignment (VectorBytes). Set BITAGG_SIMD to force an ISA.
//
// # Kernels
//
//   - Words: AndWords, OrWords, AndNotWords, XorWords, PopcountWords
//   - Blocks (OR): OrBlock, OrBlock3, OrBlock5 report whether the
//     destination became all ones while it is being written
//   - Blocks (AND/SUB): AndBlock2, AndBlock, SubBlock return the updated
//     64-bit digest and only touch segments the digest marks as non-zero
//
// All kernels are unrolled four words at a time so the compiler keeps the
// working set in registers.
package simd
