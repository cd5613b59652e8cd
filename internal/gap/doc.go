// Package gap implements run-length ("gap") encoded blocks.
//
// A Block covers layout.BlockBits bits as a sequence of alternating runs.
//
//	b[0]      header; bit 0 holds the value of the first run
//	b[1..n]   inclusive end position of each run, strictly ascending
//	b[n]      always layout.BlockMask (65535)
//
// The block {0, 99, 199, 65535} therefore has bits [100, 199] set.
//
// Blocks are merged pairwise without expansion (Merge, Or, And, Sub, Xor)
// or applied directly onto a dense block (OrInto, AndInto, SubInto). The
// dense variants of AND and SUB only touch segments the caller's digest
// marks as possibly non-zero.
package gap
