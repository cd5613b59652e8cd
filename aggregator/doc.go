// Package aggregator computes OR, AND and AND-SUB (AND of one group minus
// OR of another) across many bit-vectors in a single pass.
//
// The optimized path walks the block coordinates of the operands once. For
// every coordinate it classifies the operand blocks, short-circuits on
// absent or all-ones blocks, folds dense blocks with batched kernels and
// merges gap blocks into a scratch block. AND and SUB chains carry a 64-bit
// digest of the non-zero segments of the scratch block so work stops as
// soon as the result is provably empty.
//
// The horizontal path applies whole-vector operations pairwise. It has no
// operand limit and serves as a reference for the optimized path.
//
// An Aggregator owns scratch memory and must not be shared by concurrent
// callers; use a Pool or RunBatch for parallel work.
package aggregator
