// Package testutil provides testing utilities for bitagg.
//
// This package is intended for use in tests and benchmarks only.
// It generates reproducible bit-vectors with a controlled mix of block
// representations so optimized and reference paths can be compared.
//
// # Random Bit-Vectors
//
//	rng := testutil.NewRNG(seed)
//	v, err := rng.Vector(testutil.VectorConfig{Blocks: 8})
//	idx := rng.Bits(1000, 1<<20)
//
// # Skewed Values
//
//	vals := rng.ZipfValues(10_000, 64, 1.5)
package testutil
