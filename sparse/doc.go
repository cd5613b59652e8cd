// Package sparse stores vectors of uint32 values as bit-planes.
//
// Vector keeps bit k of every element in plane k, a bvector.BVector, plus an
// optional NULL bitmap marking assigned elements. Equality search is an
// AND-SUB aggregation over the planes (see Scanner).
//
// Compressed drops the NULL gaps: it keeps only the NULL bitmap at full
// width and stores the values densely by rank, using RankCompressor.
package sparse
