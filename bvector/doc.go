// Package bvector implements a block-compressed bit-vector over the 32-bit
// index space.
//
// Bits are grouped into blocks of 65536 bits addressed by a two-level
// coordinate (top index, sub index). Each block slot holds one of:
//
//   - Absent: no storage, all bits zero
//   - AllOnes: a sentinel with no storage, all bits one
//   - Dense: 1024 uint64 words
//   - Gap: a run-length encoded block (see internal/gap)
//
// Bit-level writes promote blocks to Dense as needed; Optimize re-encodes
// them into the most compact kind. Dense blocks are obtained from the
// vector's Allocator so memory can be charged to a resource controller.
//
// A BVector is not safe for concurrent mutation.
package bvector
