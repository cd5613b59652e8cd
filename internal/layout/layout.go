// Package layout defines the block geometry shared by the bit-vector storage
// and the aggregation kernels.
//
// A bit-vector is addressed by a two-level coordinate: the top index selects a
// group of SubBlocks blocks, the sub index selects one block inside the group.
// A block covers BlockBits bits stored as BlockWords 64-bit words.
//
//	bit index (32 bit):  [ top: 8 ][ sub: 8 ][ offset: 16 ]
package layout

const (
	// WordBits is the number of bits per storage word.
	WordBits = 64

	// BlockShift is log2(BlockBits).
	BlockShift = 16

	// BlockBits is the number of bits per block.
	BlockBits = 1 << BlockShift // 65536

	// BlockMask selects the in-block offset of a bit index.
	BlockMask = BlockBits - 1

	// BlockWords is the number of uint64 words per dense block.
	BlockWords = BlockBits / WordBits // 1024

	// BlockBytes is the size of a dense block in bytes.
	BlockBytes = BlockWords * 8

	// SubShift is log2(SubBlocks).
	SubShift = 8

	// SubBlocks is the number of block slots per top-level entry.
	SubBlocks = 1 << SubShift // 256

	// TopBlocks is the number of top-level entries needed for a 32-bit index space.
	TopBlocks = 1 << (32 - BlockShift - SubShift) // 256

	// DigestSegments is the number of digest segments per block.
	DigestSegments = 64

	// SegmentWords is the number of words covered by one digest bit.
	SegmentWords = BlockWords / DigestSegments // 16

	// SegmentBits is the number of bits covered by one digest bit.
	SegmentBits = SegmentWords * WordBits // 1024

	// GapEquivLen is the length, in uint16 units, of a buffer the size of one dense block.
	GapEquivLen = BlockBytes / 2 // 4096

	// MaxSize is the largest addressable bit-vector length.
	MaxSize uint64 = 1 << 32
)

// Words is the backing storage of a dense block.
type Words = [BlockWords]uint64

// AllOnesWords is a read-only dense block with every bit set.
// It stands in for the all-ones sentinel wherever a kernel needs real memory.
var AllOnesWords Words

func init() {
	for i := range AllOnesWords {
		AllOnesWords[i] = ^uint64(0)
	}
}

// Coord splits a bit index into top index, sub index and in-block offset.
func Coord(idx uint32) (i, j int, off uint16) {
	nb := idx >> BlockShift
	return int(nb >> SubShift), int(nb & (SubBlocks - 1)), uint16(idx & BlockMask)
}

// BlockBase returns the first bit index covered by block (i, j).
func BlockBase(i, j int) uint64 {
	return uint64(i)<<(BlockShift+SubShift) | uint64(j)<<BlockShift
}
