// Package serial encodes bit-vectors into a portable binary format.
//
// Layout (little-endian):
//
//	magic       [4]byte  "BAGV"
//	version     uint8
//	compression uint8
//	reserved    uint16
//	size        uint64   logical length in bits
//	top         uint32   top-level extent
//	blocks      uint32   number of stored blocks
//	frames      ...      compressed frames of the block stream
//	checksum    uint32   CRC32C of everything before it
//
// Each frame is [raw uint32][stored uint32][data]; stored == 0 means the
// frame is not compressed. The block stream holds, for every non-absent
// block in coordinate order, its top index, sub index and kind (one byte
// each) followed by the payload: nothing for all-ones, 1024 words for dense
// blocks, and a uint16 length plus the words of the run encoding for gap
// blocks.
package serial
