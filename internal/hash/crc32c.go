package hash

import (
	"encoding/base64"
	"encoding/binary"
	"hash"
	"hash/crc32"
)

// TrailerSize is the length of a checksum trailer.
const TrailerSize = 4

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// NewCRC32C returns a streaming CRC32-Castagnoli hash.
func NewCRC32C() hash.Hash32 {
	return crc32.New(castagnoli)
}

// Trailer encodes sum as a little-endian trailer.
func Trailer(sum uint32) [TrailerSize]byte {
	var b [TrailerSize]byte
	binary.LittleEndian.PutUint32(b[:], sum)
	return b
}

// SplitTrailer separates data into body and trailer and returns the stored
// and the computed checksum. data must hold at least TrailerSize bytes.
func SplitTrailer(data []byte) (body []byte, stored, computed uint32) {
	n := len(data) - TrailerSize
	body = data[:n]
	return body, binary.LittleEndian.Uint32(data[n:]), CRC32C(body)
}

// Base64 returns the big-endian base64 form object stores use for
// CRC32C checksum headers.
func Base64(data []byte) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], CRC32C(data))
	return base64.StdEncoding.EncodeToString(b[:])
}
