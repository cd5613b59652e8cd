// Package hash provides the CRC32-Castagnoli checksums that guard encoded
// bit-vectors.
//
// The serial format ends every encoding with a little-endian trailer:
//
//	h := hash.NewCRC32C()
//	// ... stream the body through h ...
//	tr := hash.Trailer(h.Sum32())
//
//	body, stored, computed := hash.SplitTrailer(data)
//
// Object stores receive the same checksum through Base64, so S3 can verify
// uploads server side.
package hash
