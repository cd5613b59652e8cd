package sparse

import "github.com/hupe1980/bitagg/bvector"

// RankCompressor maps bit-vectors between full index space and rank space
// relative to an index bitmap.
type RankCompressor struct{}

// Compress sets bit k of dst when src has the bit at the position of the
// k-th (zero-based) set bit of idx. Bits of src outside idx are dropped.
func (RankCompressor) Compress(dst, idx, src *bvector.BVector) error {
	dst.Clear()
	var (
		k   uint32
		err error
	)
	idx.ForEach(func(p uint32) bool {
		if src.Test(p) {
			if err = dst.Set(k); err != nil {
				return false
			}
		}
		k++
		return true
	})
	return err
}

// Decompress is the inverse of Compress: bit k of src is moved to the
// position of the k-th set bit of idx.
func (RankCompressor) Decompress(dst, idx, src *bvector.BVector) error {
	dst.Clear()
	var (
		k   uint32
		err error
	)
	idx.ForEach(func(p uint32) bool {
		if src.Test(k) {
			if err = dst.Set(p); err != nil {
				return false
			}
		}
		k++
		return true
	})
	return err
}
