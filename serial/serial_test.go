package serial

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bitagg/bvector"
	"github.com/hupe1980/bitagg/internal/hash"
	"github.com/hupe1980/bitagg/internal/layout"
	"github.com/hupe1980/bitagg/testutil"
)

func sample(t *testing.T) *bvector.BVector {
	t.Helper()
	rng := testutil.NewRNG(99)
	v, err := rng.Vector(testutil.VectorConfig{Blocks: 40, Skip: 3})
	require.NoError(t, err)
	require.NoError(t, v.Set(^uint32(0)))
	return v
}

func TestRoundTrip(t *testing.T) {
	v := sample(t)

	for _, c := range []Compression{CompressionNone, CompressionLZ4, CompressionZSTD} {
		t.Run(c.String(), func(t *testing.T) {
			data, err := Marshal(v, WithCompression(c), WithFrameSize(64*1024))
			require.NoError(t, err)

			got, err := Unmarshal(data)
			require.NoError(t, err)
			assert.True(t, v.Equal(got))
			assert.Equal(t, v.Size(), got.Size())
			assert.Equal(t, v.TopBlocks(), got.TopBlocks())
			assert.Equal(t, v.Stats(), got.Stats())
		})
	}
}

func TestCompressionShrinksSparseData(t *testing.T) {
	v := bvector.New()
	for k := uint32(0); k < 16; k++ {
		require.NoError(t, v.Set(k*layout.BlockBits))
	}

	plain, err := Marshal(v)
	require.NoError(t, err)
	packed, err := Marshal(v, WithCompression(CompressionZSTD))
	require.NoError(t, err)
	assert.Less(t, len(packed), len(plain)/10)

	lz, err := Marshal(v, WithCompression(CompressionLZ4))
	require.NoError(t, err)
	assert.Less(t, len(lz), len(plain)/4)
}

func TestWriteRead(t *testing.T) {
	v := sample(t)
	var buf bytes.Buffer

	n, err := Write(&buf, v, WithCompression(CompressionLZ4))
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.True(t, v.Equal(got))
}

func TestEmptyVector(t *testing.T) {
	data, err := Marshal(bvector.New(bvector.WithSize(100)))
	require.NoError(t, err)
	assert.Len(t, data, headerSize+checksumSize)

	got, err := Unmarshal(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), got.Size())
	assert.False(t, got.Any())
}

func TestCorruption(t *testing.T) {
	v := sample(t)
	data, err := Marshal(v)
	require.NoError(t, err)

	flipped := bytes.Clone(data)
	flipped[len(flipped)/2] ^= 0x40
	_, err = Unmarshal(flipped)
	assert.ErrorIs(t, err, ErrChecksum)

	badMagic := bytes.Clone(data)
	badMagic[0] = 'X'
	_, err = Unmarshal(badMagic)
	assert.ErrorIs(t, err, ErrCorrupt)

	badVersion := bytes.Clone(data)
	badVersion[4] = 9
	_, err = Unmarshal(badVersion)
	assert.ErrorIs(t, err, ErrVersion)

	_, err = Unmarshal(data[:10])
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestBlockOutsideTopExtent(t *testing.T) {
	v := bvector.New()
	require.NoError(t, v.SetRange(0, 99))
	require.NoError(t, v.Set(3*layout.BlockBits+1))
	data, err := Marshal(v)
	require.NoError(t, err)

	// Declare an empty top extent and reseal the checksum.
	binary.LittleEndian.PutUint32(data[16:], 0)
	body := data[:len(data)-hash.TrailerSize]
	tr := hash.Trailer(hash.CRC32C(body))
	copy(data[len(body):], tr[:])

	_, err = Unmarshal(data)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestUnmarshalUsesAllocator(t *testing.T) {
	v := sample(t)
	data, err := Marshal(v)
	require.NoError(t, err)

	acq := &countingAcquirer{}
	got, err := Unmarshal(data, bvector.WithAllocator(bvector.NewAccountedAllocator(acq)))
	require.NoError(t, err)
	assert.Equal(t, int64(got.Stats().DenseBlocks)*layout.BlockBytes, acq.used)
}

type countingAcquirer struct{ used int64 }

func (c *countingAcquirer) TryAcquireMemory(n int64) bool { c.used += n; return true }
func (c *countingAcquirer) ReleaseMemory(n int64)         { c.used -= n }

func BenchmarkMarshalZSTD(b *testing.B) {
	rng := testutil.NewRNG(1)
	v, _ := rng.Vector(testutil.VectorConfig{Blocks: 64})
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Marshal(v, WithCompression(CompressionZSTD))
	}
}
