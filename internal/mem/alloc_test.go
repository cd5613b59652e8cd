package mem

import (
	"fmt"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocAligned(t *testing.T) {
	sizes := []int{1, 10, 63, 64, 65, 100, 1024}
	aligns := []int{16, 32, 64}

	for _, align := range aligns {
		for _, size := range sizes {
			buf, err := AllocAligned(size, align)
			require.NoError(t, err)
			assert.Len(t, buf, size)

			addr := uintptr(unsafe.Pointer(&buf[0]))
			assert.Equal(t, uintptr(0), addr%uintptr(align), "Address %d should be aligned to %d for size %d", addr, align, size)
		}
	}

	buf, err := AllocAligned(0, 64)
	require.NoError(t, err)
	assert.Nil(t, buf)

	buf, err = AllocAligned(-1, 64)
	require.NoError(t, err)
	assert.Nil(t, buf)
}

func TestAllocAlignedInvalid(t *testing.T) {
	_, err := AllocAligned(64, 24)
	assert.ErrorIs(t, err, ErrInvalidAlignment)

	_, err = AllocAligned(64, 128)
	assert.ErrorIs(t, err, ErrInvalidAlignment)
}

func TestAllocAlignedOrdinary(t *testing.T) {
	buf, err := AllocAligned(100, 0)
	require.NoError(t, err)
	assert.Len(t, buf, 100)
}

func TestAllocAlignedWords(t *testing.T) {
	for _, align := range []int{0, 8, 16, 32, 64} {
		words, err := AllocAlignedWords(1024, align)
		require.NoError(t, err)
		assert.Len(t, words, 1024)
		assert.True(t, IsAligned(words, align))

		words[0] = ^uint64(0)
		words[1023] = 1
		assert.Equal(t, ^uint64(0), words[0])
	}

	words, err := AllocAlignedWords(0, 64)
	require.NoError(t, err)
	assert.Nil(t, words)
}

func BenchmarkAllocAlignedWords(b *testing.B) {
	for _, align := range []int{0, 32, 64} {
		b.Run(fmt.Sprintf("align=%d", align), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, _ = AllocAlignedWords(1024, align)
			}
		})
	}
}
