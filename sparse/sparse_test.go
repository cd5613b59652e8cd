package sparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bitagg/aggregator"
	"github.com/hupe1980/bitagg/bvector"
	"github.com/hupe1980/bitagg/internal/layout"
	"github.com/hupe1980/bitagg/testutil"
)

func fromSlice(t *testing.T, idx ...uint32) *bvector.BVector {
	t.Helper()
	v, err := bvector.FromSlice(idx)
	require.NoError(t, err)
	return v
}

func newScanner(t *testing.T) *Scanner {
	t.Helper()
	a, err := aggregator.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return NewScanner(a)
}

// zipfVector fills a nullable vector, leaving every seventh element NULL.
func zipfVector(t *testing.T, n, distinct int) (*Vector, []uint32) {
	t.Helper()
	rng := testutil.NewRNG(7)
	vals := rng.ZipfValues(n, distinct, 1.2)
	sv := New(WithNulls())
	for i, x := range vals {
		if i%7 == 3 {
			require.NoError(t, sv.PushBackNull())
			continue
		}
		require.NoError(t, sv.PushBack(x))
	}
	return sv, vals
}

func TestVectorSetGet(t *testing.T) {
	sv := New()
	require.NoError(t, sv.Set(10, 5))
	require.NoError(t, sv.Set(3, 0xffffffff))
	require.NoError(t, sv.Set(10, 2))

	assert.Equal(t, uint64(11), sv.Size())
	got, ok := sv.Get(10)
	require.True(t, ok)
	assert.Equal(t, uint32(2), got)
	got, ok = sv.Get(3)
	require.True(t, ok)
	assert.Equal(t, uint32(0xffffffff), got)

	got, ok = sv.Get(4)
	assert.True(t, ok, "unassigned elements of a vector without NULLs read as zero")
	assert.Zero(t, got)
	_, ok = sv.Get(11)
	assert.False(t, ok)

	assert.Equal(t, 32, sv.EffectivePlanes())
	assert.ErrorIs(t, sv.SetNull(1), ErrNotNullable)
	assert.ErrorIs(t, sv.PushBackNull(), ErrNotNullable)
}

func TestVectorNulls(t *testing.T) {
	sv := New(WithNulls())
	require.NoError(t, sv.PushBack(4))
	require.NoError(t, sv.PushBackNull())
	require.NoError(t, sv.PushBack(0))

	assert.Equal(t, uint64(3), sv.Size())
	_, ok := sv.Get(1)
	assert.False(t, ok)
	got, ok := sv.Get(2)
	require.True(t, ok)
	assert.Zero(t, got)

	require.NoError(t, sv.SetNull(0))
	_, ok = sv.Get(0)
	assert.False(t, ok)
	assert.Equal(t, []uint32{2}, sv.NullVector().ToSlice())
}

func TestVectorEqual(t *testing.T) {
	a, b := New(), New()
	require.NoError(t, a.PushBack(1))
	require.NoError(t, b.PushBack(1))
	assert.True(t, a.Equal(b))

	require.NoError(t, a.Set(0, 0))
	c := New()
	require.NoError(t, c.PushBack(0))
	assert.True(t, a.Equal(c), "an emptied plane equals a missing one")
	assert.False(t, a.Equal(b))
	require.NoError(t, b.Set(0, 0))

	require.NoError(t, b.PushBack(0))
	assert.False(t, a.Equal(b))
}

func TestFindEq(t *testing.T) {
	sv, vals := zipfVector(t, 5000, 40)
	s := newScanner(t)

	for _, x := range []uint32{0, 1, 2, 17, 39, 1000} {
		dst := bvector.New()
		require.NoError(t, s.FindEq(sv, x, dst))

		want := []uint32{}
		for i, v := range vals {
			if i%7 != 3 && v == x {
				want = append(want, uint32(i))
			}
		}
		assert.Equal(t, want, dst.ToSlice(), "value %d", x)
	}
}

func TestFindEqWithoutNulls(t *testing.T) {
	sv := New()
	for _, x := range []uint32{0, 3, 0, 3, 8} {
		require.NoError(t, sv.PushBack(x))
	}
	s := newScanner(t)

	dst := bvector.New()
	require.NoError(t, s.FindEq(sv, 0, dst))
	assert.Equal(t, []uint32{0, 2}, dst.ToSlice())
	require.NoError(t, s.FindEq(sv, 3, dst))
	assert.Equal(t, []uint32{1, 3}, dst.ToSlice())
	require.NoError(t, s.FindEq(sv, 9, dst))
	assert.Empty(t, dst.ToSlice())

	assert.ErrorIs(t, s.FindNull(sv, dst), ErrNotNullable)
	require.NoError(t, s.FindEq(New(), 0, dst))
	assert.False(t, dst.Any())
}

func TestFindNull(t *testing.T) {
	sv, _ := zipfVector(t, 100, 8)
	s := newScanner(t)

	dst := bvector.New()
	require.NoError(t, s.FindNull(sv, dst))
	dst.ForEach(func(idx uint32) bool {
		assert.Equal(t, uint32(3), idx%7)
		return true
	})
	assert.Equal(t, uint64(14), dst.Count())
}

func TestRankCompressor(t *testing.T) {
	var rc RankCompressor
	idx := fromSlice(t, 2, 5, 9, 70000)
	src := fromSlice(t, 1, 5, 70000, 80000)

	dst := bvector.New()
	require.NoError(t, rc.Compress(dst, idx, src))
	assert.Equal(t, []uint32{1, 3}, dst.ToSlice())

	back := bvector.New()
	require.NoError(t, rc.Decompress(back, idx, dst))
	assert.Equal(t, []uint32{5, 70000}, back.ToSlice())
}

func TestCompressedPushBack(t *testing.T) {
	c := NewCompressed()
	require.NoError(t, c.PushBack(0, 11))
	require.NoError(t, c.PushBack(5, 12))
	require.NoError(t, c.PushBack(200000, 13))

	assert.ErrorIs(t, c.PushBack(200000, 1), ErrRange)
	assert.ErrorIs(t, c.PushBack(7, 1), ErrRange)

	assert.Equal(t, uint64(3), c.Size())
	assert.Equal(t, uint32(200000), c.MaxID())

	got, ok := c.Get(5)
	require.True(t, ok)
	assert.Equal(t, uint32(12), got)
	got, ok = c.Get(200000)
	require.True(t, ok)
	assert.Equal(t, uint32(13), got)
	_, ok = c.Get(6)
	assert.False(t, ok)
}

// blockBudget grants a fixed number of dense block reservations.
type blockBudget struct{ left int64 }

func (b *blockBudget) TryAcquireMemory(bytes int64) bool {
	if bytes > b.left {
		return false
	}
	b.left -= bytes
	return true
}

func (b *blockBudget) ReleaseMemory(bytes int64) { b.left += bytes }

func TestCompressedPushBackAllocationFailure(t *testing.T) {
	budget := &blockBudget{left: layout.BlockBytes}
	c := NewCompressed(WithAllocator(bvector.NewAccountedAllocator(budget)))

	// The NULL bitmap gets the only block; the value plane is refused.
	err := c.PushBack(3, 1)
	require.ErrorIs(t, err, bvector.ErrAllocation)
	assert.Equal(t, uint64(0), c.Size())
	assert.Equal(t, uint64(0), c.NullVector().Count())
	_, ok := c.Get(3)
	assert.False(t, ok)

	budget.left += 8 * layout.BlockBytes
	require.NoError(t, c.PushBack(3, 1))
	require.NoError(t, c.PushBack(9, 2))

	got, ok := c.Get(3)
	require.True(t, ok)
	assert.Equal(t, uint32(1), got)
	got, ok = c.Get(9)
	require.True(t, ok)
	assert.Equal(t, uint32(2), got)
}

func TestCompressedLoadFrom(t *testing.T) {
	sv, vals := zipfVector(t, 3001, 64)

	loaded := NewCompressed()
	require.NoError(t, loaded.LoadFrom(sv))

	pushed := NewCompressed()
	for i, x := range vals {
		if i%7 != 3 {
			require.NoError(t, pushed.PushBack(uint32(i), x))
		}
	}

	assert.True(t, loaded.Equal(pushed))
	assert.Equal(t, pushed.MaxID(), loaded.MaxID())
	for i, x := range vals {
		got, ok := loaded.Get(uint32(i))
		if i%7 == 3 {
			assert.False(t, ok)
			continue
		}
		require.True(t, ok)
		assert.Equal(t, x, got)
	}

	back := New(WithNulls())
	require.NoError(t, loaded.Expand(back))
	assert.True(t, back.Equal(sv))
	assert.ErrorIs(t, loaded.Expand(New()), ErrNotNullable)
}
