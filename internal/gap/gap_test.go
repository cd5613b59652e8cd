package gap

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bitagg/internal/layout"
)

func testBit(w *layout.Words, pos int) bool {
	return w[pos/64]&(1<<(uint(pos)%64)) != 0
}

func randomRuns(rng *rand.Rand, n int) Block {
	ends := make(map[uint16]struct{}, n)
	for len(ends) < n {
		ends[uint16(rng.Intn(layout.BlockBits-1))] = struct{}{}
	}
	sorted := make([]uint16, 0, n)
	for e := range ends {
		sorted = append(sorted, e)
	}
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j] < sorted[j-1]; j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}
	return FromRuns(rng.Intn(2) == 1, sorted...)
}

func expand(b Block) *layout.Words {
	var w layout.Words
	b.ToWords(&w)
	return &w
}

func TestExampleBlock(t *testing.T) {
	b := Block{0, 99, 199, 65535}
	require.NoError(t, b.Validate())

	assert.False(t, b.Test(0))
	assert.False(t, b.Test(99))
	assert.True(t, b.Test(100))
	assert.True(t, b.Test(199))
	assert.False(t, b.Test(200))
	assert.Equal(t, 100, b.Count())
	assert.Equal(t, 50, b.CountTo(149))
	assert.Equal(t, 3, b.Runs())
}

func TestAllOnesAllZero(t *testing.T) {
	assert.True(t, New(true).IsAllOnes())
	assert.True(t, New(false).IsAllZero())
	assert.Equal(t, layout.BlockBits, New(true).Count())
	assert.Equal(t, 0, New(false).Count())
	assert.False(t, FromRuns(true, 10).IsAllOnes())
}

func TestValidate(t *testing.T) {
	assert.ErrorIs(t, Block{0}.Validate(), ErrMalformed)
	assert.ErrorIs(t, Block{2, 65535}.Validate(), ErrMalformed)
	assert.ErrorIs(t, Block{0, 10, 10, 65535}.Validate(), ErrMalformed)
	assert.ErrorIs(t, Block{0, 10, 200}.Validate(), ErrMalformed)
	assert.NoError(t, Block{1, 65535}.Validate())
}

func TestWordsRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 20; i++ {
		b := randomRuns(rng, 1+rng.Intn(200))
		w := expand(b)

		got, ok := FromWords(w, nil, 0)
		require.True(t, ok)
		assert.Equal(t, b, got)

		for k := 0; k < 500; k++ {
			pos := rng.Intn(layout.BlockBits)
			assert.Equal(t, testBit(w, pos), b.Test(uint16(pos)))
		}
	}
}

func TestFromWordsLimit(t *testing.T) {
	var w layout.Words
	for i := range w {
		w[i] = 0x5555555555555555
	}
	_, ok := FromWords(&w, nil, MaxLen)
	assert.False(t, ok)

	b := FromRuns(false, 10, 20, 30)
	got, ok := FromWords(expand(b), make([]uint16, 0, 8), 4)
	require.True(t, ok)
	assert.Equal(t, b, got)

	_, ok = FromWords(expand(b), nil, 3)
	assert.False(t, ok)
}

func TestFromWordsBoundaries(t *testing.T) {
	var w layout.Words
	w[0] = 1 << 63
	w[1] = 1
	got, ok := FromWords(&w, nil, 0)
	require.True(t, ok)
	assert.Equal(t, FromRuns(false, 62, 64), got)

	w = layout.AllOnesWords
	got, ok = FromWords(&w, nil, 0)
	require.True(t, ok)
	assert.True(t, got.IsAllOnes())
}

func TestMergeMatchesDense(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	ops := map[string]struct {
		op    Op
		dense func(x, y uint64) uint64
	}{
		"or":  {OpOr, func(x, y uint64) uint64 { return x | y }},
		"and": {OpAnd, func(x, y uint64) uint64 { return x & y }},
		"sub": {OpSub, func(x, y uint64) uint64 { return x &^ y }},
		"xor": {OpXor, func(x, y uint64) uint64 { return x ^ y }},
	}
	for name, tc := range ops {
		t.Run(name, func(t *testing.T) {
			for i := 0; i < 10; i++ {
				a, b := randomRuns(rng, 1+rng.Intn(100)), randomRuns(rng, 1+rng.Intn(100))
				got := Merge(a, b, tc.op, nil)
				require.NoError(t, got.Validate())
				assert.LessOrEqual(t, got.Runs(), a.Runs()+b.Runs())

				wa, wb := expand(a), expand(b)
				var want layout.Words
				for k := range want {
					want[k] = tc.dense(wa[k], wb[k])
				}
				assert.Equal(t, want, *expand(got))
			}
		})
	}
}

func TestOrShortCircuitShape(t *testing.T) {
	a := FromRuns(true, 32767)
	b := FromRuns(false, 32767)
	got := Or(a, b, nil)
	assert.True(t, got.IsAllOnes())
	assert.True(t, And(a, b, nil).IsAllZero())
	assert.True(t, Sub(a, a, nil).IsAllZero())
	assert.True(t, Xor(a, b, nil).IsAllOnes())
}

func TestAndSubIntoRespectDigest(t *testing.T) {
	w := layout.AllOnesWords
	// segment 1 is left out of the digest and must survive
	AndInto(&w, FromRuns(false, 2047), ^uint64(0)&^(1<<1))
	assert.False(t, testBit(&w, 0))
	assert.False(t, testBit(&w, 1023))
	assert.True(t, testBit(&w, 1024))
	assert.True(t, testBit(&w, 2047))
	assert.True(t, testBit(&w, 2048))

	w = layout.AllOnesWords
	SubInto(&w, FromRuns(false, 99, 199), ^uint64(0))
	assert.True(t, testBit(&w, 99))
	assert.False(t, testBit(&w, 100))
	assert.False(t, testBit(&w, 199))
	assert.True(t, testBit(&w, 200))
}

func TestForEachRunStops(t *testing.T) {
	b := FromRuns(true, 1, 2, 3, 4)
	n := 0
	b.ForEachRun(func(_, _ uint16, _ bool) bool {
		n++
		return n < 2
	})
	assert.Equal(t, 2, n)
}

func BenchmarkMergeOr(b *testing.B) {
	rng := rand.New(rand.NewSource(1))
	x, y := randomRuns(rng, 500), randomRuns(rng, 500)
	dst := make([]uint16, 0, 1024)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		dst = Or(x, y, dst)
	}
}
