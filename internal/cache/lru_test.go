package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bitagg/resource"
)

func TestLRUEviction(t *testing.T) {
	c := NewLRUBlockCache(30, nil)
	ctx := context.Background()

	c.Set(ctx, Key{Path: "a", Offset: 0}, make([]byte, 10))
	c.Set(ctx, Key{Path: "a", Offset: 1}, make([]byte, 10))
	c.Set(ctx, Key{Path: "a", Offset: 2}, make([]byte, 10))

	_, ok := c.Get(ctx, Key{Path: "a", Offset: 0})
	require.True(t, ok)

	c.Set(ctx, Key{Path: "a", Offset: 3}, make([]byte, 10))
	_, ok = c.Get(ctx, Key{Path: "a", Offset: 1})
	assert.False(t, ok, "least recently used block is evicted")
	_, ok = c.Get(ctx, Key{Path: "a", Offset: 0})
	assert.True(t, ok)
	assert.Equal(t, int64(30), c.Size())
	assert.Equal(t, 3, c.Len())
}

func TestLRUUpdateAndLimits(t *testing.T) {
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 100})
	c := NewLRUBlockCache(50, rc)
	ctx := context.Background()
	k := Key{Path: "v", Offset: 1}

	c.Set(ctx, k, make([]byte, 60))
	_, ok := c.Get(ctx, k)
	assert.False(t, ok, "blocks above capacity are not cached")

	c.Set(ctx, k, make([]byte, 10))
	c.Set(ctx, k, make([]byte, 20))
	assert.Equal(t, int64(20), c.Size())
	c.Set(ctx, k, make([]byte, 5))
	assert.Equal(t, int64(5), c.Size())
	assert.Equal(t, int64(5), rc.MemoryUsage())

	small := resource.NewController(resource.Config{MemoryLimitBytes: 10})
	c2 := NewLRUBlockCache(50, small)
	c2.Set(ctx, k, make([]byte, 8))
	c2.Set(ctx, k, make([]byte, 12))
	val, ok := c2.Get(ctx, k)
	require.True(t, ok)
	assert.Len(t, val, 8, "growth refused by the controller keeps the old block")

	require.NoError(t, c2.Close())
	assert.Zero(t, small.MemoryUsage())
}

func TestLRUStatsAndInvalidate(t *testing.T) {
	c := NewLRUBlockCache(100, nil)
	ctx := context.Background()
	c.Set(ctx, Key{Path: "a", Offset: 1}, []byte("x"))
	c.Set(ctx, Key{Path: "a", Offset: 2}, []byte("y"))
	c.Set(ctx, Key{Path: "b", Offset: 1}, []byte("z"))

	_, _ = c.Get(ctx, Key{Path: "a", Offset: 1})
	_, _ = c.Get(ctx, Key{Path: "c", Offset: 1})
	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)

	InvalidatePath(c, "a")
	_, ok := c.Get(ctx, Key{Path: "a", Offset: 2})
	assert.False(t, ok)
	_, ok = c.Get(ctx, Key{Path: "b", Offset: 1})
	assert.True(t, ok)
	assert.Equal(t, int64(1), c.Size())
}

func TestShardedLRU(t *testing.T) {
	c := NewShardedLRUBlockCache(64<<20, nil)
	ctx := context.Background()

	c.Set(ctx, Key{Path: "x", Offset: 0}, []byte("data"))
	got, ok := c.Get(ctx, Key{Path: "x", Offset: 0})
	require.True(t, ok)
	assert.Equal(t, "data", string(got))
	_, ok = c.Get(ctx, Key{Path: "y", Offset: 0})
	assert.False(t, ok)

	for i := range 1000 {
		c.Set(ctx, Key{Path: fmt.Sprintf("vec-%d", i%100), Offset: uint64(i)}, make([]byte, 16))
	}
	assert.Greater(t, c.nonEmptyShards(), 30)

	InvalidatePath(c, "x")
	_, ok = c.Get(ctx, Key{Path: "x", Offset: 0})
	assert.False(t, ok)
	assert.Equal(t, int64(1000*16), c.Size())

	require.NoError(t, c.Close())
	assert.Zero(t, c.Size())
}

func TestShardedLRUConcurrent(t *testing.T) {
	c := NewShardedLRUBlockCache(64<<20, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for g := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			path := fmt.Sprintf("g%d", g)
			for i := range 200 {
				k := Key{Path: path, Offset: uint64(i)}
				c.Set(ctx, k, []byte{byte(i)})
				v, ok := c.Get(ctx, k)
				if assert.True(t, ok) {
					assert.Equal(t, byte(i), v[0])
				}
			}
		}()
	}
	wg.Wait()

	hits, misses := c.Stats()
	assert.Equal(t, int64(16*200), hits)
	assert.Zero(t, misses)
}
