package integration_test

import (
	"context"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/bitagg"
	"github.com/hupe1980/bitagg/aggregator"
	"github.com/hupe1980/bitagg/blobstore"
	"github.com/hupe1980/bitagg/bvector"
	"github.com/hupe1980/bitagg/resource"
	"github.com/hupe1980/bitagg/serial"
	"github.com/hupe1980/bitagg/sparse"
	"github.com/hupe1980/bitagg/testutil"
)

func TestE2E_Restart(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	// 1. Save and aggregate
	e, err := bitagg.New(
		bitagg.WithStore(blobstore.NewLocalStore(dir)),
		bitagg.WithCompression(serial.CompressionZSTD),
	)
	require.NoError(t, err)

	rng := testutil.NewRNG(11)
	var ref []*roaring.Bitmap
	names := []string{"a", "b", "c", "d"}
	for _, name := range names {
		v, err := rng.Vector(testutil.VectorConfig{Blocks: 8})
		require.NoError(t, err)
		ref = append(ref, v.ToRoaring())
		require.NoError(t, e.Save(ctx, name, v))
	}
	require.NoError(t, e.AggregateAndSub(ctx, "result", names[:2], names[2:]))
	require.NoError(t, e.Close())

	// 2. Reopen and verify
	e, err = bitagg.New(
		bitagg.WithStore(blobstore.NewLocalStore(dir)),
		bitagg.WithCache(4<<20, 0),
	)
	require.NoError(t, err)
	defer e.Close()

	got, err := e.Load(ctx, "result")
	require.NoError(t, err)
	want := roaring.AndNot(roaring.FastAnd(ref[:2]...), roaring.FastOr(ref[2:]...))
	assert.True(t, want.Equals(got.ToRoaring()))

	listed, err := e.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d", "result"}, listed)
}

func TestE2E_LimitedResources(t *testing.T) {
	ctx := context.Background()
	rc := resource.NewController(resource.Config{
		MemoryLimitBytes:     32 << 20,
		MaxBackgroundWorkers: 2,
		IOLimitBytesPerSec:   256 << 20,
	})
	e, err := bitagg.New(
		bitagg.WithStore(blobstore.NewMemoryStore()),
		bitagg.WithResourceController(rc),
		bitagg.WithAccountedBlocks(),
	)
	require.NoError(t, err)
	defer e.Close()

	rng := testutil.NewRNG(12)
	srcs := make([]*bvector.BVector, 6)
	for k := range srcs {
		srcs[k], err = rng.Vector(testutil.VectorConfig{Blocks: 4, DenseWeight: 1})
		require.NoError(t, err)
	}

	jobs := []aggregator.Job{
		{Op: aggregator.OpOr, Dst: e.NewVector(), And: srcs},
		{Op: aggregator.OpAnd, Dst: e.NewVector(), And: srcs[:3]},
	}
	require.NoError(t, e.Batch(ctx, jobs))
	assert.Positive(t, rc.MemoryUsage())

	require.NoError(t, e.Save(ctx, "union", jobs[0].Dst))
	loaded, err := e.Load(ctx, "union")
	require.NoError(t, err)
	assert.True(t, loaded.Equal(jobs[0].Dst))

	// Loaded dense blocks are charged until cleared.
	used := rc.MemoryUsage()
	loaded.Clear()
	assert.Less(t, rc.MemoryUsage(), used)
}

func TestE2E_BitPlaneSearch(t *testing.T) {
	ctx := context.Background()
	e, err := bitagg.New()
	require.NoError(t, err)
	defer e.Close()

	rng := testutil.NewRNG(13)
	values := rng.ZipfValues(20_000, 30, 1.2)
	sv := sparse.New()
	for _, v := range values {
		require.NoError(t, sv.PushBack(v))
	}
	sv.Optimize()

	total := uint64(0)
	for val := uint32(0); val < 30; val++ {
		dst := bvector.New()
		require.NoError(t, e.FindEq(ctx, sv, val, dst))
		dst.ForEach(func(idx uint32) bool {
			assert.Equal(t, val, values[idx])
			return true
		})
		total += dst.Count()
	}
	assert.Equal(t, uint64(len(values)), total)
}
