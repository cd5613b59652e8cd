package benchmark_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/bitagg"
	"github.com/hupe1980/bitagg/aggregator"
	"github.com/hupe1980/bitagg/bvector"
	"github.com/hupe1980/bitagg/testutil"
)

type workload struct {
	name string
	cfg  testutil.VectorConfig
}

var workloads = []workload{
	{"dense", testutil.VectorConfig{Blocks: 64, DenseWeight: 1, Density: 0.5}},
	{"sparse-gap", testutil.VectorConfig{Blocks: 64, GapWeight: 3, AbsentWeight: 1, MaxRuns: 32}},
	{"mixed", testutil.VectorConfig{Blocks: 64}},
}

func operands(b *testing.B, cfg testutil.VectorConfig, n int) []*bvector.BVector {
	b.Helper()
	rng := testutil.NewRNG(int64(n))
	out := make([]*bvector.BVector, n)
	for k := range out {
		v, err := rng.Vector(cfg)
		if err != nil {
			b.Fatal(err)
		}
		out[k] = v
	}
	return out
}

func BenchmarkOr(b *testing.B) {
	ctx := context.Background()
	for _, w := range workloads {
		for _, n := range []int{2, 16, 128} {
			srcs := operands(b, w.cfg, n)

			for _, strategy := range []aggregator.Strategy{aggregator.StrategyOptimized, aggregator.StrategyHorizontal} {
				b.Run(fmt.Sprintf("%s/n=%d/%s", w.name, n, strategy), func(b *testing.B) {
					eng, err := bitagg.New(bitagg.WithStrategy(strategy))
					if err != nil {
						b.Fatal(err)
					}
					defer eng.Close()

					dst := bvector.New()
					b.ReportAllocs()
					b.ResetTimer()
					for i := 0; i < b.N; i++ {
						if err := eng.Or(ctx, dst, srcs...); err != nil {
							b.Fatal(err)
						}
					}
				})
			}

			b.Run(fmt.Sprintf("%s/n=%d/roaring", w.name, n), func(b *testing.B) {
				rbs := make([]*roaring.Bitmap, n)
				for k, v := range srcs {
					rbs[k] = v.ToRoaring()
				}
				b.ReportAllocs()
				b.ResetTimer()
				for i := 0; i < b.N; i++ {
					_ = roaring.FastOr(rbs...)
				}
			})
		}
	}
}

func BenchmarkAndSub(b *testing.B) {
	ctx := context.Background()
	for _, w := range workloads {
		and := operands(b, w.cfg, 4)
		sub := operands(b, w.cfg, 12)

		b.Run(w.name, func(b *testing.B) {
			eng, err := bitagg.New()
			if err != nil {
				b.Fatal(err)
			}
			defer eng.Close()

			dst := bvector.New()
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := eng.AndSub(ctx, dst, and, sub); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkBatch(b *testing.B) {
	ctx := context.Background()
	srcs := operands(b, workloads[2].cfg, 32)

	for _, concurrency := range []int{1, 4} {
		b.Run(fmt.Sprintf("concurrency=%d", concurrency), func(b *testing.B) {
			eng, err := bitagg.New(bitagg.WithBatchConcurrency(concurrency))
			if err != nil {
				b.Fatal(err)
			}
			defer eng.Close()

			jobs := make([]aggregator.Job, 8)
			for k := range jobs {
				jobs[k] = aggregator.Job{Op: aggregator.OpOr, Dst: bvector.New(), And: srcs[k*4 : k*4+4]}
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := eng.Batch(ctx, jobs); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
