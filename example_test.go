package bitagg_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/bitagg"
	"github.com/hupe1980/bitagg/aggregator"
	"github.com/hupe1980/bitagg/blobstore"
	"github.com/hupe1980/bitagg/bvector"
)

func mustVector(idx ...uint32) *bvector.BVector {
	v, err := bvector.FromSlice(idx)
	if err != nil {
		log.Fatal(err)
	}
	return v
}

// Example_andSub demonstrates an intersection minus a union.
func Example_andSub() {
	ctx := context.Background()
	eng, err := bitagg.New()
	if err != nil {
		log.Fatal(err)
	}
	defer eng.Close()

	inStock := mustVector(1, 2, 3, 4, 5, 6)
	onSale := mustVector(2, 3, 5, 6, 9)
	recalled := mustVector(3)
	discontinued := mustVector(6, 7)

	dst := bvector.New()
	err = eng.AndSub(ctx, dst,
		[]*bvector.BVector{inStock, onSale},
		[]*bvector.BVector{recalled, discontinued},
	)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(dst.ToSlice())
	// Output: [2 5]
}

// Example_batch demonstrates running independent aggregations concurrently.
func Example_batch() {
	ctx := context.Background()
	eng, err := bitagg.New(bitagg.WithBatchConcurrency(2))
	if err != nil {
		log.Fatal(err)
	}
	defer eng.Close()

	a, b := mustVector(1, 2), mustVector(2, 3)
	union, common := bvector.New(), bvector.New()
	err = eng.Batch(ctx, []aggregator.Job{
		{Op: aggregator.OpOr, Dst: union, And: []*bvector.BVector{a, b}},
		{Op: aggregator.OpAnd, Dst: common, And: []*bvector.BVector{a, b}},
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(union.ToSlice(), common.ToSlice())
	// Output: [1 2 3] [2]
}

// Example_store demonstrates aggregating stored vectors by name.
func Example_store() {
	ctx := context.Background()
	eng, err := bitagg.New(bitagg.WithStore(blobstore.NewMemoryStore()))
	if err != nil {
		log.Fatal(err)
	}
	defer eng.Close()

	_ = eng.Save(ctx, "red", mustVector(1, 4))
	_ = eng.Save(ctx, "blue", mustVector(4, 8))
	if err := eng.Aggregate(ctx, aggregator.OpOr, "purple", "red", "blue"); err != nil {
		log.Fatal(err)
	}

	v, err := eng.Load(ctx, "purple")
	if err != nil {
		log.Fatal(err)
	}
	names, _ := eng.List(ctx)
	fmt.Println(v.ToSlice(), names)
	// Output: [1 4 8] [blue purple red]
}
