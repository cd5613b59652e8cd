// Package bitagg provides multi-operand aggregation over block-compressed
// bit-vectors.
//
// An Engine combines up to aggregator.MaxOperands bit-vectors at a time with
// OR, AND or AND-SUB (the intersection of one group minus the union of
// another). The work walks the two-level block tree once and touches only
// populated blocks, so the cost follows the structure of the operands rather
// than their logical size.
//
// # Quick Start
//
//	eng, _ := bitagg.New()
//	defer eng.Close()
//
//	a, _ := bvector.FromSlice([]uint32{1, 2, 3})
//	b, _ := bvector.FromSlice([]uint32{2, 3, 4})
//	dst := bvector.New()
//	_ = eng.And(ctx, dst, a, b) // dst = {2, 3}
//
// # Batches
//
// Independent aggregations run concurrently, each on its own pooled
// aggregator:
//
//	err := eng.Batch(ctx, []aggregator.Job{
//	    {Op: aggregator.OpOr, Dst: x, And: srcs},
//	    {Op: aggregator.OpAndSub, Dst: y, And: must, Sub: not},
//	})
//
// # Persistence
//
// With a blob store the engine saves and loads named vectors and aggregates
// them in place:
//
//	eng, _ := bitagg.New(bitagg.WithStore(blobstore.NewLocalStore("./data")))
//	_ = eng.Save(ctx, "red", red)
//	_ = eng.Aggregate(ctx, aggregator.OpOr, "red-or-blue", "red", "blue")
//
// Remote stores live in blobstore/s3 and blobstore/minio. WithCache puts an
// in-memory block cache in front of them.
//
// # Bit-plane vectors
//
// The sparse package stores integer columns as bit-planes. Engine.FindEq
// searches them with a single AND-SUB aggregation.
package bitagg
