// Package catalog keeps named bit-vectors in a blobstore.BlobStore and runs
// aggregations over them.
//
// Every Save writes a new generation of the vector and then moves the
// vector's CURRENT pointer to it:
//
//	vectors/<name>/00000000000000000003.bv
//	vectors/<name>/CURRENT                  -> "3"
//
// Readers resolve the pointer first, so they never observe a half-written
// vector. Wrapping an S3 store in s3.DDBCommitStore turns the pointer move
// into a conditional DynamoDB write.
//
// All blob traffic is charged to the resource.Controller's IO limiter.
package catalog
