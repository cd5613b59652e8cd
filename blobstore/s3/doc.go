// Package s3 stores bit-vector blobs in Amazon S3.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("bitagg/"),
//	    s3.WithRegion("eu-central-1"),
//	)
//	cat := catalog.New(store)
//
// Reads are ranged GETs, writes stream through the feature/s3/manager
// uploader with CRC32C checksums, and List follows ListObjectsV2 pagination.
//
// S3 has no compare-and-swap, so two writers replacing the same vector can
// lose an update. DDBCommitStore closes that gap by keeping the catalog's
// CURRENT pointers in a DynamoDB table with conditional writes.
package s3
