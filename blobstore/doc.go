// Package blobstore abstracts where serialized bit-vectors live.
//
// A BlobStore holds named, immutable blobs. Implementations must be safe for
// concurrent use.
//
// # Built-in Implementations
//
//   - MemoryStore: in-process map, for tests and ephemeral catalogs
//   - LocalStore: local filesystem with mmap reads and atomic writes
//   - CachingStore: block-level read cache in front of any store
//   - s3.Store, s3.DDBCommitStore: Amazon S3, optionally with DynamoDB commits
//   - minio.Store: MinIO and other S3-compatible services
//
// Remote blobs are read with ranged requests through Blob.ReadAt and
// Blob.ReadRange; NewReader turns a Blob into a sequential io.Reader for the
// decoder.
package blobstore
