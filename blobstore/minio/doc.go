// Package minio stores bit-vector blobs in MinIO or any other
// S3-compatible service (Ceph, Garage, SeaweedFS) through minio-go.
//
//	store, err := minio.New("localhost:9000", "bitagg",
//	    minio.WithStaticCredentials("minioadmin", "minioadmin"),
//	    minio.WithPrefix("catalog/"),
//	)
//	cat := catalog.New(store)
//
// Use NewStore to wrap an already configured *minio.Client.
package minio
