// Package blobstore provides storage abstraction for persisted lattice snapshots.
//
// Store is the interface for writing and reading whole blobs by name.
// Implementations must be safe for concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem with atomic renames and mmap reads
//   - MemoryStore: in-memory, for tests and ephemeral sessions
//   - s3.Store: Amazon S3, with multipart uploads for large snapshots
//   - s3.CommitStore: S3 plus a DynamoDB pointer to the latest snapshot
//   - minio.Store: MinIO and other S3-compatible services
//
// # Custom Implementations
//
//	type Store interface {
//	    Put(ctx, name, data) error          // Atomic write
//	    Get(ctx, name) ([]byte, error)
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
package blobstore
