// Package s3 provides an S3 implementation of the blobstore.Store interface.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket",
//	    s3.WithPrefix("snapshots/"),
//	    s3.WithRegion("us-east-1"),
//	)
//
//	sess, err := anonlattice.Open(grid, model)
//	err = sess.Save(ctx, store, "census/2024.alsn")
//
// # Features
//
//   - CRC32C-checked single puts for small snapshots
//   - Multipart uploads for large snapshots
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
//   - CommitStore: a DynamoDB pointer to the latest snapshot for safe concurrent writers
package s3
