// Package anonlattice provides the generalization lattice and packed row
// storage of a data-anonymization engine.
//
// A Session owns one lattice over a transformation space together with the
// packed row stores an evaluation uses, and carries the ambient stack:
// structured logging, metrics and a memory budget.
//
// # Quick Start
//
//	grid, _ := space.NewUniformGrid(4, 2, 1)
//	// ... record search results with grid.Put ...
//
//	sess, _ := anonlattice.Open(grid, quality.NewScalar(quality.ScalarConfig{}),
//	    anonlattice.WithHeader("age", "zip", "sex"),
//	    anonlattice.WithMemoryLimit(64<<20),
//	)
//	defer sess.Close()
//
//	l := sess.Lattice()
//	fmt.Println(l.Size(), l.LowestScore(), l.HighestScore())
//
// # Row Stores
//
// Row stores created by a session are charged to the session's memory budget
// and released by Close:
//
//	rows, _ := sess.NewRowStore(100_000, []uint8{7, 12, 3})
//	rows.Set(0, 1, 42)
//
// # Snapshots
//
// Sessions persist to any blobstore.Store:
//
//	store := blobstore.NewLocalStore("./snapshots")
//	_ = sess.Save(ctx, store, "census.alsn")
//
//	restored, _ := anonlattice.Restore(ctx, grid, model, store, "census.alsn")
//
// Use blobstore/s3 or blobstore/minio for object storage and s3.CommitStore
// with Session.Publish when several writers share a location.
package anonlattice
