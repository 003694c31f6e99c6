package persistence

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/anonlattice/blobstore"
	"github.com/hupe1980/anonlattice/lattice"
)

// Committer is a blob store that tracks the latest committed blob,
// such as s3.CommitStore.
type Committer interface {
	blobstore.Store
	// Commit points the latest version at name and returns the new version.
	Commit(ctx context.Context, name string) (uint64, error)
	// Latest returns the latest committed name and version.
	Latest(ctx context.Context) (string, uint64, error)
}

// Save encodes snap and writes it to store under name.
func Save(ctx context.Context, store blobstore.Store, name string, snap *lattice.Snapshot, opts ...Option) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := Marshal(snap, opts...)
	if err != nil {
		return err
	}
	if err := store.Put(ctx, name, data); err != nil {
		return fmt.Errorf("persistence: put %s: %w", name, err)
	}
	return nil
}

// Load reads and decodes the snapshot stored under name.
func Load(ctx context.Context, store blobstore.Store, name string) (*lattice.Snapshot, error) {
	data, err := store.Get(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("persistence: get %s: %w", name, err)
	}
	snap, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("persistence: %s: %w", name, err)
	}
	return snap, nil
}

// Replicate encodes snap once and writes it to every store concurrently.
// The first failure cancels the remaining writes.
func Replicate(ctx context.Context, snap *lattice.Snapshot, name string, stores []blobstore.Store, opts ...Option) error {
	data, err := Marshal(snap, opts...)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, store := range stores {
		g.Go(func() error {
			if err := store.Put(gctx, name, data); err != nil {
				return fmt.Errorf("persistence: replica %d: put %s: %w", i, name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Publish saves snap under name and commits it as the latest snapshot.
func Publish(ctx context.Context, c Committer, name string, snap *lattice.Snapshot, opts ...Option) (uint64, error) {
	if err := Save(ctx, c, name, snap, opts...); err != nil {
		return 0, err
	}
	version, err := c.Commit(ctx, name)
	if err != nil {
		return 0, fmt.Errorf("persistence: commit %s: %w", name, err)
	}
	return version, nil
}

// LoadLatest loads the latest committed snapshot and its version.
func LoadLatest(ctx context.Context, c Committer) (*lattice.Snapshot, uint64, error) {
	name, version, err := c.Latest(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("persistence: latest: %w", err)
	}
	snap, err := Load(ctx, c, name)
	if err != nil {
		return nil, 0, err
	}
	return snap, version, nil
}
