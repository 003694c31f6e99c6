package anonlattice

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/hupe1980/anonlattice/blobstore"
	"github.com/hupe1980/anonlattice/internal/conv"
	"github.com/hupe1980/anonlattice/internal/resource"
	"github.com/hupe1980/anonlattice/lattice"
	"github.com/hupe1980/anonlattice/persistence"
	"github.com/hupe1980/anonlattice/quality"
	"github.com/hupe1980/anonlattice/rowstore"
	"github.com/hupe1980/anonlattice/space"
)

// Session owns a lattice and the row stores of one evaluation.
//
// The lattice itself is not synchronized; a session serializes only its own
// bookkeeping (owned row stores and the closed state).
type Session struct {
	lattice *lattice.Lattice
	opts    options
	rc      *resource.Controller

	mu     sync.Mutex
	stores map[*rowstore.Store]struct{}
	closed bool
}

// Open builds the lattice of sp under model and returns a session owning it.
func Open(sp space.Space, model quality.Model, optFns ...Option) (*Session, error) {
	s := newSession(optFns)
	if sp != nil {
		s.opts.logger = s.opts.logger.WithDimensions(sp.Dimensions())
	}
	start := time.Now()

	b := lattice.NewBuilder(sp, model).
		Complete(s.opts.complete).
		Uncertainty(s.opts.uncertainty).
		SuppressionLimit(s.opts.suppressionLimit).
		SuppressionAlwaysEnabled(s.opts.suppressionAlways).
		Logger(s.opts.logger.Logger)
	if len(s.opts.header) > 0 {
		b.Header(s.opts.header)
	}
	if s.opts.optimum != nil {
		b.Optimum(*s.opts.optimum)
	}

	l, err := b.Build()
	s.recordBuild(l, start, err)
	if err != nil {
		return nil, err
	}
	s.lattice = l
	return s, nil
}

// Restore loads the snapshot stored under name and rebuilds its lattice over sp.
// Lattice-shape options (complete, uncertainty, header, optimum) come from the
// snapshot; the remaining options apply as in Open.
func Restore(ctx context.Context, sp space.Space, model quality.Model, store blobstore.Store, name string, optFns ...Option) (*Session, error) {
	s := newSession(optFns)
	if sp != nil {
		s.opts.logger = s.opts.logger.WithDimensions(sp.Dimensions())
	}

	start := time.Now()
	snap, err := persistence.Load(ctx, store, name)
	s.opts.metricsCollector.RecordSnapshot(time.Since(start), err)
	s.opts.logger.LogSnapshot(ctx, "loaded", name, err)
	if err != nil {
		return nil, err
	}

	start = time.Now()
	l, err := lattice.Restore(sp, model, snap, s.opts.restoreCtx, lattice.WithRestoreLogger(s.opts.logger.Logger))
	s.recordBuild(l, start, err)
	if err != nil {
		return nil, err
	}
	s.lattice = l
	return s, nil
}

func newSession(optFns []Option) *Session {
	o := applyOptions(optFns)
	return &Session{
		opts: o,
		rc: resource.NewController(resource.Config{
			MemoryLimitBytes:   o.memoryLimit,
			IOLimitBytesPerSec: o.ioLimit,
		}),
		stores: make(map[*rowstore.Store]struct{}),
	}
}

func (s *Session) recordBuild(l *lattice.Lattice, start time.Time, err error) {
	d := time.Since(start)
	if err != nil {
		s.opts.metricsCollector.RecordBuild(0, d, err)
		s.opts.logger.LogBuild(context.Background(), 0, 0, s.opts.complete, d, err)
		return
	}
	s.opts.metricsCollector.RecordBuild(l.Size(), d, nil)
	s.opts.logger.LogBuild(context.Background(), l.Size(), l.VirtualSize(), l.Complete(), d, nil)
}

// Lattice returns the session's lattice.
func (s *Session) Lattice() *lattice.Lattice {
	return s.lattice
}

// Expand materializes the known neighbors of n. See lattice.Lattice.Expand.
func (s *Session) Expand(n *lattice.Node) (lattice.ExpandResult, error) {
	if s.isClosed() {
		return lattice.ExpandResult{}, ErrClosed
	}

	start := time.Now()
	res, err := s.lattice.Expand(n)
	s.opts.metricsCollector.RecordExpand(res.Added, time.Since(start), err)

	var id uint64
	if n != nil {
		id = n.ID()
	}
	s.opts.logger.LogExpand(context.Background(), id, res.Added, err)
	return res, err
}

// NewRowStore allocates a packed row store charged to the session's memory
// budget. The session releases it on Close unless ReleaseRowStore is called first.
func (s *Session) NewRowStore(rows int, widths []uint8) (*rowstore.Store, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	opts := []rowstore.Option{rowstore.WithMemoryAcquirer(s.rc)}
	if s.opts.offHeapRows {
		opts = append(opts, rowstore.WithOffHeap())
	}

	st, err := rowstore.New(rows, widths, opts...)
	if err != nil {
		s.opts.metricsCollector.RecordRowStore(0, err)
		s.opts.logger.LogRowStore(context.Background(), "allocate", rows, 0, s.opts.offHeapRows, err)
		return nil, err
	}

	s.stores[st] = struct{}{}
	s.opts.metricsCollector.RecordRowStore(conv.IntToInt64(st.ByteSize()), nil)
	s.opts.logger.LogRowStore(context.Background(), "allocate", rows, st.ByteSize(), st.OffHeap(), nil)
	return st, nil
}

// ReleaseRowStore releases a row store created by NewRowStore.
func (s *Session) ReleaseRowStore(st *rowstore.Store) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if _, ok := s.stores[st]; !ok {
		return ErrForeignRowStore
	}
	delete(s.stores, st)
	return s.release(st)
}

func (s *Session) release(st *rowstore.Store) error {
	rows, size, offHeap := st.Rows(), st.ByteSize(), st.OffHeap()
	err := st.Release()
	if err == nil {
		s.opts.metricsCollector.RecordRowStore(-conv.IntToInt64(size), nil)
	}
	s.opts.logger.LogRowStore(context.Background(), "release", rows, size, offHeap, err)
	return err
}

// MemoryUsage returns the bytes currently held by the session's row stores.
func (s *Session) MemoryUsage() int64 {
	return s.rc.MemoryUsage()
}

// RowStores returns the number of row stores the session owns.
func (s *Session) RowStores() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.stores)
}

// Snapshot exports the lattice's durable state.
func (s *Session) Snapshot() *lattice.Snapshot {
	return s.lattice.Snapshot()
}

// Save writes a snapshot of the lattice to store under name, using the
// session's codec and compression. Writes to a LocalStore are not rate limited
// by the session; pass blobstore.WithResourceController(s.ResourceController())
// when creating it for that.
func (s *Session) Save(ctx context.Context, store blobstore.Store, name string) error {
	if s.isClosed() {
		return ErrClosed
	}
	start := time.Now()
	err := persistence.Save(ctx, store, name, s.lattice.Snapshot(), s.opts.persistenceOptions()...)
	s.opts.metricsCollector.RecordSnapshot(time.Since(start), err)
	s.opts.logger.LogSnapshot(ctx, "saved", name, err)
	return err
}

// Replicate writes the same snapshot to every store concurrently.
func (s *Session) Replicate(ctx context.Context, name string, stores ...blobstore.Store) error {
	if s.isClosed() {
		return ErrClosed
	}
	start := time.Now()
	err := persistence.Replicate(ctx, s.lattice.Snapshot(), name, stores, s.opts.persistenceOptions()...)
	s.opts.metricsCollector.RecordSnapshot(time.Since(start), err)
	s.opts.logger.LogSnapshot(ctx, "replicated", name, err)
	return err
}

// Publish saves a snapshot under name and commits it as the latest snapshot
// of c, returning the committed version.
func (s *Session) Publish(ctx context.Context, c persistence.Committer, name string) (uint64, error) {
	if s.isClosed() {
		return 0, ErrClosed
	}
	start := time.Now()
	version, err := persistence.Publish(ctx, c, name, s.lattice.Snapshot(), s.opts.persistenceOptions()...)
	s.opts.metricsCollector.RecordSnapshot(time.Since(start), err)
	logger := &Logger{Logger: s.opts.logger.With("version", version)}
	logger.LogSnapshot(ctx, "published", name, err)
	return version, err
}

// ResourceController returns the session's memory and IO budget.
func (s *Session) ResourceController() *resource.Controller {
	return s.rc
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close releases every row store the session still owns.
// A second call returns ErrClosed.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.closed = true

	var errs []error
	for st := range s.stores {
		if err := s.release(st); err != nil {
			errs = append(errs, err)
		}
	}
	clear(s.stores)
	return errors.Join(errs...)
}
