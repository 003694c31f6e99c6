package anonlattice

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/anonlattice/blobstore"
	"github.com/hupe1980/anonlattice/lattice"
	"github.com/hupe1980/anonlattice/persistence"
	"github.com/hupe1980/anonlattice/quality"
	"github.com/hupe1980/anonlattice/rowstore"
	"github.com/hupe1980/anonlattice/space"
	"github.com/hupe1980/anonlattice/testutil"
)

func newModel() *quality.Scalar {
	return quality.NewScalar(quality.ScalarConfig{MonotonicWithGeneralization: true})
}

// classifiedGrid checks every transformation of a 3x3 grid; level 2 and above
// is anonymous.
func classifiedGrid(t *testing.T) *space.Grid {
	t.Helper()
	g, err := testutil.ClassifiedGrid([]int{2, 2}, 2)
	require.NoError(t, err)
	return g
}

func TestOpen_Complete(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	s, err := Open(classifiedGrid(t), newModel(),
		WithMetrics(metrics),
		WithHeader("age", "zip"),
		WithOptimum(4),
	)
	require.NoError(t, err)
	defer s.Close()

	l := s.Lattice()
	assert.Equal(t, 9, l.Size())
	assert.True(t, l.Complete())
	assert.Equal(t, uint64(4), l.Optimum().ID())
	assert.Equal(t, []string{"age", "zip"}, l.Header().Names())

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.BuildCount)
	assert.Equal(t, int64(9), stats.Nodes)

	// Expansion is a no-op on complete lattices.
	res, err := s.Expand(l.Bottom())
	require.NoError(t, err)
	assert.Zero(t, res.Added)
}

func TestOpen_Errors(t *testing.T) {
	metrics := &BasicMetricsCollector{}

	_, err := Open(classifiedGrid(t), newModel(), WithMetrics(metrics), WithHeader("only-one"))
	assert.ErrorIs(t, err, lattice.ErrInvalidConfig)

	// An unclassified grid cannot back a complete lattice.
	g, err := space.NewUniformGrid(1, 1)
	require.NoError(t, err)
	_, err = Open(g, newModel(), WithMetrics(metrics))
	assert.ErrorIs(t, err, lattice.ErrMissingAnonymity)

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.BuildCount)
	assert.Equal(t, int64(2), stats.BuildErrors)
}

func TestSession_Expand(t *testing.T) {
	g, err := space.NewUniformGrid(2, 2)
	require.NoError(t, err)
	require.NoError(t, g.Put(4, space.Checked|space.Anonymous, quality.Loss(0.5), nil))

	metrics := &BasicMetricsCollector{}
	s, err := Open(g, newModel(), WithComplete(false), WithMetrics(metrics))
	require.NoError(t, err)
	defer s.Close()

	// [1,1] plus the guaranteed bottom and top.
	require.Equal(t, 3, s.Lattice().Size())

	center, ok := s.Lattice().Node(4)
	require.True(t, ok)
	res, err := s.Expand(center)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Added)
	assert.Equal(t, 7, s.Lattice().Size())

	_, err = s.Expand(nil)
	assert.ErrorIs(t, err, lattice.ErrForeignNode)

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.ExpandCount)
	assert.Equal(t, int64(1), stats.ExpandErrors)
	assert.Equal(t, int64(7), stats.Nodes)
}

func TestSession_RowStores(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	s, err := Open(classifiedGrid(t), newModel(), WithMetrics(metrics))
	require.NoError(t, err)

	a, err := s.NewRowStore(16, []uint8{8, 16})
	require.NoError(t, err)
	b, err := s.NewRowStore(4, []uint8{31, 31, 31})
	require.NoError(t, err)

	assert.Equal(t, 2, s.RowStores())
	assert.Equal(t, int64(a.ByteSize()+b.ByteSize()), s.MemoryUsage())
	assert.Equal(t, int64(a.ByteSize()+b.ByteSize()), metrics.GetStats().RowStoreBytes)

	require.NoError(t, s.ReleaseRowStore(a))
	assert.True(t, a.Released())
	assert.Equal(t, int64(b.ByteSize()), s.MemoryUsage())

	// Already released and no longer owned.
	assert.ErrorIs(t, s.ReleaseRowStore(a), ErrForeignRowStore)

	foreign, err := rowstore.New(1, []uint8{8})
	require.NoError(t, err)
	assert.ErrorIs(t, s.ReleaseRowStore(foreign), ErrForeignRowStore)
	require.NoError(t, foreign.Release())

	require.NoError(t, s.Close())
	assert.True(t, b.Released())
	assert.Zero(t, s.MemoryUsage())
	assert.Zero(t, s.RowStores())
	assert.Zero(t, metrics.GetStats().RowStoreBytes)

	assert.ErrorIs(t, s.Close(), ErrClosed)
	_, err = s.NewRowStore(1, []uint8{8})
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, s.ReleaseRowStore(b), ErrClosed)
}

func TestSession_RowStoreMemoryLimit(t *testing.T) {
	s, err := Open(classifiedGrid(t), newModel(), WithMemoryLimit(1024))
	require.NoError(t, err)
	defer s.Close()

	st, err := s.NewRowStore(64, []uint8{31, 31}) // 64 rows of 8 bytes
	require.NoError(t, err)

	_, err = s.NewRowStore(1024, []uint8{31})
	assert.ErrorIs(t, err, rowstore.ErrMemoryExhausted)
	assert.Equal(t, 1, s.RowStores())

	require.NoError(t, s.ReleaseRowStore(st))
	_, err = s.NewRowStore(64, []uint8{31, 31})
	require.NoError(t, err)
}

func TestSession_OffHeapRowStore(t *testing.T) {
	s, err := Open(classifiedGrid(t), newModel(), WithOffHeapRows(true))
	require.NoError(t, err)

	st, err := s.NewRowStore(128, []uint8{4, 12, 20})
	require.NoError(t, err)
	assert.True(t, st.OffHeap())

	st.Set(7, 1, 0xABC)
	assert.Equal(t, uint32(0xABC), st.Get(7, 1))

	require.NoError(t, s.Close())
	assert.True(t, st.Released())
}

func TestSession_SaveRestore(t *testing.T) {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()

	var buf bytes.Buffer
	logger := NewLogger(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s, err := Open(classifiedGrid(t), newModel(),
		WithLogger(logger),
		WithHeader("age", "zip"),
		WithCompression(persistence.CompressionZSTD),
	)
	require.NoError(t, err)
	s.Lattice().Bottom().Annotate("note", "bottom")

	require.NoError(t, s.Save(ctx, store, "census.alsn"))
	assert.Contains(t, buf.String(), "snapshot saved")

	fresh, err := space.NewUniformGrid(2, 2)
	require.NoError(t, err)
	restored, err := Restore(ctx, fresh, newModel(), store, "census.alsn", WithLogger(logger))
	require.NoError(t, err)
	defer restored.Close()

	assert.Equal(t, s.Snapshot(), restored.Snapshot())
	note, ok := restored.Lattice().Bottom().Annotation("note")
	require.True(t, ok)
	assert.Equal(t, "bottom", note)
	assert.Contains(t, buf.String(), "snapshot loaded")

	_, err = Restore(ctx, fresh, newModel(), store, "missing.alsn")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Save(ctx, store, "late.alsn"), ErrClosed)
}

func TestSession_Replicate(t *testing.T) {
	ctx := context.Background()
	s, err := Open(classifiedGrid(t), newModel(), WithCompression(persistence.CompressionLZ4))
	require.NoError(t, err)
	defer s.Close()

	a, b := blobstore.NewMemoryStore(), blobstore.NewLocalStore(t.TempDir())
	require.NoError(t, s.Replicate(ctx, "snap.alsn", a, b))

	for _, store := range []blobstore.Store{a, b} {
		snap, err := persistence.Load(ctx, store, "snap.alsn")
		require.NoError(t, err)
		assert.Equal(t, s.Snapshot(), snap)
	}
}

// memoryCommitter commits names in memory.
type memoryCommitter struct {
	*blobstore.MemoryStore
	commits []string
}

func (m *memoryCommitter) Commit(_ context.Context, name string) (uint64, error) {
	m.commits = append(m.commits, name)
	return uint64(len(m.commits)), nil
}

func (m *memoryCommitter) Latest(context.Context) (string, uint64, error) {
	if len(m.commits) == 0 {
		return "", 0, blobstore.ErrNotFound
	}
	return m.commits[len(m.commits)-1], uint64(len(m.commits)), nil
}

func TestSession_Publish(t *testing.T) {
	ctx := context.Background()
	c := &memoryCommitter{MemoryStore: blobstore.NewMemoryStore()}

	s, err := Open(classifiedGrid(t), newModel())
	require.NoError(t, err)
	defer s.Close()

	v, err := s.Publish(ctx, c, "v1.alsn")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), v)

	snap, version, err := persistence.LoadLatest(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), version)
	assert.Equal(t, s.Snapshot(), snap)
}
