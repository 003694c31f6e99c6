package anonlattice

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBasicMetricsCollector(t *testing.T) {
	m := &BasicMetricsCollector{}
	boom := errors.New("boom")

	m.RecordBuild(9, time.Millisecond, nil)
	m.RecordBuild(0, time.Millisecond, boom)
	m.RecordExpand(4, 2*time.Millisecond, nil)
	m.RecordExpand(0, 4*time.Millisecond, boom)
	m.RecordRowStore(128, nil)
	m.RecordRowStore(64, nil)
	m.RecordRowStore(-128, nil)
	m.RecordRowStore(0, boom)
	m.RecordSnapshot(time.Second, nil)

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats.BuildCount)
	assert.Equal(t, int64(1), stats.BuildErrors)
	assert.Equal(t, int64(13), stats.Nodes)
	assert.Equal(t, int64(2), stats.ExpandCount)
	assert.Equal(t, int64(1), stats.ExpandErrors)
	assert.Equal(t, (3 * time.Millisecond).Nanoseconds(), stats.ExpandAvgNanos)
	assert.Equal(t, int64(2), stats.RowStoreAllocs)
	assert.Equal(t, int64(1), stats.RowStoreReleases)
	assert.Equal(t, int64(1), stats.RowStoreErrors)
	assert.Equal(t, int64(64), stats.RowStoreBytes)
	assert.Equal(t, int64(1), stats.SnapshotCount)
	assert.Equal(t, time.Second.Nanoseconds(), stats.SnapshotAvgNanos)
}

func TestBasicMetricsCollector_Empty(t *testing.T) {
	stats := (&BasicMetricsCollector{}).GetStats()
	assert.Zero(t, stats.ExpandAvgNanos)
	assert.Zero(t, stats.SnapshotAvgNanos)
}

func TestPrometheusCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewPrometheusCollector(reg)
	require.NoError(t, err)

	p.RecordBuild(9, time.Millisecond, nil)
	p.RecordExpand(4, time.Millisecond, nil)
	p.RecordExpand(0, time.Millisecond, errors.New("boom"))
	p.RecordRowStore(256, nil)
	p.RecordRowStore(-64, nil)
	p.RecordSnapshot(time.Millisecond, nil)

	assert.InDelta(t, 13, testutil.ToFloat64(p.nodes), 0)
	assert.InDelta(t, 4, testutil.ToFloat64(p.expandedNodes), 0)
	assert.InDelta(t, 192, testutil.ToFloat64(p.rowStoreBytes), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(p.rowStoreOps.WithLabelValues("alloc", "ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(p.rowStoreOps.WithLabelValues("release", "ok")), 0)
	assert.Equal(t, 4, testutil.CollectAndCount(p.opLatency))

	// Registering twice on the same registry fails.
	_, err = NewPrometheusCollector(reg)
	assert.Error(t, err)
}

func TestPrometheusCollector_Session(t *testing.T) {
	reg := prometheus.NewRegistry()
	p, err := NewPrometheusCollector(reg)
	require.NoError(t, err)

	s, err := Open(classifiedGrid(t), newModel(), WithMetrics(p))
	require.NoError(t, err)

	_, err = s.NewRowStore(10, []uint8{31, 31})
	require.NoError(t, err)
	assert.InDelta(t, 80, testutil.ToFloat64(p.rowStoreBytes), 0)

	require.NoError(t, s.Close())
	assert.InDelta(t, 0, testutil.ToFloat64(p.rowStoreBytes), 0)
	assert.InDelta(t, 9, testutil.ToFloat64(p.nodes), 0)
}
