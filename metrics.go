package anonlattice

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// PrometheusCollector integrates with Prometheus; implement the interface
// for other monitoring systems.
type MetricsCollector interface {
	// RecordBuild is called after a lattice build or restore.
	// nodes is the number of materialized nodes.
	RecordBuild(nodes int, duration time.Duration, err error)

	// RecordExpand is called after each node expansion.
	// added is the number of newly materialized nodes.
	RecordExpand(added int, duration time.Duration, err error)

	// RecordRowStore is called after a row store is allocated (bytes > 0)
	// or released (bytes < 0).
	RecordRowStore(bytes int64, err error)

	// RecordSnapshot is called after each snapshot save or load.
	RecordSnapshot(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBuild(int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordExpand(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordRowStore(int64, error)            {}
func (NoopMetricsCollector) RecordSnapshot(time.Duration, error)    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	BuildCount         atomic.Int64
	BuildErrors        atomic.Int64
	BuildNodes         atomic.Int64
	ExpandCount        atomic.Int64
	ExpandErrors       atomic.Int64
	ExpandAdded        atomic.Int64
	ExpandTotalNanos   atomic.Int64
	RowStoreAllocs     atomic.Int64
	RowStoreReleases   atomic.Int64
	RowStoreErrors     atomic.Int64
	RowStoreBytes      atomic.Int64
	SnapshotCount      atomic.Int64
	SnapshotErrors     atomic.Int64
	SnapshotTotalNanos atomic.Int64
}

// RecordBuild implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBuild(nodes int, _ time.Duration, err error) {
	b.BuildCount.Add(1)
	if err != nil {
		b.BuildErrors.Add(1)
		return
	}
	b.BuildNodes.Store(int64(nodes))
}

// RecordExpand implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExpand(added int, duration time.Duration, err error) {
	b.ExpandCount.Add(1)
	b.ExpandTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ExpandErrors.Add(1)
		return
	}
	b.ExpandAdded.Add(int64(added))
}

// RecordRowStore implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRowStore(bytes int64, err error) {
	if err != nil {
		b.RowStoreErrors.Add(1)
		return
	}
	if bytes < 0 {
		b.RowStoreReleases.Add(1)
	} else {
		b.RowStoreAllocs.Add(1)
	}
	b.RowStoreBytes.Add(bytes)
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(duration time.Duration, err error) {
	b.SnapshotCount.Add(1)
	b.SnapshotTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SnapshotErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BuildCount:       b.BuildCount.Load(),
		BuildErrors:      b.BuildErrors.Load(),
		Nodes:            b.BuildNodes.Load() + b.ExpandAdded.Load(),
		ExpandCount:      b.ExpandCount.Load(),
		ExpandErrors:     b.ExpandErrors.Load(),
		ExpandAvgNanos:   avg(b.ExpandTotalNanos.Load(), b.ExpandCount.Load()),
		RowStoreAllocs:   b.RowStoreAllocs.Load(),
		RowStoreReleases: b.RowStoreReleases.Load(),
		RowStoreErrors:   b.RowStoreErrors.Load(),
		RowStoreBytes:    b.RowStoreBytes.Load(),
		SnapshotCount:    b.SnapshotCount.Load(),
		SnapshotErrors:   b.SnapshotErrors.Load(),
		SnapshotAvgNanos: avg(b.SnapshotTotalNanos.Load(), b.SnapshotCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BuildCount       int64
	BuildErrors      int64
	Nodes            int64 // materialized nodes of the last build plus all expansions
	ExpandCount      int64
	ExpandErrors     int64
	ExpandAvgNanos   int64
	RowStoreAllocs   int64
	RowStoreReleases int64
	RowStoreErrors   int64
	RowStoreBytes    int64 // bytes currently held by row stores
	SnapshotCount    int64
	SnapshotErrors   int64
	SnapshotAvgNanos int64
}
