package anonlattice

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements MetricsCollector with Prometheus metrics.
type PrometheusCollector struct {
	opLatency     *prometheus.HistogramVec
	nodes         prometheus.Gauge
	expandedNodes prometheus.Counter
	rowStoreBytes prometheus.Gauge
	rowStoreOps   *prometheus.CounterVec
}

// NewPrometheusCollector creates the collector and registers its metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusCollector(reg prometheus.Registerer) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	p := &PrometheusCollector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "anonlattice_operation_latency_seconds",
			Help:    "Latency of lattice operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"op", "status"}),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "anonlattice_materialized_nodes",
			Help: "Materialized nodes of the last built lattice",
		}),
		expandedNodes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "anonlattice_expanded_nodes_total",
			Help: "Nodes materialized by expansion",
		}),
		rowStoreBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "anonlattice_row_store_bytes",
			Help: "Bytes currently held by packed row stores",
		}),
		rowStoreOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "anonlattice_row_store_operations_total",
			Help: "Row store allocations and releases",
		}, []string{"op", "status"}),
	}

	for _, c := range []prometheus.Collector{p.opLatency, p.nodes, p.expandedNodes, p.rowStoreBytes, p.rowStoreOps} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordBuild implements MetricsCollector.
func (p *PrometheusCollector) RecordBuild(nodes int, duration time.Duration, err error) {
	p.opLatency.WithLabelValues("build", status(err)).Observe(duration.Seconds())
	if err == nil {
		p.nodes.Set(float64(nodes))
	}
}

// RecordExpand implements MetricsCollector.
func (p *PrometheusCollector) RecordExpand(added int, duration time.Duration, err error) {
	p.opLatency.WithLabelValues("expand", status(err)).Observe(duration.Seconds())
	if err == nil {
		p.nodes.Add(float64(added))
		p.expandedNodes.Add(float64(added))
	}
}

// RecordRowStore implements MetricsCollector.
func (p *PrometheusCollector) RecordRowStore(bytes int64, err error) {
	op := "alloc"
	if bytes < 0 {
		op = "release"
	}
	p.rowStoreOps.WithLabelValues(op, status(err)).Inc()
	if err == nil {
		p.rowStoreBytes.Add(float64(bytes))
	}
}

// RecordSnapshot implements MetricsCollector.
func (p *PrometheusCollector) RecordSnapshot(duration time.Duration, err error) {
	p.opLatency.WithLabelValues("snapshot", status(err)).Observe(duration.Seconds())
}
