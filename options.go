package anonlattice

import (
	"log/slog"

	"github.com/hupe1980/anonlattice/codec"
	"github.com/hupe1980/anonlattice/persistence"
	"github.com/hupe1980/anonlattice/quality"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector

	memoryLimit int64
	ioLimit     int64
	offHeapRows bool

	complete          bool
	uncertainty       bool
	header            []string
	optimum           *uint64
	suppressionLimit  int
	suppressionAlways bool

	codec       codec.Codec
	compression persistence.Compression
	restoreCtx  quality.RestoreContext
}

// Option configures a Session.
type Option func(*options)

// WithLogger configures structured logging for session operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := anonlattice.NewJSONLogger(slog.LevelInfo)
//	sess, _ := anonlattice.Open(grid, model, anonlattice.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetrics configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &anonlattice.BasicMetricsCollector{}
//	sess, _ := anonlattice.Open(grid, model, anonlattice.WithMetrics(metrics))
//	// ... use sess ...
//	stats := metrics.GetStats()
//	fmt.Printf("Expansions: %d, nodes: %d\n", stats.ExpandCount, stats.Nodes)
func WithMetrics(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithMemoryLimit caps the bytes held by the session's row stores.
// 0 means unlimited.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.memoryLimit = bytes
	}
}

// WithIOLimit caps the throughput of snapshot writes to local stores in bytes
// per second. 0 means unlimited.
func WithIOLimit(bytesPerSec int64) Option {
	return func(o *options) {
		o.ioLimit = bytesPerSec
	}
}

// WithOffHeapRows backs row stores with anonymous memory mappings.
func WithOffHeapRows(enabled bool) Option {
	return func(o *options) {
		o.offHeapRows = enabled
	}
}

// WithComplete selects a complete (every transformation materialized) or an
// incomplete (only materialized transformations) lattice. Default: complete.
func WithComplete(complete bool) Option {
	return func(o *options) {
		o.complete = complete
	}
}

// WithUncertainty classifies unchecked transformations as probably
// (not) anonymous instead of (not) anonymous.
func WithUncertainty(uncertainty bool) Option {
	return func(o *options) {
		o.uncertainty = uncertainty
	}
}

// WithHeader names the quasi-identifiers, one per dimension.
func WithHeader(names ...string) Option {
	return func(o *options) {
		o.header = names
	}
}

// WithOptimum marks the transformation id of the optimal solution.
func WithOptimum(id uint64) Option {
	return func(o *options) {
		o.optimum = &id
	}
}

// WithSuppression configures record suppression, which decides whether the
// quality model is monotonic for the lattice.
func WithSuppression(limit int, alwaysEnabled bool) Option {
	return func(o *options) {
		o.suppressionLimit = limit
		o.suppressionAlways = alwaysEnabled
	}
}

// WithCodec configures the codec used for snapshot payloads.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures the block compression of saved snapshots.
func WithCompression(c persistence.Compression) Option {
	return func(o *options) {
		o.compression = c
	}
}

// WithRestoreContext sets the level range scores were normalized against
// when the restored snapshot was written.
func WithRestoreContext(ctx quality.RestoreContext) Option {
	return func(o *options) {
		o.restoreCtx = ctx
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		complete:         true,
		codec:            codec.Default,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}

func (o *options) persistenceOptions() []persistence.Option {
	return []persistence.Option{
		persistence.WithCodec(o.codec),
		persistence.WithCompression(o.compression),
	}
}
