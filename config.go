package anonlattice

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/anonlattice/codec"
	"github.com/hupe1980/anonlattice/persistence"
)

// Config is the file form of the session options.
//
//	lattice:
//	  complete: false
//	  uncertainty: true
//	  header: [age, zip, sex]
//	  suppression_limit: 5
//	resources:
//	  memory_limit_bytes: 67108864
//	  io_limit_bytes_per_sec: 10485760
//	  off_heap_rows: true
//	snapshot:
//	  codec: go-json
//	  compression: zstd
//	logging:
//	  level: debug
//	  format: json
type Config struct {
	Lattice   LatticeConfig  `json:"lattice" yaml:"lattice"`
	Resources ResourceConfig `json:"resources" yaml:"resources"`
	Snapshot  SnapshotConfig `json:"snapshot" yaml:"snapshot"`
	Logging   LoggingConfig  `json:"logging" yaml:"logging"`
}

// LatticeConfig contains lattice construction settings.
type LatticeConfig struct {
	// Complete defaults to true when omitted.
	Complete                 *bool    `json:"complete" yaml:"complete"`
	Uncertainty              bool     `json:"uncertainty" yaml:"uncertainty"`
	Header                   []string `json:"header" yaml:"header"`
	Optimum                  *uint64  `json:"optimum" yaml:"optimum"`
	SuppressionLimit         int      `json:"suppression_limit" yaml:"suppression_limit"`
	SuppressionAlwaysEnabled bool     `json:"suppression_always_enabled" yaml:"suppression_always_enabled"`
}

// ResourceConfig contains resource limits.
type ResourceConfig struct {
	MemoryLimitBytes   int64 `json:"memory_limit_bytes" yaml:"memory_limit_bytes"`
	IOLimitBytesPerSec int64 `json:"io_limit_bytes_per_sec" yaml:"io_limit_bytes_per_sec"`
	OffHeapRows        bool  `json:"off_heap_rows" yaml:"off_heap_rows"`
}

// SnapshotConfig contains snapshot encoding settings.
type SnapshotConfig struct {
	Codec       string `json:"codec" yaml:"codec"`
	Compression string `json:"compression" yaml:"compression"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is debug, info, warn or error. Empty disables logging.
	Level string `json:"level" yaml:"level"`
	// Format is text (default) or json.
	Format string `json:"format" yaml:"format"`
}

// LoadConfig decodes a YAML configuration. Unknown fields are rejected.
func LoadConfig(r io.Reader) (*Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("anonlattice: decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadConfigFile reads a YAML configuration from path.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadConfig(f)
}

// Validate checks value ranges and names.
func (c *Config) Validate() error {
	if c.Lattice.SuppressionLimit < 0 {
		return &ConfigError{Field: "lattice.suppression_limit", Value: c.Lattice.SuppressionLimit}
	}
	if c.Resources.MemoryLimitBytes < 0 {
		return &ConfigError{Field: "resources.memory_limit_bytes", Value: c.Resources.MemoryLimitBytes}
	}
	if c.Resources.IOLimitBytesPerSec < 0 {
		return &ConfigError{Field: "resources.io_limit_bytes_per_sec", Value: c.Resources.IOLimitBytesPerSec}
	}
	if c.Snapshot.Codec != "" {
		if _, ok := codec.ByName(c.Snapshot.Codec); !ok {
			return &ConfigError{Field: "snapshot.codec", Value: c.Snapshot.Codec, cause: fmt.Errorf("%w (known: %s)", persistence.ErrUnknownCodec, strings.Join(codec.Names(), ", "))}
		}
	}
	if _, err := persistence.ParseCompression(c.Snapshot.Compression); err != nil {
		return &ConfigError{Field: "snapshot.compression", Value: c.Snapshot.Compression, cause: err}
	}
	if _, err := c.Logging.level(); err != nil {
		return err
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		return &ConfigError{Field: "logging.format", Value: c.Logging.Format}
	}
	return nil
}

func (l LoggingConfig) level() (*slog.Level, error) {
	if l.Level == "" {
		return nil, nil
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return nil, &ConfigError{Field: "logging.level", Value: l.Level, cause: err}
	}
	return &lvl, nil
}

// Options converts the configuration to session options. The config must be
// valid; LoadConfig guarantees that.
func (c *Config) Options() []Option {
	opts := []Option{
		WithUncertainty(c.Lattice.Uncertainty),
		WithSuppression(c.Lattice.SuppressionLimit, c.Lattice.SuppressionAlwaysEnabled),
		WithMemoryLimit(c.Resources.MemoryLimitBytes),
		WithIOLimit(c.Resources.IOLimitBytesPerSec),
		WithOffHeapRows(c.Resources.OffHeapRows),
	}
	if c.Lattice.Complete != nil {
		opts = append(opts, WithComplete(*c.Lattice.Complete))
	}
	if len(c.Lattice.Header) > 0 {
		opts = append(opts, WithHeader(c.Lattice.Header...))
	}
	if c.Lattice.Optimum != nil {
		opts = append(opts, WithOptimum(*c.Lattice.Optimum))
	}
	if cd, ok := codec.ByName(c.Snapshot.Codec); ok {
		opts = append(opts, WithCodec(cd))
	}
	if comp, err := persistence.ParseCompression(c.Snapshot.Compression); err == nil {
		opts = append(opts, WithCompression(comp))
	}
	if lvl, err := c.Logging.level(); err == nil && lvl != nil {
		if strings.EqualFold(c.Logging.Format, "json") {
			opts = append(opts, WithLogger(NewJSONLogger(*lvl)))
		} else {
			opts = append(opts, WithLogger(NewTextLogger(*lvl)))
		}
	}
	return opts
}
