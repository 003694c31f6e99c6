package quality

import (
	"fmt"
	"math"
)

// ScalarConfig configures a Scalar model.
type ScalarConfig struct {
	Name                        string
	MonotonicWithSuppression    bool
	MonotonicWithGeneralization bool
	// MonotonicLimit is the largest absolute suppression limit for which the
	// model is monotonic overall. Negative means never.
	MonotonicLimit int
}

// Scalar is a model whose scores are computed elsewhere and handed over as Loss values.
type Scalar struct {
	cfg ScalarConfig
}

// NewScalar returns a Scalar model. An empty name defaults to "scalar".
func NewScalar(cfg ScalarConfig) *Scalar {
	if cfg.Name == "" {
		cfg.Name = "scalar"
	}
	return &Scalar{cfg: cfg}
}

// Name implements Model.
func (s *Scalar) Name() string { return s.cfg.Name }

// MonotonicWithSuppression implements Model.
func (s *Scalar) MonotonicWithSuppression() bool { return s.cfg.MonotonicWithSuppression }

// MonotonicWithGeneralization implements Model.
func (s *Scalar) MonotonicWithGeneralization() bool { return s.cfg.MonotonicWithGeneralization }

// Monotonic implements Model.
func (s *Scalar) Monotonic(suppressionLimit int) bool {
	return s.cfg.MonotonicLimit >= 0 && suppressionLimit <= s.cfg.MonotonicLimit
}

// Best implements Model.
func (s *Scalar) Best() Score { return Loss(0) }

// Worst implements Model.
func (s *Scalar) Worst() Score { return Loss(math.Inf(1)) }

// Restore implements Model.
func (s *Scalar) Restore(value float64, _ RestoreContext) (Score, error) {
	if math.IsNaN(value) || value < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScore, value)
	}
	return Loss(value), nil
}
