package quality

import (
	"fmt"
	"math"
)

// Height scores a transformation by the sum of its generalization levels,
// normalized to [0, 1] between the bottom and top level of the space.
// It is monotonic under every configuration.
type Height struct {
	minLevel int
	maxLevel int
}

// NewHeight returns a Height model for a space whose bottom and top
// transformations sit at minLevel and maxLevel.
func NewHeight(minLevel, maxLevel int) (*Height, error) {
	if minLevel < 0 || maxLevel < minLevel {
		return nil, fmt.Errorf("quality: invalid height range [%d, %d]", minLevel, maxLevel)
	}
	return &Height{minLevel: minLevel, maxLevel: maxLevel}, nil
}

// Name implements Model.
func (h *Height) Name() string { return "height" }

// MonotonicWithSuppression implements Model.
func (h *Height) MonotonicWithSuppression() bool { return true }

// MonotonicWithGeneralization implements Model.
func (h *Height) MonotonicWithGeneralization() bool { return true }

// Monotonic implements Model.
func (h *Height) Monotonic(int) bool { return true }

// Best implements Model.
func (h *Height) Best() Score { return Loss(0) }

// Worst implements Model.
func (h *Height) Worst() Score { return Loss(1) }

// Levels returns the bottom and top level the model normalizes against.
func (h *Height) Levels() (minLevel, maxLevel int) {
	return h.minLevel, h.maxLevel
}

// Evaluate scores a generalization vector.
func (h *Height) Evaluate(generalization []int) Score {
	level := 0
	for _, g := range generalization {
		level += g
	}
	return h.normalize(float64(level))
}

func (h *Height) normalize(level float64) Score {
	if h.maxLevel == h.minLevel {
		return Loss(0)
	}
	v := (level - float64(h.minLevel)) / float64(h.maxLevel-h.minLevel)
	return Loss(math.Min(1, math.Max(0, v)))
}

// Restore maps a value normalized against ctx's levels onto this model's levels.
func (h *Height) Restore(value float64, ctx RestoreContext) (Score, error) {
	if math.IsNaN(value) || value < 0 || value > 1 {
		return nil, fmt.Errorf("%w: height %v outside [0, 1]", ErrInvalidScore, value)
	}
	if ctx.MaxLevel < ctx.MinLevel {
		return nil, fmt.Errorf("%w: invalid restore levels [%d, %d]", ErrInvalidScore, ctx.MinLevel, ctx.MaxLevel)
	}
	if ctx.MinLevel == 0 && ctx.MaxLevel == 0 {
		return Loss(value), nil
	}
	level := float64(ctx.MinLevel) + value*float64(ctx.MaxLevel-ctx.MinLevel)
	return h.normalize(level), nil
}
