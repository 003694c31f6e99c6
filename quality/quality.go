package quality

import (
	"errors"
	"strconv"
)

// ErrInvalidScore is returned when a persisted value cannot be turned back into a score.
var ErrInvalidScore = errors.New("quality: invalid score")

// Score is an information-loss value. Lower is better.
type Score interface {
	// Compare returns a negative number if the receiver is better than other,
	// zero if both are equal and a positive number otherwise.
	Compare(other Score) int
	// Value returns the scalar form used for persistence.
	Value() float64
	String() string
}

// RestoreContext carries the attribute levels in effect when a score was
// persisted, so models can rebuild scores consistently after a reload.
type RestoreContext struct {
	MinLevel int `json:"min_level" yaml:"min_level"`
	MaxLevel int `json:"max_level" yaml:"max_level"`
}

// Model scores transformations and reports its monotonicity.
type Model interface {
	// Name identifies the model in snapshots.
	Name() string
	// MonotonicWithSuppression reports monotonicity when suppression is always enabled.
	MonotonicWithSuppression() bool
	// MonotonicWithGeneralization reports monotonicity for pure generalization.
	MonotonicWithGeneralization() bool
	// Monotonic reports overall monotonicity for an absolute suppression limit.
	Monotonic(suppressionLimit int) bool
	// Best returns the best possible score.
	Best() Score
	// Worst returns the worst possible score.
	Worst() Score
	// Restore rebuilds a score from its persisted value.
	Restore(value float64, ctx RestoreContext) (Score, error)
}

// Loss is a plain scalar score.
type Loss float64

// Compare implements Score. Scores of other types compare by value.
func (l Loss) Compare(other Score) int {
	o := other.Value()
	switch {
	case float64(l) < o:
		return -1
	case float64(l) > o:
		return 1
	default:
		return 0
	}
}

// Value implements Score.
func (l Loss) Value() float64 { return float64(l) }

func (l Loss) String() string {
	return strconv.FormatFloat(float64(l), 'g', -1, 64)
}

// Min returns the better of a and b. A nil score yields the other one.
func Min(a, b Score) Score {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.Compare(b) <= 0:
		return a
	default:
		return b
	}
}

// Max returns the worse of a and b. A nil score yields the other one.
func Max(a, b Score) Score {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.Compare(b) >= 0:
		return a
	default:
		return b
	}
}
