package quality

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoss_Compare(t *testing.T) {
	assert.Negative(t, Loss(1).Compare(Loss(2)))
	assert.Positive(t, Loss(2).Compare(Loss(1)))
	assert.Zero(t, Loss(2).Compare(Loss(2)))
	assert.Negative(t, Loss(1e300).Compare(Loss(math.Inf(1))))
	assert.Equal(t, "0.25", Loss(0.25).String())
}

func TestMinMax(t *testing.T) {
	a, b := Loss(1), Loss(3)
	assert.Equal(t, a, Min(a, b))
	assert.Equal(t, a, Min(b, a))
	assert.Equal(t, b, Max(a, b))
	assert.Equal(t, b, Min(nil, b))
	assert.Equal(t, a, Max(a, nil))
	assert.Nil(t, Min(nil, nil))
}

func TestScalar(t *testing.T) {
	s := NewScalar(ScalarConfig{MonotonicWithGeneralization: true, MonotonicLimit: 5})
	assert.Equal(t, "scalar", s.Name())
	assert.False(t, s.MonotonicWithSuppression())
	assert.True(t, s.MonotonicWithGeneralization())
	assert.True(t, s.Monotonic(0))
	assert.True(t, s.Monotonic(5))
	assert.False(t, s.Monotonic(6))

	never := NewScalar(ScalarConfig{Name: "custom", MonotonicLimit: -1})
	assert.Equal(t, "custom", never.Name())
	assert.False(t, never.Monotonic(0))

	assert.Negative(t, s.Best().Compare(s.Worst()))
	assert.True(t, math.IsInf(s.Worst().Value(), 1))

	got, err := s.Restore(0.5, RestoreContext{})
	require.NoError(t, err)
	assert.Equal(t, Loss(0.5), got)

	_, err = s.Restore(math.NaN(), RestoreContext{})
	assert.ErrorIs(t, err, ErrInvalidScore)
	_, err = s.Restore(-1, RestoreContext{})
	assert.ErrorIs(t, err, ErrInvalidScore)
}

func TestHeight_Evaluate(t *testing.T) {
	h, err := NewHeight(0, 4)
	require.NoError(t, err)

	assert.Equal(t, Loss(0), h.Evaluate([]int{0, 0}))
	assert.Equal(t, Loss(0.5), h.Evaluate([]int{1, 1}))
	assert.Equal(t, Loss(1), h.Evaluate([]int{2, 2}))
	assert.True(t, h.Monotonic(100))
	assert.Equal(t, Loss(1), h.Worst())

	flat, err := NewHeight(3, 3)
	require.NoError(t, err)
	assert.Equal(t, Loss(0), flat.Evaluate([]int{1, 2}))

	_, err = NewHeight(2, 1)
	assert.Error(t, err)
}

func TestHeight_Restore(t *testing.T) {
	h, err := NewHeight(0, 8)
	require.NoError(t, err)

	// Persisted against [0, 4]: 0.5 means level 2, which is 0.25 of [0, 8].
	got, err := h.Restore(0.5, RestoreContext{MinLevel: 0, MaxLevel: 4})
	require.NoError(t, err)
	assert.InDelta(t, 0.25, got.Value(), 1e-12)

	// Without context the value is taken as-is.
	got, err = h.Restore(0.75, RestoreContext{})
	require.NoError(t, err)
	assert.Equal(t, Loss(0.75), got)

	_, err = h.Restore(1.5, RestoreContext{})
	assert.ErrorIs(t, err, ErrInvalidScore)
	_, err = h.Restore(0.5, RestoreContext{MinLevel: 4, MaxLevel: 1})
	assert.ErrorIs(t, err, ErrInvalidScore)
}
