package space

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/anonlattice/quality"
)

func TestNewGrid(t *testing.T) {
	g, err := NewUniformGrid(2, 1, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, g.Dimensions())
	assert.Equal(t, uint64(3*2*4), g.Size())
	assert.Equal(t, []uint64{8, 4, 1}, g.Offsets())

	assert.Equal(t, uint64(0), g.Bottom().ID)
	assert.Equal(t, []int{0, 0, 0}, g.Bottom().Generalization)
	assert.Equal(t, g.Size()-1, g.Top().ID)
	assert.Equal(t, []int{2, 1, 3}, g.Top().Generalization)
	assert.Equal(t, 6, g.Top().Level)
}

func TestNewGrid_Invalid(t *testing.T) {
	_, err := NewGrid(nil, nil)
	assert.ErrorIs(t, err, ErrInvalidBounds)

	_, err = NewGrid([]int{0}, []int{1, 2})
	assert.ErrorIs(t, err, ErrInvalidBounds)

	_, err = NewGrid([]int{2}, []int{1})
	assert.ErrorIs(t, err, ErrInvalidBounds)

	_, err = NewGrid([]int{-1}, []int{1})
	assert.ErrorIs(t, err, ErrInvalidBounds)
}

func TestGrid_IDRoundTrip(t *testing.T) {
	g, err := NewGrid([]int{1, 0}, []int{3, 2})
	require.NoError(t, err)

	for id := uint64(0); id < g.Size(); id++ {
		gen, err := g.Generalization(id)
		require.NoError(t, err)
		back, err := g.ID(gen)
		require.NoError(t, err)
		assert.Equal(t, id, back)
	}

	_, err = g.ID([]int{0, 0})
	assert.ErrorIs(t, err, ErrInvalidGeneralization)
	_, err = g.ID([]int{1})
	assert.ErrorIs(t, err, ErrInvalidGeneralization)
	_, err = g.Generalization(g.Size())
	assert.ErrorIs(t, err, ErrUnknownTransformation)
	_, err = g.Transformation(g.Size())
	assert.ErrorIs(t, err, ErrUnknownTransformation)
}

func TestGrid_Adjacency(t *testing.T) {
	g, err := NewUniformGrid(2, 2)
	require.NoError(t, err)

	tr, err := g.Lookup([]int{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 2, tr.Level)

	gens := func(ids []uint64) [][]int {
		out := make([][]int, len(ids))
		for i, id := range ids {
			out[i], _ = g.Generalization(id)
		}
		return out
	}

	// Both lists come in ascending lexicographic order.
	assert.Equal(t, [][]int{{0, 1}, {1, 0}}, gens(tr.Predecessors))
	assert.Equal(t, [][]int{{1, 2}, {2, 1}}, gens(tr.Successors))

	assert.Empty(t, g.Bottom().Predecessors)
	assert.Empty(t, g.Top().Successors)

	// Symmetry over the whole grid.
	for id := uint64(0); id < g.Size(); id++ {
		tr, err := g.Transformation(id)
		require.NoError(t, err)
		for _, s := range tr.Successors {
			succ, err := g.Transformation(s)
			require.NoError(t, err)
			assert.Contains(t, succ.Predecessors, id)
		}
	}
}

func TestGrid_PutAndMaterialized(t *testing.T) {
	g, err := NewUniformGrid(3, 3)
	require.NoError(t, err)

	require.NoError(t, g.Put(9, Checked|Anonymous, quality.Loss(0.5), quality.Loss(0.1)))
	id, err := g.PutVector([]int{0, 1}, NotAnonymous, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	assert.ErrorIs(t, g.Put(16, Checked, nil, nil), ErrUnknownTransformation)
	_, err = g.PutVector([]int{4, 0}, Checked, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidGeneralization)

	assert.True(t, g.IsMaterialized(9))
	assert.False(t, g.IsMaterialized(2))
	assert.Equal(t, uint64(2), g.MaterializedCount())
	assert.Equal(t, []uint64{1, 9}, slices.Collect(g.Materialized()))

	tr, err := g.Transformation(9)
	require.NoError(t, err)
	assert.True(t, tr.Flags.Has(Checked|Anonymous|Visited))
	assert.False(t, tr.Flags.Has(NotAnonymous))
	assert.Equal(t, quality.Loss(0.5), tr.InformationLoss)
	assert.Equal(t, quality.Loss(0.1), tr.LowerBound)

	unscored, err := g.Transformation(1)
	require.NoError(t, err)
	assert.Nil(t, unscored.InformationLoss)
}

func TestFlags_String(t *testing.T) {
	assert.Equal(t, "none", Flags(0).String())
	assert.Equal(t, "checked|anonymous", (Checked | Anonymous).String())
	assert.Equal(t, "insufficient-utility", InsufficientUtility.String())
}
