package space

import (
	"fmt"
	"iter"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/anonlattice/internal/conv"
	"github.com/hupe1980/anonlattice/quality"
)

type record struct {
	flags      Flags
	loss       quality.Score
	lowerBound quality.Score
}

// Grid is a space over the integer box [min_i, max_i] per dimension.
//
// Ids are mixed-radix numbers with dimension 0 most significant, so id order
// within a level matches lexicographic order of the vectors. Adjacency is
// computed on demand.
type Grid struct {
	min     []int
	max     []int
	offsets []uint64
	size    uint64

	records      map[uint64]record
	materialized *roaring64.Bitmap
}

var (
	_ DenseSpace  = (*Grid)(nil)
	_ SparseSpace = (*Grid)(nil)
)

// NewGrid returns a grid spanning the given per-dimension level ranges.
func NewGrid(minLevels, maxLevels []int) (*Grid, error) {
	if len(minLevels) == 0 || len(minLevels) != len(maxLevels) {
		return nil, fmt.Errorf("%w: %d minimum and %d maximum levels", ErrInvalidBounds, len(minLevels), len(maxLevels))
	}

	dims := len(minLevels)
	offsets := make([]uint64, dims)
	size := uint64(1)
	for d := dims - 1; d >= 0; d-- {
		if minLevels[d] < 0 || maxLevels[d] < minLevels[d] {
			return nil, fmt.Errorf("%w: dimension %d has range [%d, %d]", ErrInvalidBounds, d, minLevels[d], maxLevels[d])
		}
		offsets[d] = size
		radix, err := conv.IntToUint64(maxLevels[d] - minLevels[d] + 1)
		if err != nil {
			return nil, err
		}
		if size, err = conv.MulUint64(size, radix); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidBounds, err)
		}
	}

	return &Grid{
		min:          append([]int(nil), minLevels...),
		max:          append([]int(nil), maxLevels...),
		offsets:      offsets,
		size:         size,
		records:      make(map[uint64]record),
		materialized: roaring64.New(),
	}, nil
}

// NewUniformGrid returns a grid with every dimension ranging from 0 to its max level.
func NewUniformGrid(maxLevels ...int) (*Grid, error) {
	return NewGrid(make([]int, len(maxLevels)), maxLevels)
}

// Dimensions implements Space.
func (g *Grid) Dimensions() int { return len(g.min) }

// Size implements Space.
func (g *Grid) Size() uint64 { return g.size }

// Offsets implements DenseSpace.
func (g *Grid) Offsets() []uint64 {
	return append([]uint64(nil), g.offsets...)
}

// MinLevels returns the bottom vector.
func (g *Grid) MinLevels() []int { return append([]int(nil), g.min...) }

// MaxLevels returns the top vector.
func (g *Grid) MaxLevels() []int { return append([]int(nil), g.max...) }

// ID encodes a generalization vector.
func (g *Grid) ID(generalization []int) (uint64, error) {
	if len(generalization) != len(g.min) {
		return 0, fmt.Errorf("%w: %d dimensions, want %d", ErrInvalidGeneralization, len(generalization), len(g.min))
	}
	var id uint64
	for d, v := range generalization {
		if v < g.min[d] || v > g.max[d] {
			return 0, fmt.Errorf("%w: dimension %d level %d outside [%d, %d]", ErrInvalidGeneralization, d, v, g.min[d], g.max[d])
		}
		id += uint64(v-g.min[d]) * g.offsets[d] //nolint:gosec // v >= min checked above
	}
	return id, nil
}

// Generalization decodes an id.
func (g *Grid) Generalization(id uint64) ([]int, error) {
	if id >= g.size {
		return nil, fmt.Errorf("%w: %d (size %d)", ErrUnknownTransformation, id, g.size)
	}
	out := make([]int, len(g.min))
	for d, off := range g.offsets {
		out[d] = g.min[d] + int(id/off) //nolint:gosec // bounded by the dimension's radix
		id %= off
	}
	return out, nil
}

// Transformation implements Space.
func (g *Grid) Transformation(id uint64) (*Transformation, error) {
	gen, err := g.Generalization(id)
	if err != nil {
		return nil, err
	}
	return g.transformation(id, gen), nil
}

// Lookup implements Space.
func (g *Grid) Lookup(generalization []int) (*Transformation, error) {
	id, err := g.ID(generalization)
	if err != nil {
		return nil, err
	}
	return g.transformation(id, append([]int(nil), generalization...)), nil
}

// transformation lists predecessors and successors in ascending lexicographic order.
func (g *Grid) transformation(id uint64, gen []int) *Transformation {
	t := &Transformation{
		ID:             id,
		Generalization: gen,
	}
	for d, v := range gen {
		t.Level += v
		if v > g.min[d] {
			t.Predecessors = append(t.Predecessors, id-g.offsets[d])
		}
	}
	for d := len(gen) - 1; d >= 0; d-- {
		if gen[d] < g.max[d] {
			t.Successors = append(t.Successors, id+g.offsets[d])
		}
	}
	if r, ok := g.records[id]; ok {
		t.Flags = r.flags
		t.InformationLoss = r.loss
		t.LowerBound = r.lowerBound
	}
	return t
}

// Top implements Space.
func (g *Grid) Top() *Transformation {
	return g.transformation(g.size-1, g.MaxLevels())
}

// Bottom implements Space.
func (g *Grid) Bottom() *Transformation {
	return g.transformation(0, g.MinLevels())
}

// Put records a search result for id and marks it materialized.
// A nil loss or lower bound leaves the transformation unscored.
func (g *Grid) Put(id uint64, flags Flags, loss, lowerBound quality.Score) error {
	if id >= g.size {
		return fmt.Errorf("%w: %d (size %d)", ErrUnknownTransformation, id, g.size)
	}
	g.records[id] = record{flags: flags | Visited, loss: loss, lowerBound: lowerBound}
	g.materialized.Add(id)
	return nil
}

// PutVector is Put addressed by generalization vector.
func (g *Grid) PutVector(generalization []int, flags Flags, loss, lowerBound quality.Score) (uint64, error) {
	id, err := g.ID(generalization)
	if err != nil {
		return 0, err
	}
	return id, g.Put(id, flags, loss, lowerBound)
}

// IsMaterialized reports whether Put was called for id.
func (g *Grid) IsMaterialized(id uint64) bool {
	return g.materialized.Contains(id)
}

// MaterializedCount returns the number of recorded transformations.
func (g *Grid) MaterializedCount() uint64 {
	return g.materialized.GetCardinality()
}

// Materialized implements SparseSpace.
func (g *Grid) Materialized() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		it := g.materialized.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}
