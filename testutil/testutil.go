package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/anonlattice/quality"
	"github.com/hupe1980/anonlattice/rowstore"
	"github.com/hupe1980/anonlattice/space"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec // test fixtures
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillRows writes random values to every field of s. Values stay below
// 1<<width, so column 0 never carries the outlier flag.
// Locks only once per call.
func (r *RNG) FillRows(s *rowstore.Store) {
	r.mu.Lock()
	defer r.mu.Unlock()

	layout := s.Layout()
	for row := 0; row < s.Rows(); row++ {
		for col, w := range layout.Widths {
			s.Set(row, col, uint32(r.rand.Int63n(1<<w))) //nolint:gosec // bounded by width
		}
	}
}

// PartialSearch records a random fraction of the transformations of g, as a
// search that skipped most of the space would. Recorded transformations are
// unchecked and anonymous from level anonymousFrom upward. It returns the
// number of recorded transformations.
func (r *RNG) PartialSearch(g *space.Grid, fraction float64, anonymousFrom int) (int, error) {
	model, err := quality.NewHeight(g.Bottom().Level, g.Top().Level)
	if err != nil {
		return 0, err
	}

	recorded := 0
	for id := uint64(0); id < g.Size(); id++ {
		if r.Float64() >= fraction {
			continue
		}
		tr, err := g.Transformation(id)
		if err != nil {
			return recorded, err
		}
		flags := space.NotAnonymous
		if tr.Level >= anonymousFrom {
			flags = space.Anonymous
		}
		if err := g.Put(id, flags, model.Evaluate(tr.Generalization), nil); err != nil {
			return recorded, err
		}
		recorded++
	}
	return recorded, nil
}

// ClassifiedGrid returns a uniform grid with every transformation recorded as
// checked, anonymous from level anonymousFrom upward, with its normalized
// height as loss.
func ClassifiedGrid(maxLevels []int, anonymousFrom int) (*space.Grid, error) {
	g, err := space.NewUniformGrid(maxLevels...)
	if err != nil {
		return nil, err
	}
	model, err := quality.NewHeight(0, g.Top().Level)
	if err != nil {
		return nil, err
	}

	for id := uint64(0); id < g.Size(); id++ {
		tr, err := g.Transformation(id)
		if err != nil {
			return nil, err
		}
		flags := space.Checked | space.NotAnonymous
		if tr.Level >= anonymousFrom {
			flags = space.Checked | space.Anonymous
		}
		if err := g.Put(id, flags, model.Evaluate(tr.Generalization), nil); err != nil {
			return nil, err
		}
	}
	return g, nil
}
