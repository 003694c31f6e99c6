package lattice

import (
	"fmt"
	"math"

	"github.com/hupe1980/anonlattice/space"
)

// buildDense materializes every transformation of ds. Arena indices equal
// space ids, and neighbors are wired with the per-dimension id offsets.
func (l *Lattice) buildDense(ds space.DenseSpace) error {
	size := ds.Size()
	if size > math.MaxInt32 {
		return fmt.Errorf("%w: %d transformations", ErrTooLarge, size)
	}

	offsets := ds.Offsets()
	maxLevels := ds.Top().Generalization
	minLevels := ds.Bottom().Generalization
	if len(offsets) != len(maxLevels) || len(minLevels) != len(maxLevels) {
		return fmt.Errorf("%w: %d offsets for %d dimensions", ErrInvalidConfig, len(offsets), len(maxLevels))
	}
	topLevel := 0
	for _, g := range maxLevels {
		topLevel += g
	}

	nodes := make([]*Node, 0, size)
	levelSizes := make([]int, topLevel+1)
	for id := uint64(0); id < size; id++ {
		tr, err := ds.Transformation(id)
		if err != nil {
			return err
		}
		n, err := l.newNode(tr)
		if err != nil {
			return err
		}
		if n.level < 0 || n.level > topLevel {
			return fmt.Errorf("%w: transformation %d at level %d above top level %d", ErrInvalidConfig, id, n.level, topLevel)
		}

		var numPredecessors, numSuccessors int
		for d, g := range n.transformation {
			if g > minLevels[d] {
				numPredecessors++
			}
			if g < maxLevels[d] {
				numSuccessors++
			}
		}
		n.predecessors = make([]int32, 0, numPredecessors)
		n.successors = make([]int32, 0, numSuccessors)
		n.index = int32(id) //nolint:gosec // size checked above

		levelSizes[n.level]++
		nodes = append(nodes, n)
	}

	l.nodes = nodes
	l.levels = make([][]int32, topLevel+1)
	for i := range l.levels {
		l.levels[i] = make([]int32, 0, levelSizes[i])
	}

	// Incrementing a higher dimension yields a lexicographically smaller
	// successor, and decrementing a lower dimension a smaller predecessor.
	for _, n := range nodes {
		id := uint64(n.index) //nolint:gosec // non-negative arena index
		l.levels[n.level] = append(l.levels[n.level], n.index)
		for d := len(n.transformation) - 1; d >= 0; d-- {
			if n.transformation[d] < maxLevels[d] {
				n.successors = append(n.successors, int32(id+offsets[d])) //nolint:gosec // within size
			}
		}
		for d, g := range n.transformation {
			if g > minLevels[d] {
				n.predecessors = append(n.predecessors, int32(id-offsets[d])) //nolint:gosec // within size
			}
		}
	}

	l.sortLevels()
	return nil
}
