package lattice

import (
	"fmt"
	"iter"
	"math"

	"github.com/hupe1980/anonlattice/space"
)

// buildSparse materializes the given transformations plus bottom and top,
// linking each node only to neighbors that are materialized as well.
func (l *Lattice) buildSparse(materialized iter.Seq[uint64]) error {
	l.byID = make(map[uint64]int32)

	var transformations []*space.Transformation
	add := func(tr *space.Transformation) error {
		if _, ok := l.byID[tr.ID]; ok {
			return nil
		}
		if len(l.nodes) >= math.MaxInt32 {
			return fmt.Errorf("%w: more than %d materialized transformations", ErrTooLarge, math.MaxInt32)
		}
		n, err := l.newNode(tr)
		if err != nil {
			return err
		}
		l.add(n)
		transformations = append(transformations, tr)
		return nil
	}

	for id := range materialized {
		tr, err := l.space.Transformation(id)
		if err != nil {
			return err
		}
		if err := add(tr); err != nil {
			return err
		}
	}
	if err := add(l.space.Top()); err != nil {
		return err
	}
	if err := add(l.space.Bottom()); err != nil {
		return err
	}

	maxLevel := 0
	for _, n := range l.nodes {
		maxLevel = max(maxLevel, n.level)
	}
	l.levels = make([][]int32, maxLevel+1)
	for _, n := range l.nodes {
		l.levels[n.level] = append(l.levels[n.level], n.index)
	}
	l.sortLevels()

	for i, tr := range transformations {
		l.linkFrom(int32(i), tr) //nolint:gosec // arena size checked in add
	}
	return nil
}
