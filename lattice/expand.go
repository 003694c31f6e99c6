package lattice

import (
	"slices"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/anonlattice/space"
)

// ExpandResult summarizes an expansion.
type ExpandResult struct {
	// Added is the number of newly materialized nodes.
	Added int
}

// Expand materializes the predecessors and successors of n that are known
// to the space but missing from the lattice, inserts them into their levels
// and re-estimates bounds. It is a no-op on complete lattices.
//
// All new nodes are classified before the lattice is touched, so an error
// leaves the lattice unchanged.
func (l *Lattice) Expand(n *Node) (ExpandResult, error) {
	if n == nil || n.lattice != l {
		return ExpandResult{}, ErrForeignNode
	}
	if l.complete {
		return ExpandResult{}, nil
	}

	center, err := l.space.Transformation(n.id)
	if err != nil {
		return ExpandResult{}, &ExpandError{ID: n.id, Err: err}
	}

	missing := roaring64.New()
	for _, ids := range [][]uint64{center.Predecessors, center.Successors} {
		for _, id := range ids {
			if _, ok := l.lookup(id); !ok {
				missing.Add(id)
			}
		}
	}
	if missing.IsEmpty() {
		return ExpandResult{}, nil
	}

	card := missing.GetCardinality()
	batch := make([]*Node, 0, card)
	transformations := make([]*space.Transformation, 0, card)
	for it := missing.Iterator(); it.HasNext(); {
		id := it.Next()
		tr, err := l.space.Transformation(id)
		if err != nil {
			return ExpandResult{}, &ExpandError{ID: id, Err: err}
		}
		node, err := l.newNode(tr)
		if err != nil {
			return ExpandResult{}, &ExpandError{ID: id, Err: err}
		}
		batch = append(batch, node)
		transformations = append(transformations, tr)
	}

	first := int32(len(l.nodes)) //nolint:gosec // arena size is bounded by MaxInt32
	byLevel := make(map[int][]int32)
	for _, node := range batch {
		idx := l.add(node)
		byLevel[node.level] = append(byLevel[node.level], idx)
	}
	for level, added := range byLevel {
		l.mergeLevel(level, added)
	}

	for i, tr := range transformations {
		idx := first + int32(i) //nolint:gosec // bounded by batch size
		l.linkFrom(idx, tr)

		node := l.nodes[idx]
		for _, p := range node.predecessors {
			if p < first {
				pred := l.nodes[p]
				pred.successors = l.insertSorted(pred.successors, idx)
			}
		}
		for _, s := range node.successors {
			if s < first {
				succ := l.nodes[s]
				succ.predecessors = l.insertSorted(succ.predecessors, idx)
			}
		}
	}

	l.estimate()

	l.logger.Debug("lattice expanded",
		"node", formatVector(n.transformation),
		"added", len(batch),
		"size", len(l.nodes),
	)

	return ExpandResult{Added: len(batch)}, nil
}

// mergeLevel merges the new arena indices into a level in one linear pass.
func (l *Lattice) mergeLevel(level int, added []int32) {
	for len(l.levels) <= level {
		l.levels = append(l.levels, nil)
	}
	slices.SortStableFunc(added, l.compareIndices)

	existing := l.levels[level]
	merged := make([]int32, 0, len(existing)+len(added))
	i := 0
	for _, idx := range existing {
		for i < len(added) && l.compareIndices(added[i], idx) < 0 {
			merged = append(merged, added[i])
			i++
		}
		merged = append(merged, idx)
	}
	merged = append(merged, added[i:]...)
	l.levels[level] = merged
}
