package lattice

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/hupe1980/anonlattice/quality"
)

// estimate recomputes every node's estimated bounds and the global minimum
// and maximum loss.
//
// On incomplete lattices the visible scores are taken as they are. On
// complete lattices, when the model is monotonic for anonymous nodes, the
// highest score of a scored ANONYMOUS node bounds all of its transitive
// successors from above; when it is monotonic for non-anonymous nodes, the
// lowest score of a scored NOT_ANONYMOUS node bounds all of its transitive
// predecessors from below. Propagated bounds only apply to unscored nodes.
func (l *Lattice) estimate() {
	if !l.complete {
		l.scan()
		return
	}

	exact := bitset.New(uint(len(l.nodes)))
	for i, n := range l.nodes {
		if n.lowest != nil && n.highest != nil {
			exact.Set(uint(i))
			n.estLowest, n.estHighest = n.lowest, n.highest
		} else {
			n.estLowest, n.estHighest = l.model.Best(), l.model.Worst()
		}
	}

	if l.monotonicAnonymous {
		carried := make([]quality.Score, len(l.nodes))
		for _, level := range l.levels {
			for _, idx := range level {
				n := l.nodes[idx]
				var bound quality.Score
				for _, p := range n.predecessors {
					bound = quality.Min(bound, carried[p])
				}
				if exact.Test(uint(idx)) { //nolint:gosec // non-negative arena index
					if n.anonymity == Anonymous {
						bound = quality.Min(bound, n.highest)
					}
				} else if bound != nil {
					n.estHighest = quality.Min(n.estHighest, bound)
				}
				carried[idx] = bound
			}
		}
	}

	if l.monotonicNonAnonymous {
		carried := make([]quality.Score, len(l.nodes))
		for i := len(l.levels) - 1; i >= 0; i-- {
			for _, idx := range l.levels[i] {
				n := l.nodes[idx]
				var bound quality.Score
				for _, s := range n.successors {
					bound = quality.Max(bound, carried[s])
				}
				if exact.Test(uint(idx)) { //nolint:gosec // non-negative arena index
					if n.anonymity == NotAnonymous {
						bound = quality.Max(bound, n.lowest)
					}
				} else if bound != nil {
					n.estLowest = quality.Max(n.estLowest, bound)
				}
				carried[idx] = bound
			}
		}
	}

	var lowest, highest quality.Score
	for i, n := range l.nodes {
		if !exact.Test(uint(i)) && n.estHighest.Compare(n.estLowest) < 0 {
			n.estHighest = n.estLowest
		}
		lowest = quality.Min(lowest, n.estLowest)
		highest = quality.Max(highest, n.estHighest)
	}
	l.lowest, l.highest = lowest, highest

	l.logger.Debug("bounds estimated",
		"exact", exact.Count(),
		"lowest", lowest,
		"highest", highest,
	)
}

// scan takes the global bounds directly from the nodes' own scores.
func (l *Lattice) scan() {
	var lowest, highest quality.Score
	for _, n := range l.nodes {
		n.estLowest, n.estHighest = n.lowest, n.highest
		lowest = quality.Min(lowest, n.lowest)
		highest = quality.Max(highest, n.highest)
	}
	l.lowest, l.highest = lowest, highest
}
