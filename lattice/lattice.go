package lattice

import (
	"iter"
	"log/slog"
	"slices"

	"github.com/hupe1980/anonlattice/quality"
	"github.com/hupe1980/anonlattice/space"
)

const none int32 = -1

// Lattice is the partially ordered graph over the transformations of a space.
type Lattice struct {
	space  space.Space
	model  quality.Model
	header *Header
	logger *slog.Logger

	// nodes is the arena; levels and adjacency hold indices into it.
	nodes  []*Node
	levels [][]int32
	// byID maps space ids to arena indices. It is nil for complete lattices,
	// where the arena index is the id.
	byID map[uint64]int32

	bottom  int32
	top     int32
	optimum int32

	complete              bool
	uncertainty           bool
	monotonicAnonymous    bool
	monotonicNonAnonymous bool
	virtualSize           uint64

	lowest  quality.Score
	highest quality.Score

	// seeds override classification and scores while restoring a snapshot.
	seeds map[uint64]*seed
}

// Bottom returns the lowest node.
func (l *Lattice) Bottom() *Node { return l.at(l.bottom) }

// Top returns the highest node.
func (l *Lattice) Top() *Node { return l.at(l.top) }

// Optimum returns the optimal node, or nil if it is unknown or not materialized.
func (l *Lattice) Optimum() *Node { return l.at(l.optimum) }

// Levels returns the nodes grouped by total generalization level, each
// level sorted lexicographically.
func (l *Lattice) Levels() [][]*Node {
	out := make([][]*Node, len(l.levels))
	for i, level := range l.levels {
		out[i] = l.resolve(level)
	}
	return out
}

// All yields every node in level order.
func (l *Lattice) All() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, level := range l.levels {
			for _, idx := range level {
				if !yield(l.nodes[idx]) {
					return
				}
			}
		}
	}
}

// Node returns the node of the transformation with the given space id.
func (l *Lattice) Node(id uint64) (*Node, bool) {
	idx, ok := l.lookup(id)
	if !ok {
		return nil, false
	}
	return l.nodes[idx], true
}

// Size returns the number of materialized nodes.
func (l *Lattice) Size() int { return len(l.nodes) }

// VirtualSize returns the number of transformations in the underlying space.
func (l *Lattice) VirtualSize() uint64 { return l.virtualSize }

// Complete reports whether every transformation of the space is materialized.
func (l *Lattice) Complete() bool { return l.complete }

// Uncertainty reports whether inferred classifications are marked as probable.
func (l *Lattice) Uncertainty() bool { return l.uncertainty }

// LowestScore returns the global minimum information loss.
func (l *Lattice) LowestScore() quality.Score { return l.lowest }

// HighestScore returns the global maximum information loss.
func (l *Lattice) HighestScore() quality.Score { return l.highest }

// Monotonicity returns the monotonicity flags derived from the model and
// the suppression configuration.
func (l *Lattice) Monotonicity() (anonymous, nonAnonymous bool) {
	return l.monotonicAnonymous, l.monotonicNonAnonymous
}

// Model returns the quality model.
func (l *Lattice) Model() quality.Model { return l.model }

// Header returns the shared attribute header.
func (l *Lattice) Header() *Header { return l.header }

// Space returns the transformation space the lattice was built over.
func (l *Lattice) Space() space.Space { return l.space }

func (l *Lattice) at(idx int32) *Node {
	if idx == none {
		return nil
	}
	return l.nodes[idx]
}

func (l *Lattice) resolve(indices []int32) []*Node {
	out := make([]*Node, len(indices))
	for i, idx := range indices {
		out[i] = l.nodes[idx]
	}
	return out
}

func (l *Lattice) lookup(id uint64) (int32, bool) {
	if l.byID == nil {
		if id < uint64(len(l.nodes)) {
			return int32(id), true //nolint:gosec // arena size is bounded by MaxInt32
		}
		return none, false
	}
	idx, ok := l.byID[id]
	return idx, ok
}

// add appends n to the arena.
func (l *Lattice) add(n *Node) int32 {
	n.index = int32(len(l.nodes)) //nolint:gosec // arena size is bounded by MaxInt32
	l.nodes = append(l.nodes, n)
	if l.byID != nil {
		l.byID[n.id] = n.index
	}
	return n.index
}

func (l *Lattice) compareIndices(a, b int32) int {
	return compareVectors(l.nodes[a].transformation, l.nodes[b].transformation)
}

func (l *Lattice) sortLevels() {
	for _, level := range l.levels {
		if !slices.IsSortedFunc(level, l.compareIndices) {
			slices.SortStableFunc(level, l.compareIndices)
		}
	}
}

// findExtremes sets bottom to the first node of the lowest non-empty level
// and top to the first node of the highest non-empty level.
func (l *Lattice) findExtremes() {
	l.bottom, l.top = none, none
	for _, level := range l.levels {
		if len(level) > 0 {
			l.bottom = level[0]
			break
		}
	}
	for i := len(l.levels) - 1; i >= 0; i-- {
		if len(l.levels[i]) > 0 {
			l.top = l.levels[i][0]
			break
		}
	}
}

// linkFrom sets the adjacency of node idx to the materialized ids of tr's
// declared neighbors, sorted lexicographically.
func (l *Lattice) linkFrom(idx int32, tr *space.Transformation) {
	n := l.nodes[idx]
	n.predecessors = l.materializedOf(tr.Predecessors)
	n.successors = l.materializedOf(tr.Successors)
}

func (l *Lattice) materializedOf(ids []uint64) []int32 {
	out := make([]int32, 0, len(ids))
	for _, id := range ids {
		if idx, ok := l.lookup(id); ok {
			out = append(out, idx)
		}
	}
	if !slices.IsSortedFunc(out, l.compareIndices) {
		slices.SortFunc(out, l.compareIndices)
	}
	return out
}

// insertSorted inserts idx into a sorted adjacency list before the first
// entry that is not lexicographically smaller.
func (l *Lattice) insertSorted(list []int32, idx int32) []int32 {
	pos, _ := slices.BinarySearchFunc(list, idx, l.compareIndices)
	return slices.Insert(list, pos, idx)
}
