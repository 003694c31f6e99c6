package lattice

import (
	"maps"

	"github.com/hupe1980/anonlattice/quality"
)

// Node is one materialized transformation of a lattice.
//
// Classification and own scores are fixed at creation. Only the estimated
// bounds change, when the lattice re-estimates after an expansion.
type Node struct {
	lattice *Lattice
	index   int32

	id             uint64
	transformation []int
	level          int

	anonymity  Anonymity
	checked    bool
	lowest     quality.Score
	highest    quality.Score
	lowerBound quality.Score

	estLowest  quality.Score
	estHighest quality.Score

	predecessors []int32
	successors   []int32

	attributes map[string]any
}

// ID returns the id of the node's transformation in the space.
func (n *Node) ID() uint64 { return n.id }

// Transformation returns a copy of the generalization vector.
func (n *Node) Transformation() []int {
	return append([]int(nil), n.transformation...)
}

// Level returns the total generalization level.
func (n *Node) Level() int { return n.level }

// Anonymity returns the node's classification.
func (n *Node) Anonymity() Anonymity { return n.anonymity }

// Checked reports whether the transformation was evaluated rather than inferred.
func (n *Node) Checked() bool { return n.checked }

// LowestScore returns the node's own lowest score. It is nil on a complete
// lattice when the transformation was never scored.
func (n *Node) LowestScore() quality.Score { return n.lowest }

// HighestScore returns the node's own highest score.
func (n *Node) HighestScore() quality.Score { return n.highest }

// LowerBound returns the lower bound on loss recorded by the search, or nil.
func (n *Node) LowerBound() quality.Score { return n.lowerBound }

// EstimatedLowest returns the lowest score consistent with the lattice's monotonicity.
func (n *Node) EstimatedLowest() quality.Score { return n.estLowest }

// EstimatedHighest returns the highest score consistent with the lattice's monotonicity.
func (n *Node) EstimatedHighest() quality.Score { return n.estHighest }

// Predecessors returns the materialized direct predecessors in lexicographic order.
func (n *Node) Predecessors() []*Node {
	return n.lattice.resolve(n.predecessors)
}

// Successors returns the materialized direct successors in lexicographic order.
func (n *Node) Successors() []*Node {
	return n.lattice.resolve(n.successors)
}

// Generalization returns the level of attr, or 0 for an unknown attribute.
func (n *Node) Generalization(attr string) int {
	d, ok := n.lattice.header.Dimension(attr)
	if !ok || d >= len(n.transformation) {
		return 0
	}
	return n.transformation[d]
}

// Dimension returns the dimension of attr.
func (n *Node) Dimension(attr string) (int, bool) {
	return n.lattice.header.Dimension(attr)
}

// QuasiIdentifiers returns the attribute names in dimension order.
func (n *Node) QuasiIdentifiers() []string {
	return n.lattice.header.Names()
}

// Annotate stores a caller value on the node. Snapshots persist annotations
// in their fmt.Sprint form, so restored nodes hold string values.
func (n *Node) Annotate(key string, value any) {
	if n.attributes == nil {
		n.attributes = make(map[string]any)
	}
	n.attributes[key] = value
}

// Annotation returns a value stored with Annotate.
func (n *Node) Annotation(key string) (any, bool) {
	v, ok := n.attributes[key]
	return v, ok
}

// Attributes returns a copy of the annotation bag.
func (n *Node) Attributes() map[string]any {
	return maps.Clone(n.attributes)
}

// Expand materializes the node's missing neighbors.
func (n *Node) Expand() error {
	_, err := n.lattice.Expand(n)
	return err
}

func (n *Node) String() string {
	return n.anonymity.String() + formatVector(n.transformation)
}
