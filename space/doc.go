// Package space describes the transformation space a lattice is built over.
//
// A Space hands out Transformations by numeric id: the generalization
// vector, its level, the ids of its direct predecessors and successors and
// the classification flags recorded by a search. DenseSpace adds the
// per-dimension id offsets used to wire a complete lattice without lookups.
// SparseSpace adds the set of ids a search actually visited.
//
// Grid is an in-memory implementation of both.
package space
