// Package lattice builds a navigable generalization lattice over a
// transformation space.
//
// A complete lattice materializes every transformation of a dense space and
// wires neighbors by id arithmetic. An incomplete lattice holds only the
// transformations a search visited, plus bottom and top, and can be
// expanded around any node later on. Every node carries an anonymity
// classification, its own information-loss scores and the bounds estimated
// from its neighborhood.
//
// Nodes live in an arena owned by the Lattice. Adjacency and levels are
// index lists into that arena, sorted lexicographically by generalization
// vector. A Lattice is not safe for concurrent use.
//
// Lattices are created through a Builder:
//
//	l, err := lattice.NewBuilder(grid, model).
//		Header([]string{"age", "zip"}).
//		Complete(false).
//		Build()
package lattice
