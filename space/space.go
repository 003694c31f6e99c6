package space

import (
	"errors"
	"iter"
	"strings"

	"github.com/hupe1980/anonlattice/quality"
)

var (
	// ErrUnknownTransformation is returned for an id outside the space.
	ErrUnknownTransformation = errors.New("space: unknown transformation")
	// ErrInvalidGeneralization is returned for a vector that does not fit the space.
	ErrInvalidGeneralization = errors.New("space: invalid generalization")
	// ErrInvalidBounds is returned when a grid is created with unusable level ranges.
	ErrInvalidBounds = errors.New("space: invalid bounds")
)

// Flags are the classification properties a search records for a transformation.
type Flags uint8

const (
	// Checked marks a transformation whose privacy was evaluated directly.
	Checked Flags = 1 << iota
	// Anonymous marks a transformation known or inferred to be anonymous.
	Anonymous
	// NotAnonymous marks a transformation known or inferred not to be anonymous.
	NotAnonymous
	// NotKAnonymous marks a transformation that fails the k-anonymity precondition.
	NotKAnonymous
	// InsufficientUtility marks a transformation pruned for its utility.
	InsufficientUtility
	// Visited marks a transformation the search touched.
	Visited
)

// Has reports whether all bits of o are set.
func (f Flags) Has(o Flags) bool {
	return f&o == o
}

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	names := []string{"checked", "anonymous", "not-anonymous", "not-k-anonymous", "insufficient-utility", "visited"}
	var parts []string
	for i, n := range names {
		if f&(1<<i) != 0 {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, "|")
}

// Transformation is one point of the space.
type Transformation struct {
	ID             uint64
	Generalization []int
	// Level is the sum of Generalization.
	Level        int
	Predecessors []uint64
	Successors   []uint64
	Flags        Flags
	// InformationLoss is nil while the transformation has not been scored.
	InformationLoss quality.Score
	LowerBound      quality.Score
}

// Space is the contract a lattice is built from.
type Space interface {
	Transformation(id uint64) (*Transformation, error)
	Lookup(generalization []int) (*Transformation, error)
	Top() *Transformation
	Bottom() *Transformation
	// Size is the number of transformations in the full space.
	Size() uint64
	Dimensions() int
}

// DenseSpace is a space whose ids are mixed-radix encodings of the vectors.
type DenseSpace interface {
	Space
	// Offsets returns, per dimension, the id delta of incrementing that dimension by one.
	Offsets() []uint64
}

// SparseSpace is a space that knows which transformations were visited.
type SparseSpace interface {
	Space
	// Materialized yields the visited ids in ascending order.
	Materialized() iter.Seq[uint64]
}
