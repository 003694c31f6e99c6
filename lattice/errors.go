package lattice

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAnonymity is returned when a complete lattice meets a
	// transformation without any anonymity information.
	ErrMissingAnonymity = errors.New("lattice: missing anonymity information")
	// ErrNotDense is returned when a complete lattice is requested over a space without id offsets.
	ErrNotDense = errors.New("lattice: complete lattice requires a dense space")
	// ErrNotSparse is returned when an incomplete lattice is requested over a space without a materialized set.
	ErrNotSparse = errors.New("lattice: incomplete lattice requires a sparse space")
	// ErrTooLarge is returned when a dense space does not fit the node arena.
	ErrTooLarge = errors.New("lattice: space too large")
	// ErrInvalidConfig is returned for builder misuse.
	ErrInvalidConfig = errors.New("lattice: invalid configuration")
	// ErrForeignNode is returned when a node of another lattice is passed in.
	ErrForeignNode = errors.New("lattice: node belongs to another lattice")
	// ErrModelMismatch is returned when a snapshot was written by a different quality model.
	ErrModelMismatch = errors.New("lattice: quality model mismatch")
)

// ExpandError reports the transformation that stopped an expansion.
// Nothing of the expansion is committed when it is returned.
type ExpandError struct {
	ID  uint64
	Err error
}

func (e *ExpandError) Error() string {
	return fmt.Sprintf("lattice: expand transformation %d: %v", e.ID, e.Err)
}

func (e *ExpandError) Unwrap() error { return e.Err }
