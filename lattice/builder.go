package lattice

import (
	"fmt"
	"iter"
	"log/slog"

	"github.com/hupe1980/anonlattice/quality"
	"github.com/hupe1980/anonlattice/space"
)

// Builder collects the configuration of a lattice. It is the only way to
// create one; a built Lattice exposes no setters.
type Builder struct {
	space  space.Space
	model  quality.Model
	logger *slog.Logger

	header                   []string
	optimum                  *uint64
	complete                 bool
	uncertainty              bool
	suppressionAlwaysEnabled bool
	suppressionLimit         int

	// Restore state.
	seeds        map[uint64]*seed
	materialized iter.Seq[uint64]
	monotonicity *[2]bool
}

// NewBuilder starts a lattice over sp scored by model. By default the
// lattice is complete.
func NewBuilder(sp space.Space, model quality.Model) *Builder {
	return &Builder{
		space:    sp,
		model:    model,
		complete: true,
	}
}

// Header names the quasi-identifiers in dimension order.
func (b *Builder) Header(names []string) *Builder {
	b.header = names
	return b
}

// Optimum marks the transformation with the given id as the optimum.
func (b *Builder) Optimum(id uint64) *Builder {
	b.optimum = &id
	return b
}

// Complete selects a dense build (true) or a build over visited transformations (false).
func (b *Builder) Complete(complete bool) *Builder {
	b.complete = complete
	return b
}

// Uncertainty marks inferred classifications as probable.
func (b *Builder) Uncertainty(uncertainty bool) *Builder {
	b.uncertainty = uncertainty
	return b
}

// SuppressionAlwaysEnabled states whether record suppression is always applied.
func (b *Builder) SuppressionAlwaysEnabled(enabled bool) *Builder {
	b.suppressionAlwaysEnabled = enabled
	return b
}

// SuppressionLimit sets the absolute number of records that may be suppressed.
func (b *Builder) SuppressionLimit(limit int) *Builder {
	b.suppressionLimit = limit
	return b
}

// Logger sets the logger for build and expansion events.
func (b *Builder) Logger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build creates the lattice. On error nothing is returned.
func (b *Builder) Build() (*Lattice, error) {
	if b.space == nil || b.model == nil {
		return nil, fmt.Errorf("%w: space and model are required", ErrInvalidConfig)
	}
	if b.header != nil && len(b.header) != b.space.Dimensions() {
		return nil, fmt.Errorf("%w: header has %d attributes, space has %d dimensions", ErrInvalidConfig, len(b.header), b.space.Dimensions())
	}
	if b.suppressionLimit < 0 {
		return nil, fmt.Errorf("%w: negative suppression limit %d", ErrInvalidConfig, b.suppressionLimit)
	}

	logger := b.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	l := &Lattice{
		space:       b.space,
		model:       b.model,
		header:      newHeader(b.header),
		logger:      logger,
		bottom:      none,
		top:         none,
		optimum:     none,
		complete:    b.complete,
		uncertainty: b.uncertainty,
		virtualSize: b.space.Size(),
		seeds:       b.seeds,
	}

	l.monotonicNonAnonymous = (b.model.MonotonicWithSuppression() && b.suppressionAlwaysEnabled) ||
		(b.model.MonotonicWithGeneralization() && !b.suppressionAlwaysEnabled)
	l.monotonicAnonymous = b.model.Monotonic(b.suppressionLimit)
	if b.monotonicity != nil {
		l.monotonicAnonymous, l.monotonicNonAnonymous = b.monotonicity[0], b.monotonicity[1]
	}

	if b.complete {
		ds, ok := b.space.(space.DenseSpace)
		if !ok {
			return nil, ErrNotDense
		}
		if err := l.buildDense(ds); err != nil {
			return nil, err
		}
	} else {
		materialized := b.materialized
		if materialized == nil {
			ss, ok := b.space.(space.SparseSpace)
			if !ok {
				return nil, ErrNotSparse
			}
			materialized = ss.Materialized()
		}
		if err := l.buildSparse(materialized); err != nil {
			return nil, err
		}
	}

	l.findExtremes()
	if b.optimum != nil {
		if idx, ok := l.lookup(*b.optimum); ok {
			l.optimum = idx
		}
	}
	l.seeds = nil

	l.estimate()

	l.logger.Debug("lattice built",
		"complete", l.complete,
		"nodes", len(l.nodes),
		"levels", len(l.levels),
		"virtual_size", l.virtualSize,
		"monotonic_anonymous", l.monotonicAnonymous,
		"monotonic_non_anonymous", l.monotonicNonAnonymous,
	)

	return l, nil
}

// classify derives a node's anonymity from the flags recorded by the search.
// It returns false when a complete lattice has no information for the transformation.
func classify(f space.Flags, complete, uncertainty bool) (Anonymity, bool) {
	if f.Has(space.Checked) {
		switch {
		case f.Has(space.Anonymous):
			return Anonymous, true
		case f.Has(space.NotAnonymous):
			return NotAnonymous, true
		}
	} else {
		switch {
		case f.Has(space.Anonymous):
			if uncertainty {
				return ProbablyAnonymous, true
			}
			return Anonymous, true
		case f.Has(space.NotAnonymous):
			if uncertainty {
				return ProbablyNotAnonymous, true
			}
			return NotAnonymous, true
		case f.Has(space.NotKAnonymous):
			return NotAnonymous, true
		case f.Has(space.InsufficientUtility):
			return Unknown, true
		}
	}
	return Unknown, !complete
}

// newNode creates a detached node for tr. Incomplete lattices substitute the
// model's sentinels for missing scores.
func (l *Lattice) newNode(tr *space.Transformation) (*Node, error) {
	n := &Node{
		lattice:        l,
		index:          none,
		id:             tr.ID,
		transformation: append([]int(nil), tr.Generalization...),
		lowest:         tr.InformationLoss,
		highest:        tr.InformationLoss,
		lowerBound:     tr.LowerBound,
		checked:        tr.Flags.Has(space.Checked),
	}
	for _, g := range n.transformation {
		n.level += g
	}

	if s, ok := l.seeds[tr.ID]; ok {
		s.apply(n)
	} else {
		a, ok := classify(tr.Flags, l.complete, l.uncertainty)
		if !ok {
			return nil, fmt.Errorf("%w: transformation %d %s (flags %s)", ErrMissingAnonymity, tr.ID, formatVector(tr.Generalization), tr.Flags)
		}
		n.anonymity = a
	}

	if !l.complete {
		if n.highest == nil {
			n.highest = l.model.Worst()
		}
		if n.lowest == nil {
			n.lowest = l.model.Best()
		}
	}
	return n, nil
}
