package lattice

import (
	"fmt"
	"log/slog"
	"math"
	"slices"

	"github.com/hupe1980/anonlattice/quality"
	"github.com/hupe1980/anonlattice/space"
)

// NodeState is the durable part of a node. Scores are stored by value;
// non-finite scores are omitted and fall back to the model's sentinels on
// an incomplete lattice.
type NodeState struct {
	ID             uint64    `json:"id"`
	Transformation []int     `json:"transformation"`
	Anonymity      Anonymity `json:"anonymity"`
	Checked        bool      `json:"checked"`
	Lowest         *float64  `json:"lowest,omitempty"`
	Highest        *float64  `json:"highest,omitempty"`
	LowerBound     *float64  `json:"lower_bound,omitempty"`
	// Attributes holds the node's annotations formatted with fmt.Sprint.
	Attributes map[string]string `json:"attributes,omitempty"`
}

// Snapshot is the durable part of a lattice. Levels and adjacency are not
// stored; they are rebuilt from the space on restore.
type Snapshot struct {
	Model                 string      `json:"model"`
	MonotonicAnonymous    bool        `json:"monotonic_anonymous"`
	MonotonicNonAnonymous bool        `json:"monotonic_non_anonymous"`
	Complete              bool        `json:"complete"`
	Uncertainty           bool        `json:"uncertainty"`
	VirtualSize           uint64      `json:"virtual_size"`
	Header                []string    `json:"header,omitempty"`
	Optimum               *uint64     `json:"optimum,omitempty"`
	Minimum               *float64    `json:"minimum,omitempty"`
	Maximum               *float64    `json:"maximum,omitempty"`
	Nodes                 []NodeState `json:"nodes"`
}

func scoreValue(s quality.Score) *float64 {
	if s == nil {
		return nil
	}
	v := s.Value()
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return nil
	}
	return &v
}

// Snapshot exports the lattice's durable state. Nodes are listed in level order.
func (l *Lattice) Snapshot() *Snapshot {
	snap := &Snapshot{
		Model:                 l.model.Name(),
		MonotonicAnonymous:    l.monotonicAnonymous,
		MonotonicNonAnonymous: l.monotonicNonAnonymous,
		Complete:              l.complete,
		Uncertainty:           l.uncertainty,
		VirtualSize:           l.virtualSize,
		Header:                l.header.Names(),
		Minimum:               scoreValue(l.lowest),
		Maximum:               scoreValue(l.highest),
		Nodes:                 make([]NodeState, 0, len(l.nodes)),
	}
	if o := l.Optimum(); o != nil {
		id := o.id
		snap.Optimum = &id
	}

	for n := range l.All() {
		state := NodeState{
			ID:             n.id,
			Transformation: n.Transformation(),
			Anonymity:      n.anonymity,
			Checked:        n.checked,
			Lowest:         scoreValue(n.lowest),
			Highest:        scoreValue(n.highest),
			LowerBound:     scoreValue(n.lowerBound),
		}
		if len(n.attributes) > 0 {
			state.Attributes = make(map[string]string, len(n.attributes))
			for k, v := range n.attributes {
				state.Attributes[k] = fmt.Sprint(v)
			}
		}
		snap.Nodes = append(snap.Nodes, state)
	}
	return snap
}

// seed is the restored state of one node.
type seed struct {
	anonymity  Anonymity
	checked    bool
	lowest     quality.Score
	highest    quality.Score
	lowerBound quality.Score
	attributes map[string]any
}

func (s *seed) apply(n *Node) {
	n.anonymity = s.anonymity
	n.checked = s.checked
	n.lowest = s.lowest
	n.highest = s.highest
	n.lowerBound = s.lowerBound
	n.attributes = s.attributes
}

func restoreScore(model quality.Model, v *float64, ctx quality.RestoreContext) (quality.Score, error) {
	if v == nil {
		return nil, nil
	}
	return model.Restore(*v, ctx)
}

// Restore rebuilds a lattice from a snapshot. The graph is derived from sp
// again; classification, scores and annotations come from the snapshot.
// Scores are rebuilt with model.Restore under ctx.
func Restore(sp space.Space, model quality.Model, snap *Snapshot, ctx quality.RestoreContext, opts ...RestoreOption) (*Lattice, error) {
	if snap == nil {
		return nil, fmt.Errorf("%w: nil snapshot", ErrInvalidConfig)
	}
	if model == nil || model.Name() != snap.Model {
		name := ""
		if model != nil {
			name = model.Name()
		}
		return nil, fmt.Errorf("%w: snapshot written by %q, restoring with %q", ErrModelMismatch, snap.Model, name)
	}

	seeds := make(map[uint64]*seed, len(snap.Nodes))
	ids := make([]uint64, 0, len(snap.Nodes))
	for i := range snap.Nodes {
		ns := &snap.Nodes[i]
		s := &seed{anonymity: ns.Anonymity, checked: ns.Checked}

		var err error
		if s.lowest, err = restoreScore(model, ns.Lowest, ctx); err != nil {
			return nil, fmt.Errorf("lattice: restore node %d: %w", ns.ID, err)
		}
		if s.highest, err = restoreScore(model, ns.Highest, ctx); err != nil {
			return nil, fmt.Errorf("lattice: restore node %d: %w", ns.ID, err)
		}
		if s.lowerBound, err = restoreScore(model, ns.LowerBound, ctx); err != nil {
			return nil, fmt.Errorf("lattice: restore node %d: %w", ns.ID, err)
		}
		if len(ns.Attributes) > 0 {
			s.attributes = make(map[string]any, len(ns.Attributes))
			for k, v := range ns.Attributes {
				s.attributes[k] = v
			}
		}

		seeds[ns.ID] = s
		ids = append(ids, ns.ID)
	}
	slices.Sort(ids)

	b := NewBuilder(sp, model).
		Header(snap.Header).
		Complete(snap.Complete).
		Uncertainty(snap.Uncertainty)
	for _, opt := range opts {
		opt(b)
	}
	if snap.Optimum != nil {
		b.Optimum(*snap.Optimum)
	}
	b.seeds = seeds
	b.monotonicity = &[2]bool{snap.MonotonicAnonymous, snap.MonotonicNonAnonymous}
	if !snap.Complete {
		b.materialized = slices.Values(ids)
	}

	return b.Build()
}

// RestoreOption adjusts the builder used by Restore.
type RestoreOption func(*Builder)

// WithRestoreLogger sets the logger of the restored lattice.
func WithRestoreLogger(logger *slog.Logger) RestoreOption {
	return func(b *Builder) {
		b.Logger(logger)
	}
}
