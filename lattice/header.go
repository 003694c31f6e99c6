package lattice

// Header maps quasi-identifier names to dimensions. One Header is shared
// read-only by all nodes of a lattice.
type Header struct {
	names []string
	index map[string]int
}

func newHeader(names []string) *Header {
	h := &Header{
		names: append([]string(nil), names...),
		index: make(map[string]int, len(names)),
	}
	for i, n := range names {
		h.index[n] = i
	}
	return h
}

// Dimension returns the dimension of attr.
func (h *Header) Dimension(attr string) (int, bool) {
	if h == nil {
		return 0, false
	}
	d, ok := h.index[attr]
	return d, ok
}

// Names returns the attribute names in dimension order.
func (h *Header) Names() []string {
	if h == nil {
		return nil
	}
	return append([]string(nil), h.names...)
}

// Len returns the number of named dimensions.
func (h *Header) Len() int {
	if h == nil {
		return 0
	}
	return len(h.names)
}
