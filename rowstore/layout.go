package rowstore

import "fmt"

const (
	// MaxFieldBits is the widest supported column.
	MaxFieldBits = 31
	// WordSize is the comparison and alignment unit of a row in bytes.
	WordSize = 8
)

// Layout is the per-column placement of a row, computed once per store.
type Layout struct {
	// Widths are the declared column widths in bits.
	Widths []uint8
	// ByteClasses are the storage sizes of the columns (1, 2 or 4).
	ByteClasses []int
	// Offsets are the byte offsets of the columns within a row.
	Offsets []int
	// RowWords is the number of 8-byte words per row.
	RowWords int
	// RowSize is RowWords*8.
	RowSize int
}

// ByteClass returns the storage size for a column of the given bit width.
func ByteClass(bits uint8) (int, bool) {
	switch {
	case bits == 0:
		return 0, false
	case bits <= 7:
		return 1, true
	case bits <= 15:
		return 2, true
	case bits <= MaxFieldBits:
		return 4, true
	default:
		return 0, false
	}
}

// NewLayout computes the row layout for the given column widths.
func NewLayout(widths []uint8) (Layout, error) {
	if len(widths) == 0 {
		return Layout{}, fmt.Errorf("%w: no columns", ErrInvalidLayout)
	}

	l := Layout{
		Widths:      append([]uint8(nil), widths...),
		ByteClasses: make([]int, len(widths)),
		Offsets:     make([]int, len(widths)),
	}

	used := 0
	words := 1
	for col, w := range widths {
		class, ok := ByteClass(w)
		if !ok {
			if w == 0 {
				return Layout{}, fmt.Errorf("%w: column %d has zero width", ErrInvalidLayout, col)
			}
			return Layout{}, &FieldWidthError{Column: col, Width: w}
		}

		l.ByteClasses[col] = class
		l.Offsets[col] = used
		used += class

		// A field may straddle two words; only the row as a whole is word aligned.
		if used > words*WordSize {
			words++
		}
	}

	l.RowWords = words
	l.RowSize = words * WordSize
	return l, nil
}

// Columns returns the number of columns.
func (l Layout) Columns() int {
	return len(l.Widths)
}

// outlierFlag is the marker bit inside column 0's byte class.
func (l Layout) outlierFlag() uint32 {
	return 1 << (uint(l.ByteClasses[0])*8 - 1)
}
