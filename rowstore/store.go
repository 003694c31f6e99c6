package rowstore

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/hupe1980/anonlattice/internal/conv"
	"github.com/hupe1980/anonlattice/internal/mem"
	"github.com/hupe1980/anonlattice/internal/mmap"
)

// hashSeed is the odd seed of the row hash accumulator.
const hashSeed int64 = 1125899906842597

// Store is a fixed-size table of bit-packed rows.
type Store struct {
	layout Layout
	rows   int
	opts   options

	data    []byte
	base    unsafe.Pointer
	mapping *mmap.Mapping
	charged int64

	// scratch is the transient row used by Swap.
	scratch []byte
	// contentMask clears column 0 from the first word of a row.
	contentMask uint64

	released bool
}

// New allocates a zeroed store of rows rows with the given column widths in bits.
func New(rows int, widths []uint8, opts ...Option) (*Store, error) {
	if rows < 0 {
		return nil, fmt.Errorf("%w: negative row count %d", ErrInvalidLayout, rows)
	}

	layout, err := NewLayout(widths)
	if err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	return allocate(rows, layout, o)
}

// NewUniform allocates a store whose columns all use 4-byte fields.
func NewUniform(rows, columns int, opts ...Option) (*Store, error) {
	if columns <= 0 {
		return nil, fmt.Errorf("%w: no columns", ErrInvalidLayout)
	}
	widths := make([]uint8, columns)
	for i := range widths {
		widths[i] = MaxFieldBits
	}
	return New(rows, widths, opts...)
}

func allocate(rows int, layout Layout, o options) (*Store, error) {
	size, err := conv.MulInt(rows, layout.RowSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMemoryExhausted, err)
	}

	s := &Store{
		layout:  layout,
		rows:    rows,
		opts:    o,
		scratch: make([]byte, layout.RowSize),
	}

	if o.acquirer != nil {
		if err := o.acquirer.AcquireMemory(conv.IntToInt64(size)); err != nil {
			return nil, fmt.Errorf("%w: %d bytes: %w", ErrMemoryExhausted, size, err)
		}
		s.charged = conv.IntToInt64(size)
	}

	switch {
	case size == 0:
		// Empty store; nothing to back.
	case o.offHeap:
		m, err := mmap.MapAnon(size)
		if err != nil {
			s.refund()
			return nil, fmt.Errorf("%w: map %d bytes: %w", ErrMemoryExhausted, size, err)
		}
		s.mapping = m
		s.data = m.Bytes()
	default:
		s.data = mem.AllocAligned(size)
	}

	if len(s.data) > 0 {
		s.base = unsafe.Pointer(&s.data[0]) //nolint:gosec // row words are read through base
	}
	s.contentMask = s.firstColumnMask()

	return s, nil
}

// firstColumnMask computes, in native byte order, the first-word mask with
// every byte of column 0 cleared.
func (s *Store) firstColumnMask() uint64 {
	var word [WordSize]byte
	for i := 0; i < s.layout.ByteClasses[0]; i++ {
		word[i] = 0xFF
	}
	return ^binary.NativeEndian.Uint64(word[:])
}

func (s *Store) refund() {
	if s.charged > 0 {
		s.opts.acquirer.ReleaseMemory(s.charged)
		s.charged = 0
	}
}

// Layout returns the store's row layout.
func (s *Store) Layout() Layout {
	return s.layout
}

// Rows returns the number of rows.
func (s *Store) Rows() int {
	return s.rows
}

// Columns returns the number of columns.
func (s *Store) Columns() int {
	return s.layout.Columns()
}

// ByteSize returns the number of bytes backing the rows.
func (s *Store) ByteSize() int {
	return s.rows * s.layout.RowSize
}

// OffHeap reports whether the rows live in an anonymous mapping.
func (s *Store) OffHeap() bool {
	return s.opts.offHeap
}

// Released reports whether Release has been called.
func (s *Store) Released() bool {
	return s.released
}

func (s *Store) check(row int) {
	if s.released {
		panic(ErrReleased)
	}
	if uint(row) >= uint(s.rows) {
		panic(&RowRangeError{Row: row, Rows: s.rows})
	}
}

func (s *Store) checkField(row, col int) {
	s.check(row)
	if uint(col) >= uint(s.layout.Columns()) {
		panic(&ColumnRangeError{Column: col, Columns: s.layout.Columns()})
	}
}

func (s *Store) rowOffset(row int) int {
	return row * s.layout.RowSize
}

// word reads the w-th 8-byte word of the row starting at off.
// Rows start on 8-byte boundaries, so the load is aligned.
func (s *Store) word(off, w int) uint64 {
	return *(*uint64)(unsafe.Add(s.base, off+w*WordSize)) //nolint:gosec // bounds checked by check()
}

// Get returns the raw value of a field, including the outlier flag for column 0.
func (s *Store) Get(row, col int) uint32 {
	s.checkField(row, col)
	off := s.rowOffset(row) + s.layout.Offsets[col]
	switch s.layout.ByteClasses[col] {
	case 4:
		return binary.NativeEndian.Uint32(s.data[off:])
	case 2:
		return uint32(binary.NativeEndian.Uint16(s.data[off:]))
	default:
		return uint32(s.data[off])
	}
}

// Set writes a field, truncating v to the column's byte class.
func (s *Store) Set(row, col int, v uint32) {
	s.checkField(row, col)
	off := s.rowOffset(row) + s.layout.Offsets[col]
	switch s.layout.ByteClasses[col] {
	case 4:
		binary.NativeEndian.PutUint32(s.data[off:], v)
	case 2:
		binary.NativeEndian.PutUint16(s.data[off:], uint16(v))
	default:
		s.data[off] = byte(v)
	}
}

// Equals reports whether two rows hold identical bytes.
func (s *Store) Equals(row1, row2 int) bool {
	s.check(row1)
	s.check(row2)
	off1, off2 := s.rowOffset(row1), s.rowOffset(row2)
	for w := 0; w < s.layout.RowWords; w++ {
		if s.word(off1, w) != s.word(off2, w) {
			return false
		}
	}
	return true
}

// EqualsIgnoreOutliers reports whether two rows are equal apart from column 0,
// which carries the outlier marker.
func (s *Store) EqualsIgnoreOutliers(row1, row2 int) bool {
	s.check(row1)
	s.check(row2)
	off1, off2 := s.rowOffset(row1), s.rowOffset(row2)
	if s.word(off1, 0)&s.contentMask != s.word(off2, 0)&s.contentMask {
		return false
	}
	for w := 1; w < s.layout.RowWords; w++ {
		if s.word(off1, w) != s.word(off2, w) {
			return false
		}
	}
	return true
}

// Hash returns a deterministic hash over every word of the row.
// Rows for which Equals holds hash identically.
func (s *Store) Hash(row int) int32 {
	s.check(row)
	off := s.rowOffset(row)
	acc := hashSeed
	for w := 0; w < s.layout.RowWords; w++ {
		acc = 31*acc + int64(s.word(off, w)) //nolint:gosec // bit pattern reinterpretation
	}
	return int32(31*acc) * int32(uint64(acc)>>32) //nolint:gosec // intentional truncation
}

// Swap exchanges the contents of two rows.
func (s *Store) Swap(row1, row2 int) {
	s.check(row1)
	s.check(row2)
	if row1 == row2 {
		return
	}
	size := s.layout.RowSize
	r1 := s.data[s.rowOffset(row1) : s.rowOffset(row1)+size]
	r2 := s.data[s.rowOffset(row2) : s.rowOffset(row2)+size]
	copy(s.scratch, r2)
	copy(r2, r1)
	copy(r1, s.scratch)
}

// MarkOutlier sets the outlier flag of a row.
func (s *Store) MarkOutlier(row int) {
	s.Set(row, 0, s.Get(row, 0)|s.layout.outlierFlag())
}

// ClearOutlier clears the outlier flag of a row.
func (s *Store) ClearOutlier(row int) {
	s.Set(row, 0, s.Get(row, 0)&^s.layout.outlierFlag())
}

// IsOutlier reports whether the row carries the outlier flag.
func (s *Store) IsOutlier(row int) bool {
	return s.Get(row, 0)&s.layout.outlierFlag() != 0
}

// Clone returns an independent copy of the store with the same layout,
// backing kind and memory budget.
func (s *Store) Clone() (*Store, error) {
	if s.released {
		return nil, ErrReleased
	}
	c, err := allocate(s.rows, s.layout, s.opts)
	if err != nil {
		return nil, err
	}
	copy(c.data, s.data)
	return c, nil
}

// NewInstance returns an empty store with the same layout and options.
func (s *Store) NewInstance() (*Store, error) {
	if s.released {
		return nil, ErrReleased
	}
	return allocate(s.rows, s.layout, s.opts)
}

// Release returns the backing memory. The store must not be used afterward;
// a second call returns ErrReleased.
func (s *Store) Release() error {
	if s.released {
		return ErrReleased
	}
	s.released = true

	var err error
	if s.mapping != nil {
		err = s.mapping.Close()
		s.mapping = nil
	}
	s.data = nil
	s.base = nil
	s.scratch = nil
	s.refund()
	return err
}
