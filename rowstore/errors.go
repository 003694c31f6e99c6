package rowstore

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLayout is returned for an unusable column configuration.
	ErrInvalidLayout = errors.New("rowstore: invalid layout")
	// ErrReleased is returned by Release on a store that was already
	// released, and is the panic value for any row access after release.
	ErrReleased = errors.New("rowstore: store has been released")
	// ErrMemoryExhausted wraps allocation and memory-budget failures.
	ErrMemoryExhausted = errors.New("rowstore: memory exhausted")
)

// FieldWidthError reports a column whose bit width does not fit a 4-byte field.
type FieldWidthError struct {
	Column int
	Width  uint8
}

func (e *FieldWidthError) Error() string {
	return fmt.Sprintf("rowstore: column %d has unsupported field width of %d bits (max %d)", e.Column, e.Width, MaxFieldBits)
}

// Unwrap makes FieldWidthError match ErrInvalidLayout.
func (e *FieldWidthError) Unwrap() error { return ErrInvalidLayout }

// RowRangeError is the panic value for a row index outside the store.
type RowRangeError struct {
	Row  int
	Rows int
}

func (e *RowRangeError) Error() string {
	return fmt.Sprintf("rowstore: row %d out of range [0, %d)", e.Row, e.Rows)
}

// ColumnRangeError is the panic value for a column index outside the layout.
type ColumnRangeError struct {
	Column  int
	Columns int
}

func (e *ColumnRangeError) Error() string {
	return fmt.Sprintf("rowstore: column %d out of range [0, %d)", e.Column, e.Columns)
}
