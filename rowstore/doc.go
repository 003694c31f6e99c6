// Package rowstore provides a bit-packed, word-aligned two-dimensional array
// for generalized dataset rows.
//
// Each column declares a bit width (1-31). Columns are stored in the
// smallest byte class that holds the width (1, 2 or 4 bytes), packed
// contiguously in declared order. Every row is padded to a multiple of
// 8 bytes so that equality and hashing can run one 64-bit word at a time.
//
//	widths [3, 10]      -> classes [1, 2]    -> 3 bytes  -> 8-byte rows
//	widths [20, 20, 20] -> classes [4, 4, 4] -> 12 bytes -> 16-byte rows
//
// # Memory
//
// Backing memory is zero-filled and starts on a 64-byte boundary. It is
// taken from the Go heap by default or from an anonymous mapping with
// WithOffHeap. A Store is exclusively owned: the owner calls Release exactly
// once. Releasing twice returns ErrReleased; touching the rows of a released
// store panics with ErrReleased.
//
// # Outliers
//
// The most significant bit of column 0's byte class is reserved as the
// outlier (suppression) marker. EqualsIgnoreOutliers ignores the whole of
// column 0; Equals and Hash do not.
//
// A Store is not safe for concurrent mutation.
package rowstore
