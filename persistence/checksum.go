package persistence

import (
	"errors"
	"fmt"
)

// ChecksumMismatchError is returned when the trailing CRC32C does not match.
type ChecksumMismatchError struct {
	Expected uint32
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: expected 0x%08x, got 0x%08x", e.Expected, e.Actual)
}

// Unwrap classifies a checksum mismatch as corruption.
func (e *ChecksumMismatchError) Unwrap() error {
	return ErrCorrupt
}

// IsChecksumMismatch returns true if err is a checksum mismatch error.
func IsChecksumMismatch(err error) bool {
	var cm *ChecksumMismatchError
	return errors.As(err, &cm)
}
