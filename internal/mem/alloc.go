package mem

import (
	"unsafe"
)

// Alignment is the byte alignment of buffers returned by AllocAligned (one cache line).
const Alignment = 64

// AllocAligned allocates a zeroed byte slice of the given size whose first
// byte sits on a 64-byte boundary. It returns nil for size <= 0.
//
// The slice over-allocates by up to Alignment bytes; the underlying array
// is kept alive by the returned slice.
func AllocAligned(size int) []byte {
	if size <= 0 {
		return nil
	}

	buf := make([]byte, size+Alignment)

	addr := uintptr(unsafe.Pointer(&buf[0])) //nolint:gosec // unsafe is required for memory alignment
	offset := (Alignment - (addr & (Alignment - 1))) & (Alignment - 1)

	return buf[offset : offset+uintptr(size) : offset+uintptr(size)]
}

// IsAligned reports whether b starts on an Alignment boundary.
func IsAligned(b []byte) bool {
	if len(b) == 0 {
		return true
	}
	return uintptr(unsafe.Pointer(&b[0]))%Alignment == 0 //nolint:gosec // address inspection only
}
