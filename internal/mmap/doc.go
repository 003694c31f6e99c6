// Package mmap provides memory mappings outside the Go heap.
//
// # Overview
//
// Two kinds of mappings are supported:
//
//   - Open maps an existing file read-only. Local snapshot stores use it to
//     hand the decoder the file contents without an intermediate copy.
//   - MapAnon creates a zero-filled, read-write anonymous mapping. Off-heap
//     row stores use it for their backing memory so that large generalized
//     datasets do not add GC pressure.
//
// # Usage
//
//	m, err := mmap.MapAnon(rows * rowSize)
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes() // zero-filled, len == rows*rowSize
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) for access hints
//   - Windows: CreateFileMapping/MapViewOfFile for files, VirtualAlloc for
//     anonymous memory (Advise is a no-op)
//
// # Thread Safety
//
// Close is idempotent and protected by an atomic flag. Callers must ensure
// no goroutine touches the slice returned by Bytes after Close returns.
package mmap
