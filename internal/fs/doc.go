// Package fs abstracts the file operations of the local blob store so tests can
// inject write, sync and close failures.
//
//   - [LocalFS]: the os package
//   - [FaultyFS]: wraps another FileSystem and fails files whose path matches a rule
//
// Operations take no context.Context; local syscalls are not interruptible.
// Cancellation is handled by the callers in package blobstore.
package fs
