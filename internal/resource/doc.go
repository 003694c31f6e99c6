// Package resource implements the Controller for memory and IO governance.
//
// The Controller manages two resource types:
//
//   - Memory: Track and limit bytes held by row stores (non-blocking, fail-fast)
//   - IO: Rate-limit snapshot writes and reads against local disks
//
// # Memory Management
//
// Memory tracking uses a weighted semaphore for hard limits and an atomic
// counter for usage. AcquireMemory never blocks: row-store allocation is
// synchronous, so an exhausted budget is reported immediately with
// ErrMemoryLimitExceeded:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 1 << 30, // 1GB limit
//	})
//
//	if err := rc.AcquireMemory(rowBytes); err != nil {
//	    // ErrMemoryLimitExceeded
//	}
//	defer rc.ReleaseMemory(rowBytes)
//
// # IO Rate Limiting
//
// Token bucket rate limiter for snapshot IO:
//
//	rc := resource.NewController(resource.Config{
//	    IOLimitBytesPerSec: 100 * 1024 * 1024, // 100MB/s
//	})
//
//	writer := resource.NewRateLimitedWriter(ctx, file, rc)
//	reader := resource.NewRateLimitedReader(ctx, file, rc)
//
// # Nil Safety
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
