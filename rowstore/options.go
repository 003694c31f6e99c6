package rowstore

// MemoryAcquirer charges row-store allocations against a memory budget.
// *resource.Controller satisfies it.
type MemoryAcquirer interface {
	AcquireMemory(bytes int64) error
	ReleaseMemory(bytes int64)
}

type options struct {
	offHeap  bool
	acquirer MemoryAcquirer
}

// Option configures a Store.
type Option func(*options)

// WithOffHeap backs the store with an anonymous memory mapping instead of the Go heap.
func WithOffHeap() Option {
	return func(o *options) {
		o.offHeap = true
	}
}

// WithMemoryAcquirer charges the store's bytes to acquirer for its lifetime.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(o *options) {
		o.acquirer = acquirer
	}
}
