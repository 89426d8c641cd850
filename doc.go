// Package mempool implements a chunked, lock-free object pool for Go.
//
// # Overview
//
// A memory pool hands out and reclaims storage for objects of a single
// type. Storage is acquired in fixed-size chunks, each with its own
// lock-free free list, so allocation and deallocation on the common
// path are a couple of atomic operations, with no global lock per call.
// This is particularly useful for:
//
//   - Workloads that create and destroy large numbers of same-typed objects
//   - Latency-sensitive code that cannot afford lock contention per allocation
//   - Reducing garbage collection pressure through object reuse
//   - Long-lived services with predictable allocation patterns
//
// # Basic Usage
//
//	pool, err := mempool.NewPool[Order]() // Use default chunk size
//	if err != nil {
//		// storage provider could not back the first chunk
//	}
//	defer pool.Release() // Clean up when done
//
//	// Allocate a zeroed element
//	o, err := pool.Alloc()
//
//	// Allocate from a value
//	o, err = pool.AllocValue(Order{ID: 42})
//
//	// Allocate with an in-place constructor
//	o, err = pool.AllocWith(func(o *Order) error { return o.init() })
//
//	// Return an element to the pool
//	pool.Free(o)
//
// # Thread Safety
//
// All Pool methods except Release are safe for concurrent use. Claim
// and release of a slot are lock-free; the only blocking operation is
// the rare chunk-chain growth, which takes a short per-pool mutex at
// most once per chunk boundary for the lifetime of the pool.
//
// No ordering or fairness is promised between competing goroutines.
// The single safety guarantee is that a slot is never held by two live
// allocations at once, and a freed slot eventually becomes claimable
// again.
//
// # Memory Layout
//
// The pool allocates storage in chunks (default 65536 elements). Each
// chunk couples a contiguous arena with a ring of slot indices, the
// free list. When every chunk in the chain is exhausted, a new chunk is
// appended; the pool never shrinks and never defragments. Chunk arenas
// are released only by Release, in reverse chain order.
//
// # Performance Characteristics
//
//   - Alloc: O(chain length) worst case, O(1) common case
//   - Free: O(chain length) address-range lookup, O(1) slot release
//   - Growth: one provider allocation per chunk, under a mutex
//   - Diagnostics: O(chain length), approximate under concurrency
//
// # Important Notes
//
//   - Elements are only valid until Free or Release
//   - Freeing a nil or foreign pointer is a silent no-op
//   - Double-free and use-after-free are not detected
//   - A Pool is a single long-lived handle; do not copy it
//
// # Metrics and Monitoring
//
// The pool provides counters for monitoring usage:
//
//	m := pool.Metrics()
//	fmt.Printf("Live elements: %d\n", m.Allocated)
//	fmt.Printf("Chunks: %d\n", m.ChunkCount)
//	fmt.Printf("Utilization: %.2f%%\n", m.Utilization * 100)
//
// These walk the chunk chain without cross-chunk synchronization, so
// under concurrent mutation they are approximate. Use them for
// introspection only, never for correctness decisions.
package mempool
