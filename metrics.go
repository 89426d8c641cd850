package mempool

// ChunkSize returns the fixed per-chunk capacity, in elements. Constant
// for the pool's lifetime.
func (p *Pool[T]) ChunkSize() int {
	return p.chunkSize
}

// ChunkCount returns the number of chunks currently in the chain.
// Use for diagnostic purposes only: under concurrent growth the result
// may be stale by the time it returns.
func (p *Pool[T]) ChunkCount() int {
	n := 0
	for c := p.root; c != nil; c = c.next.Load() {
		n++
	}
	return n
}

// Capacity returns the total number of element slots across the chain,
// ChunkCount times ChunkSize. Diagnostic only; approximate under
// concurrent growth.
func (p *Pool[T]) Capacity() int {
	return p.ChunkCount() * p.chunkSize
}

// Allocated returns the total number of live elements across the chain.
// Diagnostic only: with claims and releases in flight the count is
// approximate and may transiently exceed Capacity's view of a chunk.
func (p *Pool[T]) Allocated() int {
	n := 0
	for c := p.root; c != nil; c = c.next.Load() {
		n += c.allocated()
	}
	return n
}

// Utilization returns the ratio of live elements to total capacity
// (0.0 to 1.0). Returns 0.0 for a released pool.
func (p *Pool[T]) Utilization() float64 {
	capacity := p.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(p.Allocated()) / float64(capacity)
}

// Metrics returns a snapshot of pool statistics. The fields are read
// without cross-chunk synchronization and share the diagnostic-only
// contract of the individual counters.
func (p *Pool[T]) Metrics() PoolMetrics {
	return PoolMetrics{
		ChunkSize:   p.ChunkSize(),
		ChunkCount:  p.ChunkCount(),
		Capacity:    p.Capacity(),
		Allocated:   p.Allocated(),
		Utilization: p.Utilization(),
	}
}

// PoolMetrics contains statistical information about a pool.
type PoolMetrics struct {
	ChunkSize   int     // Fixed per-chunk capacity
	ChunkCount  int     // Number of chunks in the chain
	Capacity    int     // Total element slots
	Allocated   int     // Live elements
	Utilization float64 // Ratio of live elements to capacity (0.0-1.0)
}
