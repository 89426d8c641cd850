package mempool

import "errors"

// ErrOutOfMemory is reported when the storage provider cannot back a
// new chunk. It is the only allocation failure a pool can surface.
var ErrOutOfMemory = errors.New("mempool: out of memory")

// Provider is the raw-storage capability backing chunk arenas. Allocate
// returns storage for at least n elements; Deallocate is called exactly
// once per chunk, with the original block, when the pool is released.
//
// Implementations must be safe for concurrent Allocate calls: chain
// growth is serialized by the pool, but independent pools may share one
// provider.
type Provider[T any] interface {
	Allocate(n int) ([]T, error)
	Deallocate(buf []T, n int)
}

// HeapProvider is the default Provider. It allocates arenas on the Go
// heap and leaves reclamation to the garbage collector, so Deallocate
// is a no-op.
type HeapProvider[T any] struct{}

// Allocate returns a zeroed block of n elements.
func (HeapProvider[T]) Allocate(n int) ([]T, error) {
	return make([]T, n), nil
}

// Deallocate drops the block; the garbage collector reclaims it once
// the chunk no longer references it.
func (HeapProvider[T]) Deallocate([]T, int) {}
