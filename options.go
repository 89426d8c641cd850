package mempool

// Option configures a Pool at construction time.
type Option[T any] func(*config[T])

type config[T any] struct {
	chunkSize int
	capacity  int
	provider  Provider[T]
	finalizer func(*T)
}

// WithChunkSize sets the fixed per-chunk capacity, in elements. Values
// <= 0 select DefaultChunkSize. Valid sizes are 2 to 2^32-2; anything
// else makes NewPool fail with ErrBadChunkSize.
func WithChunkSize[T any](n int) Option[T] {
	return func(c *config[T]) { c.chunkSize = n }
}

// WithCapacity pre-grows the chain so that the pool's initial capacity
// is at least n elements.
func WithCapacity[T any](n int) Option[T] {
	return func(c *config[T]) { c.capacity = n }
}

// WithProvider sets the raw-storage provider backing chunk arenas.
// A nil provider selects HeapProvider.
func WithProvider[T any](p Provider[T]) Option[T] {
	return func(c *config[T]) { c.provider = p }
}

// WithFinalizer sets a destructor run by Free on the element before its
// slot is reclaimed. The finalizer must not panic; a panicking
// finalizer propagates out of Free with the slot already unusable.
func WithFinalizer[T any](f func(*T)) Option[T] {
	return func(c *config[T]) { c.finalizer = f }
}
