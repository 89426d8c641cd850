package mempool

import (
	"errors"
	"sync"
	"unsafe"
)

// DefaultChunkSize is the default per-chunk capacity, in elements.
const DefaultChunkSize = 1 << 16

var (
	// ErrBadChunkSize is reported by NewPool for chunk sizes outside
	// the representable range.
	ErrBadChunkSize = errors.New("mempool: chunk size out of range")

	// ErrZeroSizeElement is reported by NewPool for element types of
	// size zero, whose slots would not have distinct addresses.
	ErrZeroSizeElement = errors.New("mempool: zero-size element type")
)

// Pool is a fixed-element-type concurrent object pool. It owns a chain
// of fixed-capacity chunks, each with its own lock-free free list, and
// appends a new chunk whenever the chain is exhausted.
//
// A Pool is a single long-lived resource handle: callers hold pointers
// into its arenas, so it must not be copied. All methods except Release
// are safe for concurrent use.
type Pool[T any] struct {
	chunkSize int
	provider  Provider[T]
	finalizer func(*T)

	// growMu serializes chunk-chain growth only; claim and release
	// never take it.
	growMu sync.Mutex
	root   *chunk[T] // nil once released
}

// NewPool creates a pool for elements of type T. With no options it has
// one chunk of DefaultChunkSize elements backed by HeapProvider; see
// WithChunkSize, WithCapacity, WithProvider and WithFinalizer.
//
// NewPool fails only with ErrBadChunkSize, ErrZeroSizeElement, or a
// storage-provider failure while backing the initial chain.
func NewPool[T any](opts ...Option[T]) (*Pool[T], error) {
	cfg := config[T]{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.chunkSize <= 0 {
		cfg.chunkSize = DefaultChunkSize
	}
	if cfg.chunkSize < 2 || uint64(cfg.chunkSize) >= slotTaken {
		return nil, ErrBadChunkSize
	}
	if unsafe.Sizeof(*new(T)) == 0 {
		return nil, ErrZeroSizeElement
	}
	if cfg.provider == nil {
		cfg.provider = HeapProvider[T]{}
	}

	p := &Pool[T]{
		chunkSize: cfg.chunkSize,
		provider:  cfg.provider,
		finalizer: cfg.finalizer,
	}
	root, err := newChunk[T](p.chunkSize, p.provider)
	if err != nil {
		return nil, err
	}
	p.root = root

	// Pre-grow the chain until capacity covers the hint.
	tail := root
	for remaining := cfg.capacity - p.chunkSize; remaining > 0; remaining -= p.chunkSize {
		c, err := newChunk[T](p.chunkSize, p.provider)
		if err != nil {
			p.Release()
			return nil, err
		}
		tail.next.Store(c)
		tail = c
	}
	return p, nil
}

// Alloc claims a slot and returns it as a zeroed live element. On
// success the pointer is never nil; the only failure is a storage
// provider error during chain growth.
func (p *Pool[T]) Alloc() (*T, error) {
	c, idx, err := p.claim()
	if err != nil {
		return nil, err
	}
	elem := c.slot(idx)
	var zero T
	*elem = zero
	return elem, nil
}

// AllocValue claims a slot and moves v into it.
func (p *Pool[T]) AllocValue(v T) (*T, error) {
	c, idx, err := p.claim()
	if err != nil {
		return nil, err
	}
	elem := c.slot(idx)
	*elem = v
	return elem, nil
}

// AllocWith claims a slot, zeroes it, and runs ctor on it in place. If
// ctor fails the slot is released back to its chunk before the error is
// returned, so a failing constructor never consumes capacity. A nil
// ctor behaves like Alloc.
func (p *Pool[T]) AllocWith(ctor func(*T) error) (*T, error) {
	c, idx, err := p.claim()
	if err != nil {
		return nil, err
	}
	elem := c.slot(idx)
	var zero T
	*elem = zero
	if ctor != nil {
		if err := ctor(elem); err != nil {
			*elem = zero
			c.release(idx)
			return nil, err
		}
	}
	return elem, nil
}

// Free returns an element to the pool. A nil pointer is a no-op. The
// chain is searched by arena address range; on a hit the finalizer (if
// configured) runs and the slot becomes claimable again. A pointer not
// obtained from this pool is a silent no-op. Double-free and
// use-after-free are not detected.
func (p *Pool[T]) Free(elem *T) {
	if elem == nil {
		return
	}
	p.ensureLive()
	ptr := unsafe.Pointer(elem)
	for c := p.root; c != nil; c = c.next.Load() {
		if !c.contains(ptr) {
			continue
		}
		if p.finalizer != nil {
			p.finalizer(elem)
		}
		// Drop any references the dead element still holds so the
		// arena does not pin them until the slot is reused.
		var zero T
		*elem = zero
		c.release(c.index(ptr))
		return
	}
}

// Release returns every chunk's arena to the storage provider, in
// reverse chain order, and poisons the pool: any later operation
// panics. Release is not safe to call concurrently with other pool
// operations, and outstanding elements are invalidated. Calling it
// again is a no-op.
func (p *Pool[T]) Release() {
	if p.root == nil {
		return
	}
	var chunks []*chunk[T]
	for c := p.root; c != nil; c = c.next.Load() {
		chunks = append(chunks, c)
	}
	p.root = nil
	for i := len(chunks) - 1; i >= 0; i-- {
		p.provider.Deallocate(chunks[i].arena, chunks[i].capacity())
	}
}

// claim walks the chain from the root looking for a free slot, growing
// the chain on exhaustion.
func (p *Pool[T]) claim() (*chunk[T], uint32, error) {
	p.ensureLive()
	c := p.root
	for {
		if idx, ok := c.tryClaim(); ok {
			return c, idx, nil
		}
		next := c.next.Load()
		if next == nil {
			var err error
			if next, err = p.grow(c); err != nil {
				return nil, 0, err
			}
		}
		c = next
	}
}

// grow installs a new chunk after tail, unless a competing caller
// already has. This is the only blocking operation in the pool and
// happens at most once per chunk boundary for the pool's lifetime.
func (p *Pool[T]) grow(tail *chunk[T]) (*chunk[T], error) {
	p.growMu.Lock()
	defer p.growMu.Unlock()
	if next := tail.next.Load(); next != nil {
		return next, nil
	}
	next, err := newChunk[T](p.chunkSize, p.provider)
	if err != nil {
		return nil, err
	}
	tail.next.Store(next)
	return next, nil
}

func (p *Pool[T]) ensureLive() {
	if p.root == nil {
		panic("mempool: use after Release()")
	}
}
