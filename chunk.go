package mempool

import (
	"math"
	"runtime"
	"sync/atomic"
	"unsafe"
)

// slotTaken is the reserved free-list cell value marking a slot that is
// currently allocated. Valid slot indices are always below it.
const slotTaken = math.MaxUint32

// spinBudget is how many failed CAS attempts a claim or release makes
// on a ring cell before yielding the processor.
const spinBudget = 64

// chunk couples one arena with one free-list ring and owns the link to
// the next chunk in the chain. The arena is a fixed number of element
// slots; slot state (free vs. allocated) is implicit in whether the
// slot's index currently resides in the ring.
type chunk[T any] struct {
	arena  []T
	base   uintptr // address of arena[0]
	limit  uintptr // one past the last slot
	stride uintptr // element size including padding

	// free holds each unallocated slot's index in exactly one cell;
	// cells belonging to allocated slots hold slotTaken.
	free []atomic.Uint32
	next atomic.Pointer[chunk[T]]

	// The cursors and the capacity gate live on separate cache lines
	// so claimers and releasers do not false-share.
	taken atomic.Uint64 // claim cursor
	_     [56]byte
	freed atomic.Uint64 // release cursor
	_     [56]byte
	avail atomic.Int64 // optimistic capacity gate, in [0, capacity] at rest
}

// newChunk obtains an arena for capacity elements from the provider and
// builds a full free list over it.
func newChunk[T any](capacity int, provider Provider[T]) (*chunk[T], error) {
	buf, err := provider.Allocate(capacity)
	if err != nil {
		return nil, err
	}
	if len(buf) < capacity {
		return nil, ErrOutOfMemory
	}
	buf = buf[:capacity]

	c := &chunk[T]{
		arena:  buf,
		base:   uintptr(unsafe.Pointer(&buf[0])),
		stride: unsafe.Sizeof(buf[0]),
		free:   make([]atomic.Uint32, capacity),
	}
	c.limit = c.base + uintptr(capacity)*c.stride
	for i := range c.free {
		c.free[i].Store(uint32(i))
	}
	c.avail.Store(int64(capacity))
	return c, nil
}

func (c *chunk[T]) capacity() int { return len(c.free) }

// allocated reports the number of slots currently claimed from this
// chunk. Approximate while claims and releases are in flight.
func (c *chunk[T]) allocated() int {
	return len(c.free) - int(c.avail.Load())
}

// tryClaim claims a free slot index, or reports that the chunk is
// exhausted. The capacity gate is optimistic: it reserves one unit of
// capacity before the ring is touched, so a caller that passes the gate
// is guaranteed to find a valid index at its staked cell eventually.
func (c *chunk[T]) tryClaim() (uint32, bool) {
	if c.avail.Load() <= 0 {
		return 0, false
	}
	if c.avail.Add(-1) < 0 {
		// Lost the race for the last slots; undo the reservation.
		c.avail.Add(1)
		return 0, false
	}

	// Stake the next ring cell to take from. The cursor only selects
	// the cell; which index lands there is up to the matching release.
	pos := (c.taken.Add(1) - 1) % uint64(len(c.free))
	cell := &c.free[pos]

	// The releaser that staked this cell may not have written its
	// index back yet, so spin until a valid index appears.
	for spins := 0; ; spins++ {
		if idx := cell.Load(); idx != slotTaken && cell.CompareAndSwap(idx, slotTaken) {
			return idx, true
		}
		if spins >= spinBudget {
			runtime.Gosched()
			spins = 0
		}
	}
}

// release returns a claimed slot index to the free list.
func (c *chunk[T]) release(idx uint32) {
	pos := (c.freed.Add(1) - 1) % uint64(len(c.free))
	cell := &c.free[pos]

	// The claimer that staked this cell may not have vacated it yet,
	// so spin until the sentinel shows up.
	for spins := 0; ; spins++ {
		if cell.CompareAndSwap(slotTaken, idx) {
			break
		}
		if spins >= spinBudget {
			runtime.Gosched()
			spins = 0
		}
	}
	c.avail.Add(1)
}

// slot returns the element storage for the given index.
func (c *chunk[T]) slot(idx uint32) *T {
	return &c.arena[idx]
}

// contains reports whether p falls within this chunk's arena. This is a
// coarse address-range check; it does not verify slot alignment or
// allocation state.
func (c *chunk[T]) contains(p unsafe.Pointer) bool {
	addr := uintptr(p)
	return addr >= c.base && addr < c.limit
}

// index maps an arena-contained pointer back to its slot index.
func (c *chunk[T]) index(p unsafe.Pointer) uint32 {
	return uint32((uintptr(p) - c.base) / c.stride)
}
