package mempool_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/pavanmanishd/mempool"
)

type small struct {
	a, b int64
}

type large struct {
	buf [512]byte
	n   int
}

func mustPool[T any](b *testing.B, opts ...mempool.Option[T]) *mempool.Pool[T] {
	b.Helper()
	p, err := mempool.NewPool[T](opts...)
	if err != nil {
		b.Fatalf("NewPool error = %v", err)
	}
	return p
}

// BenchmarkAllocFree measures the uncontended alloc/free round trip for
// different element sizes.
func BenchmarkAllocFree(b *testing.B) {
	b.Run("small", func(b *testing.B) {
		p := mustPool[small](b)
		defer p.Release()

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			e, err := p.Alloc()
			if err != nil {
				b.Fatal(err)
			}
			e.a = int64(i)
			p.Free(e)
		}
	})

	b.Run("large", func(b *testing.B) {
		p := mustPool[large](b)
		defer p.Release()

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			e, err := p.Alloc()
			if err != nil {
				b.Fatal(err)
			}
			e.n = i
			p.Free(e)
		}
	})
}

// BenchmarkConcurrencyPatterns compares the pool under contention
// against sync.Pool and plain heap allocation.
func BenchmarkConcurrencyPatterns(b *testing.B) {
	b.Run("Pool_Sequential", func(b *testing.B) {
		p := mustPool[small](b)
		defer p.Release()

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			e, _ := p.Alloc()
			p.Free(e)
		}
	})

	b.Run("Pool_Parallel", func(b *testing.B) {
		p := mustPool[small](b)
		defer p.Release()

		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				e, err := p.Alloc()
				if err != nil {
					b.Error(err)
					return
				}
				p.Free(e)
			}
		})
	})

	b.Run("SyncPool_Parallel", func(b *testing.B) {
		sp := sync.Pool{New: func() any { return new(small) }}

		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				e := sp.Get().(*small)
				sp.Put(e)
			}
		})
	})

	b.Run("Builtin_Parallel", func(b *testing.B) {
		b.ResetTimer()
		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				e := new(small)
				e.a = 1
				_ = e
			}
		})
	})

	// Tighter chunks raise the odds of cursor collisions and growth.
	for _, chunkSize := range []int{64, 1024, 65536} {
		b.Run(fmt.Sprintf("Pool_Contention_chunk%d", chunkSize), func(b *testing.B) {
			p := mustPool[small](b, mempool.WithChunkSize[small](chunkSize))
			defer p.Release()

			b.ResetTimer()
			b.RunParallel(func(pb *testing.PB) {
				for pb.Next() {
					e, err := p.Alloc()
					if err != nil {
						b.Error(err)
						return
					}
					p.Free(e)
				}
			})
		})
	}
}

// BenchmarkBatchLifetime allocates a batch, touches it, then frees it,
// the dominant pattern for request-scoped object churn.
func BenchmarkBatchLifetime(b *testing.B) {
	const batch = 100

	b.Run("Pool", func(b *testing.B) {
		p := mustPool[small](b, mempool.WithCapacity[small](batch))
		defer p.Release()
		elems := make([]*small, 0, batch)

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			elems = elems[:0]
			for j := 0; j < batch; j++ {
				e, err := p.Alloc()
				if err != nil {
					b.Fatal(err)
				}
				e.a = int64(j)
				elems = append(elems, e)
			}
			for _, e := range elems {
				p.Free(e)
			}
		}
	})

	b.Run("Builtin", func(b *testing.B) {
		elems := make([]*small, 0, batch)

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			elems = elems[:0]
			for j := 0; j < batch; j++ {
				e := new(small)
				e.a = int64(j)
				elems = append(elems, e)
			}
		}
	})
}

// BenchmarkGrowth measures the cost of chain growth by allocating far
// past the initial chunk without freeing.
func BenchmarkGrowth(b *testing.B) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		p := mustPool[small](b, mempool.WithChunkSize[small](256))
		b.StartTimer()

		for j := 0; j < 256*16; j++ {
			if _, err := p.Alloc(); err != nil {
				b.Fatal(err)
			}
		}

		b.StopTimer()
		p.Release()
		b.StartTimer()
	}
}
