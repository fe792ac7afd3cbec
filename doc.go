// Package handlepool provides a generational handle pool (slot map) for Go.
//
// A Pool[T] stores values in fixed-size chunks and hands out Handle[T] values
// instead of pointers. A handle is a (slot index, generation) pair: erasing a
// value bumps its slot's generation, so every handle issued for it turns
// stale and is rejected by Get, Erase and IsValid instead of silently aliasing
// whatever is stored in the slot next.
//
// # Quick Start
//
//	p, _ := handlepool.New[Texture](64)
//	defer p.Close()
//
//	h, _ := p.Insert(Texture{Name: "grass"})
//	tex, err := p.Get(h)     // *Texture, stable across later inserts
//	_ = p.Erase(h)           // h is now stale
//	p.IsValid(h)             // false
//	_, err = p.Get(h)        // errors.Is(err, handlepool.ErrStaleHandle)
//
// # Guarantees
//
//   - Insert, Erase, Get and IsValid are O(1); Insert is amortized O(1) when
//     it allocates a chunk.
//   - Chunks are never moved, so a pointer from Get survives any number of
//     later inserts. It is invalidated only by erasing its slot or closing
//     the pool.
//   - Freed slots are reused last-in first-out.
//   - Iteration visits live values in ascending slot order and skips freed
//     slots.
//   - A failed operation leaves the pool unchanged.
//
// # Limits
//
// Slot indices and generations are uint32. Generations wrap: a slot erased
// and reused more than 2^32 times can accept a handle from an earlier cycle.
// Storage is never returned while the pool is open.
//
// # Concurrency
//
// A Pool is single-writer and has no internal locking. Share it across
// goroutines only under external synchronization. ForEachParallel fans out
// read-only work over chunks while the caller guarantees no mutation.
//
// # Observability
//
// Options attach a slog-based Logger, a MetricsCollector and a shared
// MemoryBudget. Verify checks the pool's internal invariants and is intended
// for tests.
package handlepool
