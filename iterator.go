package handlepool

import "iter"

// Iterator walks the live values of a pool in ascending slot order, skipping
// free slots. Obtain a fresh one from Pool.Iter for every walk.
//
// Erasing the element the iterator currently stands on is allowed; the walk
// simply continues with the next slot. Erasing elements ahead of the cursor,
// or inserting while a walk is in progress, gives unspecified (but memory
// safe) results.
type Iterator[T any] struct {
	pool *Pool[T]
	next uint32
	cur  Handle[T]
	slot *slot[T]
}

// Iter returns an iterator positioned before the first live value.
func (p *Pool[T]) Iter() *Iterator[T] {
	return &Iterator[T]{pool: p}
}

// Next advances to the next live value and reports whether there is one.
func (it *Iterator[T]) Next() bool {
	p := it.pool
	for it.next < p.highWater {
		idx := it.next
		it.next++

		s := p.slots.At(idx)
		if s.state != slotOccupied {
			continue
		}
		it.cur = Handle[T]{value: idx, version: s.generation}
		it.slot = s
		return true
	}
	it.slot = nil
	return false
}

// Handle returns the handle of the current value.
func (it *Iterator[T]) Handle() Handle[T] {
	return it.cur
}

// Value returns a pointer to the current value, or nil when the iterator is
// exhausted or not yet started.
func (it *Iterator[T]) Value() *T {
	if it.slot == nil {
		return nil
	}
	return &it.slot.value
}

// All returns a range-over-func sequence of (handle, value) pairs.
//
//	for h, v := range pool.All() {
//	    ...
//	}
func (p *Pool[T]) All() iter.Seq2[Handle[T], *T] {
	return func(yield func(Handle[T], *T) bool) {
		it := p.Iter()
		for it.Next() {
			if !yield(it.Handle(), it.Value()) {
				return
			}
		}
	}
}

// Values returns a range-over-func sequence of live values.
func (p *Pool[T]) Values() iter.Seq[*T] {
	return func(yield func(*T) bool) {
		it := p.Iter()
		for it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// Handles returns the handles of all live values in slot order.
func (p *Pool[T]) Handles() []Handle[T] {
	out := make([]Handle[T], 0, p.live)
	it := p.Iter()
	for it.Next() {
		out = append(out, it.Handle())
	}
	return out
}
