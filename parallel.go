package handlepool

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ForEachParallel calls fn for every live value, fanning out one task per
// chunk with at most workers tasks running at once (workers <= 0 means no
// limit). The first error cancels the context passed to the remaining calls
// and is returned.
//
// fn must not mutate the pool, and nobody else may mutate it until
// ForEachParallel returns. Values may be read or updated in place as long as
// fn calls for different handles do not share state.
func (p *Pool[T]) ForEachParallel(ctx context.Context, workers int, fn func(context.Context, Handle[T], *T) error) error {
	if p.closed {
		return ErrClosed
	}

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	hw := uint64(p.highWater)
	size := uint64(p.slots.Size())
	for c := range p.slots.Len() {
		start := uint64(c) * size
		if start >= hw {
			break
		}
		n := min(size, hw-start)
		slots := p.slots.Chunk(c)[:n]

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for off := range slots {
				s := &slots[off]
				if s.state != slotOccupied {
					continue
				}
				h := Handle[T]{value: uint32(start) + uint32(off), version: s.generation} //nolint:gosec // start+off < highWater <= MaxUint32
				if err := fn(ctx, h, &s.value); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
