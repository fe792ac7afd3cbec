package handlepool

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Occupancy returns a bitmap of the occupied slot indices.
func (p *Pool[T]) Occupancy() *roaring.Bitmap {
	bm := roaring.New()
	for i := range p.highWater {
		if p.slots.At(i).state == slotOccupied {
			bm.Add(i)
		}
	}
	return bm
}

// FreeList returns the free slot indices in the order they will be reused.
func (p *Pool[T]) FreeList() []uint32 {
	out := make([]uint32, 0, p.highWater-p.live)
	for idx := p.freeHead; idx != noSlot; {
		// A corrupt list is cut short here; Verify reports it.
		if idx >= p.highWater || len(out) > int(p.highWater) {
			break
		}
		out = append(out, idx)
		idx = p.slots.At(idx).next
	}
	return out
}

// Verify checks the pool's structural invariants and returns an error
// wrapping ErrCorrupt describing the first violation found:
//
//   - every slot below the high-water mark is occupied or free, every slot
//     above it is unused
//   - the free list holds exactly the free slots, each once
//   - live count + free-list length == high-water mark
//
// Verify walks the whole pool; it is meant for tests and debugging.
func (p *Pool[T]) Verify() error {
	if p.closed {
		return ErrClosed
	}

	occupied := roaring.New()
	free := roaring.New()
	for i := range p.highWater {
		switch p.slots.At(i).state {
		case slotOccupied:
			occupied.Add(i)
		case slotFree:
			free.Add(i)
		default:
			return fmt.Errorf("%w: slot %d below high water %d is unused", ErrCorrupt, i, p.highWater)
		}
	}
	end := min(p.slots.Cap(), uint64(MaxSlots))
	for i := uint64(p.highWater); i < end; i++ {
		if p.slots.At(uint32(i)).state != slotUnused { //nolint:gosec // i < MaxSlots
			return fmt.Errorf("%w: slot %d above high water %d is in use", ErrCorrupt, i, p.highWater)
		}
	}

	if got := occupied.GetCardinality(); got != uint64(p.live) {
		return fmt.Errorf("%w: %d occupied slots, live count %d", ErrCorrupt, got, p.live)
	}

	linked := roaring.New()
	for idx := p.freeHead; idx != noSlot; idx = p.slots.At(idx).next {
		if idx >= p.highWater {
			return fmt.Errorf("%w: free list links slot %d beyond high water %d", ErrCorrupt, idx, p.highWater)
		}
		if !free.Contains(idx) {
			return fmt.Errorf("%w: free list links non-free slot %d", ErrCorrupt, idx)
		}
		if !linked.CheckedAdd(idx) {
			return fmt.Errorf("%w: free list visits slot %d twice", ErrCorrupt, idx)
		}
	}

	if linked.GetCardinality() != free.GetCardinality() {
		missing := roaring.AndNot(free, linked)
		return fmt.Errorf("%w: free slots %v missing from free list", ErrCorrupt, missing.ToArray())
	}
	if uint64(p.live)+linked.GetCardinality() != uint64(p.highWater) {
		return fmt.Errorf("%w: live %d + free %d != high water %d", ErrCorrupt, p.live, linked.GetCardinality(), p.highWater)
	}
	return nil
}
