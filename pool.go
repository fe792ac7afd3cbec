package handlepool

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"

	"golang.org/x/time/rate"

	"github.com/hupe1980/handlepool/internal/chunk"
)

const (
	// DefaultChunkSize is the number of slots per chunk used by NewDefault.
	DefaultChunkSize = 256
	// MaxSlots is the number of distinct slot indices a pool can hand out.
	// Index MaxUint32 is reserved as the free-list terminator.
	MaxSlots = math.MaxUint32

	noSlot = math.MaxUint32
)

type slotState uint8

const (
	slotUnused slotState = iota
	slotFree
	slotOccupied
)

// slot is a tagged variant: value is meaningful only when occupied, next only
// when free. state is the sole source of truth for occupancy.
type slot[T any] struct {
	value      T
	next       uint32
	generation uint32
	state      slotState
}

// Stats reports pool counters.
type Stats struct {
	Live            int
	HighWater       int
	Capacity        uint64
	Chunks          int
	Inserts         uint64
	Reuses          uint64
	Erases          uint64
	StaleFailures   uint64
	ChunksAllocated uint64
	BytesReserved   int64
}

// counters are atomic because stale lookups count failures on the read path.
type counters struct {
	inserts       atomic.Uint64
	reuses        atomic.Uint64
	erases        atomic.Uint64
	staleFailures atomic.Uint64
	chunks        atomic.Uint64
	bytes         atomic.Int64
}

// Pool is a generational handle pool (slot map).
//
// Insert, Erase, Get and IsValid are O(1). Storage grows by whole chunks that
// are never moved, so a pointer returned by Get stays valid across any number
// of later inserts until its slot is erased or the pool is closed.
//
// A Pool is not safe for concurrent use. Callers sharing one across
// goroutines must serialize mutations themselves; reads may run concurrently
// with each other while no Insert, Erase, Clear or Close is in flight.
type Pool[T any] struct {
	slots     *chunk.Store[slot[T]]
	freeHead  uint32
	highWater uint32
	live      uint32
	closed    bool

	release   func(*T)
	maxChunks int
	budget    *MemoryBudget
	logger    *Logger
	metrics   MetricsCollector
	staleLog  *rate.Limiter
	stats     counters
}

// New creates an empty pool whose chunks hold chunkSize slots.
// No memory is allocated until the first insert.
func New[T any](chunkSize int, opts ...Option) (*Pool[T], error) {
	if chunkSize < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidChunkSize, chunkSize)
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var release func(*T)
	if o.release != nil {
		fn, ok := o.release.(func(*T))
		if !ok {
			return nil, fmt.Errorf("%w: got %T", ErrReleaseType, o.release)
		}
		release = fn
	}

	slots, err := chunk.New[slot[T]](chunkSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidChunkSize, err)
	}

	return &Pool[T]{
		slots:     slots,
		freeHead:  noSlot,
		release:   release,
		maxChunks: o.maxChunks,
		budget:    o.budget,
		logger:    o.logger.WithPool(o.name),
		metrics:   o.metrics,
		staleLog:  rate.NewLimiter(o.staleLogRate, o.staleLogBurst),
	}, nil
}

// NewDefault creates an empty pool with DefaultChunkSize.
// It panics if an option is invalid (a mismatched WithRelease).
func NewDefault[T any](opts ...Option) *Pool[T] {
	p, err := New[T](DefaultChunkSize, opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Insert stores a copy of v and returns its handle.
//
// The most recently freed slot is reused first. When the free list is empty
// the pool takes the next never-used slot, allocating a new chunk if needed.
func (p *Pool[T]) Insert(v T) (Handle[T], error) {
	idx, s, reused, err := p.claim()
	if err != nil {
		p.recordInsert(false, err)
		return Handle[T]{}, err
	}
	s.value = v
	return p.publish(idx, s, reused), nil
}

// Emplace constructs a value in place. init receives a pointer to the zeroed
// slot storage; a nil init leaves the zero value.
//
// The slot is claimed before init runs, so init may itself insert into the
// pool (a parent building its children). If init panics the claim is undone:
// a fresh slot goes back below the high-water mark when nothing was inserted
// after it, otherwise it joins the free list with its generation unchanged.
// A chunk allocated for the claim is kept.
func (p *Pool[T]) Emplace(init func(*T)) (Handle[T], error) {
	idx, s, reused, err := p.claim()
	if err != nil {
		p.recordInsert(false, err)
		return Handle[T]{}, err
	}
	if init != nil {
		done := false
		defer func() {
			if !done {
				p.unclaim(idx, s, reused)
			}
		}()
		init(&s.value)
		done = true
		if p.closed {
			p.recordInsert(false, ErrClosed)
			return Handle[T]{}, ErrClosed
		}
	}
	return p.publish(idx, s, reused), nil
}

// claim takes the slot for the next insert and marks it occupied. The value
// is zero. No handle exists for it until publish.
func (p *Pool[T]) claim() (uint32, *slot[T], bool, error) {
	if p.closed {
		return 0, nil, false, ErrClosed
	}
	if p.freeHead != noSlot {
		idx := p.freeHead
		s := p.slots.At(idx)
		p.freeHead = s.next
		s.next = noSlot
		s.state = slotOccupied
		p.live++
		return idx, s, true, nil
	}
	if p.highWater == MaxSlots {
		return 0, nil, false, fmt.Errorf("%w: all %d slot indices in use", ErrCapacityExceeded, uint64(MaxSlots))
	}
	if uint64(p.highWater) == p.slots.Cap() {
		if err := p.grow(); err != nil {
			return 0, nil, false, err
		}
	}
	idx := p.highWater
	s := p.slots.At(idx)
	p.highWater++
	s.state = slotOccupied
	p.live++
	return idx, s, false, nil
}

func (p *Pool[T]) publish(idx uint32, s *slot[T], reused bool) Handle[T] {
	if reused {
		p.stats.reuses.Add(1)
	}
	p.stats.inserts.Add(1)
	p.recordInsert(reused, nil)
	return Handle[T]{value: idx, version: s.generation}
}

// unclaim reverts claim. The generation is not bumped because no handle was
// issued for it.
func (p *Pool[T]) unclaim(idx uint32, s *slot[T], reused bool) {
	if p.closed {
		return
	}
	var zero T
	s.value = zero
	p.live--
	if !reused && idx == p.highWater-1 {
		s.state = slotUnused
		p.highWater--
		return
	}
	s.state = slotFree
	s.next = p.freeHead
	p.freeHead = idx
}

func (p *Pool[T]) grow() error {
	ctx := context.Background()
	bytes := p.slots.ChunkBytes()

	var err error
	switch {
	case p.maxChunks > 0 && p.slots.Len() >= p.maxChunks:
		err = fmt.Errorf("%w: chunk limit %d reached", ErrCapacityExceeded, p.maxChunks)
	default:
		err = p.budget.acquire(bytes)
	}
	if err != nil {
		p.logger.LogGrow(ctx, p.slots.Len(), p.slots.Cap(), bytes, err)
		if p.metrics != nil {
			p.metrics.RecordGrow(p.slots.Len(), bytes, err)
		}
		return err
	}

	p.slots.Grow()
	p.stats.chunks.Add(1)
	p.stats.bytes.Add(bytes)

	p.logger.LogGrow(ctx, p.slots.Len(), p.slots.Cap(), bytes, nil)
	if p.metrics != nil {
		p.metrics.RecordGrow(p.slots.Len(), bytes, nil)
	}
	return nil
}

// check validates h without allocating.
func (p *Pool[T]) check(h Handle[T]) (*slot[T], Reason) {
	if h.value >= p.highWater {
		if uint64(h.value) < p.slots.Cap() {
			return nil, ReasonUnused
		}
		return nil, ReasonOutOfRange
	}
	s := p.slots.At(h.value)
	if s.state != slotOccupied {
		return s, ReasonFree
	}
	if s.generation != h.version {
		return s, ReasonGeneration
	}
	return s, reasonNone
}

func (p *Pool[T]) lookup(op string, h Handle[T]) (*slot[T], error) {
	if p.closed {
		return nil, ErrClosed
	}
	s, reason := p.check(h)
	if reason == reasonNone {
		return s, nil
	}

	err := &StaleHandleError{Value: h.value, Version: h.version, Reason: reason}
	if s != nil && reason == ReasonGeneration {
		err.Current = s.generation
	}
	p.stats.staleFailures.Add(1)
	if p.staleLog.Allow() {
		p.logger.LogStale(context.Background(), op, err)
	}
	return nil, err
}

// IsValid reports whether h identifies a live value. It never fails.
func (p *Pool[T]) IsValid(h Handle[T]) bool {
	if p.closed {
		return false
	}
	_, reason := p.check(h)
	return reason == reasonNone
}

// Get returns a pointer to the value identified by h, or a *StaleHandleError.
//
// The pointer remains valid until the slot is erased or the pool is closed;
// growth never moves it.
func (p *Pool[T]) Get(h Handle[T]) (*T, error) {
	s, err := p.lookup("get", h)
	if p.metrics != nil {
		p.metrics.RecordLookup(err)
	}
	if err != nil {
		return nil, err
	}
	return &s.value, nil
}

// MustGet is like Get but panics on a stale handle. Use it only where the
// handle is known to be valid.
func (p *Pool[T]) MustGet(h Handle[T]) *T {
	v, err := p.Get(h)
	if err != nil {
		panic(err)
	}
	return v
}

// Erase destroys the value identified by h and frees its slot.
//
// The slot generation is bumped, so h and every copy of it become stale. The
// slot becomes the head of the free list and is the first to be reused.
// Erasing a stale handle returns a *StaleHandleError and changes nothing.
//
// The slot is freed before the release hook runs; the hook receives the
// removed value and may call back into the pool.
func (p *Pool[T]) Erase(h Handle[T]) error {
	s, err := p.lookup("erase", h)
	if err != nil {
		p.recordErase(err)
		return err
	}
	v := s.value
	p.free(h.value, s)
	p.recordErase(nil)
	p.releaseValue(&v)
	return nil
}

func (p *Pool[T]) releaseValue(v *T) {
	if p.release != nil {
		p.release(v)
	}
}

// Remove frees the slot identified by h and returns its value. Ownership moves
// to the caller, so the release hook is not called.
func (p *Pool[T]) Remove(h Handle[T]) (T, error) {
	s, err := p.lookup("remove", h)
	if err != nil {
		p.recordErase(err)
		var zero T
		return zero, err
	}
	v := s.value
	p.free(h.value, s)
	p.recordErase(nil)
	return v, nil
}

// free destroys the value and links the slot in as the new free-list head.
// The generation wraps at MaxUint32; a slot reused more than 2^32 times may
// accept a handle from an earlier cycle.
func (p *Pool[T]) free(idx uint32, s *slot[T]) {
	var zero T
	s.value = zero
	s.generation++
	s.state = slotFree
	s.next = p.freeHead
	p.freeHead = idx
	p.live--
	p.stats.erases.Add(1)
}

// Clear erases every live value, calling the release hook once for each.
// Chunks are kept; every previously issued handle becomes stale.
func (p *Pool[T]) Clear() {
	if p.closed {
		return
	}
	for i := range p.highWater {
		s := p.slots.At(i)
		if s.state != slotOccupied {
			continue
		}
		v := s.value
		p.free(i, s)
		p.releaseValue(&v)
	}
}

// Close destroys every live value, calling the release hook exactly once for
// each, and drops all chunks. Values freed earlier are not released again.
// Close is idempotent; afterwards Insert and Get fail with ErrClosed.
// The pool counts as closed while the hooks run, so a hook calling back into
// it gets ErrClosed.
func (p *Pool[T]) Close() error {
	if p == nil || p.closed {
		return nil
	}
	p.closed = true

	released := 0
	for i := range p.highWater {
		s := p.slots.At(i)
		if s.state != slotOccupied {
			continue
		}
		p.releaseValue(&s.value)
		released++
	}

	chunks := p.slots.Len()
	bytes := p.stats.bytes.Swap(0)
	p.slots.Reset()
	p.budget.release(bytes)
	p.logger.LogClose(context.Background(), released, chunks, bytes)

	p.freeHead = noSlot
	p.highWater = 0
	p.live = 0
	return nil
}

// Len returns the number of live values.
func (p *Pool[T]) Len() int {
	return int(p.live)
}

// Cap returns the number of slots across all allocated chunks.
func (p *Pool[T]) Cap() uint64 {
	return p.slots.Cap()
}

// HighWater returns the number of slots ever handed out.
func (p *Pool[T]) HighWater() int {
	return int(p.highWater)
}

// ChunkSize returns the number of slots per chunk.
func (p *Pool[T]) ChunkSize() int {
	return p.slots.Size()
}

// NumChunks returns the number of allocated chunks.
func (p *Pool[T]) NumChunks() int {
	return p.slots.Len()
}

// Closed reports whether Close has been called.
func (p *Pool[T]) Closed() bool {
	return p.closed
}

// Stats returns a snapshot of the pool counters.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Live:            int(p.live),
		HighWater:       int(p.highWater),
		Capacity:        p.slots.Cap(),
		Chunks:          p.slots.Len(),
		Inserts:         p.stats.inserts.Load(),
		Reuses:          p.stats.reuses.Load(),
		Erases:          p.stats.erases.Load(),
		StaleFailures:   p.stats.staleFailures.Load(),
		ChunksAllocated: p.stats.chunks.Load(),
		BytesReserved:   p.stats.bytes.Load(),
	}
}

func (p *Pool[T]) String() string {
	return fmt.Sprintf(
		"Pool{live: %d, high_water: %d, capacity: %d, chunks: %d, chunk_size: %d}",
		p.live, p.highWater, p.slots.Cap(), p.slots.Len(), p.slots.Size(),
	)
}

func (p *Pool[T]) recordInsert(reused bool, err error) {
	if p.metrics != nil {
		p.metrics.RecordInsert(reused, err)
	}
}

func (p *Pool[T]) recordErase(err error) {
	if p.metrics != nil {
		p.metrics.RecordErase(err)
	}
}
