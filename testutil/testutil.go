package testutil

import (
	"math/rand"
	"sync"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)), //nolint:gosec // deterministic test data
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand = rand.New(rand.NewSource(r.seed)) //nolint:gosec // deterministic test data
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// OpKind is the kind of a scripted pool operation.
type OpKind uint8

const (
	// OpInsert inserts Op.Value.
	OpInsert OpKind = iota
	// OpErase erases the handle issued by insert number Op.Target. The
	// handle may already be stale.
	OpErase
	// OpGet looks up the handle issued by insert number Op.Target.
	OpGet
)

func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpErase:
		return "erase"
	case OpGet:
		return "get"
	default:
		return "unknown"
	}
}

// Op is one scripted operation.
type Op struct {
	Kind   OpKind
	Value  int
	Target int
}

// Script generates n operations. insertRatio is the probability of an
// insert; the remainder is split evenly between erases and lookups. Targets
// always refer to an earlier insert, so the first operation is an insert.
func (r *RNG) Script(n int, insertRatio float64) []Op {
	r.mu.Lock()
	defer r.mu.Unlock()

	ops := make([]Op, 0, n)
	inserts := 0
	for i := range n {
		if inserts == 0 || r.rand.Float64() < insertRatio {
			ops = append(ops, Op{Kind: OpInsert, Value: i})
			inserts++
			continue
		}

		kind := OpErase
		if r.rand.Intn(2) == 0 {
			kind = OpGet
		}
		ops = append(ops, Op{Kind: kind, Target: r.rand.Intn(inserts)})
	}
	return ops
}

// Tracked is a value with an identity, for release accounting.
type Tracked struct {
	ID int
}

// ReleaseCounter counts release calls per Tracked.ID.
// It is safe for concurrent use.
type ReleaseCounter struct {
	mu     sync.Mutex
	counts map[int]int
	total  int
}

// NewReleaseCounter creates an empty counter.
func NewReleaseCounter() *ReleaseCounter {
	return &ReleaseCounter{counts: make(map[int]int)}
}

// Release records one release of v. Its signature matches a pool release hook.
func (c *ReleaseCounter) Release(v *Tracked) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counts[v.ID]++
	c.total++
}

// Count returns how often the value with id was released.
func (c *ReleaseCounter) Count(id int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[id]
}

// Total returns the number of release calls.
func (c *ReleaseCounter) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

// MaxPerValue returns the highest release count of any single value.
func (c *ReleaseCounter) MaxPerValue() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	m := 0
	for _, n := range c.counts {
		m = max(m, n)
	}
	return m
}
