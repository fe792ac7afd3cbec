package handlepool

import "github.com/hupe1980/handlepool/internal/resource"

// MemoryBudget limits the chunk memory of the pools it is attached to.
// It is safe for concurrent use, so pools owned by different goroutines can
// share one budget.
type MemoryBudget struct {
	rc *resource.Controller
}

// NewMemoryBudget creates a budget of limitBytes. A limit of 0 only tracks
// usage.
func NewMemoryBudget(limitBytes int64) *MemoryBudget {
	return &MemoryBudget{
		rc: resource.NewController(resource.Config{MemoryLimitBytes: limitBytes}),
	}
}

// Used returns the bytes currently charged to the budget.
func (b *MemoryBudget) Used() int64 {
	if b == nil {
		return 0
	}
	return b.rc.MemoryUsage()
}

// Peak returns the highest usage observed.
func (b *MemoryBudget) Peak() int64 {
	if b == nil {
		return 0
	}
	return b.rc.PeakMemoryUsage()
}

// Limit returns the configured limit (0 if unlimited).
func (b *MemoryBudget) Limit() int64 {
	if b == nil {
		return 0
	}
	return b.rc.MemoryLimit()
}

func (b *MemoryBudget) acquire(bytes int64) error {
	if b == nil {
		return nil
	}
	return b.rc.AcquireMemory(bytes)
}

func (b *MemoryBudget) release(bytes int64) {
	if b == nil {
		return
	}
	b.rc.ReleaseMemory(bytes)
}
