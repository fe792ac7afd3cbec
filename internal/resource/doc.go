// Package resource implements the memory budget shared by handle pools.
//
// A Controller admits or rejects chunk allocations against a hard byte limit.
// Acquisition is non-blocking and fails fast:
//
//	rc := resource.NewController(resource.Config{
//	    MemoryLimitBytes: 64 << 20,
//	})
//
//	if err := rc.AcquireMemory(chunkBytes); err != nil {
//	    // ErrMemoryLimitExceeded - the pool refuses to grow
//	}
//	defer rc.ReleaseMemory(chunkBytes)
//
// Memory tracking uses a weighted semaphore for the hard limit and atomic
// counters for usage, so one Controller can be shared by pools owned by
// different goroutines.
//
// All methods handle a nil Controller gracefully - they become no-ops.
package resource
