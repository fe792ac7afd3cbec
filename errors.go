package handlepool

import (
	"errors"
	"fmt"

	"github.com/hupe1980/handlepool/internal/resource"
)

var (
	// ErrStaleHandle is the single error kind for handles that no longer (or
	// never did) identify a live value. Match it with errors.Is.
	ErrStaleHandle = errors.New("handlepool: stale handle")
	// ErrInvalidChunkSize is returned by New for chunk sizes below 1.
	ErrInvalidChunkSize = errors.New("handlepool: chunk size must be positive")
	// ErrCapacityExceeded is returned when the pool cannot hand out another slot.
	ErrCapacityExceeded = errors.New("handlepool: capacity exceeded")
	// ErrClosed is returned by operations on a closed pool.
	ErrClosed = errors.New("handlepool: pool is closed")
	// ErrReleaseType is returned by New when WithRelease was given a function
	// for a different element type.
	ErrReleaseType = errors.New("handlepool: release func does not match element type")
	// ErrCorrupt is returned by Verify when an internal invariant is broken.
	ErrCorrupt = errors.New("handlepool: invariant violated")
	// ErrMemoryLimitExceeded is returned when a MemoryBudget refuses a new chunk.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

// Reason tells why a handle was rejected. All reasons are the same error kind
// (ErrStaleHandle); the distinction is for diagnostics only.
type Reason uint8

const (
	reasonNone Reason = iota
	// ReasonOutOfRange: the index lies beyond every allocated chunk.
	ReasonOutOfRange
	// ReasonUnused: the index lies in an allocated chunk but was never handed out.
	ReasonUnused
	// ReasonFree: the slot is on the free list.
	ReasonFree
	// ReasonGeneration: the slot is occupied by a newer generation.
	ReasonGeneration
)

func (r Reason) String() string {
	switch r {
	case reasonNone:
		return "none"
	case ReasonOutOfRange:
		return "out of range"
	case ReasonUnused:
		return "unused"
	case ReasonFree:
		return "free"
	case ReasonGeneration:
		return "generation mismatch"
	default:
		return fmt.Sprintf("Reason(%d)", uint8(r))
	}
}

// StaleHandleError describes a rejected handle.
//
// errors.Is(err, ErrStaleHandle) reports true for every StaleHandleError.
type StaleHandleError struct {
	Value   uint32
	Version uint32
	Reason  Reason
	// Current is the slot's generation at the time of the check. It is zero
	// for ReasonOutOfRange and ReasonUnused.
	Current uint32
}

func (e *StaleHandleError) Error() string {
	if e.Reason == ReasonGeneration {
		return fmt.Sprintf("handlepool: stale handle %d:%d: %s (slot at %d)", e.Value, e.Version, e.Reason, e.Current)
	}
	return fmt.Sprintf("handlepool: stale handle %d:%d: %s", e.Value, e.Version, e.Reason)
}

func (e *StaleHandleError) Unwrap() error { return ErrStaleHandle }
