package handlepool

import "fmt"

// Handle identifies a slot in a Pool[T] together with the generation the slot
// had when the handle was issued.
//
// Handles are plain values: copy, store and compare them freely. A handle
// carries no ownership and means nothing outside the pool that produced it.
// Once its slot is erased the handle is permanently stale.
type Handle[T any] struct {
	_       [0]*T
	value   uint32
	version uint32
}

// HandleFromParts rebuilds a handle from its slot index and generation.
func HandleFromParts[T any](value, version uint32) Handle[T] {
	return Handle[T]{value: value, version: version}
}

// UnpackHandle is the inverse of Handle.Pack.
func UnpackHandle[T any](packed uint64) Handle[T] {
	return Handle[T]{value: uint32(packed), version: uint32(packed >> 32)}
}

// Value returns the slot index.
func (h Handle[T]) Value() uint32 { return h.value }

// Version returns the slot generation the handle was issued for.
func (h Handle[T]) Version() uint32 { return h.version }

// Pack encodes the handle as version<<32 | value.
func (h Handle[T]) Pack() uint64 {
	return uint64(h.version)<<32 | uint64(h.value)
}

func (h Handle[T]) String() string {
	return fmt.Sprintf("Handle(%d:%d)", h.value, h.version)
}
