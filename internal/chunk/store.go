package chunk

import (
	"errors"
	"math"
	"math/bits"
	"unsafe"

	"github.com/hupe1980/handlepool/internal/conv"
)

// ErrInvalidSize is returned when the chunk size is not in [1, MaxUint32].
var ErrInvalidSize = errors.New("chunk: size must be in [1, MaxUint32]")

// Store is an append-only sequence of fixed-length chunks of S.
type Store[S any] struct {
	chunks [][]S
	size   uint32
	pow2   bool
	shift  uint
	mask   uint32
}

// New creates an empty Store whose chunks hold size elements each.
// No chunk is allocated until the first Grow.
func New[S any](size int) (*Store[S], error) {
	if size < 1 {
		return nil, ErrInvalidSize
	}
	size32, err := conv.IntToUint32(size)
	if err != nil {
		return nil, errors.Join(ErrInvalidSize, err)
	}

	s := &Store[S]{size: size32}
	if size32&(size32-1) == 0 {
		s.pow2 = true
		s.shift = uint(bits.TrailingZeros32(size32))
		s.mask = size32 - 1
	}
	return s, nil
}

// Size returns the number of elements per chunk.
func (s *Store[S]) Size() int {
	return int(s.size)
}

// Len returns the number of allocated chunks.
func (s *Store[S]) Len() int {
	return len(s.chunks)
}

// Cap returns the total number of elements across all allocated chunks.
func (s *Store[S]) Cap() uint64 {
	return uint64(len(s.chunks)) * uint64(s.size)
}

// ChunkBytes returns the approximate number of bytes one chunk occupies.
func (s *Store[S]) ChunkBytes() int64 {
	var zero S
	elem := int64(unsafe.Sizeof(zero)) //nolint:gosec // Sizeof is far below MaxInt64
	n, err := conv.MulInt64(elem, int64(s.size))
	if err != nil {
		return math.MaxInt64
	}
	return n
}

// Grow appends one zeroed chunk and returns it.
func (s *Store[S]) Grow() []S {
	c := make([]S, s.size)
	s.chunks = append(s.chunks, c)
	return c
}

// Locate maps a global index to its chunk number and offset within the chunk.
func (s *Store[S]) Locate(index uint32) (int, int) {
	if s.pow2 {
		return int(index >> s.shift), int(index & s.mask)
	}
	return int(index / s.size), int(index % s.size)
}

// At returns a pointer to the element at index. It panics if index >= Cap.
func (s *Store[S]) At(index uint32) *S {
	c, off := s.Locate(index)
	return &s.chunks[c][off]
}

// Chunk returns the n-th chunk. The slice aliases the Store's memory.
func (s *Store[S]) Chunk(n int) []S {
	return s.chunks[n]
}

// Reset drops every chunk. Pointers obtained earlier keep the old memory
// alive for the garbage collector but no longer belong to the Store.
func (s *Store[S]) Reset() {
	clear(s.chunks)
	s.chunks = nil
}
