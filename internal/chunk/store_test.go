package chunk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("rejects zero", func(t *testing.T) {
		_, err := New[int](0)
		assert.ErrorIs(t, err, ErrInvalidSize)
	})

	t.Run("rejects negative", func(t *testing.T) {
		_, err := New[int](-4)
		assert.ErrorIs(t, err, ErrInvalidSize)
	})

	t.Run("rejects too large", func(t *testing.T) {
		if math.MaxInt == math.MaxInt32 {
			t.Skip("32-bit platform")
		}
		_, err := New[int](math.MaxInt)
		assert.ErrorIs(t, err, ErrInvalidSize)
	})

	t.Run("starts empty", func(t *testing.T) {
		s, err := New[int](8)
		require.NoError(t, err)
		assert.Equal(t, 8, s.Size())
		assert.Equal(t, 0, s.Len())
		assert.Equal(t, uint64(0), s.Cap())
	})
}

func TestStore_Locate(t *testing.T) {
	tests := []struct {
		name       string
		size       int
		index      uint32
		wantChunk  int
		wantOffset int
	}{
		{name: "pow2 first", size: 4, index: 0, wantChunk: 0, wantOffset: 0},
		{name: "pow2 boundary", size: 4, index: 4, wantChunk: 1, wantOffset: 0},
		{name: "pow2 inner", size: 4, index: 11, wantChunk: 2, wantOffset: 3},
		{name: "size one", size: 1, index: 7, wantChunk: 7, wantOffset: 0},
		{name: "odd size", size: 3, index: 7, wantChunk: 2, wantOffset: 1},
		{name: "odd size boundary", size: 3, index: 9, wantChunk: 3, wantOffset: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New[int](tt.size)
			require.NoError(t, err)

			c, off := s.Locate(tt.index)
			assert.Equal(t, tt.wantChunk, c)
			assert.Equal(t, tt.wantOffset, off)
		})
	}
}

func TestStore_GrowKeepsAddresses(t *testing.T) {
	s, err := New[uint64](2)
	require.NoError(t, err)

	s.Grow()
	first := s.At(1)
	*first = 42

	for range 64 {
		s.Grow()
	}

	assert.Equal(t, 65, s.Len())
	assert.Equal(t, uint64(130), s.Cap())
	assert.Same(t, first, s.At(1))
	assert.Equal(t, uint64(42), *s.At(1))
}

func TestStore_ChunkAliasesAt(t *testing.T) {
	s, err := New[int](3)
	require.NoError(t, err)

	s.Grow()
	s.Grow()

	*s.At(4) = 9
	assert.Equal(t, 9, s.Chunk(1)[1])
	assert.Len(t, s.Chunk(0), 3)
}

func TestStore_ChunkBytes(t *testing.T) {
	s, err := New[uint64](16)
	require.NoError(t, err)
	assert.Equal(t, int64(128), s.ChunkBytes())
}

func TestStore_Reset(t *testing.T) {
	s, err := New[int](4)
	require.NoError(t, err)

	s.Grow()
	s.Reset()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, uint64(0), s.Cap())
	assert.Panics(t, func() { s.At(0) })
}
