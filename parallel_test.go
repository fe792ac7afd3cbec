package handlepool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_ForEachParallel(t *testing.T) {
	for _, workers := range []int{0, 1, 4} {
		p := newTestPool[int](t, 4)

		var handles []Handle[int]
		for i := range 100 {
			handles = append(handles, mustInsert(t, p, i))
		}
		for i := 0; i < 100; i += 2 {
			require.NoError(t, p.Erase(handles[i]))
		}

		var sum, count atomic.Int64
		err := p.ForEachParallel(t.Context(), workers, func(_ context.Context, h Handle[int], v *int) error {
			if !p.IsValid(h) {
				return errors.New("invalid handle")
			}
			sum.Add(int64(*v))
			count.Add(1)
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, int64(50), count.Load())
		assert.Equal(t, int64(2500), sum.Load()) // 1+3+...+99
	}
}

func TestPool_ForEachParallel_UpdatesInPlace(t *testing.T) {
	p := newTestPool[int](t, 3)
	for i := range 10 {
		mustInsert(t, p, i)
	}

	err := p.ForEachParallel(t.Context(), 2, func(_ context.Context, _ Handle[int], v *int) error {
		*v *= 10
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 10, 20, 30, 40, 50, 60, 70, 80, 90}, collect(p))
}

func TestPool_ForEachParallel_Error(t *testing.T) {
	p := newTestPool[int](t, 2)
	for i := range 20 {
		mustInsert(t, p, i)
	}

	errBoom := errors.New("boom")
	err := p.ForEachParallel(t.Context(), 2, func(_ context.Context, _ Handle[int], v *int) error {
		if *v == 7 {
			return errBoom
		}
		return nil
	})
	assert.ErrorIs(t, err, errBoom)
}

func TestPool_ForEachParallel_Canceled(t *testing.T) {
	p := newTestPool[int](t, 2)
	for i := range 20 {
		mustInsert(t, p, i)
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	var calls atomic.Int64
	err := p.ForEachParallel(ctx, 1, func(context.Context, Handle[int], *int) error {
		calls.Add(1)
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(0), calls.Load())
}

func TestPool_ForEachParallel_Closed(t *testing.T) {
	p, err := New[int](2)
	require.NoError(t, err)
	require.NoError(t, p.Close())

	err = p.ForEachParallel(t.Context(), 1, func(context.Context, Handle[int], *int) error { return nil })
	assert.ErrorIs(t, err, ErrClosed)
}

func TestPool_ForEachParallel_PartialLastChunk(t *testing.T) {
	p := newTestPool[int](t, 8)
	for i := range 3 {
		mustInsert(t, p, i)
	}

	var count atomic.Int64
	err := p.ForEachParallel(t.Context(), 0, func(context.Context, Handle[int], *int) error {
		count.Add(1)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count.Load())
}
