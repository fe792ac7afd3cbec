package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScript(t *testing.T) {
	rng := NewRNG(4711)

	ops := rng.Script(1000, 0.5)

	assert.Len(t, ops, 1000)
	assert.Equal(t, OpInsert, ops[0].Kind)

	inserts := 0
	for _, op := range ops {
		switch op.Kind {
		case OpInsert:
			inserts++
		default:
			assert.Less(t, op.Target, inserts)
			assert.GreaterOrEqual(t, op.Target, 0)
		}
	}
	assert.Greater(t, inserts, 300)
	assert.Less(t, inserts, 700)
}

func TestScript_AllInserts(t *testing.T) {
	ops := NewRNG(1).Script(10, 1.0)
	for i, op := range ops {
		assert.Equal(t, OpInsert, op.Kind)
		assert.Equal(t, i, op.Value)
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	s1 := rng.Script(50, 0.5)

	rng.Reset()
	s2 := rng.Script(50, 0.5)

	assert.Equal(t, s1, s2)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestReleaseCounter(t *testing.T) {
	rc := NewReleaseCounter()

	rc.Release(&Tracked{ID: 1})
	rc.Release(&Tracked{ID: 2})
	rc.Release(&Tracked{ID: 2})

	assert.Equal(t, 1, rc.Count(1))
	assert.Equal(t, 2, rc.Count(2))
	assert.Equal(t, 0, rc.Count(3))
	assert.Equal(t, 3, rc.Total())
	assert.Equal(t, 2, rc.MaxPerValue())
}

func TestOpKind_String(t *testing.T) {
	assert.Equal(t, "insert", OpInsert.String())
	assert.Equal(t, "erase", OpErase.String())
	assert.Equal(t, "get", OpGet.String())
	assert.Equal(t, "unknown", OpKind(9).String())
}
