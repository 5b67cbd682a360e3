package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm-cable/fountain/field"
)

func action(id int) Action {
	return NewAction(field.Selection{Left: id, Width: 1, Height: 1}, []float32{float32(id)})
}

func TestPopReturnsMostRecentFirst(t *testing.T) {
	j := New(8)
	j.Push(action(1))
	j.Push(action(2))

	a, err := j.Pop()
	require.NoError(t, err)
	assert.Equal(t, 2, a.Selection.Left)

	a, err = j.Pop()
	require.NoError(t, err)
	assert.Equal(t, 1, a.Selection.Left)

	_, err = j.Pop()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestPushPastCapacityEvictsOldest(t *testing.T) {
	const capacity = 5
	j := New(capacity)
	for i := 0; i <= capacity; i++ {
		j.Push(action(i))
	}
	require.Equal(t, capacity, j.Len())

	for want := capacity; want >= 1; want-- {
		a, err := j.Pop()
		require.NoError(t, err)
		assert.Equal(t, want, a.Selection.Left)
	}
	assert.Equal(t, 0, j.Len())
}

func TestRingWrapsAcrossGrowth(t *testing.T) {
	j := New(20)
	for i := 0; i < 100; i++ {
		j.Push(action(i))
		if i%3 == 0 {
			_, err := j.Pop()
			require.NoError(t, err)
		}
	}
	require.Equal(t, 20, j.Len())

	prev := 1 << 30
	for j.Len() > 0 {
		a, err := j.Pop()
		require.NoError(t, err)
		assert.Less(t, a.Selection.Left, prev, "pop order must be newest first")
		prev = a.Selection.Left
	}
}

func TestSetCapTrimsFromHead(t *testing.T) {
	j := New(10)
	for i := 0; i < 6; i++ {
		j.Push(action(i))
	}
	j.SetCap(2)
	require.Equal(t, 2, j.Len())

	a, ok := j.Peek()
	require.True(t, ok)
	assert.Equal(t, 5, a.Selection.Left)

	a, err := j.Pop()
	require.NoError(t, err)
	assert.Equal(t, 5, a.Selection.Left)
	a, err = j.Pop()
	require.NoError(t, err)
	assert.Equal(t, 4, a.Selection.Left)
}

func TestZeroCapacityKeepsNothing(t *testing.T) {
	j := New(0)
	j.Push(action(1))
	assert.Equal(t, 0, j.Len())
	_, err := j.Pop()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestClear(t *testing.T) {
	j := New(4)
	j.Push(action(1))
	j.Push(action(2))
	j.Clear()
	assert.Equal(t, 0, j.Len())
	_, ok := j.Peek()
	assert.False(t, ok)

	j.Push(action(3))
	a, err := j.Pop()
	require.NoError(t, err)
	assert.Equal(t, 3, a.Selection.Left)
}
