package queue

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// checkInvariants asserts the properties every reachable System state holds.
func checkInvariants[E any](t *testing.T, s *System[E]) {
	t.Helper()
	assert.True(t, s.IsActivated(s.Current()), "current queue %d must be active", s.Current())
	total := 0
	for i := 0; i < s.HowManyQueues(); i++ {
		total += s.QueueSize(i)
		if !s.IsActivated(i) {
			assert.Zero(t, s.QueueSize(i), "inactive queue %d must be empty", i)
		}
	}
	assert.Equal(t, total, s.Size())
}

func fill(t *testing.T, s *System[int], idx int, n int) {
	t.Helper()
	require.NoError(t, s.Focus(idx))
	for i := 0; i < n; i++ {
		require.NoError(t, s.Enqueue(idx*100+i))
	}
}

func TestNewSystem(t *testing.T) {
	s := NewSystem[int](3)
	assert.Equal(t, 3, s.HowManyQueues())
	assert.Equal(t, 3, s.HowManyActiveQueues())
	assert.Equal(t, 0, s.Current())
	assert.Equal(t, 0, s.Size())
	checkInvariants(t, s)

	assert.Panics(t, func() { NewSystem[int](0) })
}

func TestSystem_CurrentQueueOperations(t *testing.T) {
	s := NewSystem[int](2)
	require.NoError(t, s.Focus(1))
	require.NoError(t, s.Enqueue(10))
	require.NoError(t, s.Enqueue(11))

	empty, err := s.IsEmpty()
	require.NoError(t, err)
	assert.False(t, empty)

	front, err := s.Front()
	require.NoError(t, err)
	assert.Equal(t, 10, front)

	require.NoError(t, s.Dequeue())
	front, err = s.Front()
	require.NoError(t, err)
	assert.Equal(t, 11, front)
	assert.Equal(t, 1, s.Size())

	require.NoError(t, s.Focus(0))
	empty, err = s.IsEmpty()
	require.NoError(t, err)
	assert.True(t, empty)
	checkInvariants(t, s)
}

func TestSystem_EmptyQueueErrors(t *testing.T) {
	s := NewSystem[int](1)

	err := s.Dequeue()
	assert.True(t, errors.Is(err, ErrInvalidQueueOperation))

	_, err = s.Front()
	assert.True(t, errors.Is(err, ErrInvalidQueueOperation))
	assert.Equal(t, 0, s.Size())
}

func TestSystem_EnqueueDequeueRoundTrip(t *testing.T) {
	s := NewSystem[int](1)
	s.Create()
	s.Activate(1)
	require.NoError(t, s.Focus(1))

	require.NoError(t, s.Enqueue(42))
	require.NoError(t, s.Dequeue())

	empty, err := s.IsEmpty()
	require.NoError(t, err)
	assert.True(t, empty)
	assert.Equal(t, 0, s.Size())
	checkInvariants(t, s)
}

func TestSystem_CreateGrowsAndStartsInactive(t *testing.T) {
	s := NewSystem[int](1)
	for i := 0; i < 9; i++ {
		s.Create()
	}
	assert.Equal(t, 10, s.HowManyQueues())
	assert.Equal(t, 1, s.HowManyActiveQueues())
	for i := 1; i < 10; i++ {
		assert.False(t, s.IsActivated(i))
	}
	assert.GreaterOrEqual(t, cap(s.slots), 10)

	err := s.Focus(5)
	assert.True(t, errors.Is(err, ErrInvalidQueueOperation))
	assert.Equal(t, 0, s.Current(), "failed focus leaves the cursor alone")

	s.Activate(5)
	s.Activate(5)
	assert.Equal(t, 2, s.HowManyActiveQueues())
	require.NoError(t, s.Focus(5))
	assert.Equal(t, 5, s.Current())
	checkInvariants(t, s)
}

func TestSystem_Deactivate(t *testing.T) {
	tests := []struct {
		name        string
		active      int
		fillQueue   int
		fillCount   int
		focus       int
		deactivate  int
		wantErr     bool
		wantCurrent int
		wantActive  int
	}{
		{
			name:        "NonCurrentEmptyQueue_KeepsCursor",
			active:      3,
			fillQueue:   0,
			focus:       2,
			deactivate:  1,
			wantCurrent: 2,
			wantActive:  2,
		},
		{
			name:        "CurrentQueue_MovesCursorToLowestActive",
			active:      3,
			fillQueue:   1,
			fillCount:   2,
			focus:       0,
			deactivate:  0,
			wantCurrent: 1,
			wantActive:  2,
		},
		{
			name:        "NonEmptyQueue_Fails",
			active:      3,
			fillQueue:   2,
			fillCount:   1,
			focus:       0,
			deactivate:  2,
			wantErr:     true,
			wantCurrent: 0,
			wantActive:  3,
		},
		{
			name:        "LastActiveQueue_Fails",
			active:      1,
			focus:       0,
			deactivate:  0,
			wantErr:     true,
			wantCurrent: 0,
			wantActive:  1,
		},
		{
			name:        "UnknownIndex_Fails",
			active:      2,
			focus:       1,
			deactivate:  7,
			wantErr:     true,
			wantCurrent: 1,
			wantActive:  2,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := NewSystem[int](tc.active)
			fill(t, s, tc.fillQueue, tc.fillCount)
			require.NoError(t, s.Focus(tc.focus))

			err := s.Deactivate(tc.deactivate)
			if tc.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidQueueOperation), "got %v", err)
			} else {
				assert.NoError(t, err)
				assert.False(t, s.IsActivated(tc.deactivate))
			}
			assert.Equal(t, tc.wantCurrent, s.Current())
			assert.Equal(t, tc.wantActive, s.HowManyActiveQueues())
			checkInvariants(t, s)
		})
	}
}

func TestSystem_InactiveCurrentQueue(t *testing.T) {
	// Only reachable through a foreign write to the flags; the commands must
	// still refuse to touch an inactive queue.
	s := NewSystem[int](2)
	s.slots[0].active = false

	assert.True(t, errors.Is(s.Enqueue(1), ErrInvalidQueueOperation))
	assert.True(t, errors.Is(s.Dequeue(), ErrInvalidQueueOperation))
	_, err := s.Front()
	assert.True(t, errors.Is(err, ErrInvalidQueueOperation))
	_, err = s.IsEmpty()
	assert.True(t, errors.Is(err, ErrInvalidQueueOperation))
	assert.Equal(t, 0, s.Size())
}

func TestSystem_FocusMinMaxTieBreak(t *testing.T) {
	s := NewSystem[int](4)
	fill(t, s, 0, 2)
	fill(t, s, 1, 2)
	fill(t, s, 2, 2)
	fill(t, s, 3, 2)

	assert.Equal(t, 2, s.FocusMin())
	assert.Equal(t, 0, s.Current())

	require.NoError(t, s.Focus(3))
	assert.Equal(t, 2, s.FocusMax())
	assert.Equal(t, 0, s.Current())

	fill(t, s, 2, 1)
	fill(t, s, 3, 1)
	assert.Equal(t, 3, s.FocusMax())
	assert.Equal(t, 2, s.Current())
	assert.Equal(t, 2, s.FocusMin())
	assert.Equal(t, 0, s.Current())
	checkInvariants(t, s)
}

func TestSystem_FocusMinSkipsInactive(t *testing.T) {
	s := NewSystem[int](3)
	fill(t, s, 0, 1)
	fill(t, s, 2, 1)
	require.NoError(t, s.Deactivate(1))
	s.Create()

	assert.Equal(t, 1, s.FocusMin())
	assert.Equal(t, 0, s.Current())

	s.Activate(3)
	assert.Equal(t, 0, s.FocusMin())
	assert.Equal(t, 3, s.Current())
	checkInvariants(t, s)
}

type countingQueue struct {
	*ArrayQueue[int]
	enqueued int
}

func (q *countingQueue) Enqueue(item int) {
	q.enqueued++
	q.ArrayQueue.Enqueue(item)
}

func TestNewSystemWith_CustomBackend(t *testing.T) {
	var backends []*countingQueue
	s := NewSystemWith(1, func() Queue[int] {
		q := &countingQueue{ArrayQueue: NewQueue[int]()}
		backends = append(backends, q)
		return q
	})
	s.Create()
	s.Activate(1)
	fill(t, s, 1, 3)

	require.Len(t, backends, 2)
	assert.Equal(t, 0, backends[0].enqueued)
	assert.Equal(t, 3, backends[1].enqueued)
	assert.Equal(t, 3, s.Size())
}

func TestSystem_String(t *testing.T) {
	s := NewSystem[int](1)
	s.Create()
	require.NoError(t, s.Enqueue(1))
	require.NoError(t, s.Enqueue(2))

	out := s.String()
	assert.True(t, strings.HasPrefix(out, "Total number of elements in queue system 2\nCurrent queue 0\n"))
	assert.Contains(t, out, "<1 2>     active\n")
	assert.Contains(t, out, "<> not active\n")
}
