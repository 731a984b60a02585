package queue

import (
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jzx17/goscheduler/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		capacity    int
		expectError bool
	}{
		{"minimum capacity", 1, false},
		{"maximum capacity", 10, false},
		{"zero capacity should error", 0, true},
		{"negative capacity should error", -1, true},
		{"capacity above maximum should error", 11, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := New[int](tt.capacity)
			if tt.expectError {
				assert.ErrorIs(t, err, types.ErrInvalidCapacity)
				assert.Nil(t, q)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.capacity, q.Capacity())
				assert.Equal(t, 0, q.Len())
			}
		})
	}
}

func TestBoundedQueue_FIFOWrapAround(t *testing.T) {
	q, err := New[int](3)
	require.NoError(t, err)

	// Cycle several times around the backing slice
	next := 0
	for round := 0; round < 5; round++ {
		require.NoError(t, q.Push(round*2))
		require.NoError(t, q.Push(round*2+1))

		for i := 0; i < 2; i++ {
			item, ok := q.Pop()
			require.True(t, ok)
			assert.Equal(t, next, item)
			next++
		}
	}
	assert.Equal(t, 0, q.Len())
}

func TestBoundedQueue_LockedQueries(t *testing.T) {
	q, err := New[string](4)
	require.NoError(t, err)

	q.Lock()
	assert.True(t, q.IsEmpty())
	assert.Equal(t, 4, q.FreeSlots())
	require.NoError(t, q.Insert("a"))
	require.NoError(t, q.Insert("b"))
	assert.False(t, q.IsEmpty())
	assert.Equal(t, 2, q.FreeSlots())
	assert.Equal(t, "a", q.Remove())
	assert.Equal(t, 3, q.FreeSlots())
	q.Unlock()
}

func TestBoundedQueue_InsertIntoFullQueue(t *testing.T) {
	q, err := New[int](1)
	require.NoError(t, err)

	q.Lock()
	defer q.Unlock()
	require.NoError(t, q.Insert(1))
	assert.Error(t, q.Insert(2))
}

func TestBoundedQueue_PushBlocksWhenFull(t *testing.T) {
	q, err := New[int](1)
	require.NoError(t, err)
	require.NoError(t, q.Push(1))

	var pushed int32
	go func() {
		_ = q.Push(2)
		atomic.StoreInt32(&pushed, 1)
	}()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&pushed), "push should block on a full queue")

	item, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, 1, item)

	assert.Eventually(t, func() bool { return atomic.LoadInt32(&pushed) == 1 },
		time.Second, 5*time.Millisecond)

	item, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, 2, item)
}

func TestBoundedQueue_PopBlocksWhenEmpty(t *testing.T) {
	q, err := New[int](2)
	require.NoError(t, err)

	got := make(chan int, 1)
	go func() {
		item, ok := q.Pop()
		if ok {
			got <- item
		}
	}()

	select {
	case <-got:
		t.Fatal("pop should block on an empty queue")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, q.Push(7))
	select {
	case item := <-got:
		assert.Equal(t, 7, item)
	case <-time.After(time.Second):
		t.Fatal("pop did not wake after push")
	}
}

func TestBoundedQueue_WaitForSpaceBatch(t *testing.T) {
	q, err := New[int](2)
	require.NoError(t, err)
	require.NoError(t, q.Push(1))

	done := make(chan struct{})
	go func() {
		defer close(done)
		q.Lock()
		q.WaitForSpace(2)
		_ = q.Insert(2)
		_ = q.Insert(3)
		q.Unlock()
		q.NotifyItems()
	}()

	select {
	case <-done:
		t.Fatal("batch insert should wait for two free slots")
	case <-time.After(20 * time.Millisecond):
	}

	item, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, 1, item)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("batch insert did not proceed after a slot was freed")
	}

	for _, want := range []int{2, 3} {
		item, ok := q.Pop()
		require.True(t, ok)
		assert.Equal(t, want, item)
	}
}

func TestBoundedQueue_Close(t *testing.T) {
	q, err := New[int](3)
	require.NoError(t, err)
	require.NoError(t, q.Push(1))

	var wg sync.WaitGroup
	results := make(chan bool, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := q.Pop()
			results <- ok
		}()
	}

	time.Sleep(20 * time.Millisecond)
	q.Close()
	wg.Wait()
	close(results)

	var delivered, closed int
	for ok := range results {
		if ok {
			delivered++
		} else {
			closed++
		}
	}
	assert.Equal(t, 1, delivered, "queued item should still be delivered after close")
	assert.Equal(t, 2, closed)
	assert.True(t, q.Closed())
	assert.ErrorIs(t, q.Push(2), types.ErrQueueClosed)
}

func TestBoundedQueue_WakeupPolicy(t *testing.T) {
	q, err := New[int](4)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, q.Push(i))
	}
	for i := 0; i < 2; i++ {
		_, ok := q.Pop()
		require.True(t, ok)
	}

	broadcasts, signals := q.WakeupStats()
	assert.Equal(t, int64(3), broadcasts, "every insert broadcasts to consumers")
	assert.Equal(t, int64(2), signals, "every remove signals one producer")
}

// TestBoundedQueue_OccupancyBound stresses one producer against three
// consumers and checks the occupancy observer never leaves [0, capacity].
func TestBoundedQueue_OccupancyBound(t *testing.T) {
	for capacity := MinCapacity; capacity <= MaxCapacity; capacity++ {
		capacity := capacity
		t.Run(fmt.Sprintf("capacity_%d", capacity), func(t *testing.T) {
			t.Parallel()

			q, err := New[int](capacity)
			require.NoError(t, err)

			var violations int64
			var maxSeen int64
			q.SetObserver(func(occupancy, c int) {
				if occupancy < 0 || occupancy > c {
					atomic.AddInt64(&violations, 1)
				}
				if int64(occupancy) > atomic.LoadInt64(&maxSeen) {
					atomic.StoreInt64(&maxSeen, int64(occupancy))
				}
			})

			const total = 300
			var consumed int64
			var wg sync.WaitGroup
			for w := 0; w < 3; w++ {
				wg.Add(1)
				go func(seed int64) {
					defer wg.Done()
					rng := rand.New(rand.NewSource(seed))
					for {
						if _, ok := q.Pop(); !ok {
							return
						}
						atomic.AddInt64(&consumed, 1)
						time.Sleep(time.Duration(rng.Intn(50)) * time.Microsecond)
					}
				}(int64(w))
			}

			for i := 0; i < total; i++ {
				require.NoError(t, q.Push(i))
			}
			q.Close()
			wg.Wait()

			assert.Equal(t, int64(0), atomic.LoadInt64(&violations))
			assert.LessOrEqual(t, atomic.LoadInt64(&maxSeen), int64(capacity))
			assert.Equal(t, int64(total), atomic.LoadInt64(&consumed))
		})
	}
}

// TestBoundedQueue_PerConsumerFIFO checks that each consumer sees items in
// increasing enqueue order.
func TestBoundedQueue_PerConsumerFIFO(t *testing.T) {
	q, err := New[int](5)
	require.NoError(t, err)

	const total = 500
	seen := make([][]int, 3)
	var wg sync.WaitGroup
	for w := 0; w < 3; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for {
				item, ok := q.Pop()
				if !ok {
					return
				}
				seen[w] = append(seen[w], item)
			}
		}(w)
	}

	for i := 0; i < total; i++ {
		require.NoError(t, q.Push(i))
	}
	q.Close()
	wg.Wait()

	count := 0
	for w := range seen {
		count += len(seen[w])
		for i := 1; i < len(seen[w]); i++ {
			assert.Less(t, seen[w][i-1], seen[w][i], "consumer %d saw items out of order", w)
		}
	}
	assert.Equal(t, total, count)
}
