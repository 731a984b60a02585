package queue

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jzx17/goscheduler/pkg/types"
)

const (
	// MinCapacity is the smallest permitted queue capacity
	MinCapacity = 1
	// MaxCapacity is the largest permitted queue capacity
	MaxCapacity = 10
)

// Observer is called with the new occupancy after every insert and remove.
// It runs while the queue lock is held and must not call back into the queue.
type Observer func(occupancy, capacity int)

// BoundedQueue is a fixed-capacity circular FIFO shared by one producer and
// any number of consumers.
//
// Push, Pop, Len, Close and Closed take the lock themselves. WaitForSpace,
// WaitForItem, Insert, Remove, IsEmpty and FreeSlots must be called between
// Lock and Unlock.
type BoundedQueue[T any] struct {
	mu       sync.Mutex
	hasItem  *sync.Cond
	hasSpace *sync.Cond

	slots    []T
	in       int
	out      int
	occupied int
	closed   bool

	observer Observer

	// wakeup accounting
	broadcasts int64
	signals    int64
}

// New creates a BoundedQueue with the given capacity
func New[T any](capacity int) (*BoundedQueue[T], error) {
	if capacity < MinCapacity || capacity > MaxCapacity {
		return nil, fmt.Errorf("%w: must be between %d and %d, got %d",
			types.ErrInvalidCapacity, MinCapacity, MaxCapacity, capacity)
	}

	q := &BoundedQueue[T]{
		slots: make([]T, capacity),
	}
	q.hasItem = sync.NewCond(&q.mu)
	q.hasSpace = sync.NewCond(&q.mu)
	return q, nil
}

// SetObserver installs an occupancy observer. Call before the queue is shared.
func (q *BoundedQueue[T]) SetObserver(observer Observer) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.observer = observer
}

// Capacity returns the fixed capacity
func (q *BoundedQueue[T]) Capacity() int {
	return len(q.slots)
}

// Lock acquires the queue lock
func (q *BoundedQueue[T]) Lock() {
	q.mu.Lock()
}

// Unlock releases the queue lock
func (q *BoundedQueue[T]) Unlock() {
	q.mu.Unlock()
}

// WaitForSpace blocks until at least n slots are free or the queue is closed.
// The lock is released while suspended and reacquired before every re-check.
// Returns false if the queue was closed.
func (q *BoundedQueue[T]) WaitForSpace(n int) bool {
	for !q.closed && q.FreeSlots() < n {
		q.hasSpace.Wait()
	}
	return !q.closed
}

// WaitForItem blocks until the queue holds at least one item. Returns false
// once the queue is closed and drained.
func (q *BoundedQueue[T]) WaitForItem() bool {
	for q.IsEmpty() {
		if q.closed {
			return false
		}
		q.hasItem.Wait()
	}
	return true
}

// Insert stores item at the next-insert index. The caller must hold the lock
// and have established that a slot is free.
func (q *BoundedQueue[T]) Insert(item T) error {
	if q.closed {
		return types.ErrQueueClosed
	}
	if q.occupied == len(q.slots) {
		return fmt.Errorf("insert into full queue (capacity %d)", len(q.slots))
	}

	q.slots[q.in] = item
	q.in = (q.in + 1) % len(q.slots)
	q.occupied++
	q.notify()
	return nil
}

// Remove takes the item at the next-remove index. The caller must hold the
// lock and have established that the queue is not empty.
func (q *BoundedQueue[T]) Remove() T {
	var zero T
	item := q.slots[q.out]
	q.slots[q.out] = zero
	q.out = (q.out + 1) % len(q.slots)
	q.occupied--
	q.notify()
	return item
}

// IsEmpty reports whether the queue holds no items
func (q *BoundedQueue[T]) IsEmpty() bool {
	return q.occupied == 0
}

// FreeSlots returns the number of unoccupied slots
func (q *BoundedQueue[T]) FreeSlots() int {
	return len(q.slots) - q.occupied
}

// Len returns the current occupancy under the lock. Advisory only.
func (q *BoundedQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.occupied
}

// NotifyItems wakes every consumer waiting for an item
func (q *BoundedQueue[T]) NotifyItems() {
	atomic.AddInt64(&q.broadcasts, 1)
	q.hasItem.Broadcast()
}

// NotifySpace wakes one goroutine waiting for free space
func (q *BoundedQueue[T]) NotifySpace() {
	atomic.AddInt64(&q.signals, 1)
	q.hasSpace.Signal()
}

// Push blocks until a slot is free, inserts item and wakes all consumers
func (q *BoundedQueue[T]) Push(item T) error {
	q.mu.Lock()
	if !q.WaitForSpace(1) {
		q.mu.Unlock()
		return types.ErrQueueClosed
	}
	err := q.Insert(item)
	q.mu.Unlock()
	if err != nil {
		return err
	}
	q.NotifyItems()
	return nil
}

// Pop blocks until an item is available, removes it and wakes one producer.
// ok is false when the queue has been closed and drained.
func (q *BoundedQueue[T]) Pop() (item T, ok bool) {
	q.mu.Lock()
	if !q.WaitForItem() {
		q.mu.Unlock()
		return item, false
	}
	item = q.Remove()
	q.mu.Unlock()
	q.NotifySpace()
	return item, true
}

// Close marks the queue closed and wakes every waiter. Items already queued
// remain available to Pop.
func (q *BoundedQueue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.hasItem.Broadcast()
	q.hasSpace.Broadcast()
}

// Closed reports whether Close has been called
func (q *BoundedQueue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// WakeupStats returns the number of NotifyItems broadcasts and NotifySpace signals
func (q *BoundedQueue[T]) WakeupStats() (broadcasts, signals int64) {
	return atomic.LoadInt64(&q.broadcasts), atomic.LoadInt64(&q.signals)
}

func (q *BoundedQueue[T]) notify() {
	if q.observer != nil {
		q.observer(q.occupied, len(q.slots))
	}
}
