/*
Package queue provides the bounded ready queue shared by the producer and the CPU workers.

# Overview

BoundedQueue is a circular FIFO over a fixed slice. Two condition variables
share the queue mutex:

  - hasItem: consumers wait here while the queue is empty
  - hasSpace: the producer waits here until enough slots are free

Every wait is a predicate re-check loop, so spurious wakeups and multiple
waiters are harmless.

# Wakeup Policy

The queue is built for one producer and several consumers:

  - after an insert, NotifyItems broadcasts to all consumers
  - after a remove, NotifySpace signals a single waiter

Both calls are made after the lock is released. WakeupStats counts them so
the policy can be checked in tests.

# Batched Inserts

Callers that need to insert several items under one lock acquisition use the
low-level API:

	q.Lock()
	q.WaitForSpace(2)
	q.Insert(a)
	q.Insert(b)
	q.Unlock()
	q.NotifyItems()

Push and Pop wrap the single-item case.

# Closing

Close wakes every waiter. Consumers drain what is left and then see ok=false
from Pop or WaitForItem.
*/
package queue
