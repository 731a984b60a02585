// Package stats accumulates the scheduler's completion statistics
package stats

import (
	"sync"
	"time"
)

// Aggregator holds the completed-task count and cumulative wait and
// turnaround durations. All fields are guarded by one mutex; the lock is
// never held while acquiring another lock.
type Aggregator struct {
	mu              sync.Mutex
	completed       int
	totalWait       time.Duration
	totalTurnaround time.Duration
}

// NewAggregator creates an empty Aggregator
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Claim increments the completed-task count and returns the new value.
// Workers claim a task before simulating it so the count reflects work taken,
// not work finished.
func (a *Aggregator) Claim() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.completed++
	return a.completed
}

// Record adds one task's wait and turnaround durations
func (a *Aggregator) Record(wait, turnaround time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.totalWait += wait
	a.totalTurnaround += turnaround
}

// Completed returns the current completed-task count
func (a *Aggregator) Completed() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.completed
}

// Snapshot returns a copy of the accumulated statistics
func (a *Aggregator) Snapshot() Summary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return Summary{
		Tasks:           a.completed,
		TotalWait:       a.totalWait,
		TotalTurnaround: a.totalTurnaround,
	}
}

// Summary is an immutable view of an Aggregator
type Summary struct {
	Tasks           int
	TotalWait       time.Duration
	TotalTurnaround time.Duration
}

// AverageWait returns the mean waiting time in seconds, or 0 when no task completed
func (s Summary) AverageWait() float64 {
	if s.Tasks == 0 {
		return 0
	}
	return s.TotalWait.Seconds() / float64(s.Tasks)
}

// AverageTurnaround returns the mean turnaround time in seconds, or 0 when no task completed
func (s Summary) AverageTurnaround() float64 {
	if s.Tasks == 0 {
		return 0
	}
	return s.TotalTurnaround.Seconds() / float64(s.Tasks)
}
