package scheduler

import (
	"time"

	"github.com/jzx17/goscheduler/pkg/workload"
)

// Task is one unit of simulated work. The producer owns it until it is
// inserted, the queue owns it while enqueued, and exactly one CPU owns it
// after removal.
type Task struct {
	ID    int
	Burst int

	Arrival    time.Time
	Service    time.Time
	Completion time.Time
}

// NewTask creates a task from a workload entry
func NewTask(e workload.Entry) *Task {
	return &Task{ID: e.ID, Burst: e.Burst}
}

// WaitTime returns service minus arrival
func (t *Task) WaitTime() time.Duration {
	return t.Service.Sub(t.Arrival)
}

// TurnaroundTime returns completion minus arrival
func (t *Task) TurnaroundTime() time.Duration {
	return t.Completion.Sub(t.Arrival)
}
