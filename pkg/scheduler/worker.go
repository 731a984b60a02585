package scheduler

import (
	"sync/atomic"
	"time"

	"github.com/jzx17/goscheduler/pkg/sink"
	"github.com/jzx17/goscheduler/pkg/types"
)

// WorkerState defines the state of a Worker
type WorkerState int32

const (
	// WorkerStateIdle represents a CPU waiting for or between tasks
	WorkerStateIdle WorkerState = iota
	// WorkerStateWorking represents a CPU simulating a burst
	WorkerStateWorking
	// WorkerStateStopped represents a CPU that has terminated
	WorkerStateStopped
)

// String returns the string representation of WorkerState
func (ws WorkerState) String() string {
	switch ws {
	case WorkerStateIdle:
		return "idle"
	case WorkerStateWorking:
		return "working"
	case WorkerStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Worker is one simulated CPU
type Worker struct {
	id    int
	state int32 // atomic state
	rc    *RunContext
	done  chan struct{}

	// statistics
	totalCompleted int64
	lastTaskTime   int64 // Unix nanosecond timestamp
}

// NewWorker creates CPU number id (1-based in the simulation log)
func NewWorker(id int, rc *RunContext) *Worker {
	return &Worker{
		id:    id,
		state: int32(WorkerStateIdle),
		rc:    rc,
		done:  make(chan struct{}),
	}
}

// ID returns the Worker ID
func (w *Worker) ID() int {
	return w.id
}

// State returns the current Worker state
func (w *Worker) State() WorkerState {
	return WorkerState(atomic.LoadInt32(&w.state))
}

// Done returns a channel closed when Run returns
func (w *Worker) Done() <-chan struct{} {
	return w.done
}

// Run services tasks until the run's completed count reaches the workload
// total, or the queue is closed and drained. It then logs the CPU's
// termination record.
func (w *Worker) Run() {
	defer close(w.done)

	w.rc.Logger.Debug("cpu started", types.F("cpu", w.id))

	for w.rc.Stats.Completed() < w.rc.Total {
		task, ok := w.take()
		if !ok {
			break
		}
		w.process(task)
	}

	atomic.StoreInt32(&w.state, int32(WorkerStateStopped))
	completed := int(atomic.LoadInt64(&w.totalCompleted))
	_ = w.rc.Sink.Write(sink.Event{Kind: sink.KindWorkerDone, CPU: w.id, Count: completed})
	w.rc.Logger.Debug("cpu terminated", types.F("cpu", w.id), types.F("completed", completed))
}

// take waits for a task, removes it and wakes the producer
func (w *Worker) take() (*Task, bool) {
	q := w.rc.Queue

	q.Lock()
	if !q.WaitForItem() {
		q.Unlock()
		return nil, false
	}
	task := q.Remove()
	q.Unlock()
	q.NotifySpace()

	return task, true
}

// process simulates one task from service to completion. The task is owned
// exclusively by this CPU and is dropped on return.
func (w *Worker) process(task *Task) {
	rc := w.rc

	task.Service = rc.Clock.Now()
	_ = rc.Sink.Write(sink.Event{
		Kind:    sink.KindService,
		CPU:     w.id,
		TaskID:  task.ID,
		Arrival: task.Arrival,
		Service: task.Service,
	})

	// claimed before the burst; other CPUs poll this count
	rc.Stats.Claim()

	atomic.StoreInt32(&w.state, int32(WorkerStateWorking))
	atomic.StoreInt64(&w.lastTaskTime, task.Service.UnixNano())
	rc.Metrics.BurstStarted()
	rc.Clock.Sleep(rc.BurstDuration(task.Burst))
	rc.Metrics.BurstFinished()
	atomic.StoreInt32(&w.state, int32(WorkerStateIdle))

	task.Completion = rc.Clock.Now()
	_ = rc.Sink.Write(sink.Event{
		Kind:       sink.KindCompletion,
		CPU:        w.id,
		TaskID:     task.ID,
		Arrival:    task.Arrival,
		Completion: task.Completion,
	})

	wait, turnaround := task.WaitTime(), task.TurnaroundTime()
	rc.Stats.Record(wait, turnaround)
	rc.Metrics.ObserveCompletion(w.id, wait, turnaround)
	atomic.AddInt64(&w.totalCompleted, 1)

	rc.Logger.Debug("task completed",
		types.F("cpu", w.id), types.F("task", task.ID),
		types.F("wait", wait), types.F("turnaround", turnaround))
}

// Stats gets Worker statistics
func (w *Worker) Stats() WorkerStats {
	var last time.Time
	if ns := atomic.LoadInt64(&w.lastTaskTime); ns != 0 {
		last = time.Unix(0, ns)
	}
	return WorkerStats{
		ID:             w.id,
		State:          w.State(),
		TotalCompleted: atomic.LoadInt64(&w.totalCompleted),
		LastTaskTime:   last,
	}
}

// WorkerStats defines Worker statistics
type WorkerStats struct {
	ID             int
	State          WorkerState
	TotalCompleted int64
	LastTaskTime   time.Time
}

// IsActive checks if Worker is active
func (ws WorkerStats) IsActive() bool {
	return ws.State == WorkerStateWorking
}
