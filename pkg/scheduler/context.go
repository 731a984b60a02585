package scheduler

import (
	"time"

	"github.com/jzx17/goscheduler/pkg/metrics"
	"github.com/jzx17/goscheduler/pkg/queue"
	"github.com/jzx17/goscheduler/pkg/sink"
	"github.com/jzx17/goscheduler/pkg/stats"
	"github.com/jzx17/goscheduler/pkg/types"
)

// RunContext carries the structures shared by the producer and the CPUs for
// one run. It is created before any goroutine starts and outlives all of them.
//
// Lock order: a goroutine holding the queue lock may write to Sink (which
// takes the sink lock and releases it before returning). Stats is never
// touched while the queue lock is held.
type RunContext struct {
	Queue *queue.BoundedQueue[*Task]
	Sink  *sink.Sink
	Stats *stats.Aggregator

	// Total is the number of tasks in the workload
	Total int

	BurstUnit time.Duration
	Clock     types.Clock
	Logger    types.Logger
	Metrics   *metrics.Registry
}

// NewRunContext builds the shared structures for a run of total tasks.
// config must already be validated.
func NewRunContext(config *Config, total int, out *sink.Sink) (*RunContext, error) {
	q, err := queue.New[*Task](config.Capacity)
	if err != nil {
		return nil, types.NewSchedulerError("create queue", types.KindConfig, err)
	}
	if config.Metrics != nil {
		m := config.Metrics
		m.ObserveQueue(0, config.Capacity)
		q.SetObserver(m.ObserveQueue)
	}

	return &RunContext{
		Queue:     q,
		Sink:      out,
		Stats:     stats.NewAggregator(),
		Total:     total,
		BurstUnit: config.BurstUnit,
		Clock:     config.Clock,
		Logger:    config.Logger,
		Metrics:   config.Metrics,
	}, nil
}

// BurstDuration returns the real time a burst of the given length takes
func (rc *RunContext) BurstDuration(burst int) time.Duration {
	return time.Duration(burst) * rc.BurstUnit
}
