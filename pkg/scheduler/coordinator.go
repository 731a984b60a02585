package scheduler

import (
	"sync"

	"github.com/jzx17/goscheduler/pkg/sink"
	"github.com/jzx17/goscheduler/pkg/stats"
	"github.com/jzx17/goscheduler/pkg/types"
	"github.com/jzx17/goscheduler/pkg/workload"
)

// Result is what a finished run reports
type Result struct {
	// Inserted is the number of tasks the producer put into the queue
	Inserted int

	// Batches is the number of producer insert batches
	Batches int

	Summary stats.Summary
	Workers []WorkerStats
}

// Coordinator builds the shared run structures, starts the producer and the
// CPUs, joins them and writes the summary.
type Coordinator struct {
	config *Config
}

// NewCoordinator creates a coordinator. A nil config uses DefaultConfig.
func NewCoordinator(config *Config) (*Coordinator, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &Coordinator{config: config}, nil
}

// Config returns the validated configuration
func (c *Coordinator) Config() *Config {
	return c.config
}

// Run simulates entries and writes the simulation log to out. It returns once
// the producer and every CPU have terminated. There is no cancellation: the
// workload is validated up front so every inserted task is eventually consumed.
func (c *Coordinator) Run(entries []workload.Entry, out *sink.Sink) (*Result, error) {
	if out == nil {
		out = sink.New(nil)
	}

	rc, err := NewRunContext(c.config, len(entries), out)
	if err != nil {
		return nil, err
	}
	logger := rc.Logger

	producer := NewProducer(rc, entries)
	pool, err := NewPool(c.config.Workers, rc)
	if err != nil {
		return nil, types.NewSchedulerError("create pool", types.KindConfig, err)
	}

	logger.Info("run started",
		types.F("tasks", rc.Total), types.F("capacity", c.config.Capacity),
		types.F("cpus", pool.Size()))

	var producerErr error
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		producerErr = producer.Run()
	}()
	if err := pool.Start(); err != nil {
		return nil, err
	}

	wg.Wait()
	pool.Wait()

	summary := rc.Stats.Snapshot()
	_ = out.Write(sink.Event{
		Kind:              sink.KindSummary,
		Count:             summary.Tasks,
		AverageWait:       summary.AverageWait(),
		AverageTurnaround: summary.AverageTurnaround(),
	})

	result := &Result{
		Inserted: producer.Inserted(),
		Batches:  producer.Batches(),
		Summary:  summary,
		Workers:  pool.GetWorkerStats(),
	}

	if producerErr != nil {
		return result, types.NewSchedulerError("produce tasks", types.KindResource, producerErr)
	}
	if err := out.Flush(); err != nil {
		return result, types.NewSchedulerError("write simulation log", types.KindResource, err)
	}

	logger.Info("run finished",
		types.F("tasks", summary.Tasks),
		types.F("avg_wait", summary.AverageWait()),
		types.F("avg_turnaround", summary.AverageTurnaround()))
	return result, nil
}
