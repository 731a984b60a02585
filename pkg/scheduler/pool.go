package scheduler

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Pool runs a fixed set of CPU workers over one RunContext
type Pool struct {
	workers []*Worker
	wg      sync.WaitGroup

	// state management
	state int32 // 0: created, 1: running
}

// NewPool creates size workers numbered 1..size
func NewPool(size int, rc *RunContext) (*Pool, error) {
	if size <= 0 {
		return nil, fmt.Errorf("pool size must be positive, got %d", size)
	}
	if rc == nil {
		return nil, fmt.Errorf("run context cannot be nil")
	}

	workers := make([]*Worker, size)
	for i := range workers {
		workers[i] = NewWorker(i+1, rc)
	}
	return &Pool{workers: workers}, nil
}

// Start launches one goroutine per worker
func (p *Pool) Start() error {
	if !atomic.CompareAndSwapInt32(&p.state, 0, 1) {
		return fmt.Errorf("worker pool is already running")
	}

	for _, worker := range p.workers {
		p.wg.Add(1)
		go func(w *Worker) {
			defer p.wg.Done()
			w.Run()
		}(worker)
	}
	return nil
}

// Wait blocks until every worker has terminated
func (p *Pool) Wait() {
	p.wg.Wait()
}

// Size returns the worker pool size
func (p *Pool) Size() int {
	return len(p.workers)
}

// IsRunning checks if the worker pool has been started
func (p *Pool) IsRunning() bool {
	return atomic.LoadInt32(&p.state) == 1
}

// GetWorkerStats gets statistics of all Workers
func (p *Pool) GetWorkerStats() []WorkerStats {
	stats := make([]WorkerStats, len(p.workers))
	for i, worker := range p.workers {
		stats[i] = worker.Stats()
	}
	return stats
}

// TotalCompleted sums the tasks completed by every worker
func (p *Pool) TotalCompleted() int64 {
	var total int64
	for _, worker := range p.workers {
		total += worker.Stats().TotalCompleted
	}
	return total
}
