package scheduler

import (
	"fmt"

	"github.com/jzx17/goscheduler/pkg/sink"
	"github.com/jzx17/goscheduler/pkg/types"
	"github.com/jzx17/goscheduler/pkg/workload"
)

// maxBatch is the largest number of tasks inserted under one lock acquisition
const maxBatch = 2

// BatchSize returns how many tasks the producer inserts next: two, or one
// when the queue holds a single slot or only one task remains.
func BatchSize(capacity, remaining int) int {
	if remaining <= 0 {
		return 0
	}
	if capacity < maxBatch || remaining < maxBatch {
		return 1
	}
	return maxBatch
}

// Producer moves a workload into the ready queue in batches
type Producer struct {
	rc      *RunContext
	entries []workload.Entry

	inserted int
	batches  int
}

// NewProducer creates a producer for entries
func NewProducer(rc *RunContext, entries []workload.Entry) *Producer {
	return &Producer{rc: rc, entries: entries}
}

// Inserted returns the number of tasks inserted so far. Only valid after Run returns.
func (p *Producer) Inserted() int {
	return p.inserted
}

// Batches returns the number of batches inserted. Only valid after Run returns.
func (p *Producer) Batches() int {
	return p.batches
}

// Run inserts every entry, logs the producer's termination record and closes
// the queue. The queue is closed even if an insert fails.
func (p *Producer) Run() error {
	q := p.rc.Queue
	defer q.Close()

	p.rc.Logger.Debug("producer started",
		types.F("tasks", len(p.entries)), types.F("capacity", q.Capacity()))

	for next := 0; next < len(p.entries); {
		n := BatchSize(q.Capacity(), len(p.entries)-next)

		batch := make([]*Task, n)
		for i := range batch {
			batch[i] = NewTask(p.entries[next+i])
		}
		if err := p.insertBatch(batch); err != nil {
			return err
		}
		next += n
	}

	at := p.rc.Clock.Now()
	_ = p.rc.Sink.Write(sink.Event{Kind: sink.KindProducerDone, Count: p.inserted, At: at})
	p.rc.Logger.Info("producer terminated",
		types.F("inserted", p.inserted), types.F("batches", p.batches))
	return nil
}

// insertBatch waits for room for the whole batch, stamps one shared arrival
// time, inserts in order and logs the arrivals before releasing the queue.
func (p *Producer) insertBatch(batch []*Task) error {
	q := p.rc.Queue

	q.Lock()
	if !q.WaitForSpace(len(batch)) {
		q.Unlock()
		return types.ErrQueueClosed
	}

	arrival := p.rc.Clock.Now()
	events := make([]sink.Event, 0, len(batch))
	for _, task := range batch {
		task.Arrival = arrival
		events = append(events, sink.Event{
			Kind:    sink.KindArrival,
			TaskID:  task.ID,
			Burst:   task.Burst,
			Arrival: arrival,
		})
		if err := q.Insert(task); err != nil {
			q.Unlock()
			return fmt.Errorf("insert task %d: %w", task.ID, err)
		}
	}
	p.inserted += len(batch)
	p.batches++

	// queue -> sink is the only permitted lock nesting; Write releases the
	// sink lock before we release the queue lock
	_ = p.rc.Sink.Write(events...)

	q.Unlock()
	q.NotifyItems()

	p.rc.Metrics.ObserveBatch(len(batch))
	return nil
}
