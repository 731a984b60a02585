package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Kind identifies the record an Event produces in the simulation log
type Kind int

const (
	// KindArrival is written by the producer for every task it inserts
	KindArrival Kind = iota
	// KindService is written by a CPU when it takes a task from the queue
	KindService
	// KindCompletion is written by a CPU when a task's burst has elapsed
	KindCompletion
	// KindProducerDone is written once when the producer terminates
	KindProducerDone
	// KindWorkerDone is written once per CPU when it terminates
	KindWorkerDone
	// KindSummary is written once by the coordinator after every goroutine joins
	KindSummary
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindArrival:
		return "arrival"
	case KindService:
		return "service"
	case KindCompletion:
		return "completion"
	case KindProducerDone:
		return "producer_done"
	case KindWorkerDone:
		return "worker_done"
	case KindSummary:
		return "summary"
	default:
		return "unknown"
	}
}

// MarshalJSON implements json.Marshaler for Kind
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Event is one record in the simulation log. Only the fields relevant to
// Kind are set.
type Event struct {
	Kind   Kind
	CPU    int
	TaskID int
	Burst  int

	Arrival    time.Time
	Service    time.Time
	Completion time.Time

	// At is the termination time for KindProducerDone
	At time.Time

	// Count is the tasks inserted (producer), serviced (worker) or completed (summary)
	Count int

	AverageWait       float64
	AverageTurnaround float64
}

// eventJSON is the wire form of Event; unset fields are omitted
type eventJSON struct {
	Kind              Kind       `json:"kind"`
	CPU               int        `json:"cpu,omitempty"`
	TaskID            int        `json:"task,omitempty"`
	Burst             int        `json:"burst,omitempty"`
	Arrival           *time.Time `json:"arrival,omitempty"`
	Service           *time.Time `json:"service,omitempty"`
	Completion        *time.Time `json:"completion,omitempty"`
	At                *time.Time `json:"at,omitempty"`
	Count             int        `json:"count,omitempty"`
	AverageWait       float64    `json:"average_wait,omitempty"`
	AverageTurnaround float64    `json:"average_turnaround,omitempty"`
}

func optionalTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// MarshalJSON implements json.Marshaler for Event
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(eventJSON{
		Kind:              e.Kind,
		CPU:               e.CPU,
		TaskID:            e.TaskID,
		Burst:             e.Burst,
		Arrival:           optionalTime(e.Arrival),
		Service:           optionalTime(e.Service),
		Completion:        optionalTime(e.Completion),
		At:                optionalTime(e.At),
		Count:             e.Count,
		AverageWait:       e.AverageWait,
		AverageTurnaround: e.AverageTurnaround,
	})
}

// ClockLayout renders log timestamps as wall-clock-of-day with milliseconds,
// the same resolution the summary averages are printed at.
const ClockLayout = "15:04:05.000"

// WriteTo renders the event as a simulation log block
func (e Event) WriteTo(w io.Writer) (int64, error) {
	var n int
	var err error
	switch e.Kind {
	case KindArrival:
		n, err = fmt.Fprintf(w, "Task #%d: %d\nArrival time: %s\n\n",
			e.TaskID, e.Burst, e.Arrival.Format(ClockLayout))
	case KindService:
		n, err = fmt.Fprintf(w, "Statistics for CPU-%d\nTask #%d\nArrival time: %s\nService time: %s\n\n",
			e.CPU, e.TaskID, e.Arrival.Format(ClockLayout), e.Service.Format(ClockLayout))
	case KindCompletion:
		n, err = fmt.Fprintf(w, "Statistics for CPU-%d\nTask #%d\nArrival time: %s\nCompletion time: %s\n\n",
			e.CPU, e.TaskID, e.Arrival.Format(ClockLayout), e.Completion.Format(ClockLayout))
	case KindProducerDone:
		n, err = fmt.Fprintf(w, "Number of tasks put into Ready-Queue: %d\nTerminate at time: %s\n\n",
			e.Count, e.At.Format(ClockLayout))
	case KindWorkerDone:
		n, err = fmt.Fprintf(w, "CPU-%d terminates after servicing %d tasks.\n\n", e.CPU, e.Count)
	case KindSummary:
		n, err = fmt.Fprintf(w, "Number of tasks: %d\nAverage waiting time: %.3f\nAverage turnaround time: %.3f\n",
			e.Count, e.AverageWait, e.AverageTurnaround)
	default:
		return 0, fmt.Errorf("unknown event kind %d", int(e.Kind))
	}
	return int64(n), err
}
