// Package metrics provides Prometheus instrumentation for the scheduler.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "goscheduler"

// Registry holds all metric instances for one scheduler run.
type Registry struct {
	QueueOccupancy    prometheus.Gauge
	QueueCapacity     prometheus.Gauge
	TasksEnqueued     prometheus.Counter
	Batches           *prometheus.CounterVec
	TasksCompleted    *prometheus.CounterVec
	WorkersBusy       prometheus.Gauge
	WaitSeconds       prometheus.Histogram
	TurnaroundSeconds prometheus.Histogram
}

// NewRegistry creates a metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		QueueOccupancy: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "queue",
				Name:      "occupancy",
				Help:      "Number of tasks currently held by the ready queue",
			},
		),

		QueueCapacity: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "queue",
				Name:      "capacity",
				Help:      "Fixed capacity of the ready queue",
			},
		),

		TasksEnqueued: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "producer",
				Name:      "tasks_enqueued_total",
				Help:      "Total number of tasks inserted into the ready queue",
			},
		),

		Batches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "producer",
				Name:      "batches_total",
				Help:      "Total number of insert batches by batch size",
			},
			[]string{"size"},
		),

		TasksCompleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cpu",
				Name:      "tasks_completed_total",
				Help:      "Total number of tasks completed per CPU",
			},
			[]string{"cpu"},
		),

		WorkersBusy: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "cpu",
				Name:      "busy",
				Help:      "Number of CPUs currently simulating a burst",
			},
		),

		WaitSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "task",
				Name:      "wait_seconds",
				Help:      "Time between a task's arrival and its service",
				Buckets:   prometheus.DefBuckets,
			},
		),

		TurnaroundSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "task",
				Name:      "turnaround_seconds",
				Help:      "Time between a task's arrival and its completion",
				Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
			},
		),
	}
}

// The helpers below are safe to call on a nil *Registry.

// ObserveQueue records the queue's occupancy and capacity
func (r *Registry) ObserveQueue(occupancy, capacity int) {
	if r == nil {
		return
	}
	r.QueueOccupancy.Set(float64(occupancy))
	r.QueueCapacity.Set(float64(capacity))
}

// ObserveBatch records one producer batch
func (r *Registry) ObserveBatch(size int) {
	if r == nil {
		return
	}
	r.TasksEnqueued.Add(float64(size))
	r.Batches.WithLabelValues(strconv.Itoa(size)).Inc()
}

// BurstStarted marks a CPU as busy
func (r *Registry) BurstStarted() {
	if r == nil {
		return
	}
	r.WorkersBusy.Inc()
}

// BurstFinished marks a CPU as idle again
func (r *Registry) BurstFinished() {
	if r == nil {
		return
	}
	r.WorkersBusy.Dec()
}

// ObserveCompletion records a finished task
func (r *Registry) ObserveCompletion(cpu int, wait, turnaround time.Duration) {
	if r == nil {
		return
	}
	r.TasksCompleted.WithLabelValues(strconv.Itoa(cpu)).Inc()
	r.WaitSeconds.Observe(wait.Seconds())
	r.TurnaroundSeconds.Observe(turnaround.Seconds())
}
