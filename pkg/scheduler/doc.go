/*
Package scheduler simulates a CPU scheduler with one producer and a fixed pool of CPU workers.

# Overview

A run moves a workload through three shared structures held by a RunContext:

  - queue.BoundedQueue: the ready queue, capacity 1 to 10
  - stats.Aggregator: completed count, cumulative wait and turnaround
  - sink.Sink: the simulation log

The Coordinator creates the RunContext, starts one Producer goroutine and a
Pool of Workers (three by default), waits for all of them and then writes the
summary record.

# Producer

The producer inserts tasks two at a time. A batch is a single task when the
queue has capacity 1 or when only one task is left. Before a batch it waits
for as many free slots as the batch needs, stamps one arrival time for the
whole batch, inserts in workload order and writes the arrival records while
still holding the queue lock. When the workload is exhausted it writes its
termination record and closes the queue.

# Workers

Each CPU repeats until the run's completed count reaches the workload total:

 1. remove a task from the queue and signal the producer
 2. stamp the service time and log it
 3. claim the task in the aggregator
 4. sleep for burst * BurstUnit
 5. stamp the completion time and log it
 6. add the task's wait and turnaround to the aggregator

A CPU also stops when the queue is closed and drained, so no CPU stays parked
on an empty queue after the last task has been taken by another CPU.

# Locking

Three locks exist: queue, sink and stats. The only nesting is queue then sink,
with the sink released first. The stats lock is never held with another lock.

# Usage

	entries, err := workload.Load("task_file")
	if err != nil {
		log.Fatal(err)
	}

	config := scheduler.DefaultConfig()
	config.Capacity = 2

	coordinator, err := scheduler.NewCoordinator(config)
	if err != nil {
		log.Fatal(err)
	}

	result, err := coordinator.Run(entries, sink.New(os.Stdout))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("average wait: %.3f\n", result.Summary.AverageWait())
*/
package scheduler
