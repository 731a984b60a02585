// Command scheduler runs the ready-queue CPU scheduling simulation.
//
// Usage:
//
//	scheduler [-log simulation_log] [-burst-unit 200ms] [-listen :9090] <task file> <queue size>
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/jzx17/goscheduler/internal/server"
	"github.com/jzx17/goscheduler/pkg/metrics"
	"github.com/jzx17/goscheduler/pkg/scheduler"
	"github.com/jzx17/goscheduler/pkg/sink"
	"github.com/jzx17/goscheduler/pkg/types"
	"github.com/jzx17/goscheduler/pkg/workload"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	os.Exit(exitCode(run(os.Args[1:], os.Stdout, os.Stderr), os.Stderr))
}

// exitCode reports err on stderr and maps it to the process exit status.
// Asking for -h is not a failure.
func exitCode(err error, stderr io.Writer) int {
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return 0
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return 1
}

type options struct {
	taskFile  string
	capacity  int
	logPath   string
	burstUnit time.Duration
	listen    string
	linger    time.Duration
	verbose   bool
}

func parseArgs(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("scheduler", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.logPath, "log", "simulation_log", "Path of the simulation log")
	fs.DurationVar(&opts.burstUnit, "burst-unit", scheduler.DefaultBurstUnit, "Real time per burst unit")
	fs.StringVar(&opts.listen, "listen", "", "Serve /metrics and /ws on this address (optional)")
	fs.DurationVar(&opts.linger, "linger", 0, "Keep serving this long after the run finishes (with -listen)")
	fs.BoolVar(&opts.verbose, "verbose", false, "Enable debug logging on stderr")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: scheduler [flags] <task file> <queue size>\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return nil, types.NewSchedulerError("parse arguments", types.KindConfig,
			fmt.Errorf("%w: expected <task file> <queue size>, got %d arguments", types.ErrInvalidConfig, fs.NArg()))
	}

	opts.taskFile = fs.Arg(0)
	capacity, err := strconv.Atoi(fs.Arg(1))
	if err != nil {
		return nil, types.NewSchedulerError("parse arguments", types.KindConfig,
			fmt.Errorf("%w: queue size %q is not an integer", types.ErrInvalidCapacity, fs.Arg(1)))
	}
	opts.capacity = capacity
	return opts, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}

	logger := types.NewDefaultLogger(log.New(stderr, "", log.LstdFlags), opts.verbose)

	reg := prometheus.NewRegistry()
	config := scheduler.DefaultConfig()
	config.Capacity = opts.capacity
	config.BurstUnit = opts.burstUnit
	config.Logger = logger
	config.Metrics = metrics.NewRegistry(reg)

	coordinator, err := scheduler.NewCoordinator(config)
	if err != nil {
		return err
	}

	entries, err := workload.Load(opts.taskFile)
	if err != nil {
		return err
	}

	f, err := os.Create(opts.logPath)
	if err != nil {
		return types.NewSchedulerError("open simulation log", types.KindResource, err).
			WithContext("path", opts.logPath)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	out := sink.New(bw)

	if opts.listen != "" {
		hub := server.NewHub(logger)
		out.Subscribe(hub.Publish)

		srv := server.New(opts.listen, hub, reg, logger)
		if _, err := srv.Start(); err != nil {
			return err
		}
		defer func() {
			time.Sleep(opts.linger)
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("http server shutdown failed", types.F("error", err))
			}
		}()
	}

	fmt.Fprintln(stdout, "Running...")
	result, err := coordinator.Run(entries, out)
	if err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return types.NewSchedulerError("close simulation log", types.KindResource, err).
			WithContext("path", opts.logPath)
	}
	fmt.Fprintln(stdout, "Done.")

	for _, w := range result.Workers {
		logger.Debug("cpu summary", types.F("cpu", w.ID), types.F("completed", w.TotalCompleted))
	}
	return nil
}
