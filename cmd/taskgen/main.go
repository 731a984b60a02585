// Command taskgen writes a random task file for the scheduler.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/jzx17/goscheduler/pkg/workload"
)

func main() {
	os.Exit(exitCode(run(os.Args[1:], os.Stderr), os.Stderr))
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

func run(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("taskgen", flag.ContinueOnError)
	fs.SetOutput(stderr)

	output := fs.String("o", "task_file", "Path of the task file to write")
	count := fs.Int("n", 100, "Number of tasks")
	maxBurst := fs.Int("max-burst", 49, "Largest burst length")
	seed := fs.Int64("seed", 0, "Random seed (0 uses the current time)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))

	f, err := os.Create(*output)
	if err != nil {
		return fmt.Errorf("create %s: %w", *output, err)
	}

	if err := workload.Generate(f, *count, *maxBurst, rng); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", *output, err)
	}
	return f.Close()
}
