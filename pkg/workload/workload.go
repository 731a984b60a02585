// Package workload reads and generates task files.
//
// A task file has one task per line: "<id> <burst>", two whitespace separated
// positive integers. Parse skips blank lines; Load rejects them, because the
// file's line count is the number of tasks the scheduler waits for.
package workload

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/jzx17/goscheduler/pkg/types"
)

// Entry is one (id, burst) pair from a task file
type Entry struct {
	ID    int
	Burst int
}

// Count returns the number of lines in r, blank ones included. A final line
// without a trailing newline is counted.
func Count(r io.Reader) (int, error) {
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
	}
	return n, scanner.Err()
}

// Parse reads every entry from r. Any malformed line, non-positive value or
// repeated id is an error; no partial result is returned.
func Parse(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	var entries []Entry
	ids := make(map[int]int)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		if first, dup := ids[entry.ID]; dup {
			return nil, fmt.Errorf("line %d: %w: %d (first seen on line %d)",
				lineNo, types.ErrDuplicateTask, entry.ID, first)
		}
		ids[entry.ID] = lineNo
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

func parseLine(line string) (Entry, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Entry{}, fmt.Errorf("%w: want 2 fields, got %d", types.ErrMalformedTask, len(fields))
	}

	id, err := strconv.Atoi(fields[0])
	if err != nil || id <= 0 {
		return Entry{}, fmt.Errorf("%w: invalid id %q", types.ErrMalformedTask, fields[0])
	}
	burst, err := strconv.Atoi(fields[1])
	if err != nil || burst <= 0 {
		return Entry{}, fmt.Errorf("%w: invalid burst %q", types.ErrMalformedTask, fields[1])
	}
	return Entry{ID: id, Burst: burst}, nil
}

// Load reads a task file in two passes: a line count, then a strict parse.
// The two totals must agree, so a blank line is an error.
func Load(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, types.NewSchedulerError("open task file", types.KindResource, err).
			WithContext("path", path)
	}
	defer f.Close()

	total, err := Count(f)
	if err != nil {
		return nil, types.NewSchedulerError("count tasks", types.KindResource, err).
			WithContext("path", path)
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, types.NewSchedulerError("rewind task file", types.KindResource, err).
			WithContext("path", path)
	}

	entries, err := Parse(f)
	if err != nil {
		return nil, types.NewSchedulerError("parse task file", types.KindWorkload, err).
			WithContext("path", path)
	}

	if len(entries) != total {
		return nil, types.NewSchedulerError("parse task file", types.KindWorkload,
			fmt.Errorf("%w: counted %d, parsed %d", types.ErrWorkloadMismatch, total, len(entries))).
			WithContext("path", path)
	}
	return entries, nil
}

// Generate writes n tasks with ids 1..n and bursts drawn uniformly from
// [1, maxBurst].
func Generate(w io.Writer, n, maxBurst int, rng *rand.Rand) error {
	if n < 0 {
		return fmt.Errorf("task count must not be negative, got %d", n)
	}
	if maxBurst <= 0 {
		return fmt.Errorf("max burst must be positive, got %d", maxBurst)
	}

	bw := bufio.NewWriter(w)
	for id := 1; id <= n; id++ {
		if _, err := fmt.Fprintf(bw, "%d %d\n", id, rng.Intn(maxBurst)+1); err != nil {
			return err
		}
	}
	return bw.Flush()
}
