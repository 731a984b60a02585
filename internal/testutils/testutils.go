// Package testutils provides simplified testing utilities and helper functions
package testutils

import (
	"testing"
	"time"

	"github.com/jzx17/goscheduler/pkg/workload"
	"github.com/stretchr/testify/assert"
)

// Entries builds a workload from alternating id, burst values
func Entries(pairs ...int) []workload.Entry {
	if len(pairs)%2 != 0 {
		panic("testutils.Entries needs id, burst pairs")
	}
	entries := make([]workload.Entry, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		entries = append(entries, workload.Entry{ID: pairs[i], Burst: pairs[i+1]})
	}
	return entries
}

// Sequential builds n entries with ids 1..n, all with the given burst
func Sequential(n, burst int) []workload.Entry {
	entries := make([]workload.Entry, n)
	for i := range entries {
		entries[i] = workload.Entry{ID: i + 1, Burst: burst}
	}
	return entries
}

// RunWithin runs fn in a goroutine and fails the test if it does not return
// within timeout. Used to turn a scheduler deadlock into a test failure.
func RunWithin(t *testing.T, timeout time.Duration, fn func()) bool {
	t.Helper()
	done := make(chan struct{})
	go func() {
		defer close(done)
		fn()
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		assert.Fail(t, "timed out", "function did not return within %v", timeout)
		return false
	}
}
