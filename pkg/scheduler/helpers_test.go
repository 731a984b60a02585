package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/jzx17/goscheduler/internal/testutils"
	"github.com/jzx17/goscheduler/pkg/sink"
	"github.com/jzx17/goscheduler/pkg/types"
	"github.com/stretchr/testify/require"
)

// tickingClock returns a time one step later on every Now call and moves
// forward by d on Sleep.
type tickingClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newTickingClock(step time.Duration) *tickingClock {
	return &tickingClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), step: step}
}

func (c *tickingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func (c *tickingClock) Since(t time.Time) time.Duration {
	return c.Now().Sub(t)
}

func (c *tickingClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var _ types.Clock = (*tickingClock)(nil)

// testConfig returns a config that finishes bursts instantly on a quartz mock
func testConfig(t *testing.T, capacity int) *Config {
	t.Helper()
	config := DefaultConfig()
	config.Capacity = capacity
	config.BurstUnit = time.Second
	config.Clock = testutils.NewSteppingClock(t)
	require.NoError(t, config.Validate())
	return config
}

// newTestRun builds a RunContext with a recorder subscribed to its sink
func newTestRun(t *testing.T, config *Config, total int) (*RunContext, *sink.Recorder) {
	t.Helper()
	rec := sink.NewRecorder()
	out := sink.New(nil)
	out.Subscribe(rec.Listen)

	rc, err := NewRunContext(config, total, out)
	require.NoError(t, err)
	return rc, rec
}
