package testutils

import (
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/jzx17/goscheduler/pkg/types"
)

// NewMockClock creates a mock clock for testing
func NewMockClock(t testing.TB) *quartz.Mock {
	return quartz.NewMock(t)
}

// ClockWrapper wraps quartz.Mock to implement our Clock interface.
// Sleep waits on a mock timer, so the test must Advance the mock.
type ClockWrapper struct {
	*quartz.Mock
}

// NewClockWrapper creates a new ClockWrapper
func NewClockWrapper(mock *quartz.Mock) *ClockWrapper {
	return &ClockWrapper{Mock: mock}
}

// Now returns the current time
func (c *ClockWrapper) Now() time.Time {
	return c.Mock.Now()
}

// Since returns the time elapsed since t
func (c *ClockWrapper) Since(t time.Time) time.Duration {
	return c.Mock.Since(t)
}

// Sleep blocks until the mock has been advanced past d
func (c *ClockWrapper) Sleep(d time.Duration) {
	timer := c.Mock.NewTimer(d)
	<-timer.C
}

// SteppingClock is a mock clock whose Sleep advances mock time by d instead
// of blocking. Simulated bursts finish instantly while every timestamp still
// moves forward by exactly the burst duration.
type SteppingClock struct {
	*ClockWrapper
}

// NewSteppingClock creates a SteppingClock over a fresh quartz mock
func NewSteppingClock(t testing.TB) *SteppingClock {
	return &SteppingClock{ClockWrapper: NewClockWrapper(quartz.NewMock(t))}
}

// Sleep advances the mock clock by d
func (c *SteppingClock) Sleep(d time.Duration) {
	c.Mock.Advance(d)
}

var (
	_ types.Clock = (*ClockWrapper)(nil)
	_ types.Clock = (*SteppingClock)(nil)
)
