package scheduler

import (
	"fmt"
	"time"

	"github.com/jzx17/goscheduler/pkg/metrics"
	"github.com/jzx17/goscheduler/pkg/queue"
	"github.com/jzx17/goscheduler/pkg/types"
)

const (
	// DefaultWorkers is the number of simulated CPUs
	DefaultWorkers = 3

	// DefaultBurstUnit is the real time one burst unit occupies a CPU
	DefaultBurstUnit = time.Second / 5

	// DefaultCapacity is the ready queue capacity used when none is given
	DefaultCapacity = 5
)

// Config defines configuration for a scheduler run
type Config struct {
	// Capacity is the ready queue capacity, in [queue.MinCapacity, queue.MaxCapacity]
	Capacity int

	// Workers is the number of CPU goroutines
	Workers int

	// BurstUnit is the real duration of one burst unit
	BurstUnit time.Duration

	// Clock for time operations (optional, defaults to real clock)
	Clock types.Clock

	// Logger receives diagnostic messages (optional, defaults to no-op)
	Logger types.Logger

	// Metrics receives Prometheus observations (optional)
	Metrics *metrics.Registry
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Capacity:  DefaultCapacity,
		Workers:   DefaultWorkers,
		BurstUnit: DefaultBurstUnit,
		Clock:     types.NewRealClock(),
		Logger:    types.NewNoOpLogger(),
	}
}

// Validate checks the configuration and fills in optional fields
func (c *Config) Validate() error {
	if c.Capacity < queue.MinCapacity || c.Capacity > queue.MaxCapacity {
		return types.NewSchedulerError("validate config", types.KindConfig,
			fmt.Errorf("%w: must be an integer between %d and %d, got %d",
				types.ErrInvalidCapacity, queue.MinCapacity, queue.MaxCapacity, c.Capacity)).
			WithContext("capacity", c.Capacity)
	}
	if c.Workers <= 0 {
		return types.NewSchedulerError("validate config", types.KindConfig,
			fmt.Errorf("%w: workers must be positive, got %d", types.ErrInvalidConfig, c.Workers))
	}
	if c.BurstUnit < 0 {
		return types.NewSchedulerError("validate config", types.KindConfig,
			fmt.Errorf("%w: burst unit must not be negative, got %v", types.ErrInvalidConfig, c.BurstUnit))
	}

	if c.Clock == nil {
		c.Clock = types.NewRealClock()
	}
	if c.Logger == nil {
		c.Logger = types.NewNoOpLogger()
	}
	return nil
}
