package app

import (
	"time"

	"github.com/bft-labs/htbctl/internal/ports"
)

// Default polling parameters. Provisioning takes minutes; teardown is much
// faster. The one-second cadence matches what the upstream expects from
// well-behaved clients.
const (
	DefaultTickInterval = time.Second
	DefaultSpawnTicks   = 300
	DefaultStopTicks    = 60
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the structured logger.
func WithLogger(logger ports.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithClock sets the time source used by the polling loops.
func WithClock(clock ports.Clock) Option {
	return func(c *Controller) {
		c.clock = clock
	}
}

// WithTickInterval sets the polling tick interval.
func WithTickInterval(d time.Duration) Option {
	return func(c *Controller) {
		c.tick = d
	}
}

// WithPollBudgets sets the per-operation tick budgets: spawnTicks bounds the
// start/reset address poll, stopTicks bounds the teardown poll.
func WithPollBudgets(spawnTicks, stopTicks int) Option {
	return func(c *Controller) {
		c.spawnTicks = spawnTicks
		c.stopTicks = stopTicks
	}
}
