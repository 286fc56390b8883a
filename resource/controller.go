// Package resource provides shared limits for query fan-out and snapshot IO.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MaxConcurrentQueries is the maximum number of shard queries running
	// at once. If 0, defaults to 1.
	MaxConcurrentQueries int64

	// IOLimitBytesPerSec is the maximum throughput for snapshot IO.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages query concurrency and snapshot IO throughput.
// A nil *Controller is valid and enforces nothing.
type Controller struct {
	cfg Config

	querySem *semaphore.Weighted
	inFlight atomic.Int64

	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxConcurrentQueries <= 0 {
		cfg.MaxConcurrentQueries = 1
	}

	c := &Controller{
		cfg:      cfg,
		querySem: semaphore.NewWeighted(cfg.MaxConcurrentQueries),
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// AcquireQuery reserves a query slot, blocking until one is available or ctx
// is canceled.
func (c *Controller) AcquireQuery(ctx context.Context) error {
	if c == nil {
		return nil
	}

	if err := c.querySem.Acquire(ctx, 1); err != nil {
		return err
	}

	c.inFlight.Add(1)
	return nil
}

// ReleaseQuery returns a query slot.
func (c *Controller) ReleaseQuery() {
	if c == nil {
		return
	}

	c.querySem.Release(1)
	c.inFlight.Add(-1)
}

// InFlightQueries returns the number of currently reserved query slots.
func (c *Controller) InFlightQueries() int64 {
	if c == nil {
		return 0
	}
	return c.inFlight.Load()
}

// WaitIO blocks until the IO budget allows n more bytes.
// Requests larger than the limiter burst are split.
func (c *Controller) WaitIO(ctx context.Context, n int) error {
	if c == nil || c.ioLimiter == nil || n <= 0 {
		return nil
	}

	burst := c.ioLimiter.Burst()
	for n > 0 {
		chunk := n
		if chunk > burst {
			chunk = burst
		}

		if err := c.ioLimiter.WaitN(ctx, chunk); err != nil {
			return err
		}

		n -= chunk
	}

	return nil
}
