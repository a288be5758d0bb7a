// Package resource tracks and limits the memory, worker and IO budgets
// shared by every arena in a process.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for pool memory across all arenas.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// MaxCollectiveWorkers is the maximum number of recycle passes running
	// concurrently. If 0, defaults to 1.
	MaxCollectiveWorkers int64

	// IOLimitBytesPerSec is the maximum throughput for diagnostic dumps.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages process-wide resources (memory, collective passes, IO).
// A nil Controller is valid and enforces nothing.
type Controller struct {
	cfg Config

	// Memory
	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	// Collective passes
	passSem *semaphore.Weighted

	// IO
	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxCollectiveWorkers <= 0 {
		cfg.MaxCollectiveWorkers = 1
	}

	c := &Controller{
		cfg:     cfg,
		passSem: semaphore.NewWeighted(cfg.MaxCollectiveWorkers),
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// TryAcquireMemory attempts to reserve pool memory without blocking.
// Returns true if acquired, false if the limit would be exceeded.
// Arena construction treats false as fatal: pools are never undersized.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil {
		return true
	}
	if bytes <= 0 {
		return true
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return false
		}
	}

	c.memUsed.Add(bytes)
	return true
}

// ReleaseMemory releases reserved pool memory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil {
		return
	}
	if bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the currently reserved pool memory in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// AcquirePass reserves a collective-pass slot. Blocks if all slots are busy.
func (c *Controller) AcquirePass(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.passSem.Acquire(ctx, 1)
}

// ReleasePass releases a collective-pass slot.
func (c *Controller) ReleasePass() {
	if c == nil {
		return
	}
	c.passSem.Release(1)
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	return c.ioLimiter.WaitN(ctx, bytes)
}
