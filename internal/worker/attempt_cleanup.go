// Package worker hosts the background jobs of the landing backend.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kavvi/landing-backend/internal/pkg/logger"
	"github.com/kavvi/landing-backend/internal/ratelimit"
)

// AttemptCleanup periodically sweeps rate-limit attempt records older than
// the longest window. The sweep is idempotent and safe alongside concurrent
// inserts and reads, so a missed or doubled tick is harmless.
type AttemptCleanup struct {
	limiter  *ratelimit.Limiter
	interval time.Duration

	mu      sync.RWMutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewAttemptCleanup creates the sweep worker. interval <= 0 defaults to one
// hour.
func NewAttemptCleanup(limiter *ratelimit.Limiter, interval time.Duration) *AttemptCleanup {
	if interval <= 0 {
		interval = time.Hour
	}
	return &AttemptCleanup{limiter: limiter, interval: interval}
}

// Start launches the sweep loop. Returns an error if already running.
func (c *AttemptCleanup) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return fmt.Errorf("attempt cleanup already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	c.running = true

	go c.run(ctx)
	logger.Info("attempt cleanup worker started", "interval", c.interval.String())
	return nil
}

// Stop halts the loop and waits for an in-flight sweep to finish.
func (c *AttemptCleanup) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.cancel()
	done := c.done
	c.running = false
	c.mu.Unlock()

	<-done
	logger.Info("attempt cleanup worker stopped")
}

// Running reports whether the loop is active.
func (c *AttemptCleanup) Running() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.running
}

func (c *AttemptCleanup) run(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

// sweep runs one cleanup pass. Errors are logged, never fatal: the next tick
// retries.
func (c *AttemptCleanup) sweep(ctx context.Context) {
	sweepCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := c.limiter.Cleanup(sweepCtx); err != nil {
		logger.Error("attempt cleanup sweep failed", "error", err.Error())
	}
}
