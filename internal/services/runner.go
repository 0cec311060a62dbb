package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"smartmoney/internal/log"
)

// runner drives a tick function on a fixed interval with Start/Stop
// lifecycle management. It runs one tick immediately on start.
type runner struct {
	name     string
	interval time.Duration
	tick     func(ctx context.Context)
	logger   *log.Logger

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// Start begins the loop. Returns an error if already running.
func (r *runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("%s is already running", r.name)
	}
	r.running = true
	r.stopCh = make(chan struct{})
	r.doneCh = make(chan struct{})
	r.mu.Unlock()

	go r.runLoop(ctx)

	r.logger.InfoContext(ctx, "Processor started",
		log.FieldOperation, log.OpStartup,
		"interval", r.interval)
	return nil
}

// Stop signals the loop and waits for the current tick to finish.
func (r *runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	stopCh, doneCh := r.stopCh, r.doneCh
	r.mu.Unlock()

	close(stopCh)

	select {
	case <-doneCh:
		r.logger.InfoContext(ctx, "Processor stopped gracefully", log.FieldOperation, log.OpShutdown)
	case <-ctx.Done():
		r.logger.WarnContext(ctx, "Processor stop timed out", log.FieldOperation, log.OpShutdown)
		return ctx.Err()
	}

	r.mu.Lock()
	r.running = false
	r.mu.Unlock()
	return nil
}

// IsRunning returns whether the loop is currently running.
func (r *runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *runner) runLoop(ctx context.Context) {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.InfoContext(ctx, "Processor context cancelled")
			return
		case <-r.stopCh:
			return
		case <-ticker.C:
			r.tick(ctx)
		}
	}
}
