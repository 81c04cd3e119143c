// Package debounce coalesces bursts of calls into a single delayed run.
package debounce

import (
	"context"
	"sync"
	"time"
)

type Debouncer struct {
	ctx   context.Context
	delay time.Duration
	fn    func(ctx context.Context)

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	running sync.WaitGroup
}

// New returns a debouncer that runs fn once delay has passed without a new
// Trigger. Cancelling ctx drops any pending run.
func New(ctx context.Context, delay time.Duration, fn func(ctx context.Context)) *Debouncer {
	d := &Debouncer{
		ctx:   ctx,
		delay: delay,
		fn:    fn,
	}

	go func() {
		<-ctx.Done()
		d.Stop()
	}()

	return d
}

func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.ctx.Err() != nil {
		return
	}

	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = true
	d.timer = time.AfterFunc(d.delay, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if !d.pending || d.ctx.Err() != nil {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.running.Add(1)
	d.mu.Unlock()

	defer d.running.Done()
	d.fn(d.ctx)
}

// Flush runs a pending call immediately on the caller's goroutine. It also
// waits for a timer-driven call that is already running.
func (d *Debouncer) Flush(ctx context.Context) {
	defer d.running.Wait()

	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	d.fn(ctx)
}

// Stop drops a pending call without running it.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
	}
}

func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.pending
}
