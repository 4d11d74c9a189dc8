// Package debounce coalesces bursts of calls into one call after a quiet period.
package debounce

import (
	"sync"
	"time"
)

// Debouncer owns a single cancellable timer. Every Trigger restarts it, so fn runs
// once, delay after the last Trigger.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func()
	timer   *time.Timer
	gen     uint64
	pending bool
}

func New(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending = true
	d.timer = time.AfterFunc(d.delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || !d.pending {
		d.mu.Unlock()
		return
	}
	d.pending = false
	d.mu.Unlock()

	d.fn()
}

// Flush runs fn immediately if a call is pending and reports whether it did.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if !d.pending {
		d.mu.Unlock()
		return false
	}
	d.stopLocked()
	d.mu.Unlock()

	d.fn()
	return true
}

// Stop cancels a pending call and reports whether one was cancelled.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	was := d.pending
	d.stopLocked()
	return was
}

func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.pending = false
}
