package app

import (
	"sync"
	"time"
)

// Debouncer coalesces a burst of Trigger calls into one callback
// invocation, fired window after the last Trigger. It is the single
// scheduling primitive shared by every refresh path.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	fn      func()
	timer   *time.Timer
	stopped bool
}

func NewDebouncer(window time.Duration, fn func()) *Debouncer {
	return &Debouncer{window: window, fn: fn}
}

// Trigger arms the timer, or resets it if already armed.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Reset(d.window)
		return
	}
	d.timer = time.AfterFunc(d.window, d.fire)
}

func (d *Debouncer) fire() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	fn := d.fn
	d.mu.Unlock()
	fn()
}

// Pending reports whether a fire is currently armed.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any armed fire and refuses further triggers.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
