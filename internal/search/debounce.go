package search

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a suggestion request is sent.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer delays fn until wait has elapsed since the last Trigger. Rapid
// triggers collapse into one call made with the latest argument.
type Debouncer struct {
	wait time.Duration
	fn   func(string)

	mu      sync.Mutex
	timer   *time.Timer
	pending string
	gen     uint64
	stopped bool
}

func NewDebouncer(wait time.Duration, fn func(string)) *Debouncer {
	if wait <= 0 {
		wait = DefaultDebounce
	}
	return &Debouncer{wait: wait, fn: fn}
}

// Trigger schedules fn(arg), replacing any call that has not fired yet.
func (d *Debouncer) Trigger(arg string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending = arg
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	gen := d.gen
	d.timer = time.AfterFunc(d.wait, func() { d.fire(gen) })
}

// Cancel drops the pending call, if any. Calls already running are unaffected.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = ""
}

// Stop cancels the pending call and ignores every later Trigger.
func (d *Debouncer) Stop() {
	d.Cancel()

	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
}

// fire runs fn unless a later Trigger or Cancel superseded generation gen.
// Stopping a timer does not stop a callback that has already been scheduled.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.stopped {
		d.mu.Unlock()
		return
	}
	arg := d.pending
	d.timer = nil
	d.pending = ""
	d.mu.Unlock()

	d.fn(arg)
}
