// Package debounce delays propagation of a rapidly changing value until it has
// been stable for a fixed interval.
package debounce

import (
	"sync"
	"time"
)

// Debouncer holds the latest pushed value and commits it once no newer value
// arrived for the configured interval. An interval <= 0 commits synchronously.
type Debouncer[T any] struct {
	mu         sync.Mutex
	interval   time.Duration
	commit     func(T)
	timer      *time.Timer
	pending    T
	hasPending bool
	gen        uint64
	stopped    bool
}

func New[T any](interval time.Duration, commit func(T)) *Debouncer[T] {
	return &Debouncer[T]{interval: interval, commit: commit}
}

// Push records v and restarts the timer.
func (d *Debouncer[T]) Push(v T) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	if d.interval <= 0 {
		d.mu.Unlock()
		d.commit(v)
		return
	}

	d.gen++
	gen := d.gen
	d.pending = v
	d.hasPending = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.interval, func() { d.fire(gen) })
	d.mu.Unlock()
}

func (d *Debouncer[T]) fire(gen uint64) {
	d.mu.Lock()
	// a newer Push, Cancel or Stop superseded this timer
	if gen != d.gen || d.stopped || !d.hasPending {
		d.mu.Unlock()
		return
	}
	v := d.take()
	d.mu.Unlock()

	d.commit(v)
}

// take clears the pending slot. Caller holds mu.
func (d *Debouncer[T]) take() T {
	v := d.pending
	var zero T
	d.pending = zero
	d.hasPending = false
	d.timer = nil
	return v
}

// Pending returns the value waiting to be committed, if any.
func (d *Debouncer[T]) Pending() (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending, d.hasPending
}

// Flush commits the pending value now.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	if !d.hasPending || d.stopped {
		d.mu.Unlock()
		return
	}
	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	v := d.take()
	d.mu.Unlock()

	d.commit(v)
}

// Cancel drops the pending value without committing it.
func (d *Debouncer[T]) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.gen++
	if d.timer != nil {
		d.timer.Stop()
	}
	d.take()
}

// Stop cancels any pending value and turns further pushes into no-ops.
func (d *Debouncer[T]) Stop() {
	d.Cancel()

	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
}
