package search

import (
	"sync"
	"time"
)

// DefaultDelay is the debounce delay of the search box.
const DefaultDelay = 250 * time.Millisecond

// Debouncer delivers only the last of a burst of queries, once the input has
// been quiet for the delay.
type Debouncer struct {
	delay time.Duration
	fn    func(string)

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// NewDebouncer calls fn with the latest query after delay of quiet.
func NewDebouncer(delay time.Duration, fn func(string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger records a new query and restarts the quiet period.
func (d *Debouncer) Trigger(q string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := gen == d.gen
		d.mu.Unlock()
		if current {
			d.fn(q)
		}
	})
}

// Stop drops any pending query.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
}
