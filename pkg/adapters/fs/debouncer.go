package fs

import (
	"sync"
	"time"

	"github.com/aretw0/notebook/pkg/core"
)

// debouncer coalesces bursts of events per path and fires the latest one
// after the path has been quiet for the configured delay.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		pending: make(map[string]*time.Timer),
	}
}

// add schedules fn(e), replacing any event still pending for the same path.
func (d *debouncer) add(e core.Event, fn func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if t, ok := d.pending[e.Path]; ok && t.Stop() {
		// The replaced timer will never run, release its slot.
		d.wg.Done()
	}

	d.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()

		d.mu.Lock()
		if d.pending[e.Path] == timer {
			delete(d.pending, e.Path)
		}
		stopped := d.stopped
		d.mu.Unlock()

		if !stopped {
			fn(e)
		}
	})
	d.pending[e.Path] = timer
}

// stopAndWait drops pending events and waits up to timeout for running callbacks.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for path, t := range d.pending {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.pending, path)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}
