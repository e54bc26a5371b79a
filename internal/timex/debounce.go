package timex

import (
	"sync"
	"time"
)

// Debouncer owns a single cancellable timer. Schedule replaces any pending
// callback with a new one, so only the most recent schedule can ever fire.
// The zero value is ready to use.
//
// The callback runs on its own goroutine (time.AfterFunc semantics) and must
// do its own locking and error handling.
type Debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
}

// Schedule arms the timer to run fn after delay, cancelling any previously
// scheduled callback that has not fired yet.
func (d *Debouncer) Schedule(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(delay, fn)
}

// Cancel stops the pending callback, if any. A callback that has already
// started running is not interrupted.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
