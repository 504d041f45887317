package extract

import (
	"sync"
	"time"
)

// DefaultQuietPeriod is how long the page must stay quiet after the last
// mutation before a re-extraction fires.
const DefaultQuietPeriod = 3 * time.Second

// Watcher debounces re-extraction on page mutation. Each Notify re-arms
// the quiet-period timer; when the timer fires with no extraction already
// running, the run callback is invoked once. A fire that arrives while a
// run is still in progress is skipped, not queued.
type Watcher struct {
	mu      sync.Mutex
	timer   *time.Timer
	quiet   time.Duration
	running bool
	stopped bool
	run     func()
}

// NewWatcher creates a Watcher invoking run after each quiet period.
func NewWatcher(quiet time.Duration, run func()) *Watcher {
	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}
	return &Watcher{quiet: quiet, run: run}
}

// Notify records a mutation event and re-arms the quiet-period timer.
func (w *Watcher) Notify() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.quiet, w.fire)
}

// fire runs the callback unless one is already in progress.
func (w *Watcher) fire() {
	w.mu.Lock()
	if w.stopped || w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	w.run()

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
}

// Stop cancels any pending fire. The watcher cannot be re-armed after.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}
