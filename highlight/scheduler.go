package highlight

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a scheduled pass runs.
const DefaultDebounce = 50 * time.Millisecond

// Scheduler debounces highlight requests: a burst of edits produces a single
// pass once the buffer has been quiet for the configured delay. The callback
// runs on a timer goroutine; callers that own single-threaded state must
// hand it back to their own goroutine.
type Scheduler struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
}

// NewScheduler returns a scheduler with the given delay. A non-positive
// delay selects DefaultDebounce.
func NewScheduler(delay time.Duration) *Scheduler {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Scheduler{delay: delay}
}

// Schedule arranges for fn to run after the delay, cancelling any pass that
// has not started yet.
func (s *Scheduler) Schedule(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, fn)
}

// Stop cancels a pending pass.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
