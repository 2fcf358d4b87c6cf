package board

import (
	"sync"
	"time"
)

// DefaultRecomputeDelay is how long the board must stay still before
// output/diff recomputation fires.
const DefaultRecomputeDelay = 250 * time.Millisecond

// Recomputer debounces the reconstruct/analyze/interpret pass that
// follows board mutations. Rapid successive mutations keep resetting
// the timer, so only the settled board is analyzed. This is purely a
// throttle: any mutation after a window invalidates the pending run
// and schedules a fresh one, so staleness never survives.
type Recomputer struct {
	mu    sync.Mutex
	timer *time.Timer
	delay time.Duration
}

// NewRecomputer creates a debouncer with the given settle delay.
func NewRecomputer(delay time.Duration) *Recomputer {
	if delay <= 0 {
		delay = DefaultRecomputeDelay
	}
	return &Recomputer{delay: delay}
}

// Invalidate notes a board mutation and (re)schedules fn to run after
// the settle delay.
func (r *Recomputer) Invalidate(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.delay, fn)
}

// Flush cancels any pending run and executes fn immediately. Submit
// uses this so validation never sees a stale analysis.
func (r *Recomputer) Flush(fn func()) {
	r.Cancel()
	fn()
}

// Cancel drops any pending recomputation.
func (r *Recomputer) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}
