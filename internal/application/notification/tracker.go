package notification

import "sync"

// CountTracker remembers the last observed order count and reports growth.
// The first observation only sets the baseline, so orders that existed before
// the tracker started never produce a notification.
type CountTracker struct {
	mu          sync.Mutex
	last        int64
	initialized bool
}

// NewCountTracker creates a tracker with no baseline
func NewCountTracker() *CountTracker {
	return &CountTracker{}
}

// Observe records n and returns how many orders were added since the previous
// observation. A shrinking or unchanged count returns 0.
func (t *CountTracker) Observe(n int64) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.initialized {
		t.initialized = true
		t.last = n
		return 0
	}

	delta := n - t.last
	t.last = n
	if delta < 0 {
		return 0
	}
	return delta
}

// Last returns the current baseline
func (t *CountTracker) Last() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Reset forgets the baseline
func (t *CountTracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.initialized = false
	t.last = 0
}
