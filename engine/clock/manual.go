package clock

import (
	"sync"
	"time"
)

// Manual is a Clock that only moves when told to. Sleep advances it by the requested duration
// instead of blocking, so a driver loop runs as fast as the test can step it.
type Manual struct {
	mu      sync.RWMutex
	current time.Time

	sleeps  []time.Duration
	onSleep func(d time.Duration)
}

// NewManual creates a manual clock starting at start.
//
// Parameters:
//   - start: the initial time
//
// Returns:
//   - *Manual: the manual clock
func NewManual(start time.Time) *Manual {
	return &Manual{current: start}
}

// Now returns the current manual time.
func (m *Manual) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Set moves the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = t
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = m.current.Add(d)
}

// OnSleep registers a hook invoked after every Sleep, with the clock already advanced.
// Tests use it to inject events or stop a loop at a chosen point.
func (m *Manual) OnSleep(hook func(d time.Duration)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onSleep = hook
}

// Sleeps returns a copy of every duration passed to Sleep, in call order.
func (m *Manual) Sleeps() []time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]time.Duration, len(m.sleeps))
	copy(out, m.sleeps)
	return out
}

// Sleep records d, advances the clock by d when positive and runs the sleep hook.
func (m *Manual) Sleep(done <-chan struct{}, d time.Duration) bool {
	m.mu.Lock()
	m.sleeps = append(m.sleeps, d)
	if d > 0 {
		m.current = m.current.Add(d)
	}
	hook := m.onSleep
	m.mu.Unlock()

	if hook != nil {
		hook(d)
	}

	select {
	case <-done:
		return false
	default:
		return true
	}
}
