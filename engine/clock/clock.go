// Package clock abstracts the time source used by the simulation and render drivers so their
// pacing can be driven by hand in tests.
package clock

import (
	"runtime"
	"time"
)

// Clock is a monotonic time source that can also block for bounded intervals.
type Clock interface {
	// Now returns the current time.
	//
	// Returns:
	//   - time.Time: the current time
	Now() time.Time

	// Sleep blocks for d or until done is closed, whichever comes first.
	// A non-positive d yields the processor instead of sleeping.
	//
	// Parameters:
	//   - done: closed to abandon the sleep early
	//   - d: how long to sleep
	//
	// Returns:
	//   - bool: false if done was closed, true otherwise
	Sleep(done <-chan struct{}, d time.Duration) bool
}

// systemClock implements Clock on the runtime clock.
type systemClock struct{}

// System returns the wall clock. Times it returns carry a monotonic reading, so differences
// between them are immune to wall clock adjustments.
//
// Returns:
//   - Clock: the system clock
func System() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now()
}

func (systemClock) Sleep(done <-chan struct{}, d time.Duration) bool {
	if d <= 0 {
		select {
		case <-done:
			return false
		default:
		}
		runtime.Gosched()
		return true
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-done:
		return false
	case <-timer.C:
		return true
	}
}
