// Package thread adjusts scheduling priority of the calling OS thread.
//
// The drivers lock their goroutines to OS threads, so raising the priority of the current thread
// raises the priority of exactly one driver.
package thread

import "errors"

// ErrUnsupported is returned on platforms without per-thread priority control.
var ErrUnsupported = errors.New("thread priority is not supported on this platform")

// Priority is a scheduling priority level.
type Priority int

const (
	// PriorityNormal leaves the thread at the default nice value.
	PriorityNormal Priority = iota
	// PriorityHigh raises the thread moderately.
	PriorityHigh
	// PriorityMax requests the highest non-realtime priority.
	PriorityMax
)

// niceValue maps a Priority to a Unix nice value.
func (p Priority) niceValue() int {
	switch p {
	case PriorityHigh:
		return -10
	case PriorityMax:
		return -20
	default:
		return 0
	}
}

// Raise sets the priority of the calling OS thread. The caller must have called
// runtime.LockOSThread, otherwise the goroutine may migrate and the change applies to an
// arbitrary thread.
//
// Failure is expected without elevated privileges; callers treat it as advisory.
//
// Parameters:
//   - p: the requested priority
//
// Returns:
//   - error: ErrUnsupported, or the OS error if the request was denied
func Raise(p Priority) error {
	return setCurrentThreadPriority(p)
}
