//go:build linux

package thread

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// setCurrentThreadPriority uses setpriority(2) with a thread id, which Linux applies to that
// single thread rather than the whole process.
func setCurrentThreadPriority(p Priority) error {
	tid := unix.Gettid()
	if err := unix.Setpriority(unix.PRIO_PROCESS, tid, p.niceValue()); err != nil {
		return fmt.Errorf("setpriority tid %d nice %d: %w", tid, p.niceValue(), err)
	}
	return nil
}

// currentNice reports the nice value of the calling thread.
func currentNice() (int, error) {
	// getpriority(2) returns 20-nice on Linux to keep the result non-negative.
	v, err := unix.Getpriority(unix.PRIO_PROCESS, unix.Gettid())
	if err != nil {
		return 0, err
	}
	return 20 - v, nil
}
