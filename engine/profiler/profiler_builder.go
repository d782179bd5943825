package profiler

import (
	"time"

	"github.com/Carmen-Shannon/oxy-view/engine/clock"
)

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often statistics are logged. Values <= 0 are ignored.
//
// Parameters:
//   - interval: time between reports
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithClock sets the time source used to measure intervals.
//
// Parameters:
//   - c: the clock
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithClock(c clock.Clock) ProfilerBuilderOption {
	return func(p *Profiler) {
		if c != nil {
			p.clock = c
		}
	}
}

// WithDetail appends the result of fn to every report.
//
// Parameters:
//   - fn: returns extra text such as driver-specific counters
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithDetail(fn func() string) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.detail = fn
	}
}
