// Package snapshot provides a single-slot, latest-wins handoff between one producer goroutine and
// one consumer goroutine.
package snapshot

import "sync/atomic"

// Channel holds at most one pending value. Publishing replaces any value the consumer has not yet
// taken, so the consumer only ever sees the most recent publish. It is deliberately lossy.
//
// Publish must only be called from a single goroutine, and TryTake from a single (other) goroutine.
type Channel[T any] struct {
	slot chan T

	published  atomic.Uint64
	superseded atomic.Uint64
}

// NewChannel creates an empty channel.
//
// Returns:
//   - *Channel[T]: the new channel
func NewChannel[T any]() *Channel[T] {
	return &Channel[T]{
		slot: make(chan T, 1),
	}
}

// Publish stores v, discarding any unconsumed value. It never blocks.
//
// Parameters:
//   - v: the value to publish (copied)
func (c *Channel[T]) Publish(v T) {
	c.published.Add(1)
	select {
	case c.slot <- v:
		return
	default:
	}

	// The slot is full: drop the stale value. The consumer may win the race and take it first,
	// either way the slot is empty afterwards and only this goroutine sends.
	select {
	case <-c.slot:
		c.superseded.Add(1)
	default:
	}
	c.slot <- v
}

// TryTake returns the most recent value published since the last successful take.
//
// Returns:
//   - T: the value, or the zero value if none is pending
//   - bool: true if a value was pending
func (c *Channel[T]) TryTake() (T, bool) {
	select {
	case v := <-c.slot:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Published returns the number of Publish calls so far.
func (c *Channel[T]) Published() uint64 {
	return c.published.Load()
}

// Superseded returns how many published values were replaced before being taken.
func (c *Channel[T]) Superseded() uint64 {
	return c.superseded.Load()
}
