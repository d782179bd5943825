package event

import "sync"

// Queue is an unbounded FIFO of events shared by one producer (the dispatcher) and one consumer
// (a driver). The mutex is held only for the duration of Push or Drain, never while events are
// being handled.
type Queue struct {
	mu     sync.Mutex
	events []Event
}

// NewQueue creates an empty queue.
//
// Returns:
//   - *Queue: the new queue
func NewQueue() *Queue {
	return &Queue{
		events: make([]Event, 0, 64),
	}
}

// Push appends an event to the back of the queue.
//
// Parameters:
//   - e: the event to enqueue (copied)
func (q *Queue) Push(e Event) {
	q.mu.Lock()
	q.events = append(q.events, e)
	q.mu.Unlock()
}

// Drain removes every pending event and appends them, in push order, to dst.
// Passing the previous result back as dst[:0] lets the consumer reuse its buffer across passes.
//
// Parameters:
//   - dst: destination slice the events are appended to
//
// Returns:
//   - []Event: dst extended with the drained events
func (q *Queue) Drain(dst []Event) []Event {
	q.mu.Lock()
	dst = append(dst, q.events...)
	clear(q.events)
	q.events = q.events[:0]
	q.mu.Unlock()
	return dst
}

// Len returns the number of pending events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
