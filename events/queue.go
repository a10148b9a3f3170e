package events

import (
	"sync"
)

// Queue is the FIFO buffer behind one channel endpoint. It is written by
// the remote publisher and read by the local consumer; no other writer
// is permitted. Order is preserved exactly as published.
type Queue struct {
	mu       sync.Mutex
	events   []Event
	finished bool
}

// Push appends an event to the tail of the queue.
func (q *Queue) Push(ev Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.events = append(q.events, ev)
}

// TryPopNext removes and returns the head event. Non-blocking; the
// second return value is false when the queue is empty.
func (q *Queue) TryPopNext() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.events) == 0 {
		return Event{}, false
	}
	ev := q.events[0]
	q.events = q.events[1:]
	return ev, true
}

// MarkFinished records that the publisher will send no further events.
func (q *Queue) MarkFinished() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.finished = true
}

// Finished reports whether the publisher has signaled completion.
func (q *Queue) Finished() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.finished
}

// Len returns the number of buffered events.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}
