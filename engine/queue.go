package engine

import (
	"context"
	"sync"

	"github.com/Lydiiiiia27/ups-delivery-system/world"
)

// EventQueue is an unbounded FIFO hand-off between the listener and the
// response handler.
type EventQueue struct {
	mu     sync.Mutex
	items  []*world.Responses
	closed bool
	ready  chan struct{}
}

func NewEventQueue() *EventQueue {
	return &EventQueue{ready: make(chan struct{}, 1)}
}

// Put appends resp. Puts after Close are dropped.
func (q *EventQueue) Put(resp *world.Responses) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.items = append(q.items, resp)
	q.mu.Unlock()
	q.signal()
}

func (q *EventQueue) signal() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

// Take blocks for the oldest envelope. It returns false once ctx is done or
// the queue is closed and empty.
func (q *EventQueue) Take(ctx context.Context) (*world.Responses, bool) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			resp := q.items[0]
			q.items[0] = nil
			q.items = q.items[1:]
			q.mu.Unlock()
			return resp, true
		}
		closed := q.closed
		q.mu.Unlock()
		if closed {
			return nil, false
		}

		select {
		case <-ctx.Done():
			return nil, false
		case <-q.ready:
		}
	}
}

// Close wakes a blocked Take. Envelopes already queued can still be taken.
func (q *EventQueue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
