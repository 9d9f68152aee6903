// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Streamhouse (https://www.streamhouse.dev/).
// Copyright 2026 Streamhouse, Inc.

package stream

import "sync"

// Queue is a bounded single-producer single-consumer edge implementing
// both Outbox and Inbound. The mutex only guards the handoff between
// the two sides; each side must itself be single-threaded.
type Queue struct {
	mu      sync.Mutex
	items   []interface{}
	cap     int
	ordinal int
}

// NewQueue returns an empty edge with the given consumer-side ordinal
// and capacity
func NewQueue(ordinal, capacity int) *Queue {
	return &Queue{
		cap:     capacity,
		ordinal: ordinal,
	}
}

// Offer appends item unless the queue is full
func (q *Queue) Offer(item interface{}) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) >= q.cap {
		return false
	}
	q.items = append(q.items, item)
	return true
}

// Peek returns the head item without consuming it
func (q *Queue) Peek() (interface{}, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	return q.items[0], true
}

// Poll returns and consumes the head item
func (q *Queue) Poll() (interface{}, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

// Remove consumes the head item
func (q *Queue) Remove() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) > 0 {
		q.items = q.items[1:]
	}
}

// Ordinal returns the consumer-side index of this edge
func (q *Queue) Ordinal() int {
	return q.ordinal
}

// Len returns the number of buffered items
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
