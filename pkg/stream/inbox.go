// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Streamhouse (https://www.streamhouse.dev/).
// Copyright 2026 Streamhouse, Inc.

package stream

// Inbox is the batch of data items handed to a processor's Process
// call. The processor removes the items it accepts; items left in the
// inbox are re-presented on the next call.
type Inbox struct {
	items []interface{}
}

// NewInbox returns an empty inbox
func NewInbox() *Inbox {
	return &Inbox{}
}

// Add appends an item to the batch
func (in *Inbox) Add(item interface{}) {
	in.items = append(in.items, item)
}

// Peek returns the head item without consuming it
func (in *Inbox) Peek() (interface{}, bool) {
	if len(in.items) == 0 {
		return nil, false
	}
	return in.items[0], true
}

// Poll returns and consumes the head item
func (in *Inbox) Poll() (interface{}, bool) {
	if len(in.items) == 0 {
		return nil, false
	}
	item := in.items[0]
	in.items = in.items[1:]
	return item, true
}

// Remove consumes the head item
func (in *Inbox) Remove() {
	if len(in.items) > 0 {
		in.items = in.items[1:]
	}
}

// Len returns the number of items left in the batch
func (in *Inbox) Len() int {
	return len(in.items)
}
