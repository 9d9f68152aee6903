// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Streamhouse (https://www.streamhouse.dev/).
// Copyright 2026 Streamhouse, Inc.

// Package stream defines the per-edge endpoints between processors:
// the pull-based consumer end of an ordered stream, the bounded
// producer end, and the bounded queue implementing both.
package stream

// EndOfStream is the terminal marker flowing through an edge after the
// last data item and watermark
type EndOfStream struct{}

func (EndOfStream) String() string {
	return "end-of-stream"
}

// Inbound is the consumer end of one ordered stream edge. Items are
// data items, watermark.Watermark values and the EndOfStream marker;
// within one edge their relative order is preserved.
type Inbound interface {
	// Peek returns the head item without consuming it
	Peek() (interface{}, bool)
	// Poll returns and consumes the head item
	Poll() (interface{}, bool)
	// Remove consumes the head item
	Remove()
	// Ordinal returns the stable index of this stream at its consumer
	Ordinal() int
}

// Outbox is the producer end of a bounded stream edge
type Outbox interface {
	// Offer attempts to append item to the edge. It returns false when
	// the downstream cannot accept the item now; the caller must retry
	// later with the same item.
	Offer(item interface{}) bool
}
