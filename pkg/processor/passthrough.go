// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Streamhouse (https://www.streamhouse.dev/).
// Copyright 2026 Streamhouse, Inc.

package processor

import (
	"github.com/streamhouse/stream-engine/pkg/stream"
	"github.com/streamhouse/stream-engine/pkg/watermark"
)

// Passthrough forwards every data item to every outbox unchanged and
// absorbs a watermark as soon as no item is in flight. It holds at most
// one item in flight,
// so a refused offer is retried on the next call without loss.
type Passthrough struct {
	outboxes   []stream.Outbox
	pending    interface{}
	pendingAt  int
	hasPending bool
}

// NewPassthrough returns an initialized Passthrough
func NewPassthrough() *Passthrough {
	return &Passthrough{}
}

// Init implements Processor
func (p *Passthrough) Init(outboxes []stream.Outbox, ctx Context) {
	p.outboxes = outboxes
}

// Process forwards items from the inbox until one is refused downstream
func (p *Passthrough) Process(ordinal int, inbox *stream.Inbox) {
	for {
		if p.hasPending && !p.flushPending() {
			return
		}
		item, ok := inbox.Peek()
		if !ok {
			return
		}
		inbox.Remove()
		p.pending = item
		p.pendingAt = 0
		p.hasPending = true
	}
}

// TryProcessWatermark implements Processor; nothing is buffered per
// watermark, so absorption only waits on the in-flight item
func (p *Passthrough) TryProcessWatermark(wm watermark.Watermark) bool {
	if p.hasPending {
		return p.flushPending()
	}
	return true
}

// TryProcess retries the in-flight item while idle
func (p *Passthrough) TryProcess() bool {
	if p.hasPending {
		return p.flushPending()
	}
	return false
}

// Complete implements Processor
func (p *Passthrough) Complete() bool {
	if p.hasPending {
		return p.flushPending()
	}
	return true
}

// flushPending offers the in-flight item to the remaining outboxes,
// resuming at the one that refused it last time
func (p *Passthrough) flushPending() bool {
	for p.pendingAt < len(p.outboxes) {
		if !p.outboxes[p.pendingAt].Offer(p.pending) {
			return false
		}
		p.pendingAt++
	}
	p.pending = nil
	p.hasPending = false
	return true
}
