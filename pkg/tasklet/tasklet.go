// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Streamhouse (https://www.streamhouse.dev/).
// Copyright 2026 Streamhouse, Inc.

// Package tasklet implements the cooperative task driving one user
// processor. The tasklet feeds the processor items from several
// ordered inbound streams, merges the watermarks observed across them
// and forwards processed items and coalesced watermarks downstream,
// honoring outbox backpressure at every write.
package tasklet

import (
	"time"

	"github.com/streamhouse/stream-engine/pkg/processor"
	"github.com/streamhouse/stream-engine/pkg/progress"
	"github.com/streamhouse/stream-engine/pkg/stream"
	"github.com/streamhouse/stream-engine/pkg/watermark"
)

// A Tasklet drives one processor. It is single-threaded cooperative:
// Call performs at most one step and never blocks; the external
// scheduler serializes calls and re-invokes according to its own
// policy. Any failure of the user processor surfaces to the caller
// unchanged.
type Tasklet struct {
	proc     processor.Processor
	inbounds []stream.Inbound
	outboxes []stream.Outbox
	coal     *watermark.Coalescer

	inbox        *stream.Inbox
	inboxOrdinal int
	rr           int
	streamDone   []bool
	doneCount    int

	pendingWm  watermark.Watermark
	hasPending bool
	wmAbsorbed bool
	emitIdx    int

	done bool
}

// New returns an initialized Tasklet and calls the processor's Init.
// maxRetain is how long a watermark emission waits on an inbound stream
// that has produced no watermark before excluding it from the minimum;
// negative retains indefinitely.
func New(proc processor.Processor, inbounds []stream.Inbound, outboxes []stream.Outbox, maxRetain time.Duration) *Tasklet {
	t := &Tasklet{
		proc:       proc,
		inbounds:   inbounds,
		outboxes:   outboxes,
		coal:       watermark.NewCoalescer(len(inbounds), maxRetain),
		inbox:      stream.NewInbox(),
		streamDone: make([]bool, len(inbounds)),
	}
	proc.Init(outboxes, processor.Context{Parallelism: 1, Index: 0})
	return t
}

// Call performs at most one step of work and reports whether it made
// progress. Once Done has been returned, every later call returns
// WasAlreadyDone.
func (t *Tasklet) Call(nowNanos int64) progress.State {
	if t.done {
		return progress.WasAlreadyDone
	}

	// a half-finished watermark resumes before any new intake
	if t.hasPending {
		made := t.advancePendingWm()
		return progress.ValueOf(made, false)
	}

	made := false
	hadItem := false
	if t.inbox.Len() > 0 {
		// leftovers from a previous Process call are re-presented
		hadItem = true
		made = t.processInbox()
	} else if t.doneCount < len(t.inbounds) {
		hadItem, made = t.intakeOne()
	}

	if !hadItem && t.doneCount < len(t.inbounds) {
		if t.proc.TryProcess() {
			made = true
		}
	}

	if wm, ok := t.coal.Eligible(nowNanos); ok {
		t.pendingWm = wm
		t.hasPending = true
		t.wmAbsorbed = false
		t.emitIdx = 0
		t.advancePendingWm()
		return progress.MadeProgress
	}

	if t.doneCount == len(t.inbounds) && t.inbox.Len() == 0 {
		if t.proc.Complete() {
			t.done = true
			return progress.Done
		}
		return progress.MadeProgress
	}

	return progress.ValueOf(made, false)
}

// intakeOne picks the next non-empty inbound stream in round-robin
// order and takes one step on its head: a run of data items goes to
// the processor, a watermark is recorded, an end-of-stream marker
// retires the stream. hadItem is false when every stream was empty.
func (t *Tasklet) intakeOne() (hadItem, made bool) {
	n := len(t.inbounds)
	for i := 0; i < n; i++ {
		ord := (t.rr + i) % n
		if t.streamDone[ord] {
			continue
		}
		inb := t.inbounds[ord]
		head, ok := inb.Peek()
		if !ok {
			continue
		}
		t.rr = (ord + 1) % n

		switch h := head.(type) {
		case watermark.Watermark:
			t.coal.Observe(ord, h)
			inb.Remove()
			return true, true
		case stream.EndOfStream:
			inb.Remove()
			t.streamDone[ord] = true
			t.doneCount++
			t.coal.MarkDone(ord)
			return true, true
		default:
			// hand the processor the leading run of data items
			t.inbox.Add(head)
			inb.Remove()
			for {
				next, ok := inb.Peek()
				if !ok || !isData(next) {
					break
				}
				t.inbox.Add(next)
				inb.Remove()
			}
			t.inboxOrdinal = ord
			return true, t.processInbox()
		}
	}
	return false, false
}

func isData(item interface{}) bool {
	switch item.(type) {
	case watermark.Watermark, stream.EndOfStream:
		return false
	default:
		return true
	}
}

// processInbox re-presents the current inbox to the processor. Items
// the processor leaves behind are backpressure; removing at least one
// counts as progress.
func (t *Tasklet) processInbox() bool {
	before := t.inbox.Len()
	t.proc.Process(t.inboxOrdinal, t.inbox)
	return t.inbox.Len() < before
}

// advancePendingWm drives the pending watermark forward: first until
// the processor has absorbed it, then offering the watermark itself to
// every outbox in order. Either stage may be refused; the tasklet
// yields and resumes exactly where it stopped on the next call.
func (t *Tasklet) advancePendingWm() bool {
	made := false
	if !t.wmAbsorbed {
		made = true
		if !t.proc.TryProcessWatermark(t.pendingWm) {
			return made
		}
		t.wmAbsorbed = true
	}
	for t.emitIdx < len(t.outboxes) {
		if !t.outboxes[t.emitIdx].Offer(t.pendingWm) {
			return made
		}
		t.emitIdx++
		made = true
	}
	t.coal.Emitted(t.pendingWm)
	t.hasPending = false
	return true
}
