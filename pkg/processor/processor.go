// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Streamhouse (https://www.streamhouse.dev/).
// Copyright 2026 Streamhouse, Inc.

// Package processor defines the contract between a user processor and
// the tasklet driving it.
package processor

import (
	"github.com/streamhouse/stream-engine/pkg/stream"
	"github.com/streamhouse/stream-engine/pkg/watermark"
)

// Context carries the static facts a processor may need at Init time
type Context struct {
	// Parallelism is the total number of sibling instances of this processor
	Parallelism int
	// Index is this instance's position in [0, Parallelism)
	Index int
}

// A Processor is the user-supplied unit of computation driven by a
// tasklet. All methods are invoked from a single goroutine; none of
// them may block.
type Processor interface {
	// Init is called once before any other method, with the outboxes
	// the processor writes to
	Init(outboxes []stream.Outbox, ctx Context)

	// Process drains or partially drains one inbox of data items read
	// from the inbound stream with the given ordinal. Items remaining
	// in the inbox after return are re-presented on the next call.
	Process(ordinal int, inbox *stream.Inbox)

	// TryProcessWatermark may write to the outboxes; it returns true
	// when the watermark has been fully absorbed. On false it is
	// re-called with the same watermark.
	TryProcessWatermark(wm watermark.Watermark) bool

	// TryProcess is the idle hook, invoked when no inbound stream had
	// an item. Its return value is advisory progress.
	TryProcess() bool

	// Complete is called after every inbound stream reached
	// end-of-stream; it returns true when the processor is fully drained
	Complete() bool
}
