// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Streamhouse (https://www.streamhouse.dev/).
// Copyright 2026 Streamhouse, Inc.

package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/streamhouse/stream-engine/pkg/stream"
	"github.com/streamhouse/stream-engine/pkg/watermark"
)

func TestPassthroughForwardsToEveryOutbox(t *testing.T) {
	out1 := stream.NewQueue(0, 10)
	out2 := stream.NewQueue(1, 10)
	p := NewPassthrough()
	p.Init([]stream.Outbox{out1, out2}, Context{Parallelism: 1, Index: 0})

	inbox := stream.NewInbox()
	inbox.Add("a")
	inbox.Add("b")
	p.Process(0, inbox)

	assert.Equal(t, 0, inbox.Len())
	for _, out := range []*stream.Queue{out1, out2} {
		a, _ := out.Poll()
		b, _ := out.Poll()
		assert.Equal(t, "a", a)
		assert.Equal(t, "b", b)
	}
	assert.True(t, p.TryProcessWatermark(watermark.Watermark(1)))
	assert.True(t, p.Complete())
}

func TestPassthroughRetainsRefusedItem(t *testing.T) {
	full := stream.NewQueue(0, 1)
	p := NewPassthrough()
	p.Init([]stream.Outbox{full}, Context{Parallelism: 1, Index: 0})

	inbox := stream.NewInbox()
	inbox.Add("a")
	inbox.Add("b")
	p.Process(0, inbox)

	// "a" went through, "b" is in flight, nothing was dropped
	assert.Equal(t, 0, inbox.Len())
	assert.False(t, p.TryProcessWatermark(watermark.Watermark(1)))
	assert.False(t, p.Complete())

	got, _ := full.Poll()
	assert.Equal(t, "a", got)
	assert.True(t, p.Complete())
	got, _ = full.Poll()
	assert.Equal(t, "b", got)
}
