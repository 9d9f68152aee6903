// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Streamhouse (https://www.streamhouse.dev/).
// Copyright 2026 Streamhouse, Inc.

package watermark

import (
	"fmt"
	"math"
	"time"
)

// A Watermark asserts that no item with a smaller timestamp will
// arrive on the stream that emitted it. Equality and ordering are on
// the integer.
type Watermark int64

func (w Watermark) String() string {
	return fmt.Sprintf("wm(%d)", int64(w))
}

// none marks a stream on which no watermark has been observed yet, and
// an unset retention deadline
const none = math.MinInt64

// A Coalescer merges the watermarks observed across several ordered
// inbound streams into a single monotonic sequence. The minimum over
// all streams is eligible once every stream has produced a watermark.
// With a non-negative retention interval, a stream that has produced
// no watermark at all stops holding the others back once the retention
// deadline passes; a stream that has produced one keeps holding the
// minimum at its last watermark however long it then stays quiet.
type Coalescer struct {
	retain      time.Duration // negative means retain indefinitely
	wms         []int64
	done        []bool
	lastEmitted int64
	// deadline is when the minimum-watermark constraint may be
	// relaxed: it starts counting when an observed watermark is first
	// held back by a stream that has produced none
	deadline int64
}

// NewCoalescer returns a Coalescer over streamCount inbound streams
func NewCoalescer(streamCount int, retain time.Duration) *Coalescer {
	wms := make([]int64, streamCount)
	for i := range wms {
		wms[i] = none
	}
	return &Coalescer{
		retain:      retain,
		wms:         wms,
		done:        make([]bool, streamCount),
		lastEmitted: none,
		deadline:    none,
	}
}

// Observe records a watermark seen at the head of the given stream.
// Watermark values inside one stream are non-decreasing, but Observe
// tolerates regressions by keeping the maximum.
func (c *Coalescer) Observe(ordinal int, wm Watermark) {
	if int64(wm) > c.wms[ordinal] {
		c.wms[ordinal] = int64(wm)
	}
}

// MarkDone excludes a stream that reached end-of-stream from coalescing
func (c *Coalescer) MarkDone(ordinal int) {
	c.done[ordinal] = true
}

// Eligible computes the watermark that may be forwarded now, if any.
// When every participating stream has produced a watermark, the result
// is their minimum, provided it advances past the last emitted value.
// Otherwise, with a non-negative retention interval, the minimum over
// the streams that did produce one becomes eligible once the retention
// deadline passes.
func (c *Coalescer) Eligible(nowNanos int64) (Watermark, bool) {
	m := int64(math.MaxInt64)
	contributors := 0
	silent := 0
	for i := range c.wms {
		if c.done[i] {
			continue
		}
		if c.wms[i] == none {
			silent++
			continue
		}
		contributors++
		if c.wms[i] < m {
			m = c.wms[i]
		}
	}
	if silent == 0 {
		c.deadline = none
	}
	if contributors == 0 || m <= c.lastEmitted {
		return 0, false
	}
	if silent == 0 {
		return Watermark(m), true
	}
	// some stream has produced nothing while others advanced
	if c.retain < 0 {
		return 0, false
	}
	if c.deadline == none {
		c.deadline = nowNanos + c.retain.Nanoseconds()
	}
	if nowNanos < c.deadline {
		return 0, false
	}
	c.deadline = none
	return Watermark(m), true
}

// Emitted records that wm was forwarded downstream. The emitted
// sequence is strictly monotonic; lastEmitted is a floor under every
// later minimum.
func (c *Coalescer) Emitted(wm Watermark) {
	c.lastEmitted = int64(wm)
}
