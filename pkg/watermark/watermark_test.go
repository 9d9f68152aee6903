// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Streamhouse (https://www.streamhouse.dev/).
// Copyright 2026 Streamhouse, Inc.

package watermark

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ms(n int64) int64 {
	return n * int64(time.Millisecond)
}

func TestWatermarkString(t *testing.T) {
	assert.Equal(t, "wm(123)", Watermark(123).String())
}

func TestSingleStreamForwardsImmediately(t *testing.T) {
	c := NewCoalescer(1, -1)

	_, ok := c.Eligible(0)
	assert.False(t, ok)

	c.Observe(0, Watermark(123))
	wm, ok := c.Eligible(0)
	assert.True(t, ok)
	assert.Equal(t, Watermark(123), wm)
	c.Emitted(wm)

	// already emitted, nothing new
	_, ok = c.Eligible(0)
	assert.False(t, ok)
}

func TestMinimumAcrossStreams(t *testing.T) {
	c := NewCoalescer(2, -1)

	c.Observe(0, Watermark(100))
	_, ok := c.Eligible(0)
	assert.False(t, ok)

	c.Observe(1, Watermark(99))
	wm, ok := c.Eligible(0)
	assert.True(t, ok)
	assert.Equal(t, Watermark(99), wm)
	c.Emitted(wm)

	// the slower stream catching up raises the minimum
	c.Observe(1, Watermark(150))
	wm, ok = c.Eligible(0)
	assert.True(t, ok)
	assert.Equal(t, Watermark(100), wm)
}

func TestEmittedSequenceIsStrictlyMonotonic(t *testing.T) {
	c := NewCoalescer(1, -1)

	c.Observe(0, Watermark(100))
	wm, ok := c.Eligible(0)
	assert.True(t, ok)
	c.Emitted(wm)

	// a regressed observation never lowers the minimum
	c.Observe(0, Watermark(50))
	_, ok = c.Eligible(0)
	assert.False(t, ok)

	c.Observe(0, Watermark(101))
	wm, ok = c.Eligible(0)
	assert.True(t, ok)
	assert.Equal(t, Watermark(101), wm)
}

func TestInfiniteRetentionWaitsForever(t *testing.T) {
	c := NewCoalescer(2, -1)
	c.Observe(0, Watermark(100))

	_, ok := c.Eligible(ms(0))
	assert.False(t, ok)
	_, ok = c.Eligible(ms(1000000))
	assert.False(t, ok)
}

func TestRetentionDeadlineRelaxesTheMinimum(t *testing.T) {
	c := NewCoalescer(2, 16*time.Millisecond)
	c.Observe(1, Watermark(100))

	// the first blocked check starts the retention clock
	_, ok := c.Eligible(ms(400))
	assert.False(t, ok)
	_, ok = c.Eligible(ms(410))
	assert.False(t, ok)

	wm, ok := c.Eligible(ms(416))
	assert.True(t, ok)
	assert.Equal(t, Watermark(100), wm)
	c.Emitted(wm)

	// the next imbalance starts a fresh deadline
	c.Observe(1, Watermark(200))
	_, ok = c.Eligible(ms(417))
	assert.False(t, ok)
	wm, ok = c.Eligible(ms(433))
	assert.True(t, ok)
	assert.Equal(t, Watermark(200), wm)
}

func TestSilentStreamCatchingUpCancelsTheDeadline(t *testing.T) {
	c := NewCoalescer(2, 16*time.Millisecond)
	c.Observe(0, Watermark(100))
	_, ok := c.Eligible(ms(0))
	assert.False(t, ok)

	c.Observe(1, Watermark(50))
	wm, ok := c.Eligible(ms(1))
	assert.True(t, ok)
	assert.Equal(t, Watermark(50), wm)
	c.Emitted(wm)

	// both streams participate again; no relaxation at the old deadline
	_, ok = c.Eligible(ms(100))
	assert.False(t, ok)
}

func TestDoneStreamIsExcluded(t *testing.T) {
	c := NewCoalescer(2, -1)
	c.Observe(0, Watermark(100))
	c.MarkDone(1)

	wm, ok := c.Eligible(0)
	assert.True(t, ok)
	assert.Equal(t, Watermark(100), wm)
	c.Emitted(wm)

	c.MarkDone(0)
	_, ok = c.Eligible(0)
	assert.False(t, ok)
}
