// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Streamhouse (https://www.streamhouse.dev/).
// Copyright 2026 Streamhouse, Inc.

// Package exec drives cooperative tasklets. It stands in for the
// engine's scheduler: each worker re-invokes one tasklet's Call,
// backing off briefly when a call reports no progress.
package exec

import (
	"sync"
	"time"

	"github.com/juju/clock"

	"github.com/streamhouse/stream-engine/pkg/progress"
)

// idleBackoff is how long a worker sleeps after a call that made no
// progress
const idleBackoff = time.Millisecond

// Callable is one cooperative unit of work. Call performs at most one
// step; nowNanos is the worker's monotonic clock reading, in
// nanoseconds since the worker started.
type Callable interface {
	Call(nowNanos int64) progress.State
}

// A Worker drives one Callable until it reports done
type Worker struct {
	callable Callable
	clk      clock.Clock

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewWorker returns an initialized Worker
func NewWorker(callable Callable, clk clock.Clock) *Worker {
	return &Worker{
		callable: callable,
		clk:      clk,
		done:     make(chan struct{}),
	}
}

// Start begins invoking the callable on a dedicated goroutine
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.run()
}

func (w *Worker) run() {
	defer w.wg.Done()
	start := w.clk.Now()
	for {
		select {
		case <-w.done:
			return
		default:
		}
		state := w.callable.Call(int64(w.clk.Now().Sub(start)))
		if state.IsDone() {
			return
		}
		if !state.MadeProgress() {
			select {
			case <-w.done:
				return
			case <-w.clk.After(idleBackoff):
			}
		}
	}
}

// Stop stops invoking the callable and waits for the worker to exit
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
	})
	w.wg.Wait()
}
