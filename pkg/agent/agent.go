// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Streamhouse (https://www.streamhouse.dev/).
// Copyright 2026 Streamhouse, Inc.

package main

import (
	"fmt"
	"time"

	"github.com/juju/clock"

	"github.com/streamhouse/stream-engine/pkg/config"
	"github.com/streamhouse/stream-engine/pkg/exec"
	"github.com/streamhouse/stream-engine/pkg/input/filetail"
	"github.com/streamhouse/stream-engine/pkg/message"
	"github.com/streamhouse/stream-engine/pkg/pipeline"
	"github.com/streamhouse/stream-engine/pkg/processor"
	"github.com/streamhouse/stream-engine/pkg/stream"
	"github.com/streamhouse/stream-engine/pkg/tasklet"
)

// An Agent is one running pipeline: the configured file sources, the
// watermarking tasklet forwarding their lines, and a sink printing the
// result
type Agent struct {
	sources []*filetail.Source
	worker  *exec.Worker
	sink    *stream.Queue
	done    chan struct{}
}

// Start wires the pipeline from the Engine config and starts it.
// Every sibling of every configured source feeds its own inbound edge
// of the tasklet.
func Start() (*Agent, error) {
	sourceConfigs, err := config.GetFileSources()
	if err != nil {
		return nil, err
	}
	taskletConfig := config.GetTasklet()

	numberOfEdges := 0
	for _, sourceConfig := range sourceConfigs {
		numberOfEdges += sourceConfig.Parallelism
	}
	pp := pipeline.NewProvider(numberOfEdges)
	pp.Start()

	a := &Agent{
		sink: stream.NewQueue(0, config.Engine.GetInt("chan_sizes")),
		done: make(chan struct{}),
	}
	for _, sourceConfig := range sourceConfigs {
		for id := 0; id < sourceConfig.Parallelism; id++ {
			sibling := *sourceConfig
			sibling.ID = id
			source, err := filetail.New(&sibling, pp.NextEdge(), clock.WallClock)
			if err != nil {
				a.Stop()
				return nil, err
			}
			a.sources = append(a.sources, source)
		}
	}

	t := tasklet.New(processor.NewPassthrough(), pp.Inbounds(), []stream.Outbox{a.sink}, taskletConfig.MaxWatermarkRetain())
	a.worker = exec.NewWorker(t, clock.WallClock)

	for _, source := range a.sources {
		source.Start()
	}
	a.worker.Start()
	go a.printSink()
	return a, nil
}

// printSink drains the sink to stdout
func (a *Agent) printSink() {
	for {
		item, ok := a.sink.Poll()
		if !ok {
			select {
			case <-a.done:
				return
			case <-time.After(10 * time.Millisecond):
			}
			continue
		}
		switch it := item.(type) {
		case message.Message:
			fmt.Println(string(it.Content()))
		default:
			fmt.Println(it)
		}
	}
}

// Stop stops the sources, then the tasklet worker
func (a *Agent) Stop() {
	for _, source := range a.sources {
		source.Stop()
	}
	if a.worker != nil {
		a.worker.Stop()
	}
	close(a.done)
}
