// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Streamhouse (https://www.streamhouse.dev/).
// Copyright 2026 Streamhouse, Inc.

package pipeline

import (
	"github.com/streamhouse/stream-engine/pkg/config"
	"github.com/streamhouse/stream-engine/pkg/stream"
)

// A Provider owns the bounded edges connecting producers to consumers
// and hands them out round-robin, so a set of producers spreads across
// the available edges
type Provider struct {
	numberOfEdges  int
	capacity       int
	edges          []*stream.Queue
	currentEdgeIdx int
}

// NewProvider returns an initialized Provider
func NewProvider(numberOfEdges int) *Provider {
	return &Provider{
		numberOfEdges: numberOfEdges,
		capacity:      config.ChanSizes,
	}
}

// Start builds the edges
func (p *Provider) Start() {
	p.edges = make([]*stream.Queue, 0, p.numberOfEdges)
	for i := 0; i < p.numberOfEdges; i++ {
		p.edges = append(p.edges, stream.NewQueue(i, p.capacity))
	}
	p.currentEdgeIdx = 0
}

// NextEdge returns edges in a round-robin fashion
func (p *Provider) NextEdge() *stream.Queue {
	edge := p.edges[p.currentEdgeIdx]
	p.currentEdgeIdx = (p.currentEdgeIdx + 1) % p.numberOfEdges
	return edge
}

// Edges returns every edge in ordinal order
func (p *Provider) Edges() []*stream.Queue {
	return p.edges
}

// Inbounds returns every edge as the consumer-side stream contract
func (p *Provider) Inbounds() []stream.Inbound {
	inbounds := make([]stream.Inbound, len(p.edges))
	for i, edge := range p.edges {
		inbounds[i] = edge
	}
	return inbounds
}
