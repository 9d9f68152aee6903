// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Streamhouse (https://www.streamhouse.dev/).
// Copyright 2026 Streamhouse, Inc.

package config

// Technical constants

const (
	// ChanSizes is the capacity of the edges between processors
	ChanSizes = 100
)

// Business constants

const (
	// DefaultLinesPerBatch is the number of complete lines a file
	// source reads in one step before yielding
	DefaultLinesPerBatch = 64
	// DefaultWatchPollSeconds bounds how long a file source blocks on
	// its directory watcher when it has no other work
	DefaultWatchPollSeconds = 1
	// DefaultCharset decodes tailed files when no charset is configured
	DefaultCharset = "utf-8"
)
