// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Streamhouse (https://www.streamhouse.dev/).
// Copyright 2026 Streamhouse, Inc.

package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// FileSourceConfig describes one tailed directory. Parallelism siblings
// share the directory and partition its files by name; ID selects this
// instance's share.
type FileSourceConfig struct {
	Directory        string `mapstructure:"directory"`
	Glob             string `mapstructure:"glob"`
	Charset          string `mapstructure:"charset"`
	Parallelism      int    `mapstructure:"parallelism"`
	ID               int    `mapstructure:"id"`
	LinesPerBatch    int    `mapstructure:"lines_per_batch"`
	WatchPollSeconds int    `mapstructure:"watch_poll_seconds"`
}

// WatchPoll returns the watcher poll timeout as a duration
func (c *FileSourceConfig) WatchPoll() time.Duration {
	return time.Duration(c.WatchPollSeconds) * time.Second
}

// TaskletConfig holds the watermark-coordination settings
type TaskletConfig struct {
	// MaxWatermarkRetainMillis is the time a watermark emission waits
	// on an inbound stream that has produced no watermark before that
	// stream is excluded from the minimum; negative means wait
	// indefinitely
	MaxWatermarkRetainMillis int
}

// MaxWatermarkRetain returns the retention interval as a duration,
// negative for indefinite retention
func (c *TaskletConfig) MaxWatermarkRetain() time.Duration {
	return time.Duration(c.MaxWatermarkRetainMillis) * time.Millisecond
}

// GetFileSources returns the validated file sources from the Engine config
func GetFileSources() ([]*FileSourceConfig, error) {
	return getFileSources(Engine)
}

func getFileSources(config *viper.Viper) ([]*FileSourceConfig, error) {
	var sources []*FileSourceConfig
	err := config.UnmarshalKey("sources", &sources)
	if err != nil {
		return nil, err
	}
	for _, source := range sources {
		if source.Directory == "" {
			return nil, fmt.Errorf("config: file source has no directory")
		}
		if source.Glob == "" {
			source.Glob = "*"
		}
		if source.Charset == "" {
			source.Charset = DefaultCharset
		}
		if source.Parallelism == 0 {
			source.Parallelism = 1
		}
		if source.Parallelism < 0 {
			return nil, fmt.Errorf("config: parallelism must be positive, got %d", source.Parallelism)
		}
		if source.ID < 0 || source.ID >= source.Parallelism {
			return nil, fmt.Errorf("config: id %d out of range [0, %d)", source.ID, source.Parallelism)
		}
		if source.LinesPerBatch == 0 {
			source.LinesPerBatch = DefaultLinesPerBatch
		}
		if source.WatchPollSeconds == 0 {
			source.WatchPollSeconds = DefaultWatchPollSeconds
		}
	}
	return sources, nil
}

// GetTasklet returns the tasklet settings from the Engine config
func GetTasklet() *TaskletConfig {
	return getTasklet(Engine)
}

func getTasklet(config *viper.Viper) *TaskletConfig {
	return &TaskletConfig{
		MaxWatermarkRetainMillis: config.GetInt("max_watermark_retain_ms"),
	}
}
