// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Streamhouse (https://www.streamhouse.dev/).
// Copyright 2026 Streamhouse, Inc.

package config

import (
	"github.com/spf13/viper"
)

// Engine is the global configuration object
var Engine = viper.New()

// BuildEngineConfig initializes the Engine config and sets default values
func BuildEngineConfig(configPath string) error {
	return buildMainConfig(Engine, configPath)
}

func buildMainConfig(config *viper.Viper, configPath string) error {
	config.SetConfigFile(configPath)

	err := config.ReadInConfig()
	if err != nil {
		return err
	}

	config.SetDefault("chan_sizes", ChanSizes)
	config.SetDefault("max_watermark_retain_ms", -1)

	return nil
}
