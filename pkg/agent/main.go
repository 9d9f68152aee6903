// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Streamhouse (https://www.streamhouse.dev/).
// Copyright 2026 Streamhouse, Inc.

package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/streamhouse/stream-engine/pkg/config"
)

var defaultConfigPath = "/etc/stream-engine/stream-engine.yaml"

var configPath string

func init() {
	flag.StringVar(&configPath, "config", defaultConfigPath, "Path to the stream-engine.yaml configuration file")
}

func main() {
	flag.Parse()

	err := config.BuildEngineConfig(configPath)
	if err != nil {
		log.Fatalln(err)
	}

	agent, err := Start()
	if err != nil {
		log.Fatalln(err)
	}
	defer agent.Stop()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	<-sigs
}
