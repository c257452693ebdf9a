// Copyright 2026 wasmgreet authors
// Licensed under the MIT License

package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type runnerConfig struct {
	Module      string
	Invoke      string
	InvokeCount int
}

func defaultRunnerConfig() runnerConfig {
	return runnerConfig{InvokeCount: 1}
}

type fileConfig struct {
	Module      string `toml:"module"`
	Invoke      string `toml:"invoke"`
	InvokeCount int    `toml:"invoke_count"`
}

// loadRunnerConfig reads a TOML host config. Only keys present in the file
// override the defaults.
func loadRunnerConfig(path string) (runnerConfig, error) {
	cfg := defaultRunnerConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return runnerConfig{}, fmt.Errorf("load host config: %w", err)
	}

	if meta.IsDefined("module") {
		cfg.Module = strings.TrimSpace(raw.Module)
	}

	if meta.IsDefined("invoke") {
		cfg.Invoke = strings.TrimSpace(raw.Invoke)
	}

	if meta.IsDefined("invoke_count") {
		if raw.InvokeCount < 1 {
			return runnerConfig{}, fmt.Errorf("invoke_count must be positive, got %d", raw.InvokeCount)
		}
		cfg.InvokeCount = raw.InvokeCount
	}

	return cfg, nil
}
