// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

// CurrentConfigVersion is written into new config files. Bump when the
// schema changes shape.
const CurrentConfigVersion = "1"

type QuorumConfig struct {
	// Meta: config file bookkeeping
	Meta MetaConfig `yaml:"meta"`

	// Logging: level and destinations for CLI and gateway logs
	Logging LoggingConfig `yaml:"logging"`

	// Server: gateway listen settings
	Server ServerConfig `yaml:"server"`

	// Consolidation: default engine behavior, overridable per-run by flags
	Consolidation ConsolidationConfig `yaml:"consolidation"`
}

type MetaConfig struct {
	Version string `yaml:"version"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // e.g. debug, info, warn, error
	Dir   string `yaml:"dir"`   // empty disables the log file
	JSON  bool   `yaml:"json"`  // JSON lines on stderr instead of text
}

type ServerConfig struct {
	Port int `yaml:"port"` // e.g. 12310
}

type ConsolidationConfig struct {
	// Sequential runs the merge stages one at a time instead of fanned out.
	Sequential bool `yaml:"sequential"`

	// FailOnConflicts makes the CLI exit nonzero when conflicts are found.
	FailOnConflicts bool `yaml:"fail_on_conflicts"`
}

func DefaultConfig() QuorumConfig {
	return QuorumConfig{
		Meta: MetaConfig{Version: CurrentConfigVersion},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "~/.quorum/logs",
			JSON:  false,
		},
		Server: ServerConfig{
			Port: 12310,
		},
		Consolidation: ConsolidationConfig{
			Sequential:      false,
			FailOnConflicts: false,
		},
	}
}
