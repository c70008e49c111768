// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

// Package config loads the sidecar's typed Config through a layered
// koanf pipeline: struct defaults, an optional YAML file, then
// environment variable overrides.
package config

import "time"

// ServerConfig controls port discovery.
type ServerConfig struct {
	PreferredPort int `koanf:"preferred_port"`
	PortRangeMin  int `koanf:"port_range_min"`
	PortRangeMax  int `koanf:"port_range_max"`
}

// DatabaseConfig controls the embedded store.
type DatabaseConfig struct {
	// Path overrides the OS app-data directory discovery when non-empty.
	Path    string `koanf:"path"`
	Threads int    `koanf:"threads"`
}

// EventLogConfig controls audit retention.
type EventLogConfig struct {
	RetentionDays int `koanf:"retention_days"`
	// PruneSchedule is a standard 5-field cron expression controlling
	// when the retention pruner runs. Empty defaults to "15 0 * * *"
	// (00:15 local).
	PruneSchedule string `koanf:"prune_schedule"`
}

// LoggingConfig controls the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// SecurityConfig controls the CORS allow-list.
type SecurityConfig struct {
	CORSExtraOrigins []string `koanf:"cors_extra_origins"`
}

// Config is the fully resolved sidecar configuration.
type Config struct {
	Server    ServerConfig   `koanf:"server"`
	Database  DatabaseConfig `koanf:"database"`
	EventLog  EventLogConfig `koanf:"event_log"`
	Logging   LoggingConfig  `koanf:"logging"`
	Security  SecurityConfig `koanf:"security"`
}

// ShutdownDrain is the maximum time allowed for in-flight requests to
// finish after a shutdown signal, per the lifecycle drain contract.
const ShutdownDrain = 5 * time.Second

// DefaultConfig returns the built-in defaults, the first layer of the
// koanf pipeline.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			PreferredPort: 39283,
			PortRangeMin:  39283,
			PortRangeMax:  39383,
		},
		Database: DatabaseConfig{
			Threads: 4,
		},
		EventLog: EventLogConfig{
			RetentionDays: 7,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
