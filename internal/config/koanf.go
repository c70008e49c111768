// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "STREAMFORGE_"

// LoadWithKoanf builds a Config by layering, in increasing precedence:
// struct defaults, an optional YAML file at configPath, and
// STREAMFORGE_*-prefixed environment variables. configPath may be empty,
// in which case the file layer is skipped.
func LoadWithKoanf(configPath string) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return Config{}, err
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return Config{}, err
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		trimmed := strings.TrimPrefix(s, envPrefix)
		return strings.ReplaceAll(strings.ToLower(trimmed), "__", ".")
	}), nil); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}
