// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

// Package logging provides centralized zerolog-based structured logging
// for the StreamForge sidecar.
//
// # Configuration
//
// Environment variables (see internal/config):
//
//	STREAMFORGE_LOGGING__LEVEL   trace, debug, info, warn, error (default: info)
//	STREAMFORGE_LOGGING__FORMAT  json or console (default: json)
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("port", "39283").Msg("bound listener")
//	logging.Ctx(ctx).Warn().Str("instance_id", id).Msg("stale completion ack")
//
// # Suture integration
//
// NewSlogLogger bridges zerolog to slog for sutureslog, so supervisor
// tree lifecycle events (service start/stop/panic) land in the same
// structured log stream as everything else.
package logging
