// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

package api

import (
	"context"

	"github.com/streamforge/eventserver/internal/logging"
	"github.com/streamforge/eventserver/internal/models"
)

// logEvent writes an audit record and swallows any failure at this
// boundary: event ingestion must never be blocked by an audit-log
// failure, per the Event Logger's fail-safe contract.
func (s *Server) logEvent(ctx context.Context, e models.EventLog) {
	if _, err := s.repo.CreateEventLog(ctx, e); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("event_type", e.EventType).Msg("api: failed to write event log, continuing")
	}
}
