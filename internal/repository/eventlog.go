// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

package repository

import (
	"context"
	"time"

	"github.com/goccy/go-json"

	"github.com/streamforge/eventserver/internal/apierr"
	"github.com/streamforge/eventserver/internal/models"
)

const maxEventLogLimit = 1000
const defaultEventLogLimit = 100

// CreateEventLog inserts an audit record with a server-generated id.
func (r *Repository) CreateEventLog(ctx context.Context, e models.EventLog) (*models.EventLog, error) {
	e.ID = newID()
	e.Timestamp = now()

	metaJSON := "{}"
	if len(e.Metadata) > 0 {
		b, err := json.Marshal(e.Metadata)
		if err != nil {
			return nil, apierr.Internal("failed to serialize event metadata", err)
		}
		metaJSON = string(b)
	}

	_, err := r.conn().ExecContext(ctx, `
		INSERT INTO event_log (id, platform, event_type, username, display_name, amount, message, metadata, alert_fired, timestamp)
		VALUES (?,?,?,?,?,?,?,?,?,?)
	`, e.ID, e.Platform, e.EventType, e.Username, e.DisplayName, e.Amount, e.Message, metaJSON, e.AlertFired, e.Timestamp)
	if err != nil {
		return nil, apierr.Internal("failed to write event log", err)
	}
	e.MetadataRaw = metaJSON
	return &e, nil
}

// EventLogFilter composes AND-semantics filters for ListEventLogs.
type EventLogFilter struct {
	EventType      string
	Platform       string
	AlertFiredOnly bool
	Search         string // case-sensitive substring across username/display_name/message
	Limit          int
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultEventLogLimit
	}
	if limit > maxEventLogLimit {
		return maxEventLogLimit
	}
	return limit
}

func scanEventLog(scanner interface{ Scan(...interface{}) error }) (models.EventLog, error) {
	var e models.EventLog
	var metaJSON string
	err := scanner.Scan(&e.ID, &e.Platform, &e.EventType, &e.Username, &e.DisplayName,
		&e.Amount, &e.Message, &metaJSON, &e.AlertFired, &e.Timestamp)
	if err != nil {
		return e, err
	}
	e.MetadataRaw = metaJSON
	if metaJSON != "" {
		_ = json.Unmarshal([]byte(metaJSON), &e.Metadata)
	}
	return e, nil
}

const selectEventLogColumns = `id, platform, event_type, username, display_name, amount, message, metadata, alert_fired, timestamp`

// ListEventLogs applies the given filters with AND semantics, descending
// timestamp order, limit clamped to [1, 1000] (default 100).
func (r *Repository) ListEventLogs(ctx context.Context, f EventLogFilter) ([]models.EventLog, error) {
	query := "SELECT " + selectEventLogColumns + " FROM event_log WHERE 1=1"
	var args []interface{}

	if f.EventType != "" {
		query += " AND event_type = ?"
		args = append(args, f.EventType)
	}
	if f.Platform != "" {
		query += " AND platform = ?"
		args = append(args, f.Platform)
	}
	if f.AlertFiredOnly {
		query += " AND alert_fired = TRUE"
	}
	if f.Search != "" {
		query += " AND (contains(username, ?) OR contains(display_name, ?) OR contains(message, ?))"
		args = append(args, f.Search, f.Search, f.Search)
	}

	query += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, clampLimit(f.Limit))

	return r.queryEventLogs(ctx, query, args...)
}

// ListEventLogsByRange returns rows with inclusive from/to timestamps,
// descending order, limit clamped to [1, 1000].
func (r *Repository) ListEventLogsByRange(ctx context.Context, from, to time.Time, limit int) ([]models.EventLog, error) {
	query := "SELECT " + selectEventLogColumns + " FROM event_log WHERE timestamp >= ? AND timestamp <= ? ORDER BY timestamp DESC LIMIT ?"
	return r.queryEventLogs(ctx, query, from, to, clampLimit(limit))
}

func (r *Repository) queryEventLogs(ctx context.Context, query string, args ...interface{}) ([]models.EventLog, error) {
	rows, err := r.conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apierr.Internal("failed to list event log", err)
	}
	defer rows.Close()

	var events []models.EventLog
	for rows.Next() {
		e, err := scanEventLog(rows)
		if err != nil {
			return nil, apierr.Internal("failed to scan event log row", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// DeleteEventLogsBefore deletes rows strictly older than cutoff,
// returning the number deleted.
func (r *Repository) DeleteEventLogsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.conn().ExecContext(ctx, "DELETE FROM event_log WHERE timestamp < ?", cutoff)
	if err != nil {
		return 0, apierr.Internal("failed to prune event log", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, apierr.Internal("failed to determine prune result", err)
	}
	return affected, nil
}
