// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/streamforge/eventserver/internal/apierr"
	"github.com/streamforge/eventserver/internal/models"
)

// GetSetting returns the setting for key, or nil if absent (never an error).
func (r *Repository) GetSetting(ctx context.Context, key string) (*models.Setting, error) {
	var s models.Setting
	err := r.conn().QueryRowContext(ctx, "SELECT key, value, updated_at FROM settings WHERE key = ?", key).
		Scan(&s.Key, &s.Value, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apierr.Internal("failed to read setting", err)
	}
	return &s, nil
}

// SetSetting upserts key=value, stamping updated_at.
func (r *Repository) SetSetting(ctx context.Context, key, value string) (*models.Setting, error) {
	s := models.Setting{Key: key, Value: value, UpdatedAt: now()}

	_, err := r.conn().ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, s.Key, s.Value, s.UpdatedAt)
	if err != nil {
		return nil, apierr.Internal("failed to set setting", err)
	}
	return &s, nil
}
