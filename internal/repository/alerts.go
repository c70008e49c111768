// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/streamforge/eventserver/internal/apierr"
	"github.com/streamforge/eventserver/internal/models"
)

// AlertDefaults are applied to any field the caller leaves at its zero
// value on create, except Enabled: applyAlertDefaults does not touch it,
// so a zero-value Enabled is persisted as false.
var AlertDefaults = models.Alert{
	Enabled:         true,
	MessageTemplate: "{username}",
	DurationMs:      5000,
	AnimationIn:     "fadeIn",
	AnimationOut:    "fadeOut",
	SoundVolume:     1.0,
	FontFamily:      "sans-serif",
	FontSize:        32,
	TextColor:       "#ffffff",
	TTSRate:         1.0,
	TTSPitch:        1.0,
	TTSVolume:       1.0,
}

func applyAlertDefaults(a *models.Alert) {
	if a.MessageTemplate == "" {
		a.MessageTemplate = AlertDefaults.MessageTemplate
	}
	if a.DurationMs == 0 {
		a.DurationMs = AlertDefaults.DurationMs
	}
	if a.AnimationIn == "" {
		a.AnimationIn = AlertDefaults.AnimationIn
	}
	if a.AnimationOut == "" {
		a.AnimationOut = AlertDefaults.AnimationOut
	}
	if a.SoundVolume == 0 {
		a.SoundVolume = AlertDefaults.SoundVolume
	}
	if a.FontFamily == "" {
		a.FontFamily = AlertDefaults.FontFamily
	}
	if a.FontSize == 0 {
		a.FontSize = AlertDefaults.FontSize
	}
	if a.TextColor == "" {
		a.TextColor = AlertDefaults.TextColor
	}
	if a.TTSRate == 0 {
		a.TTSRate = AlertDefaults.TTSRate
	}
	if a.TTSPitch == 0 {
		a.TTSPitch = AlertDefaults.TTSPitch
	}
	if a.TTSVolume == 0 {
		a.TTSVolume = AlertDefaults.TTSVolume
	}
}

const insertAlertSQL = `
INSERT INTO alerts (
	id, type, display_name, enabled, message_template, duration_ms,
	animation_in, animation_out, sound_path, sound_volume, image_path,
	font_family, font_size, text_color, background_color, custom_css,
	min_amount, tts_enabled, tts_voice, tts_rate, tts_pitch, tts_volume,
	created_at, updated_at
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
`

// CreateAlert inserts a new Alert with a server-assigned id and
// timestamps, filling unspecified fields with documented defaults.
func (r *Repository) CreateAlert(ctx context.Context, a models.Alert) (*models.Alert, error) {
	a.ID = newID()
	applyAlertDefaults(&a)
	a.CreatedAt = now()
	a.UpdatedAt = a.CreatedAt

	_, err := r.conn().ExecContext(ctx, insertAlertSQL,
		a.ID, a.Type, a.DisplayName, a.Enabled, a.MessageTemplate, a.DurationMs,
		a.AnimationIn, a.AnimationOut, a.SoundPath, a.SoundVolume, a.ImagePath,
		a.FontFamily, a.FontSize, a.TextColor, a.BackgroundColor, a.CustomCSS,
		a.MinAmount, a.TTSEnabled, a.TTSVoice, a.TTSRate, a.TTSPitch, a.TTSVolume,
		a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return nil, apierr.Internal("failed to create alert", err)
	}
	return &a, nil
}

const selectAlertColumns = `
	id, type, display_name, enabled, message_template, duration_ms,
	animation_in, animation_out, sound_path, sound_volume, image_path,
	font_family, font_size, text_color, background_color, custom_css,
	min_amount, tts_enabled, tts_voice, tts_rate, tts_pitch, tts_volume,
	created_at, updated_at
`

func scanAlert(scanner interface{ Scan(...interface{}) error }) (models.Alert, error) {
	var a models.Alert
	err := scanner.Scan(
		&a.ID, &a.Type, &a.DisplayName, &a.Enabled, &a.MessageTemplate, &a.DurationMs,
		&a.AnimationIn, &a.AnimationOut, &a.SoundPath, &a.SoundVolume, &a.ImagePath,
		&a.FontFamily, &a.FontSize, &a.TextColor, &a.BackgroundColor, &a.CustomCSS,
		&a.MinAmount, &a.TTSEnabled, &a.TTSVoice, &a.TTSRate, &a.TTSPitch, &a.TTSVolume,
		&a.CreatedAt, &a.UpdatedAt,
	)
	return a, err
}

// GetAlert reads one Alert by id along with its Variations.
func (r *Repository) GetAlert(ctx context.Context, id string) (*models.Alert, error) {
	row := r.conn().QueryRowContext(ctx, "SELECT "+selectAlertColumns+" FROM alerts WHERE id = ?", id)
	a, err := scanAlert(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.NotFound(fmt.Sprintf("alert %s not found", id))
	}
	if err != nil {
		return nil, apierr.Internal("failed to read alert", err)
	}

	variations, err := r.ListVariationsByParent(ctx, id)
	if err != nil {
		return nil, err
	}
	a.Variations = variations

	return &a, nil
}

// ListAlerts returns every Alert, each with its Variations grouped and
// ordered by priority desc then created-at asc.
func (r *Repository) ListAlerts(ctx context.Context) ([]models.Alert, error) {
	return r.listAlerts(ctx, "SELECT "+selectAlertColumns+" FROM alerts ORDER BY created_at ASC")
}

// ListAlertsByType returns Alerts of a given type ordered by created-at ascending.
func (r *Repository) ListAlertsByType(ctx context.Context, alertType models.AlertType) ([]models.Alert, error) {
	return r.listAlerts(ctx, "SELECT "+selectAlertColumns+" FROM alerts WHERE type = ? ORDER BY created_at ASC", alertType)
}

// ListEnabledAlertsByType returns enabled Alerts of a given type ordered
// by created-at ascending, the candidate set the Rule Resolver iterates.
func (r *Repository) ListEnabledAlertsByType(ctx context.Context, alertType models.AlertType) ([]models.Alert, error) {
	return r.listAlerts(ctx, "SELECT "+selectAlertColumns+" FROM alerts WHERE type = ? AND enabled = TRUE ORDER BY created_at ASC", alertType)
}

// ListEnabledAlerts returns every enabled Alert.
func (r *Repository) ListEnabledAlerts(ctx context.Context) ([]models.Alert, error) {
	return r.listAlerts(ctx, "SELECT "+selectAlertColumns+" FROM alerts WHERE enabled = TRUE ORDER BY created_at ASC")
}

func (r *Repository) listAlerts(ctx context.Context, query string, args ...interface{}) ([]models.Alert, error) {
	rows, err := r.conn().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apierr.Internal("failed to list alerts", err)
	}
	defer rows.Close()

	var alerts []models.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, apierr.Internal("failed to scan alert", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apierr.Internal("failed to iterate alerts", err)
	}

	for i := range alerts {
		variations, err := r.ListVariationsByParent(ctx, alerts[i].ID)
		if err != nil {
			return nil, err
		}
		alerts[i].Variations = variations
	}

	return alerts, nil
}

// AlertUpdate carries partial field updates; nil fields are left
// unmodified. Type is immutable after create and is not included.
type AlertUpdate struct {
	DisplayName     *string
	Enabled         *bool
	MessageTemplate *string
	DurationMs      *int
	AnimationIn     *string
	AnimationOut    *string
	SoundPath       *string
	SoundVolume     *float64
	ImagePath       *string
	FontFamily      *string
	FontSize        *int
	TextColor       *string
	BackgroundColor **string
	CustomCSS       *string
	MinAmount       **float64
	TTSEnabled      *bool
	TTSVoice        *string
	TTSRate         *float64
	TTSPitch        *float64
	TTSVolume       *float64
}

// UpdateAlert writes only the provided fields; updated_at is always
// bumped, even when every field is nil.
func (r *Repository) UpdateAlert(ctx context.Context, id string, u AlertUpdate) (*models.Alert, error) {
	sets := []string{}
	args := []interface{}{}

	add := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if u.DisplayName != nil {
		add("display_name", *u.DisplayName)
	}
	if u.Enabled != nil {
		add("enabled", *u.Enabled)
	}
	if u.MessageTemplate != nil {
		add("message_template", *u.MessageTemplate)
	}
	if u.DurationMs != nil {
		add("duration_ms", *u.DurationMs)
	}
	if u.AnimationIn != nil {
		add("animation_in", *u.AnimationIn)
	}
	if u.AnimationOut != nil {
		add("animation_out", *u.AnimationOut)
	}
	if u.SoundPath != nil {
		add("sound_path", *u.SoundPath)
	}
	if u.SoundVolume != nil {
		add("sound_volume", *u.SoundVolume)
	}
	if u.ImagePath != nil {
		add("image_path", *u.ImagePath)
	}
	if u.FontFamily != nil {
		add("font_family", *u.FontFamily)
	}
	if u.FontSize != nil {
		add("font_size", *u.FontSize)
	}
	if u.TextColor != nil {
		add("text_color", *u.TextColor)
	}
	if u.BackgroundColor != nil {
		add("background_color", *u.BackgroundColor)
	}
	if u.CustomCSS != nil {
		add("custom_css", *u.CustomCSS)
	}
	if u.MinAmount != nil {
		add("min_amount", *u.MinAmount)
	}
	if u.TTSEnabled != nil {
		add("tts_enabled", *u.TTSEnabled)
	}
	if u.TTSVoice != nil {
		add("tts_voice", *u.TTSVoice)
	}
	if u.TTSRate != nil {
		add("tts_rate", *u.TTSRate)
	}
	if u.TTSPitch != nil {
		add("tts_pitch", *u.TTSPitch)
	}
	if u.TTSVolume != nil {
		add("tts_volume", *u.TTSVolume)
	}

	add("updated_at", now())
	args = append(args, id)

	query := "UPDATE alerts SET "
	for i, s := range sets {
		if i > 0 {
			query += ", "
		}
		query += s
	}
	query += " WHERE id = ?"

	res, err := r.conn().ExecContext(ctx, query, args...)
	if err != nil {
		return nil, apierr.Internal("failed to update alert", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, apierr.Internal("failed to determine update result", err)
	}
	if affected == 0 {
		return nil, apierr.NotFound(fmt.Sprintf("alert %s not found", id))
	}

	return r.GetAlert(ctx, id)
}

// DeleteAlert deletes an Alert and cascades to its Variations. DuckDB
// does not enforce ON DELETE CASCADE the way SQLite does, so the cascade
// is performed explicitly: the Variations are deleted first, then the
// Alert. DuckDB rejects deleting a referenced row in the same transaction
// that deleted its referencing rows, so the two deletes are committed
// separately and are not atomic.
func (r *Repository) DeleteAlert(ctx context.Context, id string) error {
	if _, err := r.conn().ExecContext(ctx, "DELETE FROM variations WHERE parent_alert_id = ?", id); err != nil {
		return apierr.Internal("failed to cascade-delete variations", err)
	}

	res, err := r.conn().ExecContext(ctx, "DELETE FROM alerts WHERE id = ?", id)
	if err != nil {
		return apierr.Internal("failed to delete alert", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apierr.Internal("failed to determine delete result", err)
	}
	if affected == 0 {
		return apierr.NotFound(fmt.Sprintf("alert %s not found", id))
	}
	return nil
}
