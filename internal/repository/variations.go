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

const insertVariationSQL = `
INSERT INTO variations (
	id, parent_alert_id, name, condition_type, condition_value, priority, enabled,
	message_template, sound_path, sound_volume, image_path, animation_in, animation_out, custom_css,
	created_at, updated_at
) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
`

// CreateVariation inserts a new Variation. Fails with NotFound if the
// parent Alert does not exist. Enabled is persisted exactly as given;
// callers that want a default must resolve it before calling (see
// api.handleCreateVariation's wire-boundary tri-state).
func (r *Repository) CreateVariation(ctx context.Context, v models.Variation) (*models.Variation, error) {
	var exists int
	err := r.conn().QueryRowContext(ctx, "SELECT 1 FROM alerts WHERE id = ?", v.ParentAlertID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.NotFound(fmt.Sprintf("parent alert %s not found", v.ParentAlertID))
	}
	if err != nil {
		return nil, apierr.Internal("failed to verify parent alert", err)
	}

	v.ID = newID()
	v.CreatedAt = now()
	v.UpdatedAt = v.CreatedAt

	_, err = r.conn().ExecContext(ctx, insertVariationSQL,
		v.ID, v.ParentAlertID, v.Name, v.ConditionType, v.ConditionValue, v.Priority, v.Enabled,
		v.MessageTemplate, v.SoundPath, v.SoundVolume, v.ImagePath, v.AnimationIn, v.AnimationOut, v.CustomCSS,
		v.CreatedAt, v.UpdatedAt,
	)
	if err != nil {
		return nil, apierr.Internal("failed to create variation", err)
	}
	return &v, nil
}

const selectVariationColumns = `
	id, parent_alert_id, name, condition_type, condition_value, priority, enabled,
	message_template, sound_path, sound_volume, image_path, animation_in, animation_out, custom_css,
	created_at, updated_at
`

func scanVariation(scanner interface{ Scan(...interface{}) error }) (models.Variation, error) {
	var v models.Variation
	err := scanner.Scan(
		&v.ID, &v.ParentAlertID, &v.Name, &v.ConditionType, &v.ConditionValue, &v.Priority, &v.Enabled,
		&v.MessageTemplate, &v.SoundPath, &v.SoundVolume, &v.ImagePath, &v.AnimationIn, &v.AnimationOut, &v.CustomCSS,
		&v.CreatedAt, &v.UpdatedAt,
	)
	return v, err
}

// ListVariationsByParent lists a parent's Variations, priority
// descending, created-at ascending as tie-break.
func (r *Repository) ListVariationsByParent(ctx context.Context, parentID string) ([]models.Variation, error) {
	rows, err := r.conn().QueryContext(ctx,
		"SELECT "+selectVariationColumns+" FROM variations WHERE parent_alert_id = ? ORDER BY priority DESC, created_at ASC",
		parentID)
	if err != nil {
		return nil, apierr.Internal("failed to list variations", err)
	}
	defer rows.Close()

	var variations []models.Variation
	for rows.Next() {
		v, err := scanVariation(rows)
		if err != nil {
			return nil, apierr.Internal("failed to scan variation", err)
		}
		variations = append(variations, v)
	}
	return variations, rows.Err()
}

// ListEnabledVariationsByParent restricts ListVariationsByParent to
// enabled rows, the candidate set the Rule Resolver iterates.
func (r *Repository) ListEnabledVariationsByParent(ctx context.Context, parentID string) ([]models.Variation, error) {
	rows, err := r.conn().QueryContext(ctx,
		"SELECT "+selectVariationColumns+" FROM variations WHERE parent_alert_id = ? AND enabled = TRUE ORDER BY priority DESC, created_at ASC",
		parentID)
	if err != nil {
		return nil, apierr.Internal("failed to list enabled variations", err)
	}
	defer rows.Close()

	var variations []models.Variation
	for rows.Next() {
		v, err := scanVariation(rows)
		if err != nil {
			return nil, apierr.Internal("failed to scan variation", err)
		}
		variations = append(variations, v)
	}
	return variations, rows.Err()
}

// VariationUpdate carries partial field updates for a Variation.
type VariationUpdate struct {
	Name            *string
	ConditionType   *models.ConditionType
	ConditionValue  *string
	Priority        *int
	Enabled         *bool
	MessageTemplate **string
	SoundPath       **string
	SoundVolume     **float64
	ImagePath       **string
	AnimationIn     **string
	AnimationOut    **string
	CustomCSS       **string
}

// UpdateVariation writes only the provided fields.
func (r *Repository) UpdateVariation(ctx context.Context, id string, u VariationUpdate) (*models.Variation, error) {
	sets := []string{}
	args := []interface{}{}

	add := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.ConditionType != nil {
		add("condition_type", *u.ConditionType)
	}
	if u.ConditionValue != nil {
		add("condition_value", *u.ConditionValue)
	}
	if u.Priority != nil {
		add("priority", *u.Priority)
	}
	if u.Enabled != nil {
		add("enabled", *u.Enabled)
	}
	if u.MessageTemplate != nil {
		add("message_template", *u.MessageTemplate)
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
	if u.AnimationIn != nil {
		add("animation_in", *u.AnimationIn)
	}
	if u.AnimationOut != nil {
		add("animation_out", *u.AnimationOut)
	}
	if u.CustomCSS != nil {
		add("custom_css", *u.CustomCSS)
	}

	add("updated_at", now())
	args = append(args, id)

	query := "UPDATE variations SET "
	for i, s := range sets {
		if i > 0 {
			query += ", "
		}
		query += s
	}
	query += " WHERE id = ?"

	res, err := r.conn().ExecContext(ctx, query, args...)
	if err != nil {
		return nil, apierr.Internal("failed to update variation", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, apierr.Internal("failed to determine update result", err)
	}
	if affected == 0 {
		return nil, apierr.NotFound(fmt.Sprintf("variation %s not found", id))
	}

	row := r.conn().QueryRowContext(ctx, "SELECT "+selectVariationColumns+" FROM variations WHERE id = ?", id)
	v, err := scanVariation(row)
	if err != nil {
		return nil, apierr.Internal("failed to read updated variation", err)
	}
	return &v, nil
}

// DeleteVariation deletes one Variation by id.
func (r *Repository) DeleteVariation(ctx context.Context, id string) error {
	res, err := r.conn().ExecContext(ctx, "DELETE FROM variations WHERE id = ?", id)
	if err != nil {
		return apierr.Internal("failed to delete variation", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return apierr.Internal("failed to determine delete result", err)
	}
	if affected == 0 {
		return apierr.NotFound(fmt.Sprintf("variation %s not found", id))
	}
	return nil
}
