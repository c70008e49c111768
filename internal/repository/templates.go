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

// CreateTemplate inserts a new user-authored Template. is_builtin is
// always false for caller-created rows; built-ins are seeded by migration.
func (r *Repository) CreateTemplate(ctx context.Context, t models.Template) (*models.Template, error) {
	t.ID = newID()
	t.IsBuiltin = false
	t.CreatedAt = now()
	t.UpdatedAt = t.CreatedAt

	_, err := r.conn().ExecContext(ctx,
		`INSERT INTO templates (id, name, description, author, spec_blob, is_builtin, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		t.ID, t.Name, t.Description, t.Author, t.SpecBlob, t.IsBuiltin, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return nil, apierr.Internal("failed to create template", err)
	}
	return &t, nil
}

const selectTemplateColumns = `id, name, description, author, spec_blob, is_builtin, created_at, updated_at`

func scanTemplate(scanner interface{ Scan(...interface{}) error }) (models.Template, error) {
	var t models.Template
	err := scanner.Scan(&t.ID, &t.Name, &t.Description, &t.Author, &t.SpecBlob, &t.IsBuiltin, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// GetTemplate reads one Template by id.
func (r *Repository) GetTemplate(ctx context.Context, id string) (*models.Template, error) {
	row := r.conn().QueryRowContext(ctx, "SELECT "+selectTemplateColumns+" FROM templates WHERE id = ?", id)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apierr.NotFound(fmt.Sprintf("template %s not found", id))
	}
	if err != nil {
		return nil, apierr.Internal("failed to read template", err)
	}
	return &t, nil
}

// ListTemplates lists every Template.
func (r *Repository) ListTemplates(ctx context.Context) ([]models.Template, error) {
	rows, err := r.conn().QueryContext(ctx, "SELECT "+selectTemplateColumns+" FROM templates ORDER BY created_at ASC")
	if err != nil {
		return nil, apierr.Internal("failed to list templates", err)
	}
	defer rows.Close()

	var templates []models.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, apierr.Internal("failed to scan template", err)
		}
		templates = append(templates, t)
	}
	return templates, rows.Err()
}

// TemplateUpdate carries partial field updates for a Template.
type TemplateUpdate struct {
	Name        *string
	Description *string
	Author      *string
	SpecBlob    *string
}

// UpdateTemplate writes only the provided fields. Built-in templates
// reject updates with Forbidden and are left untouched.
func (r *Repository) UpdateTemplate(ctx context.Context, id string, u TemplateUpdate) (*models.Template, error) {
	existing, err := r.GetTemplate(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.IsBuiltin {
		return nil, apierr.Forbidden("built-in templates cannot be modified")
	}

	sets := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if u.Name != nil {
		add("name", *u.Name)
	}
	if u.Description != nil {
		add("description", *u.Description)
	}
	if u.Author != nil {
		add("author", *u.Author)
	}
	if u.SpecBlob != nil {
		add("spec_blob", *u.SpecBlob)
	}
	add("updated_at", now())
	args = append(args, id)

	query := "UPDATE templates SET "
	for i, s := range sets {
		if i > 0 {
			query += ", "
		}
		query += s
	}
	query += " WHERE id = ?"

	if _, err := r.conn().ExecContext(ctx, query, args...); err != nil {
		return nil, apierr.Internal("failed to update template", err)
	}
	return r.GetTemplate(ctx, id)
}

// DeleteTemplate deletes a Template by id. Built-in templates reject
// deletion with Forbidden and are left untouched.
func (r *Repository) DeleteTemplate(ctx context.Context, id string) error {
	existing, err := r.GetTemplate(ctx, id)
	if err != nil {
		return err
	}
	if existing.IsBuiltin {
		return apierr.Forbidden("built-in templates cannot be deleted")
	}

	if _, err := r.conn().ExecContext(ctx, "DELETE FROM templates WHERE id = ?", id); err != nil {
		return apierr.Internal("failed to delete template", err)
	}
	return nil
}
