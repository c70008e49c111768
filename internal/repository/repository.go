// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

// Package repository is the thin typed Config Repository layer over the
// Store: CRUD operations for Alert, Variation, Template, Setting, and
// EventLog rows.
package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/streamforge/eventserver/internal/store"
)

// Repository is the Config Repository. It holds no state of its own
// beyond the store handle; every method is safe for concurrent use
// because the underlying store serializes writes at the driver layer.
type Repository struct {
	db *store.DB
}

// New builds a Repository over an opened store.
func New(db *store.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) conn() *sql.DB {
	return r.db.Conn()
}

// newID produces a cryptographically seeded UUID for new rows.
func newID() string {
	return uuid.New().String()
}

// now returns the current time in UTC, the single zone every timestamp
// in the repository is stamped in.
func now() time.Time {
	return time.Now().UTC()
}
