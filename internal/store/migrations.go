// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

package store

import (
	"context"
	"embed"
	"fmt"
	"sort"

	"github.com/streamforge/eventserver/internal/apierr"
	"github.com/streamforge/eventserver/internal/logging"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const migrationsTableDDL = `
CREATE TABLE IF NOT EXISTS _migrations (
	filename   TEXT UNIQUE NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// runMigrations enumerates migrations/*.sql in lexicographic order and
// applies each script not already recorded in _migrations, one script
// per transaction. A failing script rolls back and is fatal to startup;
// no further scripts are attempted.
//
// DuckDB has no PRAGMA foreign_keys switch equivalent to SQLite's; schema
// alterations here never need it disabled because migrations only ever
// add tables/columns, never rewrite existing foreign-keyed rows in place.
func (db *DB) runMigrations(ctx context.Context) error {
	if _, err := db.conn.ExecContext(ctx, migrationsTableDDL); err != nil {
		return apierr.Internal("failed to create migrations table", err)
	}

	applied := make(map[string]bool)
	rows, err := db.conn.QueryContext(ctx, `SELECT filename FROM _migrations`)
	if err != nil {
		return apierr.Internal("failed to query applied migrations", err)
	}
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			rows.Close()
			return apierr.Internal("failed to scan migration row", err)
		}
		applied[filename] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return apierr.Internal("failed to read applied migrations", err)
	}
	rows.Close()

	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return apierr.Internal("failed to enumerate migration scripts", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	applyCount := 0
	for _, name := range names {
		if applied[name] {
			continue
		}

		script, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return apierr.Internal(fmt.Sprintf("failed to read migration %s", name), err)
		}

		tx, err := db.conn.BeginTx(ctx, nil)
		if err != nil {
			return apierr.Internal("failed to start migration transaction", err)
		}

		if _, err := tx.ExecContext(ctx, string(script)); err != nil {
			_ = tx.Rollback()
			return apierr.Internal(fmt.Sprintf("migration %s failed", name), err)
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO _migrations (filename) VALUES (?)`, name); err != nil {
			_ = tx.Rollback()
			return apierr.Internal(fmt.Sprintf("failed to record migration %s", name), err)
		}

		if err := tx.Commit(); err != nil {
			return apierr.Internal(fmt.Sprintf("failed to commit migration %s", name), err)
		}

		applyCount++
	}

	if applyCount > 0 {
		logging.Info().Int("count", applyCount).Msg("applied database migrations")
	}

	return nil
}
