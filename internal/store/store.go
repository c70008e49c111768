// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

// Package store owns the embedded relational database: connection setup,
// forward-only migrations, and app-data directory discovery.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/streamforge/eventserver/internal/apierr"
	"github.com/streamforge/eventserver/internal/logging"
)

// DB wraps the embedded database connection.
type DB struct {
	conn *sql.DB
	path string
}

// Config controls how the store opens its database file.
type Config struct {
	// Path is the database file path. If empty, AppDataDir is used to
	// discover the OS-appropriate location and "streamforge.db" is
	// opened within it.
	Path    string
	Threads int
}

// Open opens (creating if absent) the embedded database and runs all
// pending migrations. Migration failure is fatal, per contract.
func Open(ctx context.Context, cfg Config) (*DB, error) {
	path := cfg.Path
	if path == "" {
		dir, err := AppDataDir()
		if err != nil {
			return nil, apierr.Internal("failed to resolve app data directory", err)
		}
		path = filepath.Join(dir, "streamforge.db")
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = 4
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d", path, threads)
	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, apierr.Internal("failed to open database", err)
	}
	conn.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := conn.PingContext(pingCtx); err != nil {
		_ = conn.Close()
		return nil, apierr.Internal("failed to connect to database", err)
	}

	db := &DB{conn: conn, path: path}

	if err := db.runMigrations(ctx); err != nil {
		_ = conn.Close()
		return nil, err
	}

	logging.Info().Str("path", path).Msg("store opened")
	return db, nil
}

// Conn exposes the underlying *sql.DB for the repository layer.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Path returns the database file path in use.
func (db *DB) Path() string {
	return db.path
}

// Close closes the underlying connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
