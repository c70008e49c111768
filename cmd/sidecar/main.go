// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

// Package main is the entry point for the StreamForge event server, a
// loopback-only sidecar that the desktop companion app spawns as a
// child process to bridge live-streaming platform events into a
// resolved alert queue and a set of WebSocket namespaces the overlay
// widgets and dashboard subscribe to.
//
// # Application Architecture
//
// The process initializes components in the following order:
//
//  1. Configuration: struct defaults, optional config.yaml, STREAMFORGE_* env (Koanf v2)
//  2. Logging: zerolog, configured from the resolved config
//  3. Store: embedded DuckDB database, migrations applied
//  4. Repository, Rule Resolver, Alert Queue, WebSocket Hub
//  5. HTTP API: chi router mounted over the queue/hub/repository
//  6. Port discovery: bind preferred port, else range-scan, else OS-assigned
//  7. Supervisor tree: HTTP server + EventLog retention pruner
//
// # Signal Handling
//
// SIGINT and SIGTERM trigger a graceful shutdown: stop accepting new
// connections, close every WebSocket session, close the store, and
// force-exit if the drain window elapses first.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/streamforge/eventserver/internal/api"
	"github.com/streamforge/eventserver/internal/config"
	"github.com/streamforge/eventserver/internal/hub"
	"github.com/streamforge/eventserver/internal/lifecycle"
	"github.com/streamforge/eventserver/internal/logging"
	"github.com/streamforge/eventserver/internal/queue"
	"github.com/streamforge/eventserver/internal/repository"
	"github.com/streamforge/eventserver/internal/resolver"
	"github.com/streamforge/eventserver/internal/store"
)

// completerRef breaks the Hub/Queue construction cycle: the Hub needs a
// Completer to dispatch alert:done, but only the Queue implements one,
// and the Queue needs the Hub as its Emitter. completerRef is handed to
// the Hub first and pointed at the real Queue once it exists.
type completerRef struct {
	queue *queue.Queue
}

func (c *completerRef) Complete(instanceID string) {
	if c.queue == nil {
		return
	}
	c.queue.Complete(instanceID)
}

func main() {
	configPath := flag.String("config", "", "path to an optional config.yaml")
	flag.Parse()

	cfg, err := config.LoadWithKoanf(*configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("sidecar: failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().Msg("sidecar: starting StreamForge event server")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := store.Open(ctx, store.Config{Path: cfg.Database.Path, Threads: cfg.Database.Threads})
	if err != nil {
		logging.Fatal().Err(err).Msg("sidecar: failed to open store")
	}
	logging.Info().Str("path", db.Path()).Msg("sidecar: store opened")

	repo := repository.New(db)
	res := resolver.New(repo)

	completer := &completerRef{}
	wsHub := hub.New(completer)
	alertQueue := queue.New(wsHub)
	completer.queue = alertQueue

	server := api.NewServer(repo, res, alertQueue, wsHub)
	router := api.NewRouter(server, cfg.Security.CORSExtraOrigins)

	ln, err := lifecycle.DiscoverPort(cfg.Server.PreferredPort, cfg.Server.PortRangeMin, cfg.Server.PortRangeMax)
	if err != nil {
		logging.Fatal().Err(err).Msg("sidecar: failed to bind a port")
	}
	boundPort := lifecycle.BoundPort(ln)
	server.SetPort(boundPort)

	httpServer := &http.Server{Handler: router}

	if err := lifecycle.AnnouncePort(os.Stdout, boundPort); err != nil {
		logging.Fatal().Err(err).Msg("sidecar: failed to announce bound port")
	}

	tree := lifecycle.NewTree(logging.NewSlogLogger())
	tree.Add(lifecycle.NewHTTPService(httpServer, func() error { return httpServer.Serve(ln) }, config.ShutdownDrain))
	tree.Add(lifecycle.NewRetentionService(repo, cfg.EventLog.RetentionDays, cfg.EventLog.PruneSchedule))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("sidecar: received shutdown signal")
		cancel()
	}()

	logging.Info().Int("port", boundPort).Msg("sidecar: supervisor tree starting")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("sidecar: shutting down")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("sidecar: supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("sidecar: supervisor shutdown error")
		}
	}

	alertQueue.Shutdown(ctx)
	wsHub.CloseAll()

	if err := db.Close(); err != nil {
		logging.Error().Err(err).Msg("sidecar: error closing store")
	}

	logging.Info().Msg("sidecar: stopped gracefully")
}
