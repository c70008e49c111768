// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"

	"github.com/streamforge/eventserver/internal/hub"
	"github.com/streamforge/eventserver/internal/queue"
	"github.com/streamforge/eventserver/internal/repository"
	"github.com/streamforge/eventserver/internal/resolver"
)

// Server holds the wired components a router needs to build handlers.
type Server struct {
	repo      *repository.Repository
	resolver  *resolver.Resolver
	queue     *queue.Queue
	hub       *hub.Hub
	startedAt time.Time
	port      int
	upgrader  websocket.Upgrader
}

// NewServer wires the handler dependencies. port is filled in by the
// Lifecycle component once bound, via SetPort.
func NewServer(repo *repository.Repository, res *resolver.Resolver, q *queue.Queue, h *hub.Hub) *Server {
	return &Server{
		repo:      repo,
		resolver:  res,
		queue:     q,
		hub:       h,
		startedAt: time.Now(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// SetPort records the actual bound port for the health endpoint.
func (s *Server) SetPort(port int) { s.port = port }

// NewRouter builds the full chi router: middleware chain, health/status
// endpoints, the test-alert harness, EventLog queries, and CRUD
// projections over Alert/Variation/Template/Setting.
func NewRouter(s *Server, corsExtraOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(recoverMiddleware)
	r.Use(requestIDMiddleware)
	r.Use(requestLogMiddleware)
	r.Use(corsMiddleware(corsExtraOrigins))
	r.Use(rateLimitMiddleware())

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/ws/status", s.handleWSStatus)

	r.Post("/api/test-alert", s.handleTestAlert)
	r.Post("/api/test-alert/clear", s.handleTestAlertClear)
	r.Get("/api/test-alert/status", s.handleTestAlertStatus)

	r.Get("/api/events", s.handleListEvents)
	r.Get("/api/events/range", s.handleListEventsByRange)

	r.Route("/api/alerts", func(r chi.Router) {
		r.Get("/", s.handleListAlerts)
		r.Post("/", s.handleCreateAlert)
		r.Get("/{id}", s.handleGetAlert)
		r.Put("/{id}", s.handleUpdateAlert)
		r.Delete("/{id}", s.handleDeleteAlert)
		r.Post("/{id}/variations", s.handleCreateVariation)
	})
	r.Route("/api/variations", func(r chi.Router) {
		r.Put("/{id}", s.handleUpdateVariation)
		r.Delete("/{id}", s.handleDeleteVariation)
	})
	r.Route("/api/templates", func(r chi.Router) {
		r.Get("/", s.handleListTemplates)
		r.Post("/", s.handleCreateTemplate)
		r.Put("/{id}", s.handleUpdateTemplate)
		r.Delete("/{id}", s.handleDeleteTemplate)
	})
	r.Route("/api/settings", func(r chi.Router) {
		r.Get("/{key}", s.handleGetSetting)
		r.Put("/{key}", s.handleSetSetting)
	})

	r.Get("/ws/{namespace}", s.handleWebSocketUpgrade)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	OK(w, map[string]interface{}{
		"status":         "ok",
		"port":           s.port,
		"uptime_seconds": int(time.Since(s.startedAt).Seconds()),
	})
}

func (s *Server) handleWSStatus(w http.ResponseWriter, r *http.Request) {
	clients := map[string]int{}
	total := 0
	for _, ns := range s.hub.Namespaces() {
		n := s.hub.ClientCount(ns)
		clients[ns] = n
		total += n
	}
	OK(w, map[string]interface{}{
		"namespaces":   s.hub.Namespaces(),
		"clients":      clients,
		"totalClients": total,
	})
}

func (s *Server) handleWebSocketUpgrade(w http.ResponseWriter, r *http.Request) {
	namespace := "/" + chi.URLParam(r, "namespace")

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := s.hub.Connect(namespace, conn)
	if client == nil {
		_ = conn.Close()
		return
	}

	go client.Serve()
}

func parseLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}
