// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"

	"github.com/streamforge/eventserver/internal/hub"
	"github.com/streamforge/eventserver/internal/models"
	"github.com/streamforge/eventserver/internal/queue"
	"github.com/streamforge/eventserver/internal/repository"
	"github.com/streamforge/eventserver/internal/resolver"
	"github.com/streamforge/eventserver/internal/store"
)

type fakeCompleter struct{}

func (fakeCompleter) Complete(string) {}

// testAPI wires a real Repository over a temp DuckDB file, a real
// Resolver and Queue, and a real Hub with a no-op Completer, then
// builds the chi router exactly as cmd/sidecar does.
func testAPI(t *testing.T) http.Handler {
	t.Helper()
	dir := t.TempDir()
	db, err := store.Open(context.Background(), store.Config{Path: filepath.Join(dir, "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := repository.New(db)
	res := resolver.New(repo)
	h := hub.New(fakeCompleter{})
	q := queue.New(h)
	server := NewServer(repo, res, q, h)
	return NewRouter(server, nil)
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(b))
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp Response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestHealthEndpoint(t *testing.T) {
	router := testAPI(t)
	w, resp := doJSON(t, router, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)
}

func TestCreateListGetDeleteAlert(t *testing.T) {
	router := testAPI(t)

	w, resp := doJSON(t, router, http.MethodPost, "/api/alerts", models.Alert{
		Type: models.AlertTypeFollow, DisplayName: "Follows",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, resp.Success)

	created, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	var alert models.Alert
	require.NoError(t, json.Unmarshal(created, &alert))
	require.NotEmpty(t, alert.ID)

	w, resp = doJSON(t, router, http.MethodGet, "/api/alerts", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	w, resp = doJSON(t, router, http.MethodGet, "/api/alerts/"+alert.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	w, resp = doJSON(t, router, http.MethodDelete, "/api/alerts/"+alert.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	w, resp = doJSON(t, router, http.MethodGet, "/api/alerts/"+alert.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.False(t, resp.Success)
	require.Equal(t, "not_found", resp.Error.Kind)
}

func TestCreateAlertRejectsInvalidPayload(t *testing.T) {
	router := testAPI(t)

	w, resp := doJSON(t, router, http.MethodPost, "/api/alerts", models.Alert{
		Type:       models.AlertTypeFollow,
		DurationMs: 100, // below the 1000ms validation floor
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.False(t, resp.Success)
}

func TestUpdateAlertBackgroundColorOverHTTP(t *testing.T) {
	router := testAPI(t)

	w, resp := doJSON(t, router, http.MethodPost, "/api/alerts", models.Alert{Type: models.AlertTypeDonation})
	require.Equal(t, http.StatusCreated, w.Code)
	created, _ := json.Marshal(resp.Data)
	var alert models.Alert
	require.NoError(t, json.Unmarshal(created, &alert))

	w, resp = doJSON(t, router, http.MethodPut, "/api/alerts/"+alert.ID, map[string]interface{}{
		"backgroundColor": "#112233",
	})
	require.Equal(t, http.StatusOK, w.Code)
	updated, _ := json.Marshal(resp.Data)
	var got models.Alert
	require.NoError(t, json.Unmarshal(updated, &got))
	require.NotNil(t, got.BackgroundColor)
	require.Equal(t, "#112233", *got.BackgroundColor)
}

func TestVariationTierMatchViaTestAlert(t *testing.T) {
	router := testAPI(t)

	w, resp := doJSON(t, router, http.MethodPost, "/api/alerts", models.Alert{
		Type: models.AlertTypeSubscribe, MessageTemplate: "default sub", Enabled: true,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created, _ := json.Marshal(resp.Data)
	var alert models.Alert
	require.NoError(t, json.Unmarshal(created, &alert))

	w, resp = doJSON(t, router, http.MethodPost, "/api/alerts/"+alert.ID+"/variations", models.Variation{
		Name: "tier3", ConditionType: models.ConditionTier, ConditionValue: "3000", Priority: 5, Enabled: true,
	})
	require.Equal(t, http.StatusCreated, w.Code, resp)

	w, resp = doJSON(t, router, http.MethodPost, "/api/test-alert", map[string]interface{}{
		"type": "subscribe", "username": "bob", "tier": "3000",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)
	data := resp.Data.(map[string]interface{})
	require.Equal(t, "queued", data["status"])

	// The queue was idle, so the instance is now current; its resolved
	// config names the matched variation.
	w, resp = doJSON(t, router, http.MethodGet, "/api/test-alert/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	current := resp.Data.(map[string]interface{})["currentAlert"].(map[string]interface{})
	config := current["config"].(map[string]interface{})
	require.Equal(t, "tier3", config["_variation_name"])
}

func TestCreateVariationEnabledTriStateOverHTTP(t *testing.T) {
	router := testAPI(t)

	w, resp := doJSON(t, router, http.MethodPost, "/api/alerts", models.Alert{Type: models.AlertTypeSubscribe})
	require.Equal(t, http.StatusCreated, w.Code)
	created, _ := json.Marshal(resp.Data)
	var alert models.Alert
	require.NoError(t, json.Unmarshal(created, &alert))

	// Omitted "enabled" defaults to true.
	w, resp = doJSON(t, router, http.MethodPost, "/api/alerts/"+alert.ID+"/variations", map[string]interface{}{
		"name": "default", "conditionType": "custom", "conditionValue": "vip",
	})
	require.Equal(t, http.StatusCreated, w.Code, resp)
	body, _ := json.Marshal(resp.Data)
	var defaultVariation models.Variation
	require.NoError(t, json.Unmarshal(body, &defaultVariation))
	require.True(t, defaultVariation.Enabled)

	// An explicit "enabled": false must be honored, not forced back to true.
	w, resp = doJSON(t, router, http.MethodPost, "/api/alerts/"+alert.ID+"/variations", map[string]interface{}{
		"name": "off", "conditionType": "custom", "conditionValue": "vip", "enabled": false,
	})
	require.Equal(t, http.StatusCreated, w.Code, resp)
	body, _ = json.Marshal(resp.Data)
	var offVariation models.Variation
	require.NoError(t, json.Unmarshal(body, &offVariation))
	require.False(t, offVariation.Enabled)
}

func TestMinAmountGateBlocksAlertBelowThreshold(t *testing.T) {
	router := testAPI(t)

	min := 10.0
	w, resp := doJSON(t, router, http.MethodPost, "/api/alerts", models.Alert{
		Type: models.AlertTypeDonation, MinAmount: &min, Enabled: true,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, resp.Success)

	below := 5.0
	w, resp = doJSON(t, router, http.MethodPost, "/api/test-alert", map[string]interface{}{
		"type": "donation", "username": "carol", "amount": below,
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]interface{})
	require.Equal(t, "no_match", data["status"])

	above := 25.0
	w, resp = doJSON(t, router, http.MethodPost, "/api/test-alert", map[string]interface{}{
		"type": "donation", "username": "carol", "amount": above,
	})
	require.Equal(t, http.StatusOK, w.Code)
	data = resp.Data.(map[string]interface{})
	require.Equal(t, "queued", data["status"])
}

func TestBuiltinTemplateProtectedOverHTTP(t *testing.T) {
	router := testAPI(t)

	w, resp := doJSON(t, router, http.MethodGet, "/api/templates", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list, _ := json.Marshal(resp.Data)
	var templates []models.Template
	require.NoError(t, json.Unmarshal(list, &templates))
	require.NotEmpty(t, templates)

	var builtinID string
	for _, tpl := range templates {
		if tpl.IsBuiltin {
			builtinID = tpl.ID
			break
		}
	}
	require.NotEmpty(t, builtinID, "expected a seeded built-in template")

	w, resp = doJSON(t, router, http.MethodPut, "/api/templates/"+builtinID, map[string]interface{}{
		"name": "hacked",
	})
	require.Equal(t, http.StatusForbidden, w.Code)
	require.False(t, resp.Success)

	w, resp = doJSON(t, router, http.MethodDelete, "/api/templates/"+builtinID, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	require.False(t, resp.Success)
}

func TestCreateUpdateDeleteUserTemplateOverHTTP(t *testing.T) {
	router := testAPI(t)

	w, resp := doJSON(t, router, http.MethodPost, "/api/templates", models.Template{Name: "Mine", SpecBlob: "{}"})
	require.Equal(t, http.StatusCreated, w.Code)
	created, _ := json.Marshal(resp.Data)
	var tpl models.Template
	require.NoError(t, json.Unmarshal(created, &tpl))

	w, resp = doJSON(t, router, http.MethodPut, "/api/templates/"+tpl.ID, map[string]interface{}{"name": "Mine v2"})
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = doJSON(t, router, http.MethodDelete, "/api/templates/"+tpl.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)
}

func TestSettingsGetSetOverHTTP(t *testing.T) {
	router := testAPI(t)

	w, resp := doJSON(t, router, http.MethodGet, "/api/settings/theme", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Nil(t, resp.Data)

	w, resp = doJSON(t, router, http.MethodPut, "/api/settings/theme", map[string]string{"value": "dark"})
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)

	w, resp = doJSON(t, router, http.MethodGet, "/api/settings/theme", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]interface{})
	require.Equal(t, "dark", data["value"])
}

func TestTestAlertClearAndStatus(t *testing.T) {
	router := testAPI(t)

	w, resp := doJSON(t, router, http.MethodGet, "/api/test-alert/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]interface{})
	require.Nil(t, data["currentAlert"])

	w, resp = doJSON(t, router, http.MethodPost, "/api/test-alert/clear", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, resp.Success)
}

func TestWSStatusReportsAllNamespaces(t *testing.T) {
	router := testAPI(t)
	w, resp := doJSON(t, router, http.MethodGet, "/api/ws/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := resp.Data.(map[string]interface{})
	require.Equal(t, float64(0), data["totalClients"])
}
