// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/streamforge/eventserver/internal/apierr"
	"github.com/streamforge/eventserver/internal/models"
	"github.com/streamforge/eventserver/internal/store"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	dir := t.TempDir()
	db, err := store.Open(context.Background(), store.Config{Path: filepath.Join(dir, "test.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db)
}

func float64Ptr(f float64) *float64 { return &f }
func strPtr(s string) *string       { return &s }

func TestCreateAlertAppliesDefaultsForZeroFields(t *testing.T) {
	r := openTestRepo(t)

	a, err := r.CreateAlert(context.Background(), models.Alert{Type: models.AlertTypeFollow})
	require.NoError(t, err)
	require.NotEmpty(t, a.ID)
	require.Equal(t, AlertDefaults.MessageTemplate, a.MessageTemplate)
	require.Equal(t, AlertDefaults.DurationMs, a.DurationMs)
	require.Equal(t, AlertDefaults.SoundVolume, a.SoundVolume)
	require.False(t, a.Enabled, "Enabled has no zero-value default and stays false unless explicitly set")
}

func TestCreateAlertPreservesExplicitFields(t *testing.T) {
	r := openTestRepo(t)

	a, err := r.CreateAlert(context.Background(), models.Alert{
		Type:        models.AlertTypeDonation,
		DurationMs:  9000,
		SoundVolume: 0.4,
		MinAmount:   float64Ptr(5),
	})
	require.NoError(t, err)
	require.Equal(t, 9000, a.DurationMs)
	require.Equal(t, 0.4, a.SoundVolume)
	require.NotNil(t, a.MinAmount)
	require.Equal(t, 5.0, *a.MinAmount)
}

func TestGetAlertNotFound(t *testing.T) {
	r := openTestRepo(t)

	_, err := r.GetAlert(context.Background(), "missing")
	require.Error(t, err)
	require.True(t, apierr.Is(err, apierr.KindNotFound))
}

func TestGetAlertIncludesVariationsOrderedByPriority(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	a, err := r.CreateAlert(ctx, models.Alert{Type: models.AlertTypeCheer})
	require.NoError(t, err)

	_, err = r.CreateVariation(ctx, models.Variation{
		ParentAlertID: a.ID, Name: "low", ConditionType: models.ConditionAmount, ConditionValue: "1", Priority: 1,
	})
	require.NoError(t, err)
	_, err = r.CreateVariation(ctx, models.Variation{
		ParentAlertID: a.ID, Name: "high", ConditionType: models.ConditionAmount, ConditionValue: "100", Priority: 10,
	})
	require.NoError(t, err)

	got, err := r.GetAlert(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, got.Variations, 2)
	require.Equal(t, "high", got.Variations[0].Name)
	require.Equal(t, "low", got.Variations[1].Name)
}

func TestUpdateAlertPartialUpdateLeavesOtherFieldsUntouched(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	a, err := r.CreateAlert(ctx, models.Alert{Type: models.AlertTypeRaid, DisplayName: "Raid"})
	require.NoError(t, err)

	newName := "Big Raid"
	updated, err := r.UpdateAlert(ctx, a.ID, AlertUpdate{DisplayName: &newName})
	require.NoError(t, err)
	require.Equal(t, "Big Raid", updated.DisplayName)
	require.Equal(t, a.MessageTemplate, updated.MessageTemplate)
	require.True(t, updated.UpdatedAt.After(a.UpdatedAt) || updated.UpdatedAt.Equal(a.UpdatedAt))
}

func TestUpdateAlertBackgroundColorTriStateNilVsUnset(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	color := "#000000"
	a, err := r.CreateAlert(ctx, models.Alert{Type: models.AlertTypeCustom, BackgroundColor: &color})
	require.NoError(t, err)
	require.NotNil(t, a.BackgroundColor)

	var cleared *string
	updated, err := r.UpdateAlert(ctx, a.ID, AlertUpdate{BackgroundColor: &cleared})
	require.NoError(t, err)
	require.Nil(t, updated.BackgroundColor)
}

func TestUpdateAlertMissingReturnsNotFound(t *testing.T) {
	r := openTestRepo(t)

	name := "x"
	_, err := r.UpdateAlert(context.Background(), "missing", AlertUpdate{DisplayName: &name})
	require.Error(t, err)
	require.True(t, apierr.Is(err, apierr.KindNotFound))
}

func TestDeleteAlertCascadesVariations(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	a, err := r.CreateAlert(ctx, models.Alert{Type: models.AlertTypeSubscribe})
	require.NoError(t, err)
	v, err := r.CreateVariation(ctx, models.Variation{
		ParentAlertID: a.ID, Name: "tier3", ConditionType: models.ConditionTier, ConditionValue: "3000",
	})
	require.NoError(t, err)

	require.NoError(t, r.DeleteAlert(ctx, a.ID))

	_, err = r.GetAlert(ctx, a.ID)
	require.True(t, apierr.Is(err, apierr.KindNotFound))

	_, err = r.ListVariationsByParent(ctx, a.ID)
	require.NoError(t, err)

	err = r.DeleteVariation(ctx, v.ID)
	require.True(t, apierr.Is(err, apierr.KindNotFound), "variation should already be gone via cascade")
}

func TestCreateVariationRejectsUnknownParent(t *testing.T) {
	r := openTestRepo(t)

	_, err := r.CreateVariation(context.Background(), models.Variation{
		ParentAlertID: "nope", Name: "x", ConditionType: models.ConditionTier, ConditionValue: "1",
	})
	require.Error(t, err)
	require.True(t, apierr.Is(err, apierr.KindNotFound))
}

func TestCreateVariationPersistsEnabledExactlyAsGiven(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	a, err := r.CreateAlert(ctx, models.Alert{Type: models.AlertTypeFollow})
	require.NoError(t, err)

	// Repository.CreateVariation applies no default; a zero-value Enabled
	// is persisted as false, not silently forced to true.
	unset, err := r.CreateVariation(ctx, models.Variation{
		ParentAlertID: a.ID, Name: "unset", ConditionType: models.ConditionCustom, ConditionValue: "vip",
	})
	require.NoError(t, err)
	require.False(t, unset.Enabled)

	disabled, err := r.CreateVariation(ctx, models.Variation{
		ParentAlertID: a.ID, Name: "explicit-false", ConditionType: models.ConditionCustom, ConditionValue: "vip", Enabled: false,
	})
	require.NoError(t, err)
	require.False(t, disabled.Enabled)

	enabled, err := r.CreateVariation(ctx, models.Variation{
		ParentAlertID: a.ID, Name: "explicit-true", ConditionType: models.ConditionCustom, ConditionValue: "vip", Enabled: true,
	})
	require.NoError(t, err)
	require.True(t, enabled.Enabled)
}

func TestListEnabledVariationsByParentExcludesDisabled(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	a, err := r.CreateAlert(ctx, models.Alert{Type: models.AlertTypeCheer})
	require.NoError(t, err)

	_, err = r.CreateVariation(ctx, models.Variation{ParentAlertID: a.ID, Name: "on", ConditionType: models.ConditionAmount, ConditionValue: "1", Enabled: true})
	require.NoError(t, err)
	off, err := r.CreateVariation(ctx, models.Variation{ParentAlertID: a.ID, Name: "off", ConditionType: models.ConditionAmount, ConditionValue: "2", Enabled: true})
	require.NoError(t, err)

	disabled := false
	_, err = r.UpdateVariation(ctx, off.ID, VariationUpdate{Enabled: &disabled})
	require.NoError(t, err)

	enabled, err := r.ListEnabledVariationsByParent(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	require.Equal(t, "on", enabled[0].Name)
}

func TestUpdateVariationMessageTemplateTriState(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	a, err := r.CreateAlert(ctx, models.Alert{Type: models.AlertTypeFollow})
	require.NoError(t, err)
	v, err := r.CreateVariation(ctx, models.Variation{ParentAlertID: a.ID, Name: "v", ConditionType: models.ConditionTier, ConditionValue: "1"})
	require.NoError(t, err)
	require.Nil(t, v.MessageTemplate)

	tmpl := strPtr("hi {username}")
	updated, err := r.UpdateVariation(ctx, v.ID, VariationUpdate{MessageTemplate: &tmpl})
	require.NoError(t, err)
	require.NotNil(t, updated.MessageTemplate)
	require.Equal(t, "hi {username}", *updated.MessageTemplate)

	var cleared *string
	updated, err = r.UpdateVariation(ctx, v.ID, VariationUpdate{MessageTemplate: &cleared})
	require.NoError(t, err)
	require.Nil(t, updated.MessageTemplate)
}

func TestDeleteVariationMissingReturnsNotFound(t *testing.T) {
	r := openTestRepo(t)
	err := r.DeleteVariation(context.Background(), "missing")
	require.True(t, apierr.Is(err, apierr.KindNotFound))
}

func TestBuiltinTemplatesRejectUpdateAndDelete(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	templates, err := r.ListTemplates(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, templates)

	var builtin models.Template
	for _, tpl := range templates {
		if tpl.IsBuiltin {
			builtin = tpl
			break
		}
	}
	require.True(t, builtin.IsBuiltin, "expected a seeded built-in template")

	name := "renamed"
	_, err = r.UpdateTemplate(ctx, builtin.ID, TemplateUpdate{Name: &name})
	require.True(t, apierr.Is(err, apierr.KindForbidden))

	err = r.DeleteTemplate(ctx, builtin.ID)
	require.True(t, apierr.Is(err, apierr.KindForbidden))
}

func TestCreateUpdateDeleteUserTemplate(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	created, err := r.CreateTemplate(ctx, models.Template{Name: "Mine", SpecBlob: "{}"})
	require.NoError(t, err)
	require.False(t, created.IsBuiltin)

	newName := "Mine v2"
	updated, err := r.UpdateTemplate(ctx, created.ID, TemplateUpdate{Name: &newName})
	require.NoError(t, err)
	require.Equal(t, "Mine v2", updated.Name)

	require.NoError(t, r.DeleteTemplate(ctx, created.ID))
	_, err = r.GetTemplate(ctx, created.ID)
	require.True(t, apierr.Is(err, apierr.KindNotFound))
}

func TestSettingRoundTripAndUpsert(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	got, err := r.GetSetting(ctx, "theme")
	require.NoError(t, err)
	require.Nil(t, got)

	_, err = r.SetSetting(ctx, "theme", "dark")
	require.NoError(t, err)

	got, err = r.GetSetting(ctx, "theme")
	require.NoError(t, err)
	require.Equal(t, "dark", got.Value)

	_, err = r.SetSetting(ctx, "theme", "light")
	require.NoError(t, err)
	got, err = r.GetSetting(ctx, "theme")
	require.NoError(t, err)
	require.Equal(t, "light", got.Value)
}

func TestCreateEventLogSerializesMetadata(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	e, err := r.CreateEventLog(ctx, models.EventLog{
		Platform:  "twitch",
		EventType: "follow",
		Username:  "alice",
		Metadata:  map[string]string{"raw": "true"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, e.ID)
	require.Contains(t, e.MetadataRaw, "raw")
}

func TestListEventLogsAppliesFiltersAndOrdering(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	_, err := r.CreateEventLog(ctx, models.EventLog{Platform: "twitch", EventType: "follow", Username: "a"})
	require.NoError(t, err)
	_, err = r.CreateEventLog(ctx, models.EventLog{Platform: "youtube", EventType: "donation", Username: "b", AlertFired: true})
	require.NoError(t, err)

	all, err := r.ListEventLogs(ctx, EventLogFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	// descending timestamp order: most recent (donation) first or tied; just assert filter narrows correctly below

	twitchOnly, err := r.ListEventLogs(ctx, EventLogFilter{Platform: "twitch"})
	require.NoError(t, err)
	require.Len(t, twitchOnly, 1)
	require.Equal(t, "follow", twitchOnly[0].EventType)

	firedOnly, err := r.ListEventLogs(ctx, EventLogFilter{AlertFiredOnly: true})
	require.NoError(t, err)
	require.Len(t, firedOnly, 1)
	require.Equal(t, "donation", firedOnly[0].EventType)
}

func TestListEventLogsLimitClamping(t *testing.T) {
	require.Equal(t, defaultEventLogLimit, clampLimit(0))
	require.Equal(t, defaultEventLogLimit, clampLimit(-5))
	require.Equal(t, maxEventLogLimit, clampLimit(999999))
	require.Equal(t, 50, clampLimit(50))
}

func TestDeleteEventLogsBeforeCutoff(t *testing.T) {
	r := openTestRepo(t)
	ctx := context.Background()

	_, err := r.CreateEventLog(ctx, models.EventLog{Platform: "twitch", EventType: "follow", Username: "old"})
	require.NoError(t, err)

	future := time.Now().UTC().Add(time.Hour)
	n, err := r.DeleteEventLogsBefore(ctx, future)
	require.NoError(t, err)
	require.Equal(t, int64(1), n)

	remaining, err := r.ListEventLogs(ctx, EventLogFilter{})
	require.NoError(t, err)
	require.Empty(t, remaining)
}
