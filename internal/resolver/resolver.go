// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

// Package resolver implements the deterministic mapping from a triggered
// event to a resolved AlertSpec, given the current Alert/Variation
// configuration.
package resolver

import (
	"context"
	"strconv"

	"github.com/streamforge/eventserver/internal/logging"
	"github.com/streamforge/eventserver/internal/models"
)

// Repository is the subset of the Config Repository the resolver needs.
type Repository interface {
	ListEnabledAlertsByType(ctx context.Context, alertType models.AlertType) ([]models.Alert, error)
	ListEnabledVariationsByParent(ctx context.Context, parentID string) ([]models.Variation, error)
}

// Resolver runs the rule-matching algorithm over a Repository.
type Resolver struct {
	repo Repository
}

// New builds a Resolver backed by repo.
func New(repo Repository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve returns the merged AlertSpec for the first enabled Alert of
// eventType whose min_amount gate passes, or nil if none qualifies.
// Candidates are evaluated in created-at ascending order; the first one
// that passes its gate wins outright, whether or not one of its
// Variations matches.
func (r *Resolver) Resolve(ctx context.Context, eventType models.AlertType, facts models.EventFacts) (*models.AlertSpec, error) {
	candidates, err := r.repo.ListEnabledAlertsByType(ctx, eventType)
	if err != nil {
		return nil, err
	}

	for _, alert := range candidates {
		if !passesMinAmount(alert, facts) {
			continue
		}

		variations, err := r.repo.ListEnabledVariationsByParent(ctx, alert.ID)
		if err != nil {
			return nil, err
		}

		for _, v := range variations {
			if matches(v, facts) {
				spec := merge(alert, v)
				return &spec, nil
			}
		}

		spec := toSpec(alert)
		return &spec, nil
	}

	return nil, nil
}

func passesMinAmount(alert models.Alert, facts models.EventFacts) bool {
	if alert.MinAmount == nil {
		return true
	}
	if facts.Amount == nil {
		return true
	}
	return *facts.Amount >= *alert.MinAmount
}

func matches(v models.Variation, facts models.EventFacts) bool {
	switch v.ConditionType {
	case models.ConditionTier:
		return facts.Tier == v.ConditionValue
	case models.ConditionAmount:
		if facts.Amount == nil {
			return false
		}
		threshold, err := strconv.ParseFloat(v.ConditionValue, 64)
		if err != nil {
			logging.Warn().Str("variation_id", v.ID).Str("condition_value", v.ConditionValue).
				Msg("resolver: amount condition value is not numeric, treating as no-match")
			return false
		}
		return *facts.Amount >= threshold
	case models.ConditionCustom:
		return facts.CustomValue == v.ConditionValue
	default:
		return false
	}
}

// merge produces a new AlertSpec from a copy of the parent Alert with the
// variation's non-nil override fields applied: message_template,
// sound_path, sound_volume, image_path, animation_in, animation_out, and
// custom_css. Neither alert nor v is mutated.
func merge(alert models.Alert, v models.Variation) models.AlertSpec {
	spec := toSpec(alert)

	if v.MessageTemplate != nil {
		spec.MessageTemplate = *v.MessageTemplate
	}
	if v.SoundPath != nil {
		spec.SoundPath = *v.SoundPath
	}
	if v.SoundVolume != nil {
		spec.SoundVolume = *v.SoundVolume
	}
	if v.ImagePath != nil {
		spec.ImagePath = *v.ImagePath
	}
	if v.AnimationIn != nil {
		spec.AnimationIn = *v.AnimationIn
	}
	if v.AnimationOut != nil {
		spec.AnimationOut = *v.AnimationOut
	}
	if v.CustomCSS != nil {
		spec.CustomCSS = *v.CustomCSS
	}

	vid := v.ID
	vname := v.Name
	spec.VariationID = &vid
	spec.VariationName = &vname

	return spec
}

func toSpec(alert models.Alert) models.AlertSpec {
	return models.AlertSpec{
		AlertID:         alert.ID,
		Type:            alert.Type,
		DisplayName:     alert.DisplayName,
		MessageTemplate: alert.MessageTemplate,
		DurationMs:      alert.DurationMs,
		AnimationIn:     alert.AnimationIn,
		AnimationOut:    alert.AnimationOut,
		SoundPath:       alert.SoundPath,
		SoundVolume:     alert.SoundVolume,
		ImagePath:       alert.ImagePath,
		FontFamily:      alert.FontFamily,
		FontSize:        alert.FontSize,
		TextColor:       alert.TextColor,
		BackgroundColor: alert.BackgroundColor,
		CustomCSS:       alert.CustomCSS,
		TTSEnabled:      alert.TTSEnabled,
		TTSVoice:        alert.TTSVoice,
		TTSRate:         alert.TTSRate,
		TTSPitch:        alert.TTSPitch,
		TTSVolume:       alert.TTSVolume,
	}
}
