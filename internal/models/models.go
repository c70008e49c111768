// StreamForge Event Server - Desktop Companion Sidecar for Live-Streaming Alerts
// Copyright 2026 StreamForge Contributors
// SPDX-License-Identifier: MIT
// https://github.com/streamforge/eventserver

// Package models defines the persistent and transient data shapes shared
// across the store, repository, resolver, queue, and API layers.
package models

import "time"

// AlertType enumerates the recognized event kinds.
type AlertType string

const (
	AlertTypeFollow     AlertType = "follow"
	AlertTypeSubscribe  AlertType = "subscribe"
	AlertTypeCheer      AlertType = "cheer"
	AlertTypeRaid       AlertType = "raid"
	AlertTypeDonation   AlertType = "donation"
	AlertTypeCustom     AlertType = "custom"
)

// ConditionType enumerates the Variation matching strategies.
type ConditionType string

const (
	ConditionTier   ConditionType = "tier"
	ConditionAmount ConditionType = "amount"
	ConditionCustom ConditionType = "custom"
)

// Alert is the parent configuration row for one class of event.
type Alert struct {
	ID              string      `json:"id" db:"id"`
	Type            AlertType   `json:"type" db:"type" validate:"required,oneof=follow subscribe cheer raid donation custom"`
	DisplayName     string      `json:"displayName" db:"display_name"`
	Enabled         bool        `json:"enabled" db:"enabled"`
	MessageTemplate string      `json:"messageTemplate" db:"message_template"`
	DurationMs      int         `json:"durationMs" db:"duration_ms" validate:"required,gte=1000,lte=60000"`
	AnimationIn     string      `json:"animationIn" db:"animation_in"`
	AnimationOut    string      `json:"animationOut" db:"animation_out"`
	SoundPath       string      `json:"soundPath" db:"sound_path"`
	SoundVolume     float64     `json:"soundVolume" db:"sound_volume" validate:"gte=0,lte=1"`
	ImagePath       string      `json:"imagePath" db:"image_path"`
	FontFamily      string      `json:"fontFamily" db:"font_family"`
	FontSize        int         `json:"fontSize" db:"font_size" validate:"gte=12,lte=200"`
	TextColor       string      `json:"textColor" db:"text_color"`
	BackgroundColor *string     `json:"backgroundColor" db:"background_color"`
	CustomCSS       string      `json:"customCss" db:"custom_css"`
	MinAmount       *float64    `json:"minAmount" db:"min_amount"`
	TTSEnabled      bool        `json:"ttsEnabled" db:"tts_enabled"`
	TTSVoice        string      `json:"ttsVoice" db:"tts_voice"`
	TTSRate         float64     `json:"ttsRate" db:"tts_rate"`
	TTSPitch        float64     `json:"ttsPitch" db:"tts_pitch"`
	TTSVolume       float64     `json:"ttsVolume" db:"tts_volume" validate:"gte=0,lte=1"`
	CreatedAt       time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time   `json:"updatedAt" db:"updated_at"`
	Variations      []Variation `json:"variations,omitempty" db:"-"`
}

// Variation is a conditional override attached to a parent Alert.
type Variation struct {
	ID              string        `json:"id" db:"id"`
	ParentAlertID   string        `json:"parentAlertId" db:"parent_alert_id" validate:"required"`
	Name            string        `json:"name" db:"name" validate:"required"`
	ConditionType   ConditionType `json:"conditionType" db:"condition_type" validate:"required,oneof=tier amount custom"`
	ConditionValue  string        `json:"conditionValue" db:"condition_value" validate:"required"`
	Priority        int           `json:"priority" db:"priority"`
	Enabled         bool          `json:"enabled" db:"enabled"`
	MessageTemplate *string       `json:"messageTemplate" db:"message_template"`
	SoundPath       *string       `json:"soundPath" db:"sound_path"`
	SoundVolume     *float64      `json:"soundVolume" db:"sound_volume"`
	ImagePath       *string       `json:"imagePath" db:"image_path"`
	AnimationIn     *string       `json:"animationIn" db:"animation_in"`
	AnimationOut    *string       `json:"animationOut" db:"animation_out"`
	CustomCSS       *string       `json:"customCss" db:"custom_css"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`
}

// Template is a saved AlertSpec snapshot.
type Template struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Author      string    `json:"author" db:"author"`
	SpecBlob    string    `json:"spec" db:"spec_blob"`
	IsBuiltin   bool      `json:"isBuiltin" db:"is_builtin"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Setting is an opaque key/value row.
type Setting struct {
	Key       string    `json:"key" db:"key"`
	Value     string    `json:"value" db:"value"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// EventLog is an append-only audit record of any event reaching the server.
type EventLog struct {
	ID          string            `json:"id" db:"id"`
	Platform    string            `json:"platform" db:"platform"`
	EventType   string            `json:"eventType" db:"event_type"`
	Username    string            `json:"username" db:"username"`
	DisplayName string            `json:"displayName" db:"display_name"`
	Amount      *float64          `json:"amount" db:"amount"`
	Message     *string           `json:"message" db:"message"`
	Metadata    map[string]string `json:"metadata" db:"-"`
	MetadataRaw string            `json:"-" db:"metadata"`
	AlertFired  bool              `json:"alertFired" db:"alert_fired"`
	Timestamp   time.Time         `json:"timestamp" db:"timestamp"`
}

// EventFacts is the input to the Rule Resolver: an event type plus an
// open-ended bag of facts about the event.
type EventFacts struct {
	Username    string
	DisplayName string
	Amount      *float64
	Tier        string
	CustomValue string
	Message     string
}

// AlertSpec is the merged {parent ⊕ variation} record handed to overlays.
type AlertSpec struct {
	AlertID         string   `json:"alertId"`
	Type            AlertType `json:"type"`
	DisplayName     string   `json:"displayName"`
	MessageTemplate string   `json:"messageTemplate"`
	DurationMs      int      `json:"durationMs"`
	AnimationIn     string   `json:"animationIn"`
	AnimationOut    string   `json:"animationOut"`
	SoundPath       string   `json:"soundPath"`
	SoundVolume     float64  `json:"soundVolume"`
	ImagePath       string   `json:"imagePath"`
	FontFamily      string   `json:"fontFamily"`
	FontSize        int      `json:"fontSize"`
	TextColor       string   `json:"textColor"`
	BackgroundColor *string  `json:"backgroundColor"`
	CustomCSS       string   `json:"customCss"`
	TTSEnabled      bool     `json:"ttsEnabled"`
	TTSVoice        string   `json:"ttsVoice"`
	TTSRate         float64  `json:"ttsRate"`
	TTSPitch        float64  `json:"ttsPitch"`
	TTSVolume       float64  `json:"ttsVolume"`
	VariationID     *string  `json:"_variation_id,omitempty"`
	VariationName   *string  `json:"_variation_name,omitempty"`
}

// AlertInstance is a transient, resolved AlertSpec enqueued for playback.
// It is never persisted.
type AlertInstance struct {
	ID            string    `json:"id"`
	AlertConfigID string    `json:"alertConfigId"`
	Type          AlertType `json:"type"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"displayName"`
	Amount        *float64  `json:"amount"`
	Message       string    `json:"message"`
	Timestamp     time.Time `json:"timestamp"`
	Config        AlertSpec `json:"config"`
}
