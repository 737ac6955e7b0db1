package valueobject

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TimeFormat selects 12-hour or 24-hour clock rendering.
type TimeFormat string

const (
	TimeFormat12Hour TimeFormat = "12"
	TimeFormat24Hour TimeFormat = "24"

	// DefaultDateLocale is used when no locale is stored or the stored one cannot be used.
	DefaultDateLocale = "en-US"
)

// ParseTimeFormat accepts "12"/"24" and the "12h"/"24h" spellings.
func ParseTimeFormat(value string) (TimeFormat, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "12", "12h":
		return TimeFormat12Hour, nil
	case "24", "24h":
		return TimeFormat24Hour, nil
	default:
		return "", fmt.Errorf("time format must be 12 or 24, got %q", value)
	}
}

// DisplayPreferences are the user's rendering choices. The JSON field names
// match the stored blob so existing preference records stay readable.
type DisplayPreferences struct {
	TimeFormat TimeFormat `json:"timeFormat"`
	DateLocale string     `json:"dateLocale"`
	DarkMode   bool       `json:"isDarkMode"`
}

// DefaultDisplayPreferences returns {12-hour, en-US, light}.
func DefaultDisplayPreferences() DisplayPreferences {
	return DisplayPreferences{
		TimeFormat: TimeFormat12Hour,
		DateLocale: DefaultDateLocale,
		DarkMode:   false,
	}
}

// Hour12 reports whether times should carry an AM/PM marker.
func (p DisplayPreferences) Hour12() bool {
	return p.TimeFormat != TimeFormat24Hour
}

// Normalize replaces invalid fields with their defaults.
func (p DisplayPreferences) Normalize() DisplayPreferences {
	if p.TimeFormat != TimeFormat12Hour && p.TimeFormat != TimeFormat24Hour {
		p.TimeFormat = TimeFormat12Hour
	}
	p.DateLocale = strings.TrimSpace(p.DateLocale)
	if len(p.DateLocale) < 2 {
		p.DateLocale = DefaultDateLocale
	}
	return p
}

// Encode serializes the preferences for storage.
func (p DisplayPreferences) Encode() (string, error) {
	data, err := json.Marshal(p.Normalize())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeDisplayPreferences parses a stored blob leniently: every field with the
// wrong type or an invalid value falls back to its default. Only malformed JSON
// is an error.
func DecodeDisplayPreferences(data string) (DisplayPreferences, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(data), &raw); err != nil {
		return DefaultDisplayPreferences(), fmt.Errorf("failed to parse stored preferences: %w", err)
	}

	prefs := DefaultDisplayPreferences()
	if v, ok := raw["timeFormat"].(string); ok {
		prefs.TimeFormat = TimeFormat(v)
	}
	if v, ok := raw["dateLocale"].(string); ok {
		prefs.DateLocale = v
	}
	if v, ok := raw["isDarkMode"].(bool); ok {
		prefs.DarkMode = v
	}
	return prefs.Normalize(), nil
}
