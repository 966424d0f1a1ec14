package entities

import (
	"encoding/json"
	"time"
)

// DerivedFlags are computed once when a capture is ingested and never recomputed.
type DerivedFlags struct {
	BelowMinimaWeather bool `gorm:"column:below_minima_weather;not null" json:"below_minima_weather"`
	StrongCrosswind    bool `gorm:"column:strong_crosswind;not null" json:"strong_crosswind"`
	RunwayClosed       bool `gorm:"column:runway_closed;not null" json:"runway_closed"`
	HighTraffic        bool `gorm:"column:high_traffic;not null" json:"high_traffic"`
}

// AsPayload flattens the flags for sync event payloads.
func (f DerivedFlags) AsPayload() map[string]any {
	return map[string]any{
		"below_minima_weather": f.BelowMinimaWeather,
		"strong_crosswind":     f.StrongCrosswind,
		"runway_closed":        f.RunwayClosed,
		"high_traffic":         f.HighTraffic,
	}
}

// RawCapture holds the unparsed payload sections of one environmental observation.
type RawCapture struct {
	Metar   json.RawMessage `json:"metar,omitempty"`
	Taf     json.RawMessage `json:"taf,omitempty"`
	Notams  json.RawMessage `json:"notams,omitempty"`
	Traffic json.RawMessage `json:"traffic,omitempty"`
}

// SyncEvent is one fire-and-forget record for the Maverick sync log.
type SyncEvent struct {
	ID         string         `json:"id"`
	EventType  string         `json:"event_type"`
	EntityType string         `json:"entity_type"`
	EntityID   string         `json:"entity_id"`
	TenantID   string         `json:"tenant_id,omitempty"`
	Payload    map[string]any `json:"payload"`
	OccurredAt time.Time      `json:"occurred_at"`
}
