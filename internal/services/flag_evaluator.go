package services

import (
	"bytes"
	"encoding/json"
	"strings"

	"maverick/dispatch/internal/common"
	"maverick/dispatch/internal/models/entities"
)

// VFR thresholds used by the coarse weather trigger
const (
	MinVisibilityKm        = 5.0
	MinCeilingFt           = 3000.0
	MaxCrosswindKt         = 15.0
	MaxWindSpeedKt         = 20.0
	HighTrafficDensity     = 0.7
	visibilityMetersCutoff = 100.0
)

type metarFields struct {
	Visibility         *common.FlexFloat `json:"visibility"`
	Ceiling            *common.FlexFloat `json:"ceiling"`
	WindSpeed          *common.FlexFloat `json:"windSpeed"`
	CrosswindComponent *common.FlexFloat `json:"crosswindComponent"`
}

type trafficFields struct {
	DensityIndex *common.FlexFloat `json:"densityIndex"`
}

type noticeFields struct {
	Text string `json:"text"`
}

// EvaluateFlags maps a raw capture onto the four derived flags.
// Pure: no I/O, and absent or unreadable inputs never raise a flag.
func EvaluateFlags(capture entities.RawCapture) entities.DerivedFlags {
	metar := decodeSection[metarFields](capture.Metar)
	traffic := decodeSection[trafficFields](capture.Traffic)

	return entities.DerivedFlags{
		BelowMinimaWeather: belowMinima(metar),
		StrongCrosswind:    strongCrosswind(metar),
		RunwayClosed:       runwayClosed(noticeTexts(capture.Notams)),
		HighTraffic:        highTraffic(traffic),
	}
}

func belowMinima(m metarFields) bool {
	if vis := m.Visibility.Float(); vis != nil && *vis >= 0 {
		km := *vis
		if km > visibilityMetersCutoff {
			km = km / 1000
		}
		if km < MinVisibilityKm {
			return true
		}
	}
	if ceiling := m.Ceiling.Float(); ceiling != nil && *ceiling >= 0 && *ceiling < MinCeilingFt {
		return true
	}
	return false
}

// strongCrosswind prefers the explicit component; wind speed is only a proxy when it is missing.
func strongCrosswind(m metarFields) bool {
	if xw := m.CrosswindComponent.Float(); xw != nil {
		return *xw > MaxCrosswindKt
	}
	if ws := m.WindSpeed.Float(); ws != nil {
		return *ws > MaxWindSpeedKt
	}
	return false
}

func runwayClosed(notices []string) bool {
	for _, text := range notices {
		upper := strings.ToUpper(text)
		if strings.Contains(upper, "RWY") &&
			(strings.Contains(upper, "CLSD") || strings.Contains(upper, "CLOSED")) {
			return true
		}
	}
	return false
}

func highTraffic(t trafficFields) bool {
	if density := t.DensityIndex.Float(); density != nil {
		return *density > HighTrafficDensity
	}
	return false
}

// noticeTexts accepts a list of strings or of {"text": "..."} objects,
// or an object wrapping such a list under "notams"/"items".
func noticeTexts(raw json.RawMessage) []string {
	if isEmptySection(raw) {
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		var wrapper struct {
			Notams []json.RawMessage `json:"notams"`
			Items  []json.RawMessage `json:"items"`
		}
		if err := json.Unmarshal(raw, &wrapper); err != nil {
			return nil
		}
		items = append(wrapper.Notams, wrapper.Items...)
	}

	texts := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			texts = append(texts, s)
			continue
		}
		var n noticeFields
		if err := json.Unmarshal(item, &n); err == nil && n.Text != "" {
			texts = append(texts, n.Text)
		}
	}
	return texts
}

// decodeSection returns the zero value when the section is missing or malformed.
func decodeSection[T any](raw json.RawMessage) T {
	var section T
	if isEmptySection(raw) {
		return section
	}
	if err := json.Unmarshal(raw, &section); err != nil {
		var zero T
		return zero
	}
	return section
}

func isEmptySection(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
