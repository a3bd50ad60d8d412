package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Answer synthesis for the case where a model returns blank text after a
// tool round-trip. One formatter per tool name; adding a tool's summary
// format means adding an entry here, nothing else.

type formatter func(data any) string

var answerFormatters = map[string]formatter{
	"osm_search_poi":      formatPOIList,
	"osm_geocode":         formatGeocode,
	"osm_reverse":         formatReverse,
	"ors_distance":        formatDistance,
	"ors_distance_places": formatDistance,
	"ors_route":           formatRoute,
	"ors_route_places":    formatRoute,
}

// SynthesizeAnswer renders a deterministic best-effort answer from tool
// outcomes, one block per outcome.
func SynthesizeAnswer(results []ToolOutcome) string {
	lines := make([]string, 0, len(results))
	for _, tr := range results {
		lines = append(lines, formatOutcome(tr.Tool, tr.Content.Value()))
	}
	return strings.Join(lines, "\n")
}

func formatOutcome(tool string, data any) string {
	if fn, ok := answerFormatters[tool]; ok {
		return fn(data)
	}
	if strings.HasPrefix(tool, "ors_") {
		return fmt.Sprintf("%s: %s", tool, truncatedJSON(data, 400))
	}
	return truncatedJSON(data, 400)
}

func truncatedJSON(data any, limit int) string {
	b, err := json.Marshal(data)
	if err != nil {
		s := fmt.Sprint(data)
		if len(s) > limit {
			return s[:limit]
		}
		return s
	}
	if len(b) > limit {
		return string(b[:limit])
	}
	return string(b)
}

func errorText(m map[string]any) (string, bool) {
	v, ok := m["error"]
	if !ok {
		return "", false
	}
	return fmt.Sprint(v), true
}

func formatPOIList(data any) string {
	items, ok := asList(data)
	if !ok || len(items) == 0 {
		return truncatedJSON(data, 400)
	}
	if len(items) > 3 {
		items = items[:3]
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		m, _ := item.(map[string]any)
		lines = append(lines, fmt.Sprintf("- %s (%v, %v)",
			stringOr(m["name"], "?"), valueOr(m["lat"], "?"), valueOr(m["lon"], "?")))
	}
	return "Top places:\n" + strings.Join(lines, "\n")
}

func asList(data any) ([]any, bool) {
	switch v := data.(type) {
	case []any:
		return v, true
	case []map[string]any:
		out := make([]any, len(v))
		for i, m := range v {
			out[i] = m
		}
		return out, true
	}
	return nil, false
}

func stringOr(v any, fallback string) string {
	s, ok := v.(string)
	if !ok || s == "" {
		return fallback
	}
	return s
}

func valueOr(v any, fallback string) any {
	if v == nil {
		return fallback
	}
	return v
}

func formatGeocode(data any) string {
	m, ok := data.(map[string]any)
	if !ok {
		return truncatedJSON(data, 200)
	}
	lat, lon := m["lat"], m["lon"]
	if lat != nil && lat != "" && lon != nil && lon != "" {
		txt := fmt.Sprintf("Geocode: %s → %v, %v", stringOr(m["place"], "Place"), lat, lon)
		if disp, _ := m["display"].(string); disp != "" {
			txt += "\n" + disp
		}
		return txt
	}
	if msg, ok := errorText(m); ok {
		return "Geocode error: " + msg
	}
	return truncatedJSON(data, 200)
}

func formatReverse(data any) string {
	m, ok := data.(map[string]any)
	if !ok {
		return truncatedJSON(data, 200)
	}
	return fmt.Sprintf("Address: %s", stringOr(m["address"], "Unknown"))
}

func formatDistance(data any) string {
	m, ok := data.(map[string]any)
	if !ok {
		return truncatedJSON(data, 200)
	}
	d := m["cumulative_distance_km"]
	if d == nil {
		d = m["distance_km"]
	}
	if d != nil {
		return fmt.Sprintf("Distance: %v km", d)
	}
	if msg, ok := errorText(m); ok {
		return "Distance error: " + msg
	}
	return truncatedJSON(data, 200)
}

func formatRoute(data any) string {
	m, ok := data.(map[string]any)
	if !ok {
		return truncatedJSON(data, 400)
	}
	if steps, ok := asList(m["steps"]); ok && len(steps) > 0 {
		lines := make([]string, 0, 30)
		for i, raw := range steps {
			st, _ := raw.(map[string]any)
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, stringOr(st["instruction"], "Continue")))
			if len(lines) >= 30 {
				break
			}
		}
		return strings.Join(lines, "\n")
	}
	dist := m["cumulative_distance_km"]
	if dist == nil {
		dist = m["distance_km"]
	}
	dur := m["cumulative_duration_min"]
	if dur == nil {
		dur = m["duration_min"]
	}
	if dist != nil && dur != nil {
		return fmt.Sprintf("Route: %v km, %v min", dist, dur)
	}
	return truncatedJSON(data, 400)
}
