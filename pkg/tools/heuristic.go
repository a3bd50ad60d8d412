package tools

import (
	"regexp"
	"strings"
)

var (
	fromToRe  = regexp.MustCompile(`(?i)from\s+(.+?)\s+to\s+(.+)$`)
	betweenRe = regexp.MustCompile(`(?i)between\s+(.+?)\s+and\s+(.+)$`)
)

// Development placeholders used when no place names can be extracted:
// Beirut and Tripoli as [lon, lat], and Beirut as the POI city.
var (
	fallbackOrigin      = []float64{35.5018, 33.8938}
	fallbackDestination = []float64{35.8497, 34.4367}
)

const fallbackCity = "Beirut"

func extractPlaces(prompt string) (string, string, bool) {
	m := fromToRe.FindStringSubmatch(prompt)
	if m == nil {
		m = betweenRe.FindStringSubmatch(prompt)
	}
	if m == nil {
		return "", "", false
	}
	clean := func(s string) string {
		return strings.TrimRight(strings.TrimSpace(s), "?!.")
	}
	return clean(m[1]), clean(m[2]), true
}

// HeuristicRoute picks a tool and arguments from the prompt text alone.
// It is the terminal fallback of every provider path and is deliberately
// crude: keyword checks in priority order, with fixed placeholder
// arguments when nothing can be extracted.
func HeuristicRoute(prompt string) (string, map[string]any) {
	p := strings.ToLower(prompt)

	if strings.Contains(p, "distance") {
		if origin, destination, ok := extractPlaces(prompt); ok {
			return "ors_distance_places", map[string]any{
				"origin_place":      origin,
				"destination_place": destination,
			}
		}
		return "ors_distance", map[string]any{
			"origin":      fallbackOrigin,
			"destination": fallbackDestination,
		}
	}

	if strings.Contains(p, "route") {
		if origin, destination, ok := extractPlaces(prompt); ok {
			return "ors_route_places", map[string]any{
				"origin_place":      origin,
				"destination_place": destination,
			}
		}
		return "ors_route", map[string]any{
			"origin":      fallbackOrigin,
			"destination": fallbackDestination,
			"profile":     "driving-car",
		}
	}

	for _, k := range []string{"hospital", "restaurant", "poi"} {
		if strings.Contains(p, k) {
			return "osm_search_poi", map[string]any{
				"query": "hospitals",
				"city":  fallbackCity,
			}
		}
	}

	return "osm_geocode", map[string]any{"place": prompt}
}
