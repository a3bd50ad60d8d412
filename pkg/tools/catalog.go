package tools

// Spec describes one tool the assistant may call, with a JSON-schema
// parameter contract. The same specs drive every provider's
// function-calling manifest, so names and parameter shapes are part of
// the compatibility surface and must not be renamed.
type Spec struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

func lonLatParam(desc string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "number"},
		"minItems":    2,
		"maxItems":    2,
		"description": desc,
	}
}

var catalog = []Spec{
	{
		Name:        "osm_geocode",
		Description: "Geocode a place name to coordinates using OpenStreetMap.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"place": map[string]any{"type": "string", "description": "Place name to geocode"},
			},
			"required": []string{"place"},
		},
	},
	{
		Name:        "osm_reverse",
		Description: "Reverse geocode coordinates to an address using OpenStreetMap.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"lat": map[string]any{"type": "number"},
				"lon": map[string]any{"type": "number"},
			},
			"required": []string{"lat", "lon"},
		},
	},
	{
		Name:        "osm_search_poi",
		Description: "Search for points of interest in a city using OpenStreetMap.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query":     map[string]any{"type": "string"},
				"city":      map[string]any{"type": "string"},
				"max_count": map[string]any{"type": "integer", "minimum": 1, "maximum": 20, "default": 5},
			},
			"required": []string{"query", "city"},
		},
	},
	{
		Name:        "ors_route",
		Description: "Compute a route and duration using OpenRouteService.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"origin":      lonLatParam("[lon, lat]"),
				"destination": lonLatParam("[lon, lat]"),
				"profile":     map[string]any{"type": "string", "default": "driving-car"},
			},
			"required": []string{"origin", "destination"},
		},
	},
	{
		Name:        "ors_distance",
		Description: "Compute distance only using OpenRouteService.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"origin":      lonLatParam("[lon, lat]"),
				"destination": lonLatParam("[lon, lat]"),
			},
			"required": []string{"origin", "destination"},
		},
	},
	{
		Name:        "ors_nearby",
		Description: "Find nearby POIs around a coordinate using OpenRouteService.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"lat": map[string]any{"type": "number"},
				"lon": map[string]any{"type": "number"},
			},
			"required": []string{"lat", "lon"},
		},
	},
	{
		Name:        "ors_distance_places",
		Description: "Compute driving distance between two place names (auto-geocodes, country bias may apply).",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"origin_place":      map[string]any{"type": "string"},
				"destination_place": map[string]any{"type": "string"},
			},
			"required": []string{"origin_place", "destination_place"},
		},
	},
	{
		Name:        "ors_route_places",
		Description: "Compute route between two place names (auto-geocodes, driving-car).",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"origin_place":      map[string]any{"type": "string"},
				"destination_place": map[string]any{"type": "string"},
			},
			"required": []string{"origin_place", "destination_place"},
		},
	},
}

// Catalog returns the full ordered tool catalog. The order is stable and
// identical for every provider.
func Catalog() []Spec {
	out := make([]Spec, len(catalog))
	copy(out, catalog)
	return out
}

// Names returns the tool names in catalog order.
func Names() []string {
	out := make([]string, 0, len(catalog))
	for _, s := range catalog {
		out = append(out, s.Name)
	}
	return out
}
