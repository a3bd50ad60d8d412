package tools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mapagent/mapagent/pkg/geo"
)

// Geocoder is the slice of the OSM adapter the dispatcher needs.
type Geocoder interface {
	Geocode(ctx context.Context, place string) geo.Result
	Reverse(ctx context.Context, lat, lon float64) geo.Result
	SearchPOI(ctx context.Context, query, city string, maxCount any) geo.Result
}

// Router is the slice of the ORS adapter the dispatcher needs.
type Router interface {
	Route(ctx context.Context, origin, destination []float64, profile string) geo.Result
	Distance(ctx context.Context, origin, destination []float64) geo.Result
	Nearby(ctx context.Context, lat, lon float64) geo.Result
}

// Dispatcher routes tool calls to the geo adapters. It memoizes resolved
// place-name coordinates for its own lifetime; the cache is intentionally
// unbounded and never evicted — one assistant instance, one cache.
type Dispatcher struct {
	osm Geocoder
	ors Router

	// place name (trimmed, lower-cased) -> [lon, lat]
	placeCache map[string][2]float64
}

// NewDispatcher wires a dispatcher over the two geo adapters.
func NewDispatcher(osm Geocoder, ors Router) *Dispatcher {
	return &Dispatcher{
		osm:        osm,
		ors:        ors,
		placeCache: make(map[string][2]float64),
	}
}

// CachedPlace reports the cached coordinates for a place name, if any.
func (d *Dispatcher) CachedPlace(place string) ([2]float64, bool) {
	coords, ok := d.placeCache[normalizePlace(place)]
	return coords, ok
}

func normalizePlace(place string) string {
	return strings.ToLower(strings.TrimSpace(place))
}

func argString(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", false
	}
	return s, true
}

func argFloat(args map[string]any, key string) (float64, bool) {
	switch v := args[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// argCoords reads a [lon, lat] pair; providers deliver these as []any of
// JSON numbers.
func argCoords(args map[string]any, key string) ([]float64, bool) {
	switch v := args[key].(type) {
	case []float64:
		if len(v) == 2 {
			return v, true
		}
	case []any:
		if len(v) != 2 {
			return nil, false
		}
		out := make([]float64, 2)
		for i, item := range v {
			f, ok := item.(float64)
			if !ok {
				return nil, false
			}
			out[i] = f
		}
		return out, true
	}
	return nil, false
}

// Dispatch executes one named tool call. Unknown names and malformed
// arguments come back as failure results; nothing panics or returns a Go
// error to the caller.
func (d *Dispatcher) Dispatch(ctx context.Context, name string, args map[string]any) geo.Result {
	if args == nil {
		args = map[string]any{}
	}

	switch name {
	case "osm_geocode":
		place, ok := argString(args, "place")
		if !ok {
			return geo.Fail("osm_geocode requires a place")
		}
		res := d.osm.Geocode(ctx, place)
		d.rememberPlace(place, res)
		return res

	case "osm_reverse":
		lat, okLat := argFloat(args, "lat")
		lon, okLon := argFloat(args, "lon")
		if !okLat || !okLon {
			return geo.Fail("osm_reverse requires numeric lat and lon")
		}
		return d.osm.Reverse(ctx, lat, lon)

	case "osm_search_poi":
		query, okQ := argString(args, "query")
		city, okC := argString(args, "city")
		if !okQ || !okC {
			return geo.Fail("osm_search_poi requires query and city")
		}
		return d.osm.SearchPOI(ctx, query, city, args["max_count"])

	case "ors_route":
		origin, okO := argCoords(args, "origin")
		destination, okD := argCoords(args, "destination")
		if !okO || !okD {
			return geo.Fail("ors_route requires origin and destination as [lon, lat]")
		}
		profile, _ := argString(args, "profile")
		return d.ors.Route(ctx, origin, destination, profile)

	case "ors_distance":
		origin, okO := argCoords(args, "origin")
		destination, okD := argCoords(args, "destination")
		if !okO || !okD {
			return geo.Fail("ors_distance requires origin and destination as [lon, lat]")
		}
		return d.ors.Distance(ctx, origin, destination)

	case "ors_nearby":
		lat, okLat := argFloat(args, "lat")
		lon, okLon := argFloat(args, "lon")
		if !okLat || !okLon {
			return geo.Fail("ors_nearby requires numeric lat and lon")
		}
		return d.ors.Nearby(ctx, lat, lon)

	case "ors_distance_places":
		origin, destination, err := d.resolvePair(ctx, args)
		if err != nil {
			return geo.Failf("Geocoding failed: %s", err)
		}
		out := d.ors.Distance(ctx, origin[:], destination[:])
		return out.Augment(map[string]any{
			"origin":      []float64{origin[0], origin[1]},
			"destination": []float64{destination[0], destination[1]},
		})

	case "ors_route_places":
		origin, destination, err := d.resolvePair(ctx, args)
		if err != nil {
			return geo.Failf("Geocoding failed: %s", err)
		}
		return d.ors.Route(ctx, origin[:], destination[:], geo.DefaultProfile)

	default:
		return geo.Failf("Unknown tool: %s", name)
	}
}

// rememberPlace opportunistically fills the cache from a geocode result.
// Anything that does not parse is silently skipped; cache population must
// never fail a geocode that succeeded upstream.
func (d *Dispatcher) rememberPlace(place string, res geo.Result) {
	if res.Failed() {
		return
	}
	lon, okLon := parseCoord(res, "lon")
	lat, okLat := parseCoord(res, "lat")
	if !okLon || !okLat {
		return
	}
	d.placeCache[normalizePlace(place)] = [2]float64{lon, lat}
}

// parseCoord reads a coordinate field that Nominatim returns as a string.
func parseCoord(res geo.Result, key string) (float64, bool) {
	v, ok := res.Field(key)
	if !ok {
		return 0, false
	}
	switch x := v.(type) {
	case float64:
		return x, true
	case string:
		f, err := strconv.ParseFloat(x, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// resolvePair resolves origin_place and destination_place, consulting the
// cache before geocoding. Each resolution happens sequentially.
func (d *Dispatcher) resolvePair(ctx context.Context, args map[string]any) ([2]float64, [2]float64, error) {
	var zero [2]float64
	originPlace, okO := argString(args, "origin_place")
	destinationPlace, okD := argString(args, "destination_place")
	if !okO || !okD {
		return zero, zero, fmt.Errorf("origin_place and destination_place are required")
	}

	origin, err := d.resolvePlace(ctx, originPlace)
	if err != nil {
		return zero, zero, err
	}
	destination, err := d.resolvePlace(ctx, destinationPlace)
	if err != nil {
		return zero, zero, err
	}
	return origin, destination, nil
}

func (d *Dispatcher) resolvePlace(ctx context.Context, place string) ([2]float64, error) {
	key := normalizePlace(place)
	if coords, ok := d.placeCache[key]; ok {
		return coords, nil
	}

	res := d.osm.Geocode(ctx, place)
	if res.Failed() {
		return [2]float64{}, fmt.Errorf("%s", res.Error())
	}
	lon, okLon := parseCoord(res, "lon")
	lat, okLat := parseCoord(res, "lat")
	if !okLon || !okLat {
		return [2]float64{}, fmt.Errorf("non-numeric coordinates for %s", place)
	}

	coords := [2]float64{lon, lat}
	d.placeCache[key] = coords
	return coords, nil
}
