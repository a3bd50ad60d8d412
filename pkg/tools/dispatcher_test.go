package tools

import (
	"context"
	"testing"

	"github.com/mapagent/mapagent/pkg/geo"
)

type stubGeocoder struct {
	geocodeCalls  map[string]int
	geocodeResult map[string]geo.Result
	reverseResult geo.Result
	poiResult     geo.Result
}

func newStubGeocoder() *stubGeocoder {
	return &stubGeocoder{
		geocodeCalls:  map[string]int{},
		geocodeResult: map[string]geo.Result{},
	}
}

func (s *stubGeocoder) Geocode(_ context.Context, place string) geo.Result {
	s.geocodeCalls[place]++
	if res, ok := s.geocodeResult[place]; ok {
		return res
	}
	return geo.Failf("No results for %s", place)
}

func (s *stubGeocoder) Reverse(_ context.Context, lat, lon float64) geo.Result {
	return s.reverseResult
}

func (s *stubGeocoder) SearchPOI(_ context.Context, query, city string, maxCount any) geo.Result {
	return s.poiResult
}

type stubRouter struct {
	routeCalls    int
	distanceCalls int
	routeResult   geo.Result
	distResult    geo.Result
	lastOrigin    []float64
	lastDest      []float64
}

func (s *stubRouter) Route(_ context.Context, origin, destination []float64, profile string) geo.Result {
	s.routeCalls++
	s.lastOrigin, s.lastDest = origin, destination
	return s.routeResult
}

func (s *stubRouter) Distance(_ context.Context, origin, destination []float64) geo.Result {
	s.distanceCalls++
	s.lastOrigin, s.lastDest = origin, destination
	return s.distResult
}

func (s *stubRouter) Nearby(_ context.Context, lat, lon float64) geo.Result {
	return geo.OK(map[string]any{"features": []any{}})
}

func geocodeHit(place, lat, lon string) geo.Result {
	return geo.OK(map[string]any{"place": place, "lat": lat, "lon": lon, "display": place})
}

func TestDispatchUnknownTool(t *testing.T) {
	d := NewDispatcher(newStubGeocoder(), &stubRouter{})

	res := d.Dispatch(context.Background(), "teleport", nil)
	if !res.Failed() {
		t.Fatal("expected failure")
	}
	if res.Error() != "Unknown tool: teleport" {
		t.Errorf("error = %q", res.Error())
	}
	wire := res.Value().(map[string]any)
	if len(wire) != 1 || wire["error"] != "Unknown tool: teleport" {
		t.Errorf("wire = %v", wire)
	}
}

func TestGeocodePopulatesCache(t *testing.T) {
	osm := newStubGeocoder()
	osm.geocodeResult["Beirut"] = geocodeHit("Beirut", "33.8938", "35.5018")
	d := NewDispatcher(osm, &stubRouter{})

	res := d.Dispatch(context.Background(), "osm_geocode", map[string]any{"place": "Beirut"})
	if res.Failed() {
		t.Fatalf("dispatch failed: %s", res.Error())
	}

	coords, ok := d.CachedPlace("  BEIRUT ")
	if !ok {
		t.Fatal("cache miss after successful geocode")
	}
	if coords != [2]float64{35.5018, 33.8938} {
		t.Errorf("cached coords = %v, want [lon lat]", coords)
	}
}

func TestGeocodeCachePopulationFailureIsSwallowed(t *testing.T) {
	osm := newStubGeocoder()
	osm.geocodeResult["Atlantis"] = geocodeHit("Atlantis", "not-a-number", "also-not")
	d := NewDispatcher(osm, &stubRouter{})

	res := d.Dispatch(context.Background(), "osm_geocode", map[string]any{"place": "Atlantis"})
	if res.Failed() {
		t.Fatalf("geocode result must pass through: %s", res.Error())
	}
	if _, ok := d.CachedPlace("Atlantis"); ok {
		t.Error("non-numeric coordinates must not be cached")
	}
}

func TestDistancePlacesResolvesAndAugments(t *testing.T) {
	osm := newStubGeocoder()
	osm.geocodeResult["Beirut"] = geocodeHit("Beirut", "33.8938", "35.5018")
	osm.geocodeResult["Tripoli"] = geocodeHit("Tripoli", "34.4367", "35.8497")
	ors := &stubRouter{distResult: geo.OK(map[string]any{"distance_km": 85.0})}
	d := NewDispatcher(osm, ors)

	res := d.Dispatch(context.Background(), "ors_distance_places", map[string]any{
		"origin_place":      "Beirut",
		"destination_place": "Tripoli",
	})
	if res.Failed() {
		t.Fatalf("dispatch failed: %s", res.Error())
	}
	if v, _ := res.Field("distance_km"); v != 85.0 {
		t.Errorf("distance_km = %v", v)
	}
	origin, _ := res.Field("origin")
	if o, ok := origin.([]float64); !ok || o[0] != 35.5018 || o[1] != 33.8938 {
		t.Errorf("origin = %v", origin)
	}
	if ors.lastOrigin[0] != 35.5018 {
		t.Errorf("router got origin %v", ors.lastOrigin)
	}
}

func TestPlaceResolutionIsIdempotent(t *testing.T) {
	osm := newStubGeocoder()
	osm.geocodeResult["Beirut"] = geocodeHit("Beirut", "33.8938", "35.5018")
	osm.geocodeResult["Tripoli"] = geocodeHit("Tripoli", "34.4367", "35.8497")
	ors := &stubRouter{distResult: geo.OK(map[string]any{"distance_km": 85.0})}
	d := NewDispatcher(osm, ors)

	args := map[string]any{"origin_place": "Beirut", "destination_place": "Tripoli"}
	for i := 0; i < 2; i++ {
		if res := d.Dispatch(context.Background(), "ors_distance_places", args); res.Failed() {
			t.Fatalf("run %d failed: %s", i, res.Error())
		}
	}

	if osm.geocodeCalls["Beirut"] != 1 || osm.geocodeCalls["Tripoli"] != 1 {
		t.Errorf("geocode calls = %v, want one per place", osm.geocodeCalls)
	}
	if ors.distanceCalls != 2 {
		t.Errorf("distance calls = %d", ors.distanceCalls)
	}
}

func TestGeocodeChainShortCircuits(t *testing.T) {
	osm := newStubGeocoder()
	osm.geocodeResult["Beirut"] = geocodeHit("Beirut", "33.8938", "35.5018")
	// Tripoli is not stubbed: geocoding it fails.
	ors := &stubRouter{routeResult: geo.OK(map[string]any{})}
	d := NewDispatcher(osm, ors)

	res := d.Dispatch(context.Background(), "ors_route_places", map[string]any{
		"origin_place":      "Beirut",
		"destination_place": "Tripoli",
	})
	if !res.Failed() {
		t.Fatal("expected failure")
	}
	if res.Error() != "Geocoding failed: No results for Tripoli" {
		t.Errorf("error = %q", res.Error())
	}
	if ors.routeCalls != 0 {
		t.Errorf("router must not be called after a geocode failure, got %d calls", ors.routeCalls)
	}
}

func TestRoutePlacesUsesDrivingProfile(t *testing.T) {
	osm := newStubGeocoder()
	osm.geocodeResult["A"] = geocodeHit("A", "1", "2")
	osm.geocodeResult["B"] = geocodeHit("B", "3", "4")
	ors := &stubRouter{routeResult: geo.OK(map[string]any{"distance_km": 1.0})}
	d := NewDispatcher(osm, ors)

	res := d.Dispatch(context.Background(), "ors_route_places", map[string]any{
		"origin_place":      "A",
		"destination_place": "B",
	})
	if res.Failed() {
		t.Fatalf("dispatch failed: %s", res.Error())
	}
	// Route results are not augmented with coordinates.
	if _, ok := res.Field("origin"); ok {
		t.Error("route result must not carry origin augmentation")
	}
}

func TestDispatchCoordinateArgsFromJSON(t *testing.T) {
	ors := &stubRouter{distResult: geo.OK(map[string]any{"distance_km": 2.0})}
	d := NewDispatcher(newStubGeocoder(), ors)

	// Providers hand coordinates over as []any of float64.
	res := d.Dispatch(context.Background(), "ors_distance", map[string]any{
		"origin":      []any{35.5018, 33.8938},
		"destination": []any{35.8497, 34.4367},
	})
	if res.Failed() {
		t.Fatalf("dispatch failed: %s", res.Error())
	}
	if ors.lastDest[1] != 34.4367 {
		t.Errorf("destination = %v", ors.lastDest)
	}
}

func TestDispatchMalformedArgs(t *testing.T) {
	d := NewDispatcher(newStubGeocoder(), &stubRouter{})

	for name, args := range map[string]map[string]any{
		"osm_geocode":  {},
		"osm_reverse":  {"lat": "north", "lon": 35.0},
		"ors_route":    {"origin": []any{1.0}, "destination": []any{2.0, 3.0}},
		"ors_distance": nil,
	} {
		res := d.Dispatch(context.Background(), name, args)
		if !res.Failed() {
			t.Errorf("%s: expected failure for malformed args", name)
		}
	}
}
