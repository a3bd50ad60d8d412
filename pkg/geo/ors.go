package geo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const defaultORSURL = "https://api.openrouteservice.org"

// DefaultProfile is the routing profile used when the caller does not
// supply one.
const DefaultProfile = "driving-car"

// ORSClient wraps the OpenRouteService directions and POI APIs. A missing
// API key yields a failure result at the first call rather than an
// initialization error.
type ORSClient struct {
	BaseURL string
	APIKey  string

	httpClient *http.Client
}

// NewORSClient builds an OpenRouteService client with the given API key.
func NewORSClient(apiKey string) *ORSClient {
	return &ORSClient{
		BaseURL:    defaultORSURL,
		APIKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *ORSClient) post(ctx context.Context, path string, payload any) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	endpoint := strings.TrimRight(c.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", c.APIKey)
	req.Header.Set("Content-Type", "application/json")
	return c.httpClient.Do(req)
}

func roundKM(meters float64) float64 {
	return math.Round(meters/1000*100) / 100
}

func roundMin(seconds float64) float64 {
	return math.Round(seconds/60*10) / 10
}

// flattenSteps collects turn-by-turn steps across all segments into one
// ordered list.
func flattenSteps(segments []gjson.Result) []map[string]any {
	var steps []map[string]any
	for _, seg := range segments {
		for _, st := range seg.Get("steps").Array() {
			steps = append(steps, map[string]any{
				"instruction": st.Get("instruction").String(),
				"name":        st.Get("name").String(),
				"distance_m":  st.Get("distance").Float(),
				"duration_s":  st.Get("duration").Float(),
				"type":        st.Get("type").Float(),
			})
		}
	}
	return steps
}

// Route computes a two-point route. ORS answers in either a GeoJSON
// feature-collection shape or a plain routes shape; both are accepted.
// Distance/duration come from the top-level summary when present, else
// from the cumulative segment totals.
func (c *ORSClient) Route(ctx context.Context, origin, destination []float64, profile string) Result {
	if strings.TrimSpace(c.APIKey) == "" {
		return Fail("Missing ORS_API_KEY. Set it in the environment or a .env file.")
	}
	if profile == "" {
		profile = DefaultProfile
	}

	resp, err := c.post(ctx, "/v2/directions/"+profile, map[string]any{
		"coordinates": [][]float64{origin, destination},
	})
	if err != nil {
		return FailDetail("Network error contacting ORS", err.Error())
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	var detail any = string(body)
	if gjson.ValidBytes(body) {
		var parsed any
		if err := json.Unmarshal(body, &parsed); err == nil {
			detail = parsed
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return FailDetail(fmt.Sprintf("ORS HTTP %d", resp.StatusCode), detail)
	}

	// GeoJSON shape first, plain shape second.
	summary := gjson.GetBytes(body, "features.0.properties.summary")
	segments := gjson.GetBytes(body, "features.0.properties.segments").Array()
	if !summary.Exists() {
		summary = gjson.GetBytes(body, "routes.0.summary")
		segments = gjson.GetBytes(body, "routes.0.segments").Array()
	}
	if !summary.Exists() && len(segments) == 0 {
		return FailDetail("Unexpected ORS response format", detail)
	}

	var (
		cumulativeM float64
		cumulativeS float64
		steps       []map[string]any
	)
	if len(segments) > 0 {
		for _, seg := range segments {
			cumulativeM += seg.Get("distance").Float()
			cumulativeS += seg.Get("duration").Float()
		}
		steps = flattenSteps(segments)
	}

	dist := summary.Get("distance")
	dur := summary.Get("duration")
	if dist.Exists() && dur.Exists() {
		out := map[string]any{
			"distance_km":  roundKM(dist.Float()),
			"duration_min": roundMin(dur.Float()),
		}
		if len(segments) > 0 {
			out["cumulative_distance_km"] = roundKM(cumulativeM)
			out["cumulative_duration_min"] = roundMin(cumulativeS)
		}
		if steps != nil {
			out["steps"] = steps
		}
		return OK(out)
	}

	// Summary missing or malformed: fall back to cumulative totals.
	if len(segments) > 0 {
		out := map[string]any{
			"distance_km":  roundKM(cumulativeM),
			"duration_min": roundMin(cumulativeS),
		}
		if steps != nil {
			out["steps"] = steps
		}
		return OK(out)
	}
	return FailDetail("Missing distance/duration in ORS summary", summary.Value())
}

// Distance projects a route down to just its distance. Failures and
// unexpected shapes pass through unchanged.
func (c *ORSClient) Distance(ctx context.Context, origin, destination []float64) Result {
	result := c.Route(ctx, origin, destination, DefaultProfile)
	if result.Failed() {
		return result
	}
	if km, ok := result.Field("distance_km"); ok {
		return OK(map[string]any{"distance_km": km})
	}
	return result
}

// Nearby queries POIs within a fixed ±0.01 degree box around the point.
func (c *ORSClient) Nearby(ctx context.Context, lat, lon float64) Result {
	if strings.TrimSpace(c.APIKey) == "" {
		return Fail("Missing ORS_API_KEY. Set it in the environment or a .env file.")
	}

	resp, err := c.post(ctx, "/pois", map[string]any{
		"request": "pois",
		"geometry": map[string]any{
			"bbox": [][]float64{
				{lon - 0.01, lat - 0.01},
				{lon + 0.01, lat + 0.01},
			},
		},
	})
	if err != nil {
		return FailDetail("Network error contacting ORS", err.Error())
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return FailDetail(fmt.Sprintf("ORS HTTP %d", resp.StatusCode), string(body))
	}
	var parsed any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Fail("ORS returned non-JSON response")
	}
	return OK(parsed)
}
