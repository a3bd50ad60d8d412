package geo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const defaultNominatimURL = "https://nominatim.openstreetmap.org"

// DefaultUserAgent is sent to Nominatim when no override is configured.
// Nominatim rejects requests without a meaningful User-Agent.
const DefaultUserAgent = "mapagent (educational)"

// OSMClient wraps the Nominatim geocoding API. Every method returns a
// Result; upstream failures become failure results, never Go errors.
type OSMClient struct {
	BaseURL      string
	UserAgent    string
	CountryCodes string

	httpClient *http.Client
}

// NewOSMClient builds a Nominatim client. userAgent and countryCodes may
// be empty; countryCodes narrows geocode and POI searches when set.
func NewOSMClient(userAgent, countryCodes string) *OSMClient {
	if strings.TrimSpace(userAgent) == "" {
		userAgent = DefaultUserAgent
	}
	return &OSMClient{
		BaseURL:      defaultNominatimURL,
		UserAgent:    userAgent,
		CountryCodes: countryCodes,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *OSMClient) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	endpoint := strings.TrimRight(c.BaseURL, "/") + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	return c.httpClient.Do(req)
}

// Geocode resolves a place name to its single best match. The success
// payload carries place, lat, lon and display; lat/lon stay strings the
// way Nominatim returns them.
func (c *OSMClient) Geocode(ctx context.Context, place string) Result {
	params := url.Values{}
	params.Set("q", place)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("addressdetails", "0")
	if c.CountryCodes != "" {
		params.Set("countrycodes", c.CountryCodes)
	}

	resp, err := c.get(ctx, "/search", params)
	if err != nil {
		return FailDetail("Network error contacting Nominatim", err.Error())
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return FailDetail(fmt.Sprintf("Nominatim HTTP %d", resp.StatusCode), string(body))
	}
	if !gjson.ValidBytes(body) {
		return Failf("Nominatim returned non-JSON response for %s", place)
	}

	hits := gjson.ParseBytes(body).Array()
	if len(hits) == 0 {
		return Failf("No results for %s", place)
	}

	first := hits[0]
	return OK(map[string]any{
		"place":   place,
		"lat":     first.Get("lat").String(),
		"lon":     first.Get("lon").String(),
		"display": first.Get("display_name").String(),
	})
}

// Reverse resolves coordinates to an address. A missing display name is
// not an error; "Unknown" is the defined fallback.
func (c *OSMClient) Reverse(ctx context.Context, lat, lon float64) Result {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("format", "json")

	resp, err := c.get(ctx, "/reverse", params)
	if err != nil {
		return FailDetail("Network error contacting Nominatim", err.Error())
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return FailDetail(fmt.Sprintf("Nominatim HTTP %d", resp.StatusCode), string(body))
	}

	address := gjson.GetBytes(body, "display_name").String()
	if address == "" {
		address = "Unknown"
	}
	return OK(map[string]any{"address": address})
}

// POICount coerces a raw max_count argument into the valid [1, 20] range.
// Non-numeric input defaults to 5.
func POICount(v any) int {
	n := 5
	switch x := v.(type) {
	case nil:
	case int:
		n = x
	case int64:
		n = int(x)
	case float64:
		n = int(x)
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(x)); err == nil {
			n = parsed
		}
	}
	switch {
	case n <= 0:
		return 1
	case n > 20:
		return 20
	}
	return n
}

// healthcare query keywords, English plus Arabic.
var healthcareWords = []string{"hospital", "clinic", "مستشفى"}

func wantsHealthcare(query string) bool {
	q := strings.ToLower(query)
	for _, w := range []string{"hospital", "hospitals", "clinic", "clinics"} {
		if strings.Contains(q, w) {
			return true
		}
	}
	return false
}

func isHealthcare(hit gjson.Result) bool {
	cls := hit.Get("class").String()
	typ := hit.Get("type").String()
	if (cls == "amenity" || cls == "healthcare") &&
		(typ == "hospital" || typ == "clinic" || typ == "doctors" || typ == "health_centre") {
		return true
	}
	name := strings.ToLower(hit.Get("display_name").String())
	for _, w := range healthcareWords {
		if strings.Contains(name, w) {
			return true
		}
	}
	return false
}

// SearchPOI finds points of interest by keyword and city. When the query
// implies a healthcare need, results are filtered to healthcare features;
// the filter is soft: if it would empty the output, the unfiltered set is
// used instead. The list is truncated to maxCount after filtering.
func (c *OSMClient) SearchPOI(ctx context.Context, query, city string, maxCount any) Result {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("%s, %s", query, city))
	params.Set("format", "json")
	if c.CountryCodes != "" {
		params.Set("countrycodes", c.CountryCodes)
	}

	resp, err := c.get(ctx, "/search", params)
	if err != nil {
		return FailDetail("Network error contacting Nominatim", err.Error())
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return FailDetail(fmt.Sprintf("Nominatim HTTP %d", resp.StatusCode), string(body))
	}
	if !gjson.ValidBytes(body) {
		return Fail("Nominatim returned non-JSON response")
	}

	n := POICount(maxCount)
	hits := gjson.ParseBytes(body).Array()

	filtered := hits
	if wantsHealthcare(query) {
		var kept []gjson.Result
		for _, h := range hits {
			if isHealthcare(h) {
				kept = append(kept, h)
			}
		}
		if len(kept) > 0 {
			filtered = kept
		}
	}

	if len(filtered) > n {
		filtered = filtered[:n]
	}
	out := make([]map[string]any, 0, len(filtered))
	for _, h := range filtered {
		out = append(out, map[string]any{
			"name": h.Get("display_name").String(),
			"lat":  h.Get("lat").String(),
			"lon":  h.Get("lon").String(),
		})
	}
	return OK(out)
}
