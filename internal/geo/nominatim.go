package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kr4wiec/aud-crisis/internal/model"
)

// NominatimClient implements Geocoder against the OSM Nominatim search
// API. Nominatim's usage policy caps request rates, which is why the
// resolver paces calls instead of the client.
type NominatimClient struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
}

// NewNominatimClient creates a Nominatim geocoding client.
func NewNominatimClient(baseURL, userAgent string, timeout time.Duration) *NominatimClient {
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org/search"
	}
	return &NominatimClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		userAgent:  userAgent,
	}
}

// Geocode resolves a place name to coordinates. found is false when the
// provider returns no result for the name.
func (c *NominatimClient) Geocode(ctx context.Context, name string) (model.Coordinates, bool, error) {
	params := url.Values{
		"q":      {name},
		"format": {"json"},
		"limit":  {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return model.Coordinates{}, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.Coordinates{}, false, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return model.Coordinates{}, false, fmt.Errorf("nominatim API error: status %d: %s", resp.StatusCode, body)
	}

	// Nominatim returns coordinates as strings.
	var places []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return model.Coordinates{}, false, fmt.Errorf("decode response: %w", err)
	}
	if len(places) == 0 {
		return model.Coordinates{}, false, nil
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return model.Coordinates{}, false, fmt.Errorf("parse lat %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return model.Coordinates{}, false, fmt.Errorf("parse lon %q: %w", places[0].Lon, err)
	}

	return model.Coordinates{Lat: lat, Lon: lon}, true, nil
}
