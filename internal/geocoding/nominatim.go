package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/UnknownOlympus/pinpoint/internal/models"
)

const (
	nominatimBaseURL   = "https://nominatim.openstreetmap.org/search"
	nominatimUserAgent = "Pinpoint-Hospital-Review/1.0 (https://github.com/UnknownOlympus/pinpoint)"
	// StatusNoMatch is reported when Nominatim answers with an empty list.
	StatusNoMatch = "NO_MATCH"
)

// NominatimProvider implements the Provider interface using OpenStreetMap's Nominatim API.
// This is a free geocoding service with usage limits (1 request/second for fair use).
type NominatimProvider struct {
	client  HTTPClient   // HTTP client for making requests
	baseURL string       // Base URL for the Nominatim API
	log     *slog.Logger // Logger for logging operations
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Common errors for Nominatim provider.
var (
	errNominatimEmpty         = errors.New("nominatim API returned empty response")
	ErrNominatimInvalidCoords = errors.New("nominatim API returned invalid coordinates")
)

// NewNominatimProvider creates a new Nominatim geocoding provider against the public endpoint.
// Every HTTP request, fallback queries included, waits for interval since the previous one.
func NewNominatimProvider(interval time.Duration, log *slog.Logger) *NominatimProvider {
	const timeout = 10
	client := NewThrottledClient(&http.Client{Timeout: timeout * time.Second}, interval)
	return NewNominatimProviderWithClient(client, log)
}

// NewNominatimProviderWithClient creates a Nominatim provider with a custom HTTP client.
func NewNominatimProviderWithClient(client HTTPClient, log *slog.Logger) *NominatimProvider {
	return &NominatimProvider{client: client, baseURL: nominatimBaseURL, log: log}
}

// Geocode resolves the query, retrying once without its last comma-separated component
// when the full query has no match. Facility queries end with the municipality, which
// OpenStreetMap often spells differently from the directory.
func (np *NominatimProvider) Geocode(ctx context.Context, query string) models.GeocodeResult {
	np.log.DebugContext(ctx, "Geocoding using Nominatim", "query", query)

	for idx, variation := range queryVariations(query) {
		coords, err := np.search(ctx, variation)
		if err == nil {
			if idx > 0 {
				np.log.InfoContext(ctx, "Geocoded using shortened query", "original", query, "used", variation)
			}
			return models.GeocodeSuccess(*coords)
		}
		if !errors.Is(err, errNominatimEmpty) {
			return models.GeocodeFailure(err)
		}
	}

	return models.GeocodeMiss(StatusNoMatch)
}

func queryVariations(query string) []string {
	variations := []string{query}

	parts := strings.Split(query, ",")
	if len(parts) > 2 {
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		variations = append(variations, strings.Join(parts[:len(parts)-1], ", "))
	}

	return variations
}

func (np *NominatimProvider) search(ctx context.Context, query string) (*models.Coordinates, error) {
	reqURL, err := url.Parse(np.baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	params := reqURL.Query()
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("countrycodes", "mx")
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", nominatimUserAgent)
	req.Header.Set("Accept-Language", "es,en")

	resp, err := np.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		np.log.ErrorContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("nominatim API returned status %d: %s", resp.StatusCode, string(body))
	}

	var places []nominatimPlace
	if err = json.Unmarshal(body, &places); err != nil {
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}
	if len(places) == 0 {
		return nil, errNominatimEmpty
	}

	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid latitude: %s", ErrNominatimInvalidCoords, places[0].Lat)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid longitude: %s", ErrNominatimInvalidCoords, places[0].Lon)
	}

	return &models.Coordinates{Latitude: lat, Longitude: lon}, nil
}
