package geocoding

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"googlemaps.github.io/maps"
)

// StatusZeroResults is the Google status for a query that matched nothing.
const StatusZeroResults = "ZERO_RESULTS"

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes. It is used to interact with the
// Google Maps geocoding services.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	region string          // region is the ccTLD used to bias results
	log    *slog.Logger    // log is the logger for logging operations
}

type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// NewGoogleProvider wraps a Google Maps client. Region may be empty.
func NewGoogleProvider(client GoogleAPIClient, region string, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, region: region, log: log}
}

// Geocode resolves the query with the Google Maps Geocoding API and returns the first match.
// ZERO_RESULTS, whether surfaced as an empty slice or as a status error by the client,
// is reported as not found.
func (gp *GoogleProvider) Geocode(ctx context.Context, query string) models.GeocodeResult {
	gp.log.DebugContext(ctx, "Geocoding using Google Maps", "query", query)

	req := maps.GeocodingRequest{Address: query, Region: gp.region}
	geocodeResponse, err := gp.client.Geocode(ctx, &req)
	if err != nil {
		if strings.Contains(err.Error(), StatusZeroResults) {
			return models.GeocodeMiss(StatusZeroResults)
		}
		return models.GeocodeFailure(fmt.Errorf("failed to geocode address: %w", err))
	}

	if len(geocodeResponse) == 0 {
		return models.GeocodeMiss(StatusZeroResults)
	}
	coords := geocodeResponse[0].Geometry.Location

	return models.GeocodeSuccess(models.Coordinates{Longitude: coords.Lng, Latitude: coords.Lat})
}
