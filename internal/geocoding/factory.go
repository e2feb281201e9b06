package geocoding

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"googlemaps.github.io/maps"
)

// ProviderType represents the type of geocoding provider.
type ProviderType string

const (
	// ProviderTypeGoogle represents Google Maps geocoding provider.
	ProviderTypeGoogle ProviderType = "google"
	// ProviderTypeNominatim represents OpenStreetMap Nominatim geocoding provider.
	ProviderTypeNominatim ProviderType = "nominatim"
)

// ProviderConfig holds configuration for creating a geocoding provider.
type ProviderConfig struct {
	Type     ProviderType  // Type of provider to create
	APIKey   string        // API key (used by Google provider)
	Region   string        // Region code biasing results, e.g. "mx" (used by Google provider)
	Interval time.Duration // Minimum delay between two requests
	Logger   *slog.Logger  // Logger for the provider
}

// NewProvider creates a throttled geocoding provider based on the provided configuration.
// Google is throttled per query. Nominatim may send several requests for one query,
// so it is throttled per HTTP request instead.
//
// Supported provider types:
// - "google": Google Maps Geocoding API (requires API key)
// - "nominatim": OpenStreetMap Nominatim API (free, no API key required)
//
// Returns an error if the provider type is unsupported or if provider creation fails.
func NewProvider(config ProviderConfig) (Provider, error) {
	var (
		provider Provider
		err      error
	)

	switch config.Type {
	case ProviderTypeGoogle:
		provider, err = newGoogleProvider(config)
	case ProviderTypeNominatim:
		return NewNominatimProvider(config.Interval, config.Logger), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	return NewThrottled(provider, config.Interval), nil
}

// newGoogleProvider creates a Google Maps geocoding provider.
func newGoogleProvider(config ProviderConfig) (Provider, error) {
	if config.APIKey == "" {
		return nil, errors.New("API key is required for Google provider")
	}

	client, err := maps.NewClient(maps.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}

	return NewGoogleProvider(client, config.Region, config.Logger), nil
}
