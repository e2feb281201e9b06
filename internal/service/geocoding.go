package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/UnknownOlympus/pinpoint/internal/geocoding"
	"github.com/UnknownOlympus/pinpoint/internal/metrics"
	"github.com/UnknownOlympus/pinpoint/internal/models"
)

// GeocodeResolver re-derives facility coordinates from name, state and municipality.
type GeocodeResolver struct {
	log          *slog.Logger       // Logger for logging resolver activities
	provider     geocoding.Provider // Geocoding provider for external geocoding services
	providerName string             // Name of the provider for metrics labeling
	metrics      *metrics.Metrics   // Metrics for tracking provider performance, may be nil
	addrPrefix   string             // Address prefix for more accurate geocoding (indicating country, city, etc.)
}

// NewGeocodeResolver creates a resolver backed by the given provider.
func NewGeocodeResolver(
	log *slog.Logger,
	provider geocoding.Provider,
	providerName string,
	appMetrics *metrics.Metrics,
	addrPrefix string,
) *GeocodeResolver {
	return &GeocodeResolver{
		log:          log,
		provider:     provider,
		providerName: providerName,
		metrics:      appMetrics,
		addrPrefix:   addrPrefix,
	}
}

func (gr *GeocodeResolver) Name() string {
	return "geocode"
}

// Query builds "<prefix><name>, <state>, <municipality>", leaving out empty parts.
func (gr *GeocodeResolver) Query(facility models.Facility) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{facility.Name, facility.State, facility.Municipality} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}

	return gr.addrPrefix + strings.Join(parts, ", ")
}

// Resolve geocodes one facility. A provider miss is Unresolved, a provider failure is Failed.
func (gr *GeocodeResolver) Resolve(ctx context.Context, facility models.Facility) models.Resolution {
	query := gr.Query(facility)
	gr.log.DebugContext(ctx, "Geocoding facility", "ID", facility.ID, "query", query)

	startTime := time.Now()
	result := gr.provider.Geocode(ctx, query)
	if gr.metrics != nil {
		gr.metrics.RequestSeconds.WithLabelValues(gr.providerName).Observe(time.Since(startTime).Seconds())
	}

	resolution := models.Resolution{Facility: facility}

	switch {
	case result.Status == models.GeocodeOK && result.Location != nil:
		resolution.Status = models.Resolved
		resolution.Location = result.Location
		gr.log.DebugContext(ctx, "Facility geocoded", "ID", facility.ID,
			"latitude", result.Location.Latitude, "longitude", result.Location.Longitude)
	case result.Status == models.GeocodeNotFound:
		resolution.Status = models.Unresolved
		resolution.Reason = "no match: " + result.ProviderStatus
	default:
		if gr.metrics != nil {
			gr.metrics.APIErrors.Inc()
		}
		resolution.Status = models.Failed
		resolution.Reason = "geocoding failed"
		resolution.Err = result.Err
		if resolution.Err == nil {
			resolution.Err = fmt.Errorf("provider answered %s without a location", result.Status)
		}
	}

	return resolution
}
