package geocoding

import (
	"context"

	"github.com/UnknownOlympus/pinpoint/internal/models"
)

// Provider is an interface that defines a method for geocoding a free-text query.
// Geocode never fails past its own boundary: a missing match is reported as
// models.GeocodeNotFound and every other failure as models.GeocodeError, so callers
// can carry on with the next record.
type Provider interface {
	Geocode(ctx context.Context, query string) models.GeocodeResult
}
