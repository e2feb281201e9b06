package spatial

import (
	"context"
	"log/slog"

	"github.com/UnknownOlympus/pinpoint/internal/metrics"
	"github.com/UnknownOlympus/pinpoint/internal/models"
)

// AssignRegion returns every region containing the point, in candidate order.
func AssignRegion(point models.Coordinates, regions []*Region) []*Region {
	var matches []*Region
	for _, region := range regions {
		if region.Contains(point) {
			matches = append(matches, region)
		}
	}

	return matches
}

// Engine answers point-in-municipality queries against a fixed candidate list.
type Engine struct {
	log     *slog.Logger
	regions []*Region
	metrics *metrics.Metrics
}

// NewEngine creates an engine over regions, whose order decides ties.
// metrics may be nil.
func NewEngine(log *slog.Logger, regions []*Region, metrics *metrics.Metrics) *Engine {
	return &Engine{log: log, regions: regions, metrics: metrics}
}

// Assign returns the region containing the point, or nil when none does. When the point
// falls in several regions the first candidate wins and the overlap is reported.
func (e *Engine) Assign(ctx context.Context, point models.Coordinates) *Region {
	matches := AssignRegion(point, e.regions)
	if len(matches) == 0 {
		return nil
	}

	if len(matches) > 1 {
		ids := make([]int, len(matches))
		for i, match := range matches {
			ids[i] = match.ID
		}
		e.log.WarnContext(ctx, "Point lies in more than one municipality, keeping the first",
			"latitude", point.Latitude, "longitude", point.Longitude, "municipalities", ids)
		if e.metrics != nil {
			e.metrics.SpatialAmbiguities.Inc()
		}
	}

	return matches[0]
}

// Len returns the number of candidate regions.
func (e *Engine) Len() int {
	return len(e.regions)
}
