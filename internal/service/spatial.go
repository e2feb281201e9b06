package service

import (
	"context"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/UnknownOlympus/pinpoint/internal/spatial"
)

// SpatialResolver assigns each located facility to the municipality containing it.
type SpatialResolver struct {
	engine *spatial.Engine
}

func NewSpatialResolver(engine *spatial.Engine) *SpatialResolver {
	return &SpatialResolver{engine: engine}
}

func (sr *SpatialResolver) Name() string {
	return "spatial"
}

func (sr *SpatialResolver) Resolve(ctx context.Context, facility models.Facility) models.Resolution {
	resolution := models.Resolution{Facility: facility, Status: models.Unresolved}

	if facility.Location == nil {
		resolution.Reason = "facility has no location"
		return resolution
	}
	if !facility.Location.Valid() {
		resolution.Status = models.Failed
		resolution.Reason = "facility location out of range"
		return resolution
	}

	region := sr.engine.Assign(ctx, *facility.Location)
	if region == nil {
		resolution.Reason = "no municipality contains the location"
		return resolution
	}

	model := region.Model()
	resolution.Status = models.Resolved
	resolution.Location = facility.Location
	resolution.Region = &model

	return resolution
}
