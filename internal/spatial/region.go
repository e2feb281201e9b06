package spatial

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
	"github.com/twpayne/go-geom/xy/location"
)

// Region is a municipality with its boundary decoded and ready for point queries.
type Region struct {
	ID       int
	Name     string
	source   models.Region
	geometry geom.T
	bounds   *geom.Bounds
}

// Compile decodes the boundary of a stored municipality.
func Compile(raw models.Region) (*Region, error) {
	geometry, err := ParseBoundary(raw.Shape)
	if err != nil {
		return nil, fmt.Errorf("municipality %d: %w", raw.ID, err)
	}

	return &Region{
		ID:       raw.ID,
		Name:     raw.Name,
		source:   raw,
		geometry: geometry,
		bounds:   geometry.Bounds(),
	}, nil
}

// CompileAll compiles every municipality, keeping the input order. Municipalities whose
// shape cannot be decoded are logged and left out.
func CompileAll(ctx context.Context, log *slog.Logger, raws []models.Region) []*Region {
	regions := make([]*Region, 0, len(raws))

	for _, raw := range raws {
		region, err := Compile(raw)
		if err != nil {
			log.WarnContext(ctx, "Skipping municipality with malformed boundary",
				"ID", raw.ID, "name", raw.Name, "error", err)
			continue
		}
		regions = append(regions, region)
	}

	return regions
}

// Model returns the stored municipality the region was compiled from.
func (r *Region) Model() models.Region {
	return r.source
}

// Contains reports whether the point lies strictly inside the region: in the interior of
// an outer ring and outside every hole of the same polygon. Points on an edge are not contained.
func (r *Region) Contains(point models.Coordinates) bool {
	coord := geom.Coord{point.Longitude, point.Latitude}

	if !r.bounds.OverlapsPoint(geom.XY, coord) {
		return false
	}

	switch g := r.geometry.(type) {
	case *geom.Polygon:
		return polygonContains(g, coord)
	case *geom.MultiPolygon:
		for i := range g.NumPolygons() {
			if polygonContains(g.Polygon(i), coord) {
				return true
			}
		}
	}

	return false
}

func polygonContains(polygon *geom.Polygon, coord geom.Coord) bool {
	if polygon.NumLinearRings() == 0 {
		return false
	}

	layout := polygon.Layout()
	shell := polygon.LinearRing(0)
	if xy.LocatePointInRing(layout, coord, shell.FlatCoords()) != location.Interior {
		return false
	}

	for i := 1; i < polygon.NumLinearRings(); i++ {
		if xy.LocatePointInRing(layout, coord, polygon.LinearRing(i).FlatCoords()) != location.Exterior {
			return false
		}
	}

	return true
}
