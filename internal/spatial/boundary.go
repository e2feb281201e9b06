package spatial

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

var (
	// ErrUnsupportedGeometry is returned for shapes that are not polygonal.
	ErrUnsupportedGeometry = errors.New("unsupported boundary geometry")
	// ErrEmptyBoundary is returned when a shape has no text or no rings.
	ErrEmptyBoundary = errors.New("empty boundary")
	// ErrDegenerateRing is returned when a ring has fewer than four positions.
	ErrDegenerateRing = errors.New("degenerate boundary ring")
)

// minRingCoords is the smallest closed ring: three distinct positions plus the closing one.
const minRingCoords = 4

type geoJSONHeader struct {
	Type     string          `json:"type"`
	Geometry json.RawMessage `json:"geometry"`
}

// ParseBoundary decodes a municipality shape stored as GeoJSON. Both bare geometries and
// Features are accepted; the geometry must be a Polygon or a MultiPolygon.
func ParseBoundary(shape string) (geom.T, error) {
	data := []byte(strings.TrimSpace(shape))
	if len(data) == 0 {
		return nil, ErrEmptyBoundary
	}

	var header geoJSONHeader
	if err := json.Unmarshal(data, &header); err != nil {
		return nil, fmt.Errorf("failed to decode boundary: %w", err)
	}

	if header.Type == "Feature" {
		if len(header.Geometry) == 0 || string(header.Geometry) == "null" {
			return nil, ErrEmptyBoundary
		}
		data = header.Geometry
	}

	var geometry geom.T
	if err := geojson.Unmarshal(data, &geometry); err != nil {
		return nil, fmt.Errorf("failed to decode boundary geometry: %w", err)
	}

	switch g := geometry.(type) {
	case *geom.Polygon:
		if err := checkPolygon(g); err != nil {
			return nil, err
		}
	case *geom.MultiPolygon:
		if g.NumPolygons() == 0 {
			return nil, ErrEmptyBoundary
		}
		for i := range g.NumPolygons() {
			if err := checkPolygon(g.Polygon(i)); err != nil {
				return nil, fmt.Errorf("polygon %d: %w", i, err)
			}
		}
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedGeometry, geometry)
	}

	return geometry, nil
}

func checkPolygon(polygon *geom.Polygon) error {
	if polygon.NumLinearRings() == 0 {
		return ErrEmptyBoundary
	}

	for i := range polygon.NumLinearRings() {
		if n := polygon.LinearRing(i).NumCoords(); n < minRingCoords {
			return fmt.Errorf("%w: ring %d has %d positions", ErrDegenerateRing, i, n)
		}
	}

	return nil
}
