package spatial_test

import (
	"log/slog"
	"testing"

	"github.com/UnknownOlympus/pinpoint/internal/metrics"
	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/UnknownOlympus/pinpoint/internal/spatial"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom"
)

const (
	// squareA covers lon -99.2..-99.0, lat 19.3..19.5.
	squareA = `{"type":"Polygon","coordinates":[[[-99.2,19.3],[-99.0,19.3],[-99.0,19.5],[-99.2,19.5],[-99.2,19.3]]]}`
	// squareB lies east of squareA.
	squareB = `{"type":"Polygon","coordinates":[[[-98.9,19.3],[-98.7,19.3],[-98.7,19.5],[-98.9,19.5],[-98.9,19.3]]]}`
	// withHole is squareA with a hole around lon -99.15..-99.05, lat 19.4..19.45.
	withHole = `{"type":"Polygon","coordinates":[` +
		`[[-99.2,19.3],[-99.0,19.3],[-99.0,19.5],[-99.2,19.5],[-99.2,19.3]],` +
		`[[-99.15,19.4],[-99.05,19.4],[-99.05,19.45],[-99.15,19.45],[-99.15,19.4]]]}`
	multi = `{"type":"MultiPolygon","coordinates":[` +
		`[[[-98.9,19.3],[-98.7,19.3],[-98.7,19.5],[-98.9,19.5],[-98.9,19.3]]],` +
		`[[[-99.2,19.3],[-99.0,19.3],[-99.0,19.5],[-99.2,19.5],[-99.2,19.3]]]]}`
	// emptyPart is a multipolygon whose first member has no rings.
	emptyPart = `{"type":"MultiPolygon","coordinates":[[],` +
		`[[[-99.2,19.3],[-99.0,19.3],[-99.0,19.5],[-99.2,19.5],[-99.2,19.3]]]]}`
)

func mustCompile(t *testing.T, id int, name, shape string) *spatial.Region {
	t.Helper()
	region, err := spatial.Compile(models.Region{ID: id, Name: name, Shape: shape})
	require.NoError(t, err)
	return region
}

func TestParseBoundary(t *testing.T) {
	t.Parallel()

	t.Run("bare polygon", func(t *testing.T) {
		t.Parallel()
		geometry, err := spatial.ParseBoundary(squareA)
		require.NoError(t, err)
		assert.IsType(t, &geom.Polygon{}, geometry)
	})

	t.Run("feature wrapping a multipolygon", func(t *testing.T) {
		t.Parallel()
		feature := `{"type":"Feature","properties":{"name":"x"},"geometry":` + multi + `}`
		geometry, err := spatial.ParseBoundary(feature)
		require.NoError(t, err)
		assert.IsType(t, &geom.MultiPolygon{}, geometry)
	})

	t.Run("point is rejected", func(t *testing.T) {
		t.Parallel()
		_, err := spatial.ParseBoundary(`{"type":"Point","coordinates":[-99.1,19.4]}`)
		require.ErrorIs(t, err, spatial.ErrUnsupportedGeometry)
	})

	t.Run("feature without geometry", func(t *testing.T) {
		t.Parallel()
		_, err := spatial.ParseBoundary(`{"type":"Feature","geometry":null}`)
		require.ErrorIs(t, err, spatial.ErrEmptyBoundary)
	})

	t.Run("blank text", func(t *testing.T) {
		t.Parallel()
		_, err := spatial.ParseBoundary("  ")
		require.ErrorIs(t, err, spatial.ErrEmptyBoundary)
	})

	t.Run("multipolygon with an empty part", func(t *testing.T) {
		t.Parallel()
		_, err := spatial.ParseBoundary(emptyPart)
		require.ErrorIs(t, err, spatial.ErrEmptyBoundary)
	})

	t.Run("ring with too few positions", func(t *testing.T) {
		t.Parallel()
		_, err := spatial.ParseBoundary(`{"type":"Polygon","coordinates":[[[-99.2,19.3],[-99.0,19.3],[-99.2,19.3]]]}`)
		require.ErrorIs(t, err, spatial.ErrDegenerateRing)
	})

	t.Run("not json", func(t *testing.T) {
		t.Parallel()
		_, err := spatial.ParseBoundary("POLYGON((0 0, 1 0, 1 1, 0 0))")
		require.ErrorContains(t, err, "failed to decode boundary")
	})
}

func TestRegionContains(t *testing.T) {
	t.Parallel()

	regionA := mustCompile(t, 1, "A", squareA)
	holed := mustCompile(t, 2, "holed", withHole)
	split := mustCompile(t, 3, "split", multi)

	tests := []struct {
		name   string
		region *spatial.Region
		point  models.Coordinates
		want   bool
	}{
		{"interior point", regionA, models.Coordinates{Latitude: 19.43, Longitude: -99.13}, true},
		{"outside point", regionA, models.Coordinates{Latitude: 20.67, Longitude: -103.35}, false},
		{"point on an edge", regionA, models.Coordinates{Latitude: 19.3, Longitude: -99.1}, false},
		{"point on a vertex", regionA, models.Coordinates{Latitude: 19.5, Longitude: -99.0}, false},
		{"point inside the hole", holed, models.Coordinates{Latitude: 19.43, Longitude: -99.1}, false},
		{"point on the hole edge", holed, models.Coordinates{Latitude: 19.4, Longitude: -99.1}, false},
		{"point between shell and hole", holed, models.Coordinates{Latitude: 19.35, Longitude: -99.1}, true},
		{"second part of a multipolygon", split, models.Coordinates{Latitude: 19.43, Longitude: -99.13}, true},
		{"gap between parts", split, models.Coordinates{Latitude: 19.43, Longitude: -98.95}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.region.Contains(tt.point))
		})
	}
}

func TestCompileAll(t *testing.T) {
	raws := []models.Region{
		{ID: 1, Name: "A", Shape: squareA},
		{ID: 2, Name: "broken", Shape: `{"type":"Polygon"`},
		{ID: 3, Name: "line", Shape: `{"type":"LineString","coordinates":[[0,0],[1,1]]}`},
		{ID: 4, Name: "B", Shape: squareB},
		{ID: 5, Name: "empty part", Shape: emptyPart},
	}

	regions := spatial.CompileAll(t.Context(), slog.Default(), raws)

	require.Len(t, regions, 2)
	assert.Equal(t, 1, regions[0].ID)
	assert.Equal(t, 4, regions[1].ID)
	assert.Equal(t, raws[3], regions[1].Model())

	engine := spatial.NewEngine(slog.Default(), regions, nil)
	var region *spatial.Region
	assert.NotPanics(t, func() {
		region = engine.Assign(t.Context(), models.Coordinates{Latitude: 19.43, Longitude: -99.13})
	})
	require.NotNil(t, region)
	assert.Equal(t, 1, region.ID)
}

func TestEngineAssign(t *testing.T) {
	ctx := t.Context()
	point := models.Coordinates{Latitude: 19.43, Longitude: -99.13}

	t.Run("single containing region", func(t *testing.T) {
		regions := []*spatial.Region{mustCompile(t, 1, "A", squareA), mustCompile(t, 2, "B", squareB)}
		engine := spatial.NewEngine(slog.Default(), regions, nil)

		got := engine.Assign(ctx, point)

		require.NotNil(t, got)
		assert.Equal(t, 1, got.ID)
		assert.Equal(t, "A", got.Name)
		assert.Equal(t, 2, engine.Len())
	})

	t.Run("no containing region", func(t *testing.T) {
		engine := spatial.NewEngine(slog.Default(), []*spatial.Region{mustCompile(t, 2, "B", squareB)}, nil)

		assert.Nil(t, engine.Assign(ctx, point))
	})

	t.Run("overlap keeps the first candidate", func(t *testing.T) {
		appMetrics := metrics.NewMetrics(prometheus.NewRegistry())
		regions := []*spatial.Region{
			mustCompile(t, 5, "first", squareA),
			mustCompile(t, 9, "second", multi),
		}
		engine := spatial.NewEngine(slog.Default(), regions, appMetrics)

		got := engine.Assign(ctx, point)

		require.NotNil(t, got)
		assert.Equal(t, 5, got.ID)
		assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.SpatialAmbiguities), 0)
		assert.Len(t, spatial.AssignRegion(point, regions), 2)
	})
}
