package service_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/UnknownOlympus/pinpoint/internal/metrics"
	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/UnknownOlympus/pinpoint/internal/service"
	"github.com/UnknownOlympus/pinpoint/internal/spatial"
	"github.com/UnknownOlympus/pinpoint/internal/tabular"
	"github.com/UnknownOlympus/pinpoint/test/mocks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const squareA = `{"type":"Polygon","coordinates":[[[-99.2,19.3],[-99.0,19.3],[-99.0,19.5],[-99.2,19.5],[-99.2,19.3]]]}`

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func TestReconcilerGeocodePass(t *testing.T) {
	ctx := t.Context()
	logger := newLogger()

	t.Run("resolved, missing and failed records are counted separately", func(t *testing.T) {
		store := mocks.NewReconcileStore(t)
		provider := mocks.NewProvider(t)
		appMetrics := metrics.NewMetrics(prometheus.NewRegistry())

		facilities := []models.Facility{
			{ID: 1, Name: "HOSPITAL CIVIL", State: "JALISCO", Municipality: "GUADALAJARA"},
			{ID: 2, Name: "Clinic X", State: "Nowhere"},
			{ID: 3, Name: "CLÍNICA 3", State: "JALISCO"},
		}
		coords := models.Coordinates{Latitude: 20.686, Longitude: -103.346}

		provider.On("Geocode", mock.Anything, "HOSPITAL CIVIL, JALISCO, GUADALAJARA").
			Return(models.GeocodeSuccess(coords)).Once()
		provider.On("Geocode", mock.Anything, "Clinic X, Nowhere").
			Return(models.GeocodeMiss("ZERO_RESULTS")).Once()
		provider.On("Geocode", mock.Anything, "CLÍNICA 3, JALISCO").
			Return(models.GeocodeFailure(assert.AnError)).Once()
		store.On("UpdateFacilityCoordinates", mock.Anything, 1, coords).Return(nil).Once()

		resolver := service.NewGeocodeResolver(logger, provider, "google", appMetrics, "")
		reconciler := service.NewReconciler(logger, resolver, appMetrics, service.NewCoordinatesSink(store))

		report, err := reconciler.Run(ctx, facilities)

		require.NoError(t, err)
		assert.Equal(t, models.Report{Updated: 1, Skipped: 1, Errored: 1}, report)
		assert.Equal(t, len(facilities), report.Total())
		assert.InDelta(t, 1, testutil.ToFloat64(appMetrics.APIErrors), 0)
		assert.InDelta(t, 1,
			testutil.ToFloat64(appMetrics.FacilitiesProcessed.WithLabelValues("geocode", "skipped")), 0)
	})

	t.Run("persistence failure does not stop the pass", func(t *testing.T) {
		store := mocks.NewReconcileStore(t)
		provider := mocks.NewProvider(t)

		first := models.Coordinates{Latitude: 20.1, Longitude: -103.1}
		second := models.Coordinates{Latitude: 20.2, Longitude: -103.2}
		provider.On("Geocode", mock.Anything, "A").Return(models.GeocodeSuccess(first)).Once()
		provider.On("Geocode", mock.Anything, "B").Return(models.GeocodeSuccess(second)).Once()
		store.On("UpdateFacilityCoordinates", mock.Anything, 1, first).Return(assert.AnError).Once()
		store.On("UpdateFacilityCoordinates", mock.Anything, 2, second).Return(nil).Once()

		resolver := service.NewGeocodeResolver(logger, provider, "google", nil, "")
		reconciler := service.NewReconciler(logger, resolver, nil, service.NewCoordinatesSink(store))

		report, err := reconciler.Run(ctx, []models.Facility{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}})

		require.NoError(t, err)
		assert.Equal(t, models.Report{Updated: 1, Errored: 1}, report)
	})

	t.Run("cancellation stops between records", func(t *testing.T) {
		store := mocks.NewReconcileStore(t)
		provider := mocks.NewProvider(t)
		runCtx, cancel := context.WithCancel(ctx)

		coords := models.Coordinates{Latitude: 20.1, Longitude: -103.1}
		provider.On("Geocode", mock.Anything, "A").Return(func(context.Context, string) models.GeocodeResult {
			cancel()
			return models.GeocodeSuccess(coords)
		}).Once()
		store.On("UpdateFacilityCoordinates", mock.Anything, 1, coords).Return(nil).Once()

		resolver := service.NewGeocodeResolver(logger, provider, "google", nil, "")
		reconciler := service.NewReconciler(logger, resolver, nil, service.NewCoordinatesSink(store))

		report, err := reconciler.Run(runCtx, []models.Facility{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}})

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, models.Report{Updated: 1}, report)
	})

	t.Run("success without a location is a failure", func(t *testing.T) {
		provider := mocks.NewProvider(t)
		provider.On("Geocode", mock.Anything, "A").Return(models.GeocodeResult{}).Twice()
		provider.On("Geocode", mock.Anything, "B").
			Return(models.GeocodeResult{Status: models.GeocodeOK}).Once()

		resolver := service.NewGeocodeResolver(logger, provider, "google", nil, "")
		reconciler := service.NewReconciler(logger, resolver, nil, service.NewCoordinatesSink(mocks.NewReconcileStore(t)))

		report, err := reconciler.Run(ctx, []models.Facility{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}})

		require.NoError(t, err)
		assert.Equal(t, models.Report{Errored: 2}, report)

		resolution := resolver.Resolve(ctx, models.Facility{ID: 3, Name: "A"})
		assert.Equal(t, models.Failed, resolution.Status)
		require.Error(t, resolution.Err)
	})

	t.Run("empty batch", func(t *testing.T) {
		resolver := service.NewGeocodeResolver(logger, mocks.NewProvider(t), "google", nil, "")
		reconciler := service.NewReconciler(logger, resolver, nil)

		report, err := reconciler.Run(ctx, nil)

		require.NoError(t, err)
		assert.Zero(t, report.Total())
	})
}

func TestGeocodeResolverQuery(t *testing.T) {
	t.Parallel()

	resolver := service.NewGeocodeResolver(newLogger(), nil, "google", nil, "Hospital ")

	tests := []struct {
		name     string
		facility models.Facility
		want     string
	}{
		{"all parts", models.Facility{Name: "CIVIL", State: "JALISCO", Municipality: "GUADALAJARA"},
			"Hospital CIVIL, JALISCO, GUADALAJARA"},
		{"no municipality", models.Facility{Name: "CIVIL", State: "JALISCO"}, "Hospital CIVIL, JALISCO"},
		{"blank parts trimmed", models.Facility{Name: " CIVIL ", State: " ", Municipality: "ZAPOPAN"},
			"Hospital CIVIL, ZAPOPAN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, resolver.Query(tt.facility))
		})
	}
}

func TestReconcilerSpatialPass(t *testing.T) {
	ctx := t.Context()
	logger := newLogger()

	regions := spatial.CompileAll(ctx, logger, []models.Region{{ID: 15, Name: "A", Shape: squareA}})
	engine := spatial.NewEngine(logger, regions, nil)

	inside := models.Coordinates{Latitude: 19.43, Longitude: -99.13}
	outside := models.Coordinates{Latitude: 20.67, Longitude: -103.35}
	invalid := models.Coordinates{Latitude: 120, Longitude: -99.13}
	facilities := []models.Facility{
		{ID: 1, Name: "CENTRO", Location: &inside},
		{ID: 2, Name: "LEJOS", Location: &outside},
		{ID: 3, Name: "SIN UBICACION"},
		{ID: 4, Name: "ROTO", Location: &invalid},
	}

	store := mocks.NewReconcileStore(t)
	store.On("AssignMunicipality", mock.Anything, 1, 15).Return(nil).Once()

	path := filepath.Join(t.TempDir(), "hospitales_con_municipio.xlsx")
	sheet := service.NewSheetSink(path, service.AssignmentLayout)
	reconciler := service.NewReconciler(logger, service.NewSpatialResolver(engine), nil,
		service.NewMunicipalitySink(store), sheet)

	report, err := reconciler.Run(ctx, facilities)

	require.NoError(t, err)
	assert.Equal(t, models.Report{Updated: 1, Skipped: 2, Errored: 1}, report)
	assert.Equal(t, 1, sheet.Rows())

	table, err := tabular.ReadSheet(path)
	require.NoError(t, err)
	assert.Equal(t, service.AssignmentLayout.Header, table.Header)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, []string{"CENTRO", "1", "15", "A"}, table.Rows[0])
}

func TestSheetSinkDryRun(t *testing.T) {
	ctx := t.Context()
	provider := mocks.NewProvider(t)
	coords := models.Coordinates{Latitude: 20.686, Longitude: -103.346}
	provider.On("Geocode", mock.Anything, "HOSPITAL CIVIL, JALISCO").Return(models.GeocodeSuccess(coords)).Once()

	path := filepath.Join(t.TempDir(), "hospitales_geocodificados.xlsx")
	sheet := service.NewSheetSink(path, service.GeocodeLayout)
	resolver := service.NewGeocodeResolver(newLogger(), provider, "google", nil, "")
	reconciler := service.NewReconciler(newLogger(), resolver, nil, sheet)

	report, err := reconciler.Run(ctx, []models.Facility{{ID: 2, Name: "HOSPITAL CIVIL", State: "JALISCO"}})

	require.NoError(t, err)
	assert.Equal(t, 1, report.Updated)

	table, err := tabular.ReadSheet(path)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, []string{"2", "HOSPITAL CIVIL", "JALISCO", "", "20.686", "-103.346"}, table.Rows[0])
}

func TestSinksRejectIncompleteResolutions(t *testing.T) {
	t.Parallel()
	ctx := t.Context()
	store := mocks.NewReconcileStore(t)

	err := service.NewCoordinatesSink(store).Persist(ctx, models.Resolution{Status: models.Resolved})
	require.ErrorIs(t, err, service.ErrIncompleteResolution)

	err = service.NewMunicipalitySink(store).Persist(ctx, models.Resolution{Status: models.Resolved})
	require.ErrorIs(t, err, service.ErrIncompleteResolution)
}

func TestSheetSinkFlushFailure(t *testing.T) {
	provider := mocks.NewProvider(t)
	resolver := service.NewGeocodeResolver(newLogger(), provider, "google", nil, "")
	sheet := service.NewSheetSink(filepath.Join(t.TempDir(), "missing", "dir", "out.xlsx"), service.GeocodeLayout)
	reconciler := service.NewReconciler(newLogger(), resolver, nil, sheet)

	_, err := reconciler.Run(t.Context(), nil)

	require.ErrorContains(t, err, "failed to flush sink")
}
