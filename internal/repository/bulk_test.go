package repository_test

import (
	"log/slog"
	"regexp"
	"testing"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/UnknownOlympus/pinpoint/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateCoordinatesByName(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	query := regexp.QuoteMeta("LOWER(nombre_hospital) = LOWER($4)")
	coords := models.Coordinates{Latitude: 20.1, Longitude: -98.7}

	t.Run("error - update", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(query).
			WithArgs("-98.7, 20.1", 20.1, -98.7, "Pueblo Nuevo", "CLÍNICA").
			WillReturnError(assert.AnError)

		updated, err := repo.UpdateCoordinatesByName(ctx, "Pueblo Nuevo", "CLÍNICA", coords)

		require.Zero(t, updated)
		require.ErrorContains(t, err, "failed to update coordinates by name")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success - returns affected rows", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectExec(query).
			WithArgs("-98.7, 20.1", 20.1, -98.7, "Pueblo Nuevo", "").
			WillReturnResult(pgxmock.NewResult("UPDATE", 2))

		updated, err := repo.UpdateCoordinatesByName(ctx, "Pueblo Nuevo", "", coords)

		require.NoError(t, err)
		assert.Equal(t, int64(2), updated)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestInsertMunicipalities(t *testing.T) {
	t.Parallel()
	logger := slog.Default()
	ctx := t.Context()
	columns := []string{"id_municipio", "nombre_municipio", "estado_id", "geo_shape"}
	stateID := 14
	regions := []models.Region{
		{ID: 14039, Name: "Guadalajara", StateID: &stateID, Shape: `{"type":"Polygon","coordinates":[]}`},
		{ID: 14120, Name: "Zapopan", StateID: &stateID, Shape: `{"type":"Polygon","coordinates":[]}`},
	}

	t.Run("nothing to insert", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		copied, err := repo.InsertMunicipalities(ctx, nil)

		require.NoError(t, err)
		assert.Zero(t, copied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error - copy", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectCopyFrom(pgx.Identifier{"municipios"}, columns).WillReturnError(assert.AnError)

		copied, err := repo.InsertMunicipalities(ctx, regions)

		require.Zero(t, copied)
		require.ErrorContains(t, err, "failed to copy municipalities")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		repo := repository.NewRepository(mock, logger)

		mock.ExpectCopyFrom(pgx.Identifier{"municipios"}, columns).WillReturnResult(2)

		copied, err := repo.InsertMunicipalities(ctx, regions)

		require.NoError(t, err)
		assert.Equal(t, int64(2), copied)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
