package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/jackc/pgx/v5"
)

// municipalityColumns is the column order used when bulk loading municipalities.
var municipalityColumns = []string{"id_municipio", "nombre_municipio", "estado_id", "geo_shape"}

// UpdateCoordinatesByName applies scraped coordinates to every unreviewed facility whose name
// matches case-insensitively. An empty facilityType matches any type.
// It returns the number of facilities updated.
func (r *Repository) UpdateCoordinatesByName(
	ctx context.Context,
	name, facilityType string,
	coords models.Coordinates,
) (int64, error) {
	query := `
		UPDATE hospitals
		SET
			coordenadas_hospital = $1,
			latitud_hospital = $2,
			longitud_hospital = $3
		WHERE
			LOWER(nombre_hospital) = LOWER($4)
			AND ($5::text = '' OR tipo_hospital = $5)
			AND reviewed = false;
	`

	tag, err := r.db.Exec(ctx, query, coords.Text(), coords.Latitude, coords.Longitude, name, facilityType)
	if err != nil {
		return 0, fmt.Errorf("failed to update coordinates by name: %w", err)
	}

	return tag.RowsAffected(), nil
}

// InsertMunicipalities bulk loads municipality reference rows with COPY.
func (r *Repository) InsertMunicipalities(ctx context.Context, regions []models.Region) (int64, error) {
	if len(regions) == 0 {
		return 0, nil
	}

	source := pgx.CopyFromSlice(len(regions), func(i int) ([]any, error) {
		region := regions[i]
		return []any{region.ID, region.Name, region.StateID, region.Shape}, nil
	})

	copied, err := r.db.CopyFrom(ctx, pgx.Identifier{"municipios"}, municipalityColumns, source)
	if err != nil {
		return 0, fmt.Errorf("failed to copy municipalities: %w", err)
	}

	r.log.InfoContext(ctx, "Municipalities loaded", "rows", copied)

	return copied, nil
}
