package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/pinpoint/internal/models"
)

// FetchFacilitiesForGeocoding retrieves the unreviewed facilities whose location should be
// re-resolved from their name, state and municipality. An empty state selects every state.
// The results are ordered by identifier so repeated runs walk the same sequence.
//
// Parameters:
// - ctx: The context for the operation, allowing for cancellation and timeout.
// - state: The state name to restrict the batch to, or "".
//
// Returns:
// - A slice of models.Facility with ID, Name, State and Municipality populated.
// - An error if the query fails or if there is an issue scanning the results.
func (r *Repository) FetchFacilitiesForGeocoding(ctx context.Context, state string) ([]models.Facility, error) {
	var facilities []models.Facility
	query := `
		SELECT h.id_hospital, h.nombre_hospital, e.nombre_estado, COALESCE(m.nombre_municipio, '')
		FROM hospitals h
		JOIN estados e ON e.id_estado = h.estado_id
		LEFT JOIN municipios m ON m.id_municipio = h.id_municipio
		WHERE
			h.nombre_hospital IS NOT NULL
			AND h.reviewed = false
			AND ($1::text = '' OR e.nombre_estado = $1)
		ORDER BY h.id_hospital;
	`

	rows, err := r.db.Query(ctx, query, state)
	if err != nil {
		return nil, fmt.Errorf("failed to query facilities for geocoding: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var facility models.Facility
		if errScan := rows.Scan(
			&facility.ID, &facility.Name, &facility.State, &facility.Municipality,
		); errScan != nil {
			return nil, fmt.Errorf("failed to scan facility for geocoding: %w", errScan)
		}
		r.log.DebugContext(ctx, "A facility to geocode has been received.",
			"ID", facility.ID, "Name", facility.Name)
		facilities = append(facilities, facility)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return facilities, nil
}

// FetchLocatedFacilities retrieves every facility with both coordinates set, ordered by identifier.
func (r *Repository) FetchLocatedFacilities(ctx context.Context) ([]models.Facility, error) {
	var facilities []models.Facility
	query := `
		SELECT id_hospital, COALESCE(nombre_hospital, ''), latitud_hospital, longitud_hospital
		FROM hospitals
		WHERE latitud_hospital IS NOT NULL AND longitud_hospital IS NOT NULL
		ORDER BY id_hospital;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query located facilities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			facility models.Facility
			coords   models.Coordinates
		)
		if errScan := rows.Scan(&facility.ID, &facility.Name, &coords.Latitude, &coords.Longitude); errScan != nil {
			return nil, fmt.Errorf("failed to scan located facility: %w", errScan)
		}
		facility.Location = &coords
		facilities = append(facilities, facility)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return facilities, nil
}

// FetchRegions retrieves municipalities that have a boundary, in ascending identifier order.
// That order is the candidate order used to break ties in the spatial join.
func (r *Repository) FetchRegions(ctx context.Context) ([]models.Region, error) {
	var regions []models.Region
	query := `
		SELECT id_municipio, nombre_municipio, geo_shape
		FROM municipios
		WHERE geo_shape IS NOT NULL
		ORDER BY id_municipio;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query municipalities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var region models.Region
		if errScan := rows.Scan(&region.ID, &region.Name, &region.Shape); errScan != nil {
			return nil, fmt.Errorf("failed to scan municipality: %w", errScan)
		}
		regions = append(regions, region)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return regions, nil
}

// UpdateFacilityCoordinates stores a resolved location for a facility that has not been reviewed.
// Reviewed facilities keep their human-verified location and yield ErrNotFound.
func (r *Repository) UpdateFacilityCoordinates(ctx context.Context, facilityID int, coords models.Coordinates) error {
	query := `
		UPDATE hospitals
		SET
			latitud_hospital = $1,
			longitud_hospital = $2,
			coordenadas_hospital = $3
		WHERE
			id_hospital = $4
			AND reviewed = false;
	`

	tag, err := r.db.Exec(ctx, query, coords.Latitude, coords.Longitude, coords.Text(), facilityID)
	if err != nil {
		return fmt.Errorf("failed to update facility coordinates: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// AssignMunicipality points a facility at the municipality that contains it.
func (r *Repository) AssignMunicipality(ctx context.Context, facilityID, municipalityID int) error {
	query := `
		UPDATE hospitals
		SET id_municipio = $1
		WHERE id_hospital = $2;
	`

	tag, err := r.db.Exec(ctx, query, municipalityID, facilityID)
	if err != nil {
		return fmt.Errorf("failed to assign municipality: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
