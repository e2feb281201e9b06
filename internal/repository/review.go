package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/jackc/pgx/v5"
)

// ListUnreviewedStates returns every state that still has at least one facility awaiting review.
func (r *Repository) ListUnreviewedStates(ctx context.Context) ([]string, error) {
	query := `
		SELECT DISTINCT e.nombre_estado
		FROM hospitals h
		JOIN estados e ON h.estado_id = e.id_estado
		WHERE h.reviewed = false
		ORDER BY e.nombre_estado;
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query unreviewed states: %w", err)
	}
	defer rows.Close()

	states := []string{}
	for rows.Next() {
		var state string
		if errScan := rows.Scan(&state); errScan != nil {
			return nil, fmt.Errorf("failed to scan state name: %w", errScan)
		}
		states = append(states, state)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read row: %w", err)
	}

	return states, nil
}

// NextUnreviewed samples one unreviewed, located facility of the given state uniformly at random.
// It counts the eligible rows and reads the one at a random offset, both inside a single
// read-only snapshot so the offset cannot point past the end. ErrNotFound is returned when
// no facility is eligible.
func (r *Repository) NextUnreviewed(ctx context.Context, state string) (*models.Facility, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM hospitals h
		JOIN estados e ON h.estado_id = e.id_estado
		WHERE e.nombre_estado = $1
			AND h.reviewed = false
			AND h.latitud_hospital IS NOT NULL
			AND h.longitud_hospital IS NOT NULL;
	`
	pickQuery := `
		SELECT h.id_hospital, COALESCE(h.direccion_hospital, ''), COALESCE(h.nombre_hospital, ''),
			h.latitud_hospital, h.longitud_hospital
		FROM hospitals h
		JOIN estados e ON h.estado_id = e.id_estado
		WHERE e.nombre_estado = $1
			AND h.reviewed = false
			AND h.latitud_hospital IS NOT NULL
			AND h.longitud_hospital IS NOT NULL
		ORDER BY h.id_hospital
		OFFSET $2
		LIMIT 1;
	`

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("failed to begin read transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	var eligible int
	if err = tx.QueryRow(ctx, countQuery, state).Scan(&eligible); err != nil {
		return nil, fmt.Errorf("failed to count unreviewed facilities: %w", err)
	}

	if eligible == 0 {
		if err = tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to close read transaction: %w", err)
		}
		r.log.DebugContext(ctx, "No unreviewed facility left in state", "state", state)
		return nil, ErrNotFound
	}

	offset := r.pick(eligible)

	var (
		facility models.Facility
		lat, lon *float64
	)
	err = tx.QueryRow(ctx, pickQuery, state, offset).
		Scan(&facility.ID, &facility.Address, &facility.Name, &lat, &lon)
	if err != nil {
		return nil, fmt.Errorf("failed to read unreviewed facility: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to close read transaction: %w", err)
	}

	facility.State = state
	facility.Location = locationOf(lat, lon)

	return &facility, nil
}

// CommitCorrection stores a reviewed location, its coordinate text and the optional geofence,
// and marks the facility reviewed, all in one transaction. Committing to an unknown facility
// changes nothing and returns ErrNotFound. Committing again to a reviewed facility overwrites it.
func (r *Repository) CommitCorrection(ctx context.Context, correction models.Correction) error {
	lockQuery := `
		SELECT reviewed
		FROM hospitals
		WHERE id_hospital = $1
		FOR UPDATE;
	`
	updateQuery := `
		UPDATE hospitals
		SET
			latitud_hospital = $1,
			longitud_hospital = $2,
			coordenadas_hospital = $3,
			radio_geo = $4,
			reviewed = true
		WHERE
			id_hospital = $5;
	`

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	var wasReviewed bool
	if err = tx.QueryRow(ctx, lockQuery, correction.FacilityID).Scan(&wasReviewed); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.log.WarnContext(ctx, "Correction for unknown facility ignored", "ID", correction.FacilityID)
			return ErrNotFound
		}
		return fmt.Errorf("failed to lock facility: %w", err)
	}

	loc := correction.Location
	tag, err := tx.Exec(ctx, updateQuery,
		loc.Latitude, loc.Longitude, loc.Text(), correction.Boundary, correction.FacilityID)
	if err != nil {
		return fmt.Errorf("failed to update facility location: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit correction: %w", err)
	}

	if wasReviewed {
		r.log.InfoContext(ctx, "Overwrote an already reviewed facility", "ID", correction.FacilityID)
	}

	return nil
}

// GetFacility reads one facility by identifier regardless of its review state.
func (r *Repository) GetFacility(ctx context.Context, facilityID int) (*models.Facility, error) {
	query := `
		SELECT h.id_hospital, COALESCE(h.nombre_hospital, ''), COALESCE(h.direccion_hospital, ''),
			h.latitud_hospital, h.longitud_hospital, h.radio_geo, h.reviewed, h.id_municipio
		FROM hospitals h
		WHERE h.id_hospital = $1;
	`

	var (
		facility models.Facility
		lat, lon *float64
	)
	err := r.db.QueryRow(ctx, query, facilityID).Scan(
		&facility.ID, &facility.Name, &facility.Address,
		&lat, &lon, &facility.Boundary, &facility.Reviewed, &facility.MunicipalityID,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read facility: %w", err)
	}

	facility.Location = locationOf(lat, lon)

	return &facility, nil
}

func locationOf(lat, lon *float64) *models.Coordinates {
	if lat == nil || lon == nil {
		return nil
	}

	return &models.Coordinates{Latitude: *lat, Longitude: *lon}
}
