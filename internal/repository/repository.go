package repository

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"

	"github.com/UnknownOlympus/pinpoint/internal/models"
)

// ErrNotFound is returned when no facility matches a lookup or an update.
var ErrNotFound = errors.New("facility not found")

type Repository struct {
	db   Database
	log  *slog.Logger
	pick func(n int) int // pick returns a uniform index in [0, n).
}

// ReviewStore is the subset of the repository used by the review API.
type ReviewStore interface {
	ListUnreviewedStates(ctx context.Context) ([]string, error)
	NextUnreviewed(ctx context.Context, state string) (*models.Facility, error)
	CommitCorrection(ctx context.Context, correction models.Correction) error
	GetFacility(ctx context.Context, facilityID int) (*models.Facility, error)
	Ping(ctx context.Context) error
}

// ReconcileStore is the subset of the repository used by the reconciliation commands.
type ReconcileStore interface {
	FetchFacilitiesForGeocoding(ctx context.Context, state string) ([]models.Facility, error)
	FetchLocatedFacilities(ctx context.Context) ([]models.Facility, error)
	FetchRegions(ctx context.Context) ([]models.Region, error)
	UpdateFacilityCoordinates(ctx context.Context, facilityID int, coords models.Coordinates) error
	AssignMunicipality(ctx context.Context, facilityID, municipalityID int) error
	UpdateCoordinatesByName(ctx context.Context, name, facilityType string, coords models.Coordinates) (int64, error)
	InsertMunicipalities(ctx context.Context, regions []models.Region) (int64, error)
}

type Interface interface {
	ReviewStore
	ReconcileStore
}

var _ Interface = (*Repository)(nil)

// NewRepository creates a new instance of Repository with the provided Database.
// It returns a pointer to the newly created Repository.
func NewRepository(db Database, log *slog.Logger) *Repository {
	return &Repository{db: db, log: log, pick: rand.IntN}
}

// WithPicker replaces the random index source used by NextUnreviewed.
func (r *Repository) WithPicker(pick func(n int) int) *Repository {
	r.pick = pick
	return r
}

// Ping checks that the database is reachable.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
