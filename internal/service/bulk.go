package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/pinpoint/internal/catalog"
	"github.com/UnknownOlympus/pinpoint/internal/directory"
	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/UnknownOlympus/pinpoint/internal/repository"
	"github.com/UnknownOlympus/pinpoint/internal/tabular"
)

// Columns of the municipality reference workbook.
const (
	ColumnMunicipalityCode = "Municipality code"
	ColumnMunicipalityName = "Municipality name"
	ColumnStateName        = "State name"
	ColumnGeoShape         = "Geo Shape"
)

// Assignment links a facility to a municipality, as read from a reviewed export.
type Assignment struct {
	FacilityID     int
	MunicipalityID int
}

// NameMatcher is the store operation used to apply scraped listings.
type NameMatcher interface {
	UpdateCoordinatesByName(ctx context.Context, name, facilityType string, coords models.Coordinates) (int64, error)
}

// ParseAssignments reads id_hospital and id_municipio from an assignment export.
// Rows where either id is missing or not an integer are dropped.
func ParseAssignments(table *tabular.Table) ([]Assignment, error) {
	cols, err := table.Columns("id_hospital", "id_municipio")
	if err != nil {
		return nil, err
	}

	assignments := make([]Assignment, 0, table.Len())
	for row := range table.Len() {
		facilityID, errF := parseID(table.Cell(row, cols[0]))
		municipalityID, errM := parseID(table.Cell(row, cols[1]))
		if errF != nil || errM != nil {
			continue
		}
		assignments = append(assignments, Assignment{FacilityID: facilityID, MunicipalityID: municipalityID})
	}

	return assignments, nil
}

// parseID accepts "12" as well as "12.0", which spreadsheet tools write for numeric cells.
func parseID(cell string) (int, error) {
	if id, err := strconv.Atoi(cell); err == nil {
		return id, nil
	}

	value, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return 0, err
	}
	if value != float64(int(value)) {
		return 0, strconv.ErrSyntax
	}

	return int(value), nil
}

// ApplyAssignments stores each assignment. Unknown facilities are counted as skipped,
// store failures as errored; neither stops the run.
func ApplyAssignments(
	ctx context.Context,
	log *slog.Logger,
	store MunicipalityWriter,
	assignments []Assignment,
) (models.Report, error) {
	var report models.Report

	for _, assignment := range assignments {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		err := store.AssignMunicipality(ctx, assignment.FacilityID, assignment.MunicipalityID)
		switch {
		case errors.Is(err, repository.ErrNotFound):
			log.WarnContext(ctx, "Facility not found", "ID", assignment.FacilityID)
			report.Skipped++
		case err != nil:
			log.ErrorContext(ctx, "Failed to assign municipality", "ID", assignment.FacilityID, "error", err)
			report.Errored++
		default:
			log.DebugContext(ctx, "Municipality assigned",
				"ID", assignment.FacilityID, "municipality", assignment.MunicipalityID)
			report.Updated++
		}
	}

	return report, nil
}

// UploadListings applies scraped listing coordinates to unreviewed facilities with the
// same name. Listings matching no facility are skipped.
func UploadListings(
	ctx context.Context,
	log *slog.Logger,
	store NameMatcher,
	listings []directory.Listing,
	facilityType string,
) (models.Report, error) {
	var report models.Report

	for _, listing := range listings {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		updated, err := store.UpdateCoordinatesByName(ctx, listing.Name, facilityType, listing.Location)
		switch {
		case err != nil:
			log.ErrorContext(ctx, "Failed to update listing", "name", listing.Name, "error", err)
			report.Errored++
		case updated == 0:
			log.InfoContext(ctx, "No facility matches listing", "name", listing.Name)
			report.Skipped++
		default:
			log.DebugContext(ctx, "Listing applied", "name", listing.Name, "facilities", updated)
			report.Updated++
		}
	}

	return report, nil
}

// ParseMunicipalities converts the municipality reference workbook into regions.
// State names are resolved through the catalog; unknown states leave StateID empty.
// Rows without a numeric code or without a shape are dropped.
func ParseMunicipalities(ctx context.Context, log *slog.Logger, table *tabular.Table) ([]models.Region, error) {
	cols, err := table.Columns(ColumnMunicipalityCode, ColumnMunicipalityName, ColumnStateName, ColumnGeoShape)
	if err != nil {
		return nil, err
	}

	regions := make([]models.Region, 0, table.Len())
	for row := range table.Len() {
		code, errCode := parseID(table.Cell(row, cols[0]))
		shape := table.Cell(row, cols[3])
		if errCode != nil || shape == "" {
			log.WarnContext(ctx, "Skipping municipality row", "row", row+2, "code", table.Cell(row, cols[0]))
			continue
		}

		region := models.Region{ID: code, Name: strings.TrimSpace(table.Cell(row, cols[1])), Shape: shape}

		stateName := table.Cell(row, cols[2])
		if stateID, ok := catalog.StateID(stateName); ok {
			region.StateID = &stateID
		} else {
			log.WarnContext(ctx, "Unknown state name", "row", row+2, "state", stateName)
		}

		regions = append(regions, region)
	}

	return regions, nil
}
