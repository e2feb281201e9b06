package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/UnknownOlympus/pinpoint/internal/tabular"
)

// ErrIncompleteResolution is returned by sinks given a resolution lacking the field they store.
var ErrIncompleteResolution = errors.New("resolution lacks the value to persist")

// CoordinatesWriter is the store operation used by CoordinatesSink.
type CoordinatesWriter interface {
	UpdateFacilityCoordinates(ctx context.Context, facilityID int, coords models.Coordinates) error
}

// MunicipalityWriter is the store operation used by MunicipalitySink.
type MunicipalityWriter interface {
	AssignMunicipality(ctx context.Context, facilityID, municipalityID int) error
}

// CoordinatesSink stores geocoded coordinates without touching the reviewed flag.
type CoordinatesSink struct {
	store CoordinatesWriter
}

func NewCoordinatesSink(store CoordinatesWriter) *CoordinatesSink {
	return &CoordinatesSink{store: store}
}

func (s *CoordinatesSink) Persist(ctx context.Context, resolution models.Resolution) error {
	if resolution.Location == nil {
		return ErrIncompleteResolution
	}
	if err := s.store.UpdateFacilityCoordinates(ctx, resolution.Facility.ID, *resolution.Location); err != nil {
		return fmt.Errorf("failed to store coordinates for facility %d: %w", resolution.Facility.ID, err)
	}

	return nil
}

// MunicipalitySink stores the municipality assigned by the spatial join.
type MunicipalitySink struct {
	store MunicipalityWriter
}

func NewMunicipalitySink(store MunicipalityWriter) *MunicipalitySink {
	return &MunicipalitySink{store: store}
}

func (s *MunicipalitySink) Persist(ctx context.Context, resolution models.Resolution) error {
	if resolution.Region == nil {
		return ErrIncompleteResolution
	}
	if err := s.store.AssignMunicipality(ctx, resolution.Facility.ID, resolution.Region.ID); err != nil {
		return fmt.Errorf("failed to assign municipality for facility %d: %w", resolution.Facility.ID, err)
	}

	return nil
}

// SheetLayout describes one export file: its columns and how a resolution fills them.
type SheetLayout struct {
	Sheet  string
	Header []string
	Row    func(resolution models.Resolution) []string
}

// GeocodeLayout is the export of the geocoding pass.
var GeocodeLayout = SheetLayout{
	Sheet: "hospitales",
	Header: []string{
		"id_hospital", "nombre_hospital", "nombre_estado", "nombre_municipio",
		"latitud_corregida", "longitud_corregida",
	},
	Row: func(res models.Resolution) []string {
		lat, lon := "", ""
		if res.Location != nil {
			lat = formatFloat(res.Location.Latitude)
			lon = formatFloat(res.Location.Longitude)
		}
		return []string{
			strconv.Itoa(res.Facility.ID), res.Facility.Name, res.Facility.State, res.Facility.Municipality, lat, lon,
		}
	},
}

// AssignmentLayout is the export of the spatial join. Its id columns are the input of apply-assignments.
var AssignmentLayout = SheetLayout{
	Sheet:  "hospitales",
	Header: []string{"nombre_hospital", "id_hospital", "id_municipio", "nombre_municipio"},
	Row: func(res models.Resolution) []string {
		municipalityID, municipality := "", ""
		if res.Region != nil {
			municipalityID = strconv.Itoa(res.Region.ID)
			municipality = res.Region.Name
		}
		return []string{res.Facility.Name, strconv.Itoa(res.Facility.ID), municipalityID, municipality}
	},
}

// SheetSink collects resolved records and writes them as one XLSX file on Flush.
type SheetSink struct {
	path   string
	layout SheetLayout
	table  *tabular.Table
}

func NewSheetSink(path string, layout SheetLayout) *SheetSink {
	return &SheetSink{path: path, layout: layout, table: tabular.NewTable(layout.Header...)}
}

func (s *SheetSink) Persist(_ context.Context, resolution models.Resolution) error {
	s.table.Append(s.layout.Row(resolution)...)
	return nil
}

// Flush writes every collected row, even when none was collected.
func (s *SheetSink) Flush() error {
	return tabular.WriteSheet(s.path, s.layout.Sheet, s.table)
}

// Rows returns the number of rows collected so far.
func (s *SheetSink) Rows() int {
	return s.table.Len()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
