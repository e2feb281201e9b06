package directory

import (
	"fmt"
	"strconv"

	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/UnknownOlympus/pinpoint/internal/tabular"
)

// Columns of the listings file.
const (
	ColumnName        = "nombre"
	ColumnLatitude    = "Latitud"
	ColumnLongitude   = "Longitud"
	ColumnCoordinates = "coordenadas"
)

// ToTable lays listings out as the listings file.
func ToTable(listings []Listing) *tabular.Table {
	table := tabular.NewTable(ColumnName, ColumnLatitude, ColumnLongitude, ColumnCoordinates)
	for _, listing := range listings {
		loc := listing.Location
		table.Append(
			listing.Name,
			strconv.FormatFloat(loc.Latitude, 'f', -1, 64),
			strconv.FormatFloat(loc.Longitude, 'f', -1, 64),
			loc.Text(),
		)
	}

	return table
}

// FromTable reads listings back from the listings file. The coordinate text column is
// ignored and rebuilt from the numeric columns. Rows without a name are dropped.
func FromTable(table *tabular.Table) ([]Listing, error) {
	cols, err := table.Columns(ColumnName, ColumnLatitude, ColumnLongitude)
	if err != nil {
		return nil, err
	}

	listings := make([]Listing, 0, table.Len())
	for row := range table.Len() {
		name := table.Cell(row, cols[0])
		if name == "" {
			continue
		}

		lat, err := strconv.ParseFloat(table.Cell(row, cols[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid latitude: %w", row+2, err)
		}
		lon, err := strconv.ParseFloat(table.Cell(row, cols[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid longitude: %w", row+2, err)
		}

		coords := models.Coordinates{Latitude: lat, Longitude: lon}
		if !coords.Valid() {
			return nil, fmt.Errorf("row %d: coordinates out of range", row+2)
		}

		listings = append(listings, Listing{Name: name, Location: coords})
	}

	return listings, nil
}
