package models

import "strconv"

// Coordinates represents a geographical point defined by its longitude and latitude.
type Coordinates struct {
	Longitude float64 // Longitude of the geographical point.
	Latitude  float64 // Latitude of the geographical point.
}

// Valid reports whether the point lies inside the WGS84 latitude and longitude ranges.
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// Text renders the derived coordinate text stored alongside the numeric columns,
// longitude first: "-99.13, 19.43".
func (c Coordinates) Text() string {
	return strconv.FormatFloat(c.Longitude, 'f', -1, 64) + ", " + strconv.FormatFloat(c.Latitude, 'f', -1, 64)
}
