package models

// Facility is a hospital or clinic record in the directory.
type Facility struct {
	ID             int          // ID is the unique identifier (id_hospital).
	Name           string       // Name is the display name.
	Address        string       // Address is the free-text street address, may be empty.
	State          string       // State is the state name the facility belongs to.
	Municipality   string       // Municipality is the assigned municipality name, may be empty.
	MunicipalityID *int         // MunicipalityID is the assigned municipality, nil if unassigned.
	Location       *Coordinates // Location is nil until the facility has been located.
	Boundary       *string      // Boundary is the optional geofence, stored as GeoJSON text.
	Reviewed       bool         // Reviewed is set once a human has verified the location.
}

// Correction is the payload a reviewer commits for one facility.
type Correction struct {
	FacilityID int
	Location   Coordinates
	Boundary   *string
}
