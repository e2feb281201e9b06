package models

// Region is an administrative municipality as stored, with its boundary kept as raw GeoJSON text.
type Region struct {
	ID      int    // ID is the municipality identifier (id_municipio).
	Name    string // Name is the municipality name.
	StateID *int   // StateID references the owning state, if known.
	Shape   string // Shape is the GeoJSON geometry or feature describing the boundary.
}
