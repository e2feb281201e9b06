package models

// ResolutionStatus classifies what the reconciliation driver learned about one facility.
type ResolutionStatus int

const (
	// ResolutionUnknown is the zero value and is treated as a failure.
	ResolutionUnknown ResolutionStatus = iota
	// Resolved means a location or region was found and should be persisted.
	Resolved
	// Unresolved is an expected absence: no geocode match, no containing region.
	Unresolved
	// Failed is a transient or data-quality failure for this record only.
	Failed
)

func (s ResolutionStatus) String() string {
	switch s {
	case Resolved:
		return "resolved"
	case Unresolved:
		return "unresolved"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Resolution carries the outcome for one facility from a resolver to the sinks.
type Resolution struct {
	Facility Facility
	Status   ResolutionStatus
	Location *Coordinates // Location is set by geocoding resolutions.
	Region   *Region      // Region is set by spatial resolutions.
	Reason   string       // Reason explains an unresolved or failed outcome.
	Err      error
}

// Report aggregates per-record outcomes of a reconciliation run.
type Report struct {
	Updated int
	Skipped int
	Errored int
}

// Total returns the number of records the run looked at.
func (r Report) Total() int {
	return r.Updated + r.Skipped + r.Errored
}
