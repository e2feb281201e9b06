package models

// GeocodeStatus classifies the outcome of a single geocoding query.
type GeocodeStatus int

const (
	// GeocodeUnknown is the zero value and is never produced by a provider.
	GeocodeUnknown GeocodeStatus = iota
	// GeocodeOK means the provider resolved the query to a coordinate pair.
	GeocodeOK
	// GeocodeNotFound means the provider answered but had no match for the query.
	GeocodeNotFound
	// GeocodeError means the call failed (transport, quota, decoding) and may succeed on a later run.
	GeocodeError
)

func (s GeocodeStatus) String() string {
	switch s {
	case GeocodeOK:
		return "ok"
	case GeocodeNotFound:
		return "not_found"
	case GeocodeError:
		return "error"
	default:
		return "unknown"
	}
}

// GeocodeResult is the value produced for every geocoding query. Failures are encoded
// in Status and Err instead of being returned as Go errors.
type GeocodeResult struct {
	Status         GeocodeStatus
	Location       *Coordinates
	ProviderStatus string // ProviderStatus is the raw status reported by the provider, if any.
	Err            error
}

// GeocodeSuccess builds a successful result.
func GeocodeSuccess(coords Coordinates) GeocodeResult {
	return GeocodeResult{Status: GeocodeOK, Location: &coords, ProviderStatus: "OK"}
}

// GeocodeMiss builds a result for a query the provider could not match.
func GeocodeMiss(providerStatus string) GeocodeResult {
	return GeocodeResult{Status: GeocodeNotFound, ProviderStatus: providerStatus}
}

// GeocodeFailure builds a result for a transient failure.
func GeocodeFailure(err error) GeocodeResult {
	return GeocodeResult{Status: GeocodeError, Err: err}
}
