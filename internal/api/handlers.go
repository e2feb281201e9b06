package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/UnknownOlympus/pinpoint/internal/metrics"
	"github.com/UnknownOlympus/pinpoint/internal/models"
	"github.com/UnknownOlympus/pinpoint/internal/repository"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 1 << 20

// Response statuses returned by POST /guardar.
const (
	StatusOK       = "ok"
	StatusNotFound = "not_found"
	StatusError    = "error"
)

var errInvalidRequest = errors.New("invalid request")

// Handler serves the review endpoints. Every request works through the store on its own;
// the handler keeps no per-request state.
type Handler struct {
	log     *slog.Logger
	store   repository.ReviewStore
	metrics *metrics.Metrics
}

func NewHandler(log *slog.Logger, store repository.ReviewStore, appMetrics *metrics.Metrics) *Handler {
	return &Handler{log: log, store: store, metrics: appMetrics}
}

type facilityResponse struct {
	ID        int      `json:"id_hospital"`
	Address   string   `json:"direccion_hospital"`
	Name      string   `json:"nombre_hospital"`
	Latitude  *float64 `json:"latitud_hospital"`
	Longitude *float64 `json:"longitud_hospital"`
}

type facilityDetailResponse struct {
	facilityResponse
	Boundary       *string `json:"radio_geo"`
	Reviewed       bool    `json:"reviewed"`
	MunicipalityID *int    `json:"id_municipio"`
}

type saveRequest struct {
	ID        *int            `json:"id_hospital"`
	Latitude  *float64        `json:"latitud"`
	Longitude *float64        `json:"longitud"`
	GeoJSON   json.RawMessage `json:"geojson"`
}

type statusResponse struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// States lists the states that still have facilities to review.
func (h *Handler) States(w http.ResponseWriter, r *http.Request) {
	states, err := h.store.ListUnreviewedStates(r.Context())
	if err != nil {
		h.log.ErrorContext(r.Context(), "Failed to list states", "error", err)
		h.writeJSON(w, r, http.StatusInternalServerError, statusResponse{Status: StatusError})
		return
	}
	if states == nil {
		states = []string{}
	}

	h.writeJSON(w, r, http.StatusOK, states)
}

// NextFacility returns a random unreviewed facility of the state in ?estado=, or {} when none is left.
func (h *Handler) NextFacility(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("estado")
	if state == "" {
		h.writeJSON(w, r, http.StatusBadRequest,
			statusResponse{Status: StatusError, Detail: "query parameter estado is required"})
		return
	}

	facility, err := h.store.NextUnreviewed(r.Context(), state)
	if errors.Is(err, repository.ErrNotFound) {
		h.log.InfoContext(r.Context(), "No facility left to review", "state", state)
		h.writeJSON(w, r, http.StatusOK, struct{}{})
		return
	}
	if err != nil {
		h.log.ErrorContext(r.Context(), "Failed to pick facility", "state", state, "error", err)
		h.writeJSON(w, r, http.StatusInternalServerError, statusResponse{Status: StatusError})
		return
	}

	h.writeJSON(w, r, http.StatusOK, toResponse(facility))
}

// Facility returns one facility by id whatever its review state, or {} when it does not exist.
func (h *Handler) Facility(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.writeJSON(w, r, http.StatusBadRequest, statusResponse{Status: StatusError, Detail: "id must be an integer"})
		return
	}

	facility, err := h.store.GetFacility(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		h.writeJSON(w, r, http.StatusOK, struct{}{})
		return
	}
	if err != nil {
		h.log.ErrorContext(r.Context(), "Failed to read facility", "ID", id, "error", err)
		h.writeJSON(w, r, http.StatusInternalServerError, statusResponse{Status: StatusError})
		return
	}

	h.writeJSON(w, r, http.StatusOK, facilityDetailResponse{
		facilityResponse: toResponse(facility),
		Boundary:         facility.Boundary,
		Reviewed:         facility.Reviewed,
		MunicipalityID:   facility.MunicipalityID,
	})
}

// Save commits a reviewer correction and marks the facility reviewed.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	correction, err := decodeCorrection(w, r)
	if err != nil {
		h.countCommit("invalid")
		h.writeJSON(w, r, http.StatusBadRequest, statusResponse{Status: StatusError, Detail: err.Error()})
		return
	}

	err = h.store.CommitCorrection(r.Context(), correction)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		h.countCommit(StatusNotFound)
		h.writeJSON(w, r, http.StatusOK, statusResponse{Status: StatusNotFound})
	case err != nil:
		h.countCommit(StatusError)
		h.log.ErrorContext(r.Context(), "Failed to commit correction", "ID", correction.FacilityID, "error", err)
		h.writeJSON(w, r, http.StatusInternalServerError, statusResponse{Status: StatusError})
	default:
		h.countCommit(StatusOK)
		h.log.InfoContext(r.Context(), "Correction committed", "ID", correction.FacilityID)
		h.writeJSON(w, r, http.StatusOK, statusResponse{Status: StatusOK})
	}
}

// Health pings the database.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status, body := http.StatusOK, "OK"
	if err := h.store.Ping(r.Context()); err != nil {
		status, body = http.StatusServiceUnavailable, "DB ping failed"
	}

	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		h.log.ErrorContext(r.Context(), "failed to write reply", "error", err)
	}
}

func decodeCorrection(w http.ResponseWriter, r *http.Request) (models.Correction, error) {
	var req saveRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		return models.Correction{}, fmt.Errorf("%w: malformed JSON body", errInvalidRequest)
	}

	switch {
	case req.ID == nil:
		return models.Correction{}, fmt.Errorf("%w: id_hospital is required", errInvalidRequest)
	case req.Latitude == nil || req.Longitude == nil:
		return models.Correction{}, fmt.Errorf("%w: latitud and longitud are required", errInvalidRequest)
	}

	location := models.Coordinates{Latitude: *req.Latitude, Longitude: *req.Longitude}
	if !location.Valid() {
		return models.Correction{}, fmt.Errorf("%w: coordinates out of range", errInvalidRequest)
	}

	correction := models.Correction{FacilityID: *req.ID, Location: location}

	boundary := bytes.TrimSpace(req.GeoJSON)
	if len(boundary) > 0 && !bytes.Equal(boundary, []byte("null")) {
		if boundary[0] != '{' {
			return models.Correction{}, fmt.Errorf("%w: geojson must be an object", errInvalidRequest)
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, boundary); err != nil {
			return models.Correction{}, fmt.Errorf("%w: geojson must be an object", errInvalidRequest)
		}
		text := compact.String()
		correction.Boundary = &text
	}

	return correction, nil
}

func toResponse(facility *models.Facility) facilityResponse {
	resp := facilityResponse{ID: facility.ID, Address: facility.Address, Name: facility.Name}
	if facility.Location != nil {
		lat, lon := facility.Location.Latitude, facility.Location.Longitude
		resp.Latitude, resp.Longitude = &lat, &lon
	}

	return resp
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.ErrorContext(r.Context(), "failed to write reply", "error", err)
	}
}

func (h *Handler) countCommit(result string) {
	if h.metrics == nil {
		return
	}
	h.metrics.ReviewCommits.WithLabelValues(result).Inc()
}
