package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Yajiroobe/SAE-VISION360/internal/core/domain"
)

func (rt *Router) reservationsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		rt.createReservation(w, r)
	case http.MethodGet:
		rt.listReservations(w, r)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) createReservation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Origin      string           `json:"origin"`
		Destination string           `json:"destination"`
		DepartureAt time.Time        `json:"datetime_utc"`
		Passenger   domain.Passenger `json:"passenger"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Origin) == "" || strings.TrimSpace(req.Destination) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "origin and destination are required"})
		return
	}
	if strings.TrimSpace(req.Passenger.Name) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "passenger name is required"})
		return
	}
	if req.DepartureAt.IsZero() {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "datetime_utc is required"})
		return
	}

	now := time.Now().UTC()
	reservation := &domain.Reservation{
		ID:          uuid.NewString(),
		Origin:      req.Origin,
		Destination: req.Destination,
		DepartureAt: req.DepartureAt.UTC(),
		Passenger:   req.Passenger,
		Status:      domain.ReservationPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := rt.reservations.Create(r.Context(), reservation); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, reservation)
}

func (rt *Router) listReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := rt.reservations.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reservations": reservations})
}

func (rt *Router) reservationByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/v1/reservations/")
	id, action, _ := strings.Cut(rest, "/")
	if id == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reservation id is required"})
		return
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		rt.getReservation(w, r, id)
	case action == "status" && r.Method == http.MethodPatch:
		rt.updateReservationStatus(w, r, id)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	}
}

func (rt *Router) getReservation(w http.ResponseWriter, r *http.Request, id string) {
	reservation, err := rt.reservations.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

func (rt *Router) updateReservationStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	status := domain.ReservationStatus(req.Status)
	switch status {
	case domain.ReservationPending, domain.ReservationConfirmed, domain.ReservationCancelled:
	default:
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown status: " + req.Status})
		return
	}

	if err := rt.reservations.UpdateStatus(r.Context(), id, status); err != nil {
		writeError(w, err)
		return
	}

	reservation, err := rt.reservations.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}
