package handlers

import (
	"net/http"

	"tecawayBack/internal/geo"
	"tecawayBack/internal/models"
	"tecawayBack/internal/services"
)

// LocationHandler provides HTTP endpoints for user locations.
type LocationHandler struct {
	Service *services.LocationService
}

// UpdateLocation stores the caller's coordinates.
func (h *LocationHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	var c geo.Coordinates
	if err := decodeJSON(r, &c); err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Service.SetLocation(r.Context(), actor.UserID, c); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// GetLocation returns last known coordinates for a user. Only the user and admins may read them.
func (h *LocationHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	userID, err := intParam(r, "user_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !actor.CanEdit(userID) {
		writeError(w, r, models.ErrForbidden)
		return
	}
	loc, err := h.Service.GetLocation(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, loc)
}

func (h *LocationHandler) ClearLocation(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if err := h.Service.ClearLocation(r.Context(), actor.UserID); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
