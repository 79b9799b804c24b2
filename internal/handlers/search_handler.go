package handlers

import (
	"net/http"

	"tecawayBack/internal/models"
	"tecawayBack/internal/services"
)

// SearchHandler exposes technician search sessions.
type SearchHandler struct {
	Service *services.SearchService
}

func (h *SearchHandler) Start(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.StartSession(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *SearchHandler) State(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.State(getParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Filter replaces the session's selection. Anonymous callers cannot use their stored location.
func (h *SearchHandler) Filter(w http.ResponseWriter, r *http.Request) {
	var req models.SearchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	actor, _ := ActorFrom(r.Context())

	resp, err := h.Service.ApplyFilters(r.Context(), actor.UserID, getParam(r, "id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SearchHandler) Clear(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Service.ClearFilters(getParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *SearchHandler) SortOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.Service.SortOptions(getParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (h *SearchHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	cat, err := h.Service.Catalog(getParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

func (h *SearchHandler) End(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.EndSession(getParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
