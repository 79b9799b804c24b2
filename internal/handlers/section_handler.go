package handlers

import (
	"net/http"

	"tecawayBack/internal/models"
	"tecawayBack/internal/services"
)

type SectionHandler struct {
	Service *services.SectionService
}

func (h *SectionHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *SectionHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	section, err := h.Service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, section)
}

func (h *SectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var section models.Section
	if err := decodeJSON(r, &section); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := h.Service.Create(r.Context(), section)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *SectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var section models.Section
	if err := decodeJSON(r, &section); err != nil {
		writeError(w, r, err)
		return
	}
	section.ID = id

	updated, err := h.Service.Update(r.Context(), section)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *SectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := intParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
