package handlers

import (
	"net/http"

	"tecawayBack/internal/models"
	"tecawayBack/internal/services"
)

type KnowledgeHandler struct {
	Service *services.KnowledgeService
}

func (h *KnowledgeHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *KnowledgeHandler) GetBySection(w http.ResponseWriter, r *http.Request) {
	sectionID, err := intParam(r, "section_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := h.Service.GetBySection(r.Context(), sectionID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *KnowledgeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var k models.Knowledge
	if err := decodeJSON(r, &k); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := h.Service.Create(r.Context(), k)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *KnowledgeHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// GetMemberships returns the whole user_knowledge table.
func (h *KnowledgeHandler) GetMemberships(w http.ResponseWriter, r *http.Request) {
	list, err := h.Service.GetMemberships(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}
