package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/lead-console/internal/entity"
	"github.com/xavierca1/lead-console/internal/usecase"
)

type OpportunityHandler struct {
	Opportunities *usecase.OpportunityManager
}

func NewOpportunityHandler(opps *usecase.OpportunityManager) *OpportunityHandler {
	return &OpportunityHandler{Opportunities: opps}
}

func (h *OpportunityHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Opportunities.List())
}

func (h *OpportunityHandler) Summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Opportunities.Summary())
}

func (h *OpportunityHandler) Get(w http.ResponseWriter, r *http.Request) {
	opp, ok := h.Opportunities.Get(chi.URLParam(r, "id"))
	if !ok {
		writeUsecaseError(w, usecase.ErrOpportunityNotFound)
		return
	}
	writeJSON(w, http.StatusOK, opp)
}

func (h *OpportunityHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch entity.OpportunityPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON body")
		return
	}

	opp, err := h.Opportunities.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeUsecaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, opp)
}

func (h *OpportunityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Opportunities.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeUsecaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OpportunityHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.Opportunities.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
