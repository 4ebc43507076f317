package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"nishtha/internal/transport/rest/middleware"
)

// CompletionHandler lists and reconciles completion sagas
type CompletionHandler struct {
	completions Completions
}

// NewCompletionHandler creates a new completion handler
func NewCompletionHandler(completions Completions) *CompletionHandler {
	return &CompletionHandler{completions: completions}
}

// Pending handles GET /v1/completions/pending
// @Summary Proofs minted but not yet recorded
// @Tags completions
// @Produce json
// @Success 200 {array} model.CompletionSaga
// @Security BearerAuth
// @Router /completions/pending [get]
func (h *CompletionHandler) Pending(w http.ResponseWriter, r *http.Request) {
	sagas, err := h.completions.ListPending(r.Context(), middleware.GetEmail(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sagas)
}

// Reconcile handles POST /v1/completions/{id}/reconcile
// @Summary Retry recording a minted proof
// @Tags completions
// @Produce json
// @Param id path string true "Saga id"
// @Success 200 {object} model.CompletionSaga
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /completions/{id}/reconcile [post]
func (h *CompletionHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	saga, err := h.completions.Reconcile(r.Context(), middleware.GetEmail(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saga)
}
