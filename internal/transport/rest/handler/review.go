package handler

import (
	"net/http"

	"nishtha/internal/model"
	"nishtha/internal/player"
)

// ReviewHandler exposes project review and answer checking directly
type ReviewHandler struct {
	reviewer player.Reviewer
	checker  player.AnswerChecker
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviewer player.Reviewer, checker player.AnswerChecker) *ReviewHandler {
	return &ReviewHandler{reviewer: reviewer, checker: checker}
}

// Review handles POST /v1/reviews
// @Summary Review a GitHub repository against a project brief
// @Tags reviews
// @Accept json
// @Produce json
// @Param body body model.ReviewRequest true "Repository and brief"
// @Success 200 {object} model.ProjectReview
// @Security BearerAuth
// @Router /reviews [post]
func (h *ReviewHandler) Review(w http.ResponseWriter, r *http.Request) {
	var req model.ReviewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	review, err := h.reviewer.Review(r.Context(), req.GithubRepoURL, req.ProjectBrief)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

// CheckAnswer handles POST /v1/answers/check
// @Summary Grade an interview answer
// @Tags reviews
// @Accept json
// @Produce json
// @Param body body model.AnswerCheckRequest true "Question and answer"
// @Success 200 {object} model.AnswerCheck
// @Security BearerAuth
// @Router /answers/check [post]
func (h *ReviewHandler) CheckAnswer(w http.ResponseWriter, r *http.Request) {
	var req model.AnswerCheckRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.checker.Check(r.Context(), req.Question, req.UserAnswer)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
