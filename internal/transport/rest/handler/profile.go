package handler

import (
	"net/http"

	"nishtha/internal/transport/rest/middleware"
)

// ProfileHandler handles the learner's own profile and resume
type ProfileHandler struct {
	profiles Profiles
	resumes  ResumeWriter
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles Profiles, resumes ResumeWriter) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, resumes: resumes}
}

// Get handles GET /v1/profile
// @Summary The learner's profile with verified projects
// @Tags profile
// @Produce json
// @Success 200 {object} model.Learner
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /profile [get]
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	learner, err := h.profiles.GetProfile(r.Context(), middleware.GetEmail(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "user": learner})
}

// Resume handles POST /v1/resume
// @Summary Generate a JSON Resume from verified projects
// @Tags profile
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /resume [post]
func (h *ProfileHandler) Resume(w http.ResponseWriter, r *http.Request) {
	resume, err := h.resumes.Generate(r.Context(), middleware.GetEmail(r.Context()))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resume)
}
