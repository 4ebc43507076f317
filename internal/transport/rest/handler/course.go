package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"nishtha/internal/model"
)

// CourseHandler handles course plan endpoints
type CourseHandler struct {
	courses CoursePlanner
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courses CoursePlanner) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// Plan handles POST /v1/courses/plan
// @Summary Generate or fetch a course plan
// @Tags courses
// @Accept json
// @Produce json
// @Param body body model.GeneratePlanRequest true "YouTube video"
// @Success 200 {object} model.Course
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /courses/plan [post]
func (h *CourseHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req model.GeneratePlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	course, err := h.courses.GeneratePlan(r.Context(), req.VideoURL)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}

// Quiz handles POST /v1/courses/quiz
// @Summary Transcribe a video and build a standalone quiz
// @Tags courses
// @Accept json
// @Produce json
// @Param body body model.GeneratePlanRequest true "YouTube video"
// @Success 200 {object} model.GeneratedQuiz
// @Security BearerAuth
// @Router /courses/quiz [post]
func (h *CourseHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	var req model.GeneratePlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	quiz, err := h.courses.GenerateQuiz(r.Context(), req.VideoURL)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quiz)
}

// Get handles GET /v1/courses/{videoId}
// @Summary Get a generated course
// @Tags courses
// @Produce json
// @Param videoId path string true "YouTube video id"
// @Success 200 {object} model.Course
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /courses/{videoId} [get]
func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	course, err := h.courses.GetByVideoID(r.Context(), mux.Vars(r)["videoId"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, course)
}
