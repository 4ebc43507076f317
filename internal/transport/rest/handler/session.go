package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"nishtha/internal/model"
	"nishtha/internal/transport/rest/middleware"
)

// SessionHandler drives checkpoint player sessions over REST. Playback
// commands issued by the player arrive on the session WebSocket.
type SessionHandler struct {
	sessions Sessions
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessions Sessions) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// PlaybackRequest reports a play/pause change of the surface
type PlaybackRequest struct {
	Playing bool `json:"playing"`
}

// Start handles POST /v1/sessions
// @Summary Start a checkpoint player session
// @Tags sessions
// @Accept json
// @Produce json
// @Param body body model.StartSessionRequest true "Course video id"
// @Success 201 {object} player.Snapshot
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /sessions [post]
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req model.StartSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	snap, err := h.sessions.Start(r.Context(), middleware.GetLearner(r.Context()), req.VideoID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

// Get handles GET /v1/sessions/{id}
// @Summary Session snapshot
// @Tags sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} player.Snapshot
// @Security BearerAuth
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	email, id := ids(r)
	snap, err := h.sessions.Snapshot(r.Context(), email, id)
	writeSession(w, snap, err)
}

// Time handles POST /v1/sessions/{id}/time
// @Summary Report elapsed playback time
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param body body model.TimeSampleRequest true "Elapsed seconds"
// @Success 200 {object} player.Snapshot
// @Security BearerAuth
// @Router /sessions/{id}/time [post]
func (h *SessionHandler) Time(w http.ResponseWriter, r *http.Request) {
	var req model.TimeSampleRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email, id := ids(r)
	snap, err := h.sessions.TimeUpdate(r.Context(), email, id, req.Elapsed)
	writeSession(w, snap, err)
}

// Ended handles POST /v1/sessions/{id}/ended
// @Summary Report the end of the video
// @Tags sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} player.Snapshot
// @Security BearerAuth
// @Router /sessions/{id}/ended [post]
func (h *SessionHandler) Ended(w http.ResponseWriter, r *http.Request) {
	email, id := ids(r)
	snap, err := h.sessions.MediaEnded(r.Context(), email, id)
	writeSession(w, snap, err)
}

// Playback handles POST /v1/sessions/{id}/playback
// @Summary Report a play/pause change
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param body body PlaybackRequest true "Playing"
// @Success 200 {object} player.Snapshot
// @Security BearerAuth
// @Router /sessions/{id}/playback [post]
func (h *SessionHandler) Playback(w http.ResponseWriter, r *http.Request) {
	var req PlaybackRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email, id := ids(r)
	snap, err := h.sessions.PlaybackChange(r.Context(), email, id, req.Playing)
	writeSession(w, snap, err)
}

// Select handles POST /v1/sessions/{id}/select
// @Summary Highlight a quiz option
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param body body model.QuizSubmitRequest true "Option"
// @Success 200 {object} player.Snapshot
// @Security BearerAuth
// @Router /sessions/{id}/select [post]
func (h *SessionHandler) Select(w http.ResponseWriter, r *http.Request) {
	var req model.QuizSubmitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email, id := ids(r)
	snap, err := h.sessions.SelectOption(r.Context(), email, id, req.Option)
	writeSession(w, snap, err)
}

// Quiz handles POST /v1/sessions/{id}/quiz
// @Summary Submit a quiz answer
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param body body model.QuizSubmitRequest true "Option; empty submits the highlighted one"
// @Success 200 {object} player.Snapshot
// @Security BearerAuth
// @Router /sessions/{id}/quiz [post]
func (h *SessionHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	var req model.QuizSubmitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email, id := ids(r)
	snap, err := h.sessions.SubmitQuiz(r.Context(), email, id, req.Option)
	writeSession(w, snap, err)
}

// Project handles POST /v1/sessions/{id}/project
// @Summary Submit a repository for review
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param body body model.ProjectSubmitRequest true "Repository URL"
// @Success 200 {object} player.Snapshot
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /sessions/{id}/project [post]
func (h *SessionHandler) Project(w http.ResponseWriter, r *http.Request) {
	var req model.ProjectSubmitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email, id := ids(r)
	snap, err := h.sessions.SubmitProject(r.Context(), email, id, req.RepoURL)
	writeSession(w, snap, err)
}

// Interview handles POST /v1/sessions/{id}/interview
// @Summary Submit the interview answer
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param body body model.InterviewSubmitRequest true "Answer"
// @Success 200 {object} player.Snapshot
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /sessions/{id}/interview [post]
func (h *SessionHandler) Interview(w http.ResponseWriter, r *http.Request) {
	var req model.InterviewSubmitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	email, id := ids(r)
	snap, err := h.sessions.SubmitInterview(r.Context(), email, id, req.Answer)
	writeSession(w, snap, err)
}

// Replay handles POST /v1/sessions/{id}/replay
// @Summary Replay the current module
// @Tags sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} player.Snapshot
// @Security BearerAuth
// @Router /sessions/{id}/replay [post]
func (h *SessionHandler) Replay(w http.ResponseWriter, r *http.Request) {
	email, id := ids(r)
	snap, err := h.sessions.Replay(r.Context(), email, id)
	writeSession(w, snap, err)
}

// End handles DELETE /v1/sessions/{id}
// @Summary End a session
// @Tags sessions
// @Param id path string true "Session id"
// @Success 204
// @Security BearerAuth
// @Router /sessions/{id} [delete]
func (h *SessionHandler) End(w http.ResponseWriter, r *http.Request) {
	email, id := ids(r)
	if err := h.sessions.End(r.Context(), email, id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func ids(r *http.Request) (email, sessionID string) {
	return middleware.GetEmail(r.Context()), mux.Vars(r)["id"]
}
