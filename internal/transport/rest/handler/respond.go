package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"nishtha/internal/player"
	"nishtha/internal/service"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v)
}

// writeServiceError maps service errors onto HTTP statuses
func writeServiceError(w http.ResponseWriter, err error) {
	writeError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, player.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrForbidden), errors.Is(err, service.ErrSessionForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrCourseNotFound),
		errors.Is(err, service.ErrLearnerNotFound),
		errors.Is(err, service.ErrProjectNotFound),
		errors.Is(err, service.ErrNoVerifiedProjects),
		errors.Is(err, service.ErrSessionNotFound),
		errors.Is(err, service.ErrSagaNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrProofInFlight),
		errors.Is(err, service.ErrNothingToReconcile),
		errors.Is(err, player.ErrBusy),
		errors.Is(err, player.ErrWrongStage),
		errors.Is(err, player.ErrNotLoaded):
		return http.StatusConflict
	case errors.Is(err, player.ErrInvalidCourse), errors.Is(err, service.ErrInvalidPlan):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrAIDisabled), errors.Is(err, service.ErrMintNotConfigured):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// sessionError carries the snapshot alongside the message so clients can
// re-render the stage
type sessionError struct {
	Error    string          `json:"error"`
	Snapshot player.Snapshot `json:"snapshot"`
}

// writeSession writes a controller result. Rejections and reconcile leave
// the stage in place and are reported through the snapshot's lastError.
func writeSession(w http.ResponseWriter, snap player.Snapshot, err error) {
	switch {
	case err == nil,
		errors.Is(err, player.ErrRejected),
		errors.Is(err, player.ErrReconcileNeeded):
		writeJSON(w, http.StatusOK, snap)
	case snap.SessionID == "":
		writeServiceError(w, err)
	default:
		msg := snap.LastError
		if msg == "" {
			msg = err.Error()
		}
		writeJSON(w, statusFor(err), sessionError{Error: msg, Snapshot: snap})
	}
}
