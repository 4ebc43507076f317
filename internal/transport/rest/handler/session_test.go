package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"nishtha/internal/model"
	"nishtha/internal/player"
	"nishtha/internal/service"
)

// fakeSessions records the last call and answers with a fixed snapshot
type fakeSessions struct {
	call    string
	email   string
	id      string
	arg     interface{}
	err     error
	started *model.LearnerClaims
}

func (f *fakeSessions) record(call, email, id string, arg interface{}) (player.Snapshot, error) {
	f.call, f.email, f.id, f.arg = call, email, id, arg
	if f.err != nil && id != "s1" {
		return player.Snapshot{}, f.err
	}
	return player.Snapshot{SessionID: id, State: player.StateCheckpoint, LastError: "msg"}, f.err
}

func (f *fakeSessions) Start(ctx context.Context, claims *model.LearnerClaims, videoID string) (player.Snapshot, error) {
	f.started = claims
	return f.record("start", claims.Email, "s1", videoID)
}
func (f *fakeSessions) Snapshot(ctx context.Context, email, id string) (player.Snapshot, error) {
	return f.record("snapshot", email, id, nil)
}
func (f *fakeSessions) TimeUpdate(ctx context.Context, email, id string, elapsed float64) (player.Snapshot, error) {
	return f.record("time", email, id, elapsed)
}
func (f *fakeSessions) MediaEnded(ctx context.Context, email, id string) (player.Snapshot, error) {
	return f.record("ended", email, id, nil)
}
func (f *fakeSessions) PlaybackChange(ctx context.Context, email, id string, playing bool) (player.Snapshot, error) {
	return f.record("playback", email, id, playing)
}
func (f *fakeSessions) SelectOption(ctx context.Context, email, id, option string) (player.Snapshot, error) {
	return f.record("select", email, id, option)
}
func (f *fakeSessions) SubmitQuiz(ctx context.Context, email, id, option string) (player.Snapshot, error) {
	return f.record("quiz", email, id, option)
}
func (f *fakeSessions) SubmitProject(ctx context.Context, email, id, repoURL string) (player.Snapshot, error) {
	return f.record("project", email, id, repoURL)
}
func (f *fakeSessions) SubmitInterview(ctx context.Context, email, id, answer string) (player.Snapshot, error) {
	return f.record("interview", email, id, answer)
}
func (f *fakeSessions) Replay(ctx context.Context, email, id string) (player.Snapshot, error) {
	return f.record("replay", email, id, nil)
}
func (f *fakeSessions) End(ctx context.Context, email, id string) error {
	_, err := f.record("end", email, id, nil)
	return err
}

func TestSessionRoutesForwardArguments(t *testing.T) {
	vars := map[string]string{"id": "s1"}
	tests := []struct {
		name   string
		handle func(h *SessionHandler) http.HandlerFunc
		body   string
		call   string
		arg    interface{}
		status int
	}{
		{"time", func(h *SessionHandler) http.HandlerFunc { return h.Time }, `{"elapsed": 12.5}`, "time", 12.5, http.StatusOK},
		{"ended", func(h *SessionHandler) http.HandlerFunc { return h.Ended }, ``, "ended", nil, http.StatusOK},
		{"playback", func(h *SessionHandler) http.HandlerFunc { return h.Playback }, `{"playing": true}`, "playback", true, http.StatusOK},
		{"select", func(h *SessionHandler) http.HandlerFunc { return h.Select }, `{"option": "B"}`, "select", "B", http.StatusOK},
		{"quiz", func(h *SessionHandler) http.HandlerFunc { return h.Quiz }, `{"option": "A"}`, "quiz", "A", http.StatusOK},
		{"project", func(h *SessionHandler) http.HandlerFunc { return h.Project }, `{"repoUrl": "https://github.com/a/b"}`, "project", "https://github.com/a/b", http.StatusOK},
		{"interview", func(h *SessionHandler) http.HandlerFunc { return h.Interview }, `{"answer": "because"}`, "interview", "because", http.StatusOK},
		{"replay", func(h *SessionHandler) http.HandlerFunc { return h.Replay }, ``, "replay", nil, http.StatusOK},
		{"get", func(h *SessionHandler) http.HandlerFunc { return h.Get }, ``, "snapshot", nil, http.StatusOK},
		{"end", func(h *SessionHandler) http.HandlerFunc { return h.End }, ``, "end", nil, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakeSessions{}
			rec := httptest.NewRecorder()
			tt.handle(NewSessionHandler(f))(rec, request("POST", "/v1/sessions/s1/"+tt.name, tt.body, vars))

			if rec.Code != tt.status {
				t.Fatalf("status = %d: %s", rec.Code, rec.Body)
			}
			if f.call != tt.call || f.email != email || f.id != "s1" || f.arg != tt.arg {
				t.Errorf("forwarded %s(%s, %s, %v)", f.call, f.email, f.id, f.arg)
			}
		})
	}
}

func TestSessionStart(t *testing.T) {
	f := &fakeSessions{}
	rec := httptest.NewRecorder()
	NewSessionHandler(f).Start(rec, request("POST", "/v1/sessions", `{"videoId": "abc"}`, nil))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}
	if f.started == nil || f.started.WalletAddress != wallet || f.arg != "abc" {
		t.Errorf("learner identity not forwarded: %+v %v", f.started, f.arg)
	}
}

func TestSessionErrors(t *testing.T) {
	f := &fakeSessions{err: service.ErrSessionForbidden}
	rec := httptest.NewRecorder()
	NewSessionHandler(f).Get(rec, request("GET", "/v1/sessions/other", "", map[string]string{"id": "other"}))
	if rec.Code != http.StatusForbidden {
		t.Errorf("forbidden: status = %d", rec.Code)
	}

	f = &fakeSessions{err: player.ErrBusy}
	rec = httptest.NewRecorder()
	NewSessionHandler(f).Project(rec, request("POST", "/v1/sessions/s1/project", `{"repoUrl":"x"}`, map[string]string{"id": "s1"}))
	if rec.Code != http.StatusConflict {
		t.Errorf("busy: status = %d", rec.Code)
	}
}
