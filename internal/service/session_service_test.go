package service

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"nishtha/internal/logger"
	"nishtha/internal/model"
	"nishtha/internal/player"
)

type courseLoaderFunc func(ctx context.Context, videoID string) (*model.Course, error)

func (f courseLoaderFunc) GetByVideoID(ctx context.Context, videoID string) (*model.Course, error) {
	return f(ctx, videoID)
}

var testLearner = &model.LearnerClaims{Email: "dev@example.com", WalletAddress: testWallet}

func newSessionService(t *testing.T) (*SessionService, *memSessionCache, *recordingBroadcaster) {
	t.Helper()
	loader := courseLoaderFunc(func(ctx context.Context, id string) (*model.Course, error) {
		if id != planCourse.VideoID {
			return nil, ErrCourseNotFound
		}
		c := planCourse
		return &c, nil
	})
	sc := newMemSessionCache()
	svc := NewSessionService(loader, sc, SessionDeps{}, logger.Nop())
	b := &recordingBroadcaster{}
	svc.SetBroadcaster(b)
	return svc, sc, b
}

func TestSessionPlaysThroughCourse(t *testing.T) {
	svc, sc, b := newSessionService(t)
	ctx := context.Background()

	snap, err := svc.Start(ctx, testLearner, "abc123")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	id := snap.SessionID
	if snap.State != player.StatePlaying || snap.ModuleCount != 2 {
		t.Fatalf("unexpected start snapshot %+v", snap)
	}
	if meta, _ := sc.Get(ctx, id); meta == nil || meta.Email != testLearner.Email {
		t.Fatalf("session metadata not cached: %+v", meta)
	}

	snap, err = svc.TimeUpdate(ctx, testLearner.Email, id, 95)
	if err != nil {
		t.Fatalf("TimeUpdate: %v", err)
	}
	if snap.State != player.StateCheckpoint || snap.Stage != player.StageQuiz {
		t.Fatalf("expected quiz checkpoint, got %s/%s", snap.State, snap.Stage)
	}
	if snap.Question == nil || snap.Question.Question != "Q" {
		t.Errorf("question not exposed: %+v", snap.Question)
	}
	if got := b.kinds(); !reflect.DeepEqual(got, []string{"pause", "checkpoint"}) {
		t.Errorf("messages = %v", got)
	}
	if meta, _ := sc.Get(ctx, id); meta.State != string(player.StateCheckpoint) {
		t.Errorf("cached state = %s", meta.State)
	}

	snap, err = svc.SubmitQuiz(ctx, testLearner.Email, id, "A")
	if err != nil {
		t.Fatalf("SubmitQuiz: %v", err)
	}
	if snap.ModuleIndex != 1 || snap.State != player.StatePlaying {
		t.Fatalf("expected module 1 playing, got %+v", snap)
	}
	seek := b.sent[2]
	if seek.kind != "seek" || seek.payload.(map[string]float64)["seconds"] != 90 {
		t.Errorf("expected seek to 90, got %+v", seek)
	}

	snap, _ = svc.TimeUpdate(ctx, testLearner.Email, id, 200)
	if snap.State != player.StateCourseComplete {
		t.Fatalf("expected course complete, got %s", snap.State)
	}
	kinds := b.kinds()
	if kinds[len(kinds)-1] != "course_complete" {
		t.Errorf("last message = %s", kinds[len(kinds)-1])
	}
}

func TestSessionOwnership(t *testing.T) {
	svc, _, _ := newSessionService(t)
	ctx := context.Background()
	snap, _ := svc.Start(ctx, testLearner, "abc123")

	if _, err := svc.Snapshot(ctx, "eve@example.com", snap.SessionID); !errors.Is(err, ErrSessionForbidden) {
		t.Errorf("foreign learner: %v", err)
	}
	if _, err := svc.Snapshot(ctx, testLearner.Email, "missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("missing session: %v", err)
	}
	if err := svc.Authorize(ctx, testLearner.Email, snap.SessionID); err != nil {
		t.Errorf("owner should be authorized: %v", err)
	}
}

func TestSessionStartErrors(t *testing.T) {
	svc, _, _ := newSessionService(t)
	ctx := context.Background()

	if _, err := svc.Start(ctx, testLearner, ""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty id: %v", err)
	}
	if _, err := svc.Start(ctx, testLearner, "unknown"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("unknown course: %v", err)
	}
}

func TestSessionOperationErrorsKeepSnapshot(t *testing.T) {
	svc, _, _ := newSessionService(t)
	ctx := context.Background()
	snap, _ := svc.Start(ctx, testLearner, "abc123")
	id := snap.SessionID

	if _, err := svc.TimeUpdate(ctx, testLearner.Email, id, -1); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("negative time: %v", err)
	}

	snap, err := svc.SubmitQuiz(ctx, testLearner.Email, id, "A")
	if !errors.Is(err, player.ErrWrongStage) {
		t.Errorf("quiz while playing: %v", err)
	}
	if snap.SessionID != id {
		t.Error("snapshot should accompany controller errors")
	}

	svc.MediaEnded(ctx, testLearner.Email, id)
	snap, err = svc.SubmitQuiz(ctx, testLearner.Email, id, "B")
	if !errors.Is(err, player.ErrRejected) || snap.LastError != player.MsgWrongAnswer {
		t.Errorf("wrong answer: %v %q", err, snap.LastError)
	}
}

func TestSessionEndAndEviction(t *testing.T) {
	svc, sc, b := newSessionService(t)
	ctx := context.Background()

	first, _ := svc.Start(ctx, testLearner, "abc123")
	if err := svc.End(ctx, testLearner.Email, first.SessionID); err != nil {
		t.Fatalf("End: %v", err)
	}
	if _, err := svc.Snapshot(ctx, testLearner.Email, first.SessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("ended session still present: %v", err)
	}
	if meta, _ := sc.Get(ctx, first.SessionID); meta != nil {
		t.Error("cached metadata should be deleted")
	}
	if len(b.closed) != 1 || b.closed[0] != first.SessionID {
		t.Errorf("sockets not closed: %v", b.closed)
	}

	second, _ := svc.Start(ctx, testLearner, "abc123")
	svc.evictIdle(ctx, time.Now().Add(time.Hour))
	if err := svc.Authorize(ctx, testLearner.Email, second.SessionID); err != nil {
		t.Errorf("recent session evicted: %v", err)
	}
	svc.evictIdle(ctx, time.Now().Add(25*time.Hour))
	if err := svc.Authorize(ctx, testLearner.Email, second.SessionID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("idle session kept: %v", err)
	}
}
