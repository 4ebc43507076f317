package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"nishtha/internal/cache"
	"nishtha/internal/logger"
	"nishtha/internal/model"
	"nishtha/internal/player"
)

var (
	ErrSessionNotFound  = errors.New("Session not found")
	ErrSessionForbidden = errors.New("Session belongs to another learner")
)

// CourseLoader returns a generated course by video id
type CourseLoader interface {
	GetByVideoID(ctx context.Context, videoID string) (*model.Course, error)
}

// SessionDeps are the external services every player session uses
type SessionDeps struct {
	Reviewer player.Reviewer
	Checker  player.AnswerChecker
	Minter   player.Minter
	Store    player.ProofStore
	Sagas    player.SagaRecorder
}

type liveSession struct {
	meta       model.PlayerSession
	controller *player.Controller
	lastSeen   time.Time
}

// SessionService owns the in-process checkpoint player sessions
type SessionService struct {
	courses     CourseLoader
	cache       cache.SessionCache
	deps        SessionDeps
	broadcaster Broadcaster
	idleTTL     time.Duration
	log         *logger.Logger

	mu       sync.RWMutex
	sessions map[string]*liveSession
}

// NewSessionService creates a new session service
func NewSessionService(courses CourseLoader, sessionCache cache.SessionCache, deps SessionDeps, log *logger.Logger) *SessionService {
	return &SessionService{
		courses:  courses,
		cache:    sessionCache,
		deps:     deps,
		idleTTL:  24 * time.Hour,
		log:      log.With("service", "session"),
		sessions: make(map[string]*liveSession),
	}
}

// SetBroadcaster sets the broadcaster for WebSocket events
func (s *SessionService) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// Start opens a player session for the learner on the course of videoID
func (s *SessionService) Start(ctx context.Context, claims *model.LearnerClaims, videoID string) (player.Snapshot, error) {
	if videoID == "" {
		return player.Snapshot{}, invalidInput("videoId is required")
	}
	course, err := s.courses.GetByVideoID(ctx, videoID)
	if err != nil {
		return player.Snapshot{}, err
	}

	id := uuid.New().String()
	deps := player.Deps{
		Surface:  &sessionSurface{sessionID: id, svc: s},
		Reviewer: s.deps.Reviewer,
		Checker:  s.deps.Checker,
		Minter:   s.deps.Minter,
		Store:    s.deps.Store,
		Notifier: &sessionNotifier{sessionID: id, svc: s},
		Sagas:    s.deps.Sagas,
	}
	c := player.New(player.Session{
		ID:            id,
		Email:         claims.Email,
		WalletAddress: claims.WalletAddress,
		CourseID:      course.ID,
		CourseTitle:   course.CourseTitle,
		VideoID:       course.VideoID,
	}, deps)
	if err := c.LoadCourse(course.Modules); err != nil {
		return player.Snapshot{}, fmt.Errorf("course %s cannot be played: %w", videoID, err)
	}

	now := time.Now()
	ls := &liveSession{
		meta: model.PlayerSession{
			ID:        id,
			Email:     claims.Email,
			CourseID:  course.ID,
			VideoID:   course.VideoID,
			State:     string(c.State()),
			CreatedAt: now,
			UpdatedAt: now,
		},
		controller: c,
		lastSeen:   now,
	}
	s.mu.Lock()
	s.sessions[id] = ls
	s.mu.Unlock()

	if err := s.cache.Set(ctx, &ls.meta); err != nil {
		s.log.Warn("failed to cache session", "sessionId", id, "error", err)
	}
	s.log.Info("player session started", "sessionId", id, "email", claims.Email, "videoId", videoID, "modules", len(course.Modules))
	return c.Snapshot(), nil
}

// Authorize checks the session exists and belongs to email
func (s *SessionService) Authorize(ctx context.Context, email, id string) error {
	_, err := s.lookup(email, id)
	return err
}

// Snapshot returns the current view of a session
func (s *SessionService) Snapshot(ctx context.Context, email, id string) (player.Snapshot, error) {
	ls, err := s.lookup(email, id)
	if err != nil {
		return player.Snapshot{}, err
	}
	return ls.controller.Snapshot(), nil
}

// TimeUpdate forwards an elapsed time sample
func (s *SessionService) TimeUpdate(ctx context.Context, email, id string, elapsed float64) (player.Snapshot, error) {
	return s.apply(ctx, email, id, func(c *player.Controller) error {
		if elapsed < 0 {
			return invalidInput("elapsed must not be negative")
		}
		c.OnTimeUpdate(elapsed)
		return nil
	})
}

// MediaEnded forwards the end of playback
func (s *SessionService) MediaEnded(ctx context.Context, email, id string) (player.Snapshot, error) {
	return s.apply(ctx, email, id, func(c *player.Controller) error {
		c.OnMediaEnded()
		return nil
	})
}

// PlaybackChange forwards a play/pause report from the surface
func (s *SessionService) PlaybackChange(ctx context.Context, email, id string, playing bool) (player.Snapshot, error) {
	return s.apply(ctx, email, id, func(c *player.Controller) error {
		c.OnPlaybackChange(playing)
		return nil
	})
}

// SelectOption highlights a quiz option
func (s *SessionService) SelectOption(ctx context.Context, email, id, option string) (player.Snapshot, error) {
	return s.apply(ctx, email, id, func(c *player.Controller) error {
		return c.SelectOption(option)
	})
}

// SubmitQuiz submits a quiz option
func (s *SessionService) SubmitQuiz(ctx context.Context, email, id, option string) (player.Snapshot, error) {
	return s.apply(ctx, email, id, func(c *player.Controller) error {
		return c.SubmitQuizAnswer(option)
	})
}

// SubmitProject submits a repository for review
func (s *SessionService) SubmitProject(ctx context.Context, email, id, repoURL string) (player.Snapshot, error) {
	return s.apply(ctx, email, id, func(c *player.Controller) error {
		return c.SubmitProject(ctx, repoURL)
	})
}

// SubmitInterview submits the interview answer, or retries persistence
// when the session is reconciling
func (s *SessionService) SubmitInterview(ctx context.Context, email, id, answer string) (player.Snapshot, error) {
	return s.apply(ctx, email, id, func(c *player.Controller) error {
		return c.SubmitInterviewAnswer(ctx, answer)
	})
}

// Replay rewinds to the start of the current module
func (s *SessionService) Replay(ctx context.Context, email, id string) (player.Snapshot, error) {
	return s.apply(ctx, email, id, func(c *player.Controller) error {
		return c.ReplayCurrentModule()
	})
}

// End drops a session and disconnects its surfaces
func (s *SessionService) End(ctx context.Context, email, id string) error {
	if _, err := s.lookup(email, id); err != nil {
		return err
	}
	s.drop(ctx, id)
	return nil
}

// Run evicts idle sessions until ctx is done
func (s *SessionService) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.evictIdle(ctx, now)
		}
	}
}

func (s *SessionService) evictIdle(ctx context.Context, now time.Time) {
	var idle []string
	s.mu.RLock()
	for id, ls := range s.sessions {
		if now.Sub(ls.lastSeen) > s.idleTTL {
			idle = append(idle, id)
		}
	}
	s.mu.RUnlock()
	for _, id := range idle {
		s.drop(ctx, id)
	}
	if len(idle) > 0 {
		s.log.Info("evicted idle sessions", "count", len(idle))
	}
}

func (s *SessionService) drop(ctx context.Context, id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	if err := s.cache.Delete(ctx, id); err != nil {
		s.log.Warn("failed to delete cached session", "sessionId", id, "error", err)
	}
	if s.broadcaster != nil {
		s.broadcaster.CloseSession(id)
	}
}

func (s *SessionService) lookup(email, id string) (*liveSession, error) {
	s.mu.RLock()
	ls, ok := s.sessions[id]
	var owner string
	if ok {
		owner = ls.meta.Email
	}
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	if owner != email {
		return nil, ErrSessionForbidden
	}
	return ls, nil
}

// apply runs op and refreshes the cached metadata. The returned snapshot
// is valid even when op fails.
func (s *SessionService) apply(ctx context.Context, email, id string, op func(*player.Controller) error) (player.Snapshot, error) {
	ls, err := s.lookup(email, id)
	if err != nil {
		return player.Snapshot{}, err
	}
	opErr := op(ls.controller)
	snap := ls.controller.Snapshot()

	s.mu.Lock()
	meta := ls.meta
	changed := meta.ModuleIndex != snap.ModuleIndex || meta.State != string(snap.State)
	meta.ModuleIndex = snap.ModuleIndex
	meta.State = string(snap.State)
	ls.lastSeen = time.Now()
	if changed {
		meta.UpdatedAt = ls.lastSeen
	}
	ls.meta = meta
	s.mu.Unlock()

	if changed {
		if err := s.cache.Set(context.WithoutCancel(ctx), &meta); err != nil {
			s.log.Warn("failed to cache session", "sessionId", id, "error", err)
		}
	}
	return snap, opErr
}

func (s *SessionService) send(sessionID, msgType string, payload interface{}) {
	if s.broadcaster != nil {
		s.broadcaster.SendToSession(sessionID, msgType, payload)
	}
}

// sessionSurface turns controller playback commands into WebSocket messages
type sessionSurface struct {
	sessionID string
	svc       *SessionService
}

func (p *sessionSurface) Pause() { p.svc.send(p.sessionID, "pause", nil) }
func (p *sessionSurface) Play()  { p.svc.send(p.sessionID, "play", nil) }
func (p *sessionSurface) Seek(seconds float64) {
	p.svc.send(p.sessionID, "seek", map[string]float64{"seconds": seconds})
}

type sessionNotifier struct {
	sessionID string
	svc       *SessionService
}

func (n *sessionNotifier) Notify(e player.Event) {
	switch e.Kind {
	case player.EventCheckpointOpened:
		n.svc.send(n.sessionID, "checkpoint", e)
	case player.EventCourseComplete:
		n.svc.send(n.sessionID, "course_complete", e)
	default:
		n.svc.send(n.sessionID, "notice", e)
	}
}
