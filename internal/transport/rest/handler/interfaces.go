package handler

import (
	"context"

	"nishtha/internal/cache"
	"nishtha/internal/model"
	"nishtha/internal/player"
)

// Authenticator issues learner tokens
type Authenticator interface {
	Login(email, walletAddress string) (*model.LoginResponse, error)
}

// CoursePlanner generates and serves course plans
type CoursePlanner interface {
	GeneratePlan(ctx context.Context, videoURL string) (*model.Course, error)
	GetByVideoID(ctx context.Context, videoID string) (*model.Course, error)
	GenerateQuiz(ctx context.Context, videoURL string) (*model.GeneratedQuiz, error)
}

// Profiles serves learner profiles, certificates and the leaderboard
type Profiles interface {
	player.ProofStore
	GetProfile(ctx context.Context, email string) (*model.Learner, error)
	GetCertificate(ctx context.Context, projectID string) (*model.Certificate, error)
	Leaderboard(ctx context.Context, limit int) ([]cache.LeaderboardEntry, error)
}

// ResumeWriter writes resumes from verified projects
type ResumeWriter interface {
	Generate(ctx context.Context, email string) (map[string]interface{}, error)
}

// Completions lists and reconciles completion sagas
type Completions interface {
	ListPending(ctx context.Context, email string) ([]model.CompletionSaga, error)
	Reconcile(ctx context.Context, email, sagaID string) (*model.CompletionSaga, error)
}

// Sessions drives checkpoint player sessions
type Sessions interface {
	Start(ctx context.Context, claims *model.LearnerClaims, videoID string) (player.Snapshot, error)
	Snapshot(ctx context.Context, email, id string) (player.Snapshot, error)
	TimeUpdate(ctx context.Context, email, id string, elapsed float64) (player.Snapshot, error)
	MediaEnded(ctx context.Context, email, id string) (player.Snapshot, error)
	PlaybackChange(ctx context.Context, email, id string, playing bool) (player.Snapshot, error)
	SelectOption(ctx context.Context, email, id, option string) (player.Snapshot, error)
	SubmitQuiz(ctx context.Context, email, id, option string) (player.Snapshot, error)
	SubmitProject(ctx context.Context, email, id, repoURL string) (player.Snapshot, error)
	SubmitInterview(ctx context.Context, email, id, answer string) (player.Snapshot, error)
	Replay(ctx context.Context, email, id string) (player.Snapshot, error)
	End(ctx context.Context, email, id string) error
}
