package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"nishtha/internal/cache"
	"nishtha/internal/config"
	"nishtha/internal/logger"
	"nishtha/internal/model"
	"nishtha/internal/repository"
)

var (
	ErrLearnerNotFound = errors.New("User not found")
	ErrProjectNotFound = errors.New("Project not found")
	ErrProofInFlight   = errors.New("this proof is already being saved")
)

// ProfileService records verified projects and serves learner profiles
type ProfileService struct {
	learners    repository.LearnerRepo
	keys        cache.ProofKeyCache
	leaderboard cache.LeaderboardCache
	explorerURL string
	log         *logger.Logger
}

// NewProfileService creates a new profile service
func NewProfileService(
	learners repository.LearnerRepo,
	keys cache.ProofKeyCache,
	leaderboard cache.LeaderboardCache,
	chain *config.ChainConfig,
	log *logger.Logger,
) *ProfileService {
	return &ProfileService{
		learners:    learners,
		keys:        keys,
		leaderboard: leaderboard,
		explorerURL: chain.ExplorerTxURL,
		log:         log.With("service", "profile"),
	}
}

// SaveProject records a proof. Saving the same transaction hash twice
// returns the first record.
func (s *ProfileService) SaveProject(ctx context.Context, req model.SaveProjectRequest) (*model.VerifiedProject, error) {
	req.UserEmail = strings.TrimSpace(req.UserEmail)
	if req.UserEmail == "" || req.ProjectBrief == "" || len(req.Skills) == 0 {
		return nil, invalidInput("Missing required fields")
	}

	tx := req.TransactionHash
	if tx != "" {
		existing, err := s.learners.FindProjectByTx(ctx, req.UserEmail, tx)
		if err != nil {
			return nil, fmt.Errorf("Failed to save project: %w", err)
		}
		if existing != nil {
			return existing, nil
		}

		claimed, err := s.keys.Claim(ctx, tx)
		switch {
		case err != nil:
			// the mongo filter still rejects duplicates
			s.log.Warn("idempotency key unavailable", "tx", tx, "error", err)
		case !claimed:
			return nil, ErrProofInFlight
		}
	}

	project := &model.VerifiedProject{
		ID:              uuid.New().String(),
		CourseName:      req.CourseName,
		ProjectName:     req.ProjectName,
		ProjectBrief:    req.ProjectBrief,
		AIFeedback:      req.AIFeedback,
		Skills:          req.Skills,
		TransactionHash: tx,
		TokenID:         req.TokenID,
		VerifiedAt:      time.Now(),
	}
	added, err := s.learners.AddProject(ctx, req.UserEmail, req.UserWalletAddress, project)
	if err != nil {
		if tx != "" {
			_ = s.keys.Release(ctx, tx)
		}
		return nil, fmt.Errorf("Failed to save project: %w", err)
	}
	if !added {
		existing, err := s.learners.FindProjectByTx(ctx, req.UserEmail, tx)
		if err != nil {
			return nil, fmt.Errorf("Failed to save project: %w", err)
		}
		if existing != nil {
			return existing, nil
		}
		return project, nil
	}

	if err := s.leaderboard.IncrProofs(ctx, req.UserEmail); err != nil {
		s.log.Warn("leaderboard update failed", "email", req.UserEmail, "error", err)
	}
	s.log.Info("verified project saved", "email", req.UserEmail, "projectId", project.ID, "tx", tx)
	return project, nil
}

// GetProfile returns the learner with their verified projects
func (s *ProfileService) GetProfile(ctx context.Context, email string) (*model.Learner, error) {
	learner, err := s.learners.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch profile: %w", err)
	}
	if learner == nil {
		return nil, ErrLearnerNotFound
	}
	return learner, nil
}

// GetCertificate returns the public proof of a single project
func (s *ProfileService) GetCertificate(ctx context.Context, projectID string) (*model.Certificate, error) {
	learner, project, err := s.learners.FindProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("Failed to fetch certificate: %w", err)
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	return &model.Certificate{
		Email:         learner.Email,
		WalletAddress: learner.WalletAddress,
		Project:       *project,
		ProofURL:      s.ProofURL(project.TransactionHash),
	}, nil
}

// Leaderboard returns the learners with the most verified projects
func (s *ProfileService) Leaderboard(ctx context.Context, limit int) ([]cache.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.leaderboard.GetTop(ctx, limit)
}

// ProofURL links a transaction on the block explorer
func (s *ProfileService) ProofURL(txHash string) string {
	if txHash == "" {
		return ""
	}
	return s.explorerURL + txHash
}
