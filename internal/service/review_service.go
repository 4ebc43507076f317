package service

import (
	"context"
	"fmt"
	"strings"

	"nishtha/internal/config"
	"nishtha/internal/logger"
	"nishtha/internal/model"
)

// CodeFetcher returns the concatenated source of a repository directory
type CodeFetcher interface {
	FetchCode(ctx context.Context, ref RepoRef) (string, error)
}

// ReviewService grades a GitHub repository against a project brief
type ReviewService struct {
	github CodeFetcher
	ai     Generator
	models config.GeminiModels
	log    *logger.Logger
}

// NewReviewService creates a new review service
func NewReviewService(github CodeFetcher, ai Generator, models config.GeminiModels, log *logger.Logger) *ReviewService {
	return &ReviewService{
		github: github,
		ai:     ai,
		models: models,
		log:    log.With("service", "review"),
	}
}

// Review fetches the repository and asks the model for a verdict. Errors
// carry the message shown to the learner.
func (s *ReviewService) Review(ctx context.Context, repoURL, brief string) (*model.ProjectReview, error) {
	if strings.TrimSpace(repoURL) == "" || strings.TrimSpace(brief) == "" {
		return nil, invalidInput("Repo URL and Brief are required")
	}

	ref, err := ParseGitHubURL(repoURL)
	if err != nil {
		return nil, fmt.Errorf("Verification failed: %w", err)
	}
	code, err := s.github.FetchCode(ctx, ref)
	if err != nil {
		s.log.Warn("repository fetch failed", "owner", ref.Owner, "repo", ref.Repo, "error", err)
		return nil, fmt.Errorf("Verification failed: %w", err)
	}

	var review model.ProjectReview
	if err := s.ai.GenerateJSON(ctx, s.models.Review, &review, TextPart(buildReviewPrompt(brief, code))); err != nil {
		return nil, fmt.Errorf("Verification failed: %w", err)
	}
	s.log.Info("project reviewed",
		"owner", ref.Owner, "repo", ref.Repo,
		"solvesBrief", review.SolvesBrief, "qualityScore", review.QualityScore)
	return &review, nil
}
