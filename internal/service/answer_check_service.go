package service

import (
	"context"
	"fmt"
	"strings"

	"nishtha/internal/config"
	"nishtha/internal/model"
)

// AnswerCheckService grades interview answers
type AnswerCheckService struct {
	ai     Generator
	models config.GeminiModels
}

// NewAnswerCheckService creates a new answer check service
func NewAnswerCheckService(ai Generator, models config.GeminiModels) *AnswerCheckService {
	return &AnswerCheckService{ai: ai, models: models}
}

// Check asks the grader whether answer is conceptually correct
func (s *AnswerCheckService) Check(ctx context.Context, question, answer string) (*model.AnswerCheck, error) {
	if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" {
		return nil, invalidInput("Question and Answer are required")
	}
	var result model.AnswerCheck
	if err := s.ai.GenerateJSON(ctx, s.models.AnswerCheck, &result, TextPart(buildAnswerCheckPrompt(question, answer))); err != nil {
		return nil, fmt.Errorf("Failed to check answer: %w", err)
	}
	return &result, nil
}
