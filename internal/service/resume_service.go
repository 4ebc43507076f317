package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"nishtha/internal/config"
	"nishtha/internal/logger"
	"nishtha/internal/model"
	"nishtha/internal/repository"
)

var ErrNoVerifiedProjects = errors.New("No verified projects found for this user.")

// ResumeInput is the developer data handed to the resume writer
type ResumeInput struct {
	Basics   ResumeBasics    `json:"basics"`
	Projects []ResumeProject `json:"projects"`
	Skills   []ResumeSkill   `json:"skills"`
}

type ResumeBasics struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type ResumeProject struct {
	Name       string   `json:"name"`
	Summary    string   `json:"summary"`
	Highlights []string `json:"highlights"`
	Keywords   []string `json:"keywords"`
}

type ResumeSkill struct {
	Name     string   `json:"name"`
	Level    string   `json:"level"`
	Keywords []string `json:"keywords"`
}

// ResumeService writes a JSON Resume from a learner's verified projects
type ResumeService struct {
	learners    repository.LearnerRepo
	ai          Generator
	models      config.GeminiModels
	explorerURL string
	log         *logger.Logger
}

// NewResumeService creates a new resume service
func NewResumeService(learners repository.LearnerRepo, ai Generator, models config.GeminiModels, chain *config.ChainConfig, log *logger.Logger) *ResumeService {
	return &ResumeService{
		learners:    learners,
		ai:          ai,
		models:      models,
		explorerURL: chain.ExplorerTxURL,
		log:         log.With("service", "resume"),
	}
}

// Generate returns the resume document as produced by the model
func (s *ResumeService) Generate(ctx context.Context, email string) (map[string]interface{}, error) {
	learner, err := s.learners.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("Failed to generate resume: %w", err)
	}
	if learner == nil || len(learner.VerifiedProjects) == 0 {
		return nil, ErrNoVerifiedProjects
	}

	data, err := json.MarshalIndent(BuildResumeInput(learner, s.explorerURL), "", "  ")
	if err != nil {
		return nil, err
	}

	var resume map[string]interface{}
	if err := s.ai.GenerateJSON(ctx, s.models.Resume, &resume, TextPart(buildResumePrompt(string(data)))); err != nil {
		return nil, fmt.Errorf("Failed to generate resume: %w", err)
	}
	s.log.Info("resume generated", "email", email, "projects", len(learner.VerifiedProjects))
	return resume, nil
}

// BuildResumeInput maps verified projects onto JSON Resume sections
func BuildResumeInput(learner *model.Learner, explorerURL string) ResumeInput {
	in := ResumeInput{
		Basics: ResumeBasics{Email: learner.Email, Name: "Nishtha AI Verified Developer"},
	}

	seen := make(map[string]bool)
	skills := []string{}
	for _, p := range learner.VerifiedProjects {
		var highlights []string
		if p.AIFeedback != "" {
			highlights = append(highlights, "(AI-Verified): "+p.AIFeedback)
		}
		if p.TransactionHash != "" {
			highlights = append(highlights, "View Proof: "+explorerURL+p.TransactionHash)
		}

		name := p.CourseName
		if name == "" {
			name = "Verified Project"
		}
		summary := p.ProjectBrief
		if summary == "" {
			summary = "Completed a verified project."
		}
		keywords := p.Skills
		if len(keywords) == 0 {
			keywords = []string{"Verified Skill"}
		}
		in.Projects = append(in.Projects, ResumeProject{
			Name:       name,
			Summary:    summary,
			Highlights: highlights,
			Keywords:   keywords,
		})

		for _, sk := range p.Skills {
			if !seen[sk] {
				seen[sk] = true
				skills = append(skills, sk)
			}
		}
	}
	in.Skills = []ResumeSkill{{Name: "AI-Verified Skills", Level: "Proficient", Keywords: skills}}
	return in
}
