package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"nishtha/internal/cache"
	"nishtha/internal/config"
	"nishtha/internal/logger"
	"nishtha/internal/model"
	"nishtha/internal/repository"
)

var (
	ErrInvalidVideoURL = invalidInput("A valid YouTube URL is required")
	ErrCourseNotFound  = errors.New("Course not found. It may not have been generated yet.")
	ErrInvalidPlan     = errors.New("model returned an unusable course plan")
)

const defaultCourseTitle = "AI Generated Course"

// Generator produces JSON from a prompt; GeminiClient is the production one
type Generator interface {
	GenerateJSON(ctx context.Context, modelName string, out interface{}, parts ...Part) error
}

// CourseService turns a video into a checkpointed course plan
type CourseService struct {
	repo   repository.CourseRepo
	cache  cache.CourseCache
	ai     Generator
	models config.GeminiModels
	log    *logger.Logger
}

// NewCourseService creates a new course service
func NewCourseService(repo repository.CourseRepo, courseCache cache.CourseCache, ai Generator, models config.GeminiModels, log *logger.Logger) *CourseService {
	return &CourseService{
		repo:   repo,
		cache:  courseCache,
		ai:     ai,
		models: models,
		log:    log.With("service", "course"),
	}
}

// ExtractVideoID returns the id from youtu.be/<id> or a ?v=<id> URL
func ExtractVideoID(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", ErrInvalidVideoURL
	}
	var id string
	if u.Hostname() == "youtu.be" {
		id = strings.Trim(u.Path, "/")
	} else {
		id = u.Query().Get("v")
	}
	if id == "" {
		return "", ErrInvalidVideoURL
	}
	return id, nil
}

// GeneratePlan returns the stored plan for videoURL or generates, stores and
// returns a new one
func (s *CourseService) GeneratePlan(ctx context.Context, videoURL string) (*model.Course, error) {
	videoID, err := ExtractVideoID(videoURL)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByVideoURL(ctx, videoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to look up course: %w", err)
	}
	if existing != nil {
		s.log.Debug("course plan served from store", "videoId", videoID)
		return existing, nil
	}

	s.log.Info("generating course plan", "videoId", videoID, "model", s.models.CoursePlan)
	var plan model.CoursePlan
	if err := s.ai.GenerateJSON(ctx, s.models.CoursePlan, &plan, VideoPart(videoURL), TextPart(coursePlannerPrompt)); err != nil {
		return nil, fmt.Errorf("Failed to generate course plan: %w", err)
	}
	if err := ValidatePlan(plan.Modules); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(plan.CourseTitle)
	if title == "" {
		title = defaultCourseTitle
	}
	course := &model.Course{
		VideoURL:    videoURL,
		VideoID:     videoID,
		CourseTitle: title,
		Modules:     plan.Modules,
	}
	if err := s.repo.Save(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to save course: %w", err)
	}
	if err := s.cache.Set(ctx, course); err != nil {
		s.log.Warn("failed to cache course", "videoId", videoID, "error", err)
	}
	return course, nil
}

// GetByVideoID loads a generated course, preferring the cache
func (s *CourseService) GetByVideoID(ctx context.Context, videoID string) (*model.Course, error) {
	if videoID == "" {
		return nil, ErrCourseNotFound
	}
	cached, err := s.cache.Get(ctx, videoID)
	if err != nil {
		s.log.Warn("course cache read failed", "videoId", videoID, "error", err)
	}
	if cached != nil {
		return cached, nil
	}

	course, err := s.repo.GetByVideoID(ctx, videoID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch course: %w", err)
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}
	if err := s.cache.Set(ctx, course); err != nil {
		s.log.Warn("failed to cache course", "videoId", videoID, "error", err)
	}
	return course, nil
}

// GenerateQuiz transcribes a whole video and builds a five question quiz
func (s *CourseService) GenerateQuiz(ctx context.Context, videoURL string) (*model.GeneratedQuiz, error) {
	if strings.TrimSpace(videoURL) == "" {
		return nil, invalidInput("videoURL is required")
	}
	var quiz model.GeneratedQuiz
	if err := s.ai.GenerateJSON(ctx, s.models.Quiz, &quiz, VideoPart(videoURL), TextPart(transcriptQuizPrompt)); err != nil {
		return nil, fmt.Errorf("Failed to process video: %w", err)
	}
	return &quiz, nil
}

// quizOptionCount is the number of options every quiz question carries
const quizOptionCount = 4

// ValidatePlan rejects plans the checkpoint player could not load
func ValidatePlan(modules []model.Module) error {
	if len(modules) == 0 {
		return fmt.Errorf("%w: no modules", ErrInvalidPlan)
	}
	for i, m := range modules {
		if m.StartTime < 0 || m.EndTime <= m.StartTime {
			return fmt.Errorf("%w: module %d has bounds [%v, %v]", ErrInvalidPlan, i, m.StartTime, m.EndTime)
		}
		for j, q := range m.QuizData {
			if len(q.Options) != quizOptionCount {
				return fmt.Errorf("%w: module %d question %d has %d options, want %d", ErrInvalidPlan, i, j, len(q.Options), quizOptionCount)
			}
			if !contains(q.Options, q.Answer) {
				return fmt.Errorf("%w: module %d question %d answer is not an option", ErrInvalidPlan, i, j)
			}
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
