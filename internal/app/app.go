// Package app wires configuration, stores, services and transport into a
// runnable server.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"nishtha/internal/cache"
	"nishtha/internal/config"
	"nishtha/internal/logger"
	"nishtha/internal/repository"
	"nishtha/internal/service"
	"nishtha/internal/transport/rest"
	"nishtha/internal/transport/ws"
)

// App owns the connections and services of one server process
type App struct {
	Config *config.Config
	Log    *logger.Logger

	Mongo *mongo.Client
	Redis *redis.Client

	CourseRepo     repository.CourseRepo
	LearnerRepo    repository.LearnerRepo
	CompletionRepo repository.CompletionRepo

	CourseCache  cache.CourseCache
	SessionCache cache.SessionCache
	ProofKeys    cache.ProofKeyCache
	Leaderboard  cache.LeaderboardCache

	Sessions *service.SessionService
	Hub      *ws.Hub
	router   http.Handler
}

// New connects to MongoDB and Redis and builds every service
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("connecting to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		mongoClient.Disconnect(ctx)
		return nil, fmt.Errorf("pinging MongoDB: %w", err)
	}
	log.Info("connected to MongoDB", "database", cfg.Mongo.Database)

	db := mongoClient.Database(cfg.Mongo.Database)
	repository.EnsureIndexes(ctx, db, log)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		mongoClient.Disconnect(ctx)
		rdb.Close()
		return nil, fmt.Errorf("pinging Redis: %w", err)
	}
	log.Info("connected to Redis", "addr", cfg.Redis.Addr)

	a := &App{
		Config:         cfg,
		Log:            log,
		Mongo:          mongoClient,
		Redis:          rdb,
		CourseRepo:     repository.NewCourseRepo(db),
		LearnerRepo:    repository.NewLearnerRepo(db),
		CompletionRepo: repository.NewCompletionRepo(db),
		CourseCache:    cache.NewCourseCache(rdb),
		SessionCache:   cache.NewSessionCache(rdb),
		ProofKeys:      cache.NewProofKeyCache(rdb),
		Leaderboard:    cache.NewLeaderboardCache(rdb),
	}
	a.wire()
	return a, nil
}

func (a *App) wire() {
	cfg, log := a.Config, a.Log

	if cfg.AI.IsEnabled() {
		log.Info("AI configured", "plan", cfg.AI.Models.CoursePlan, "review", cfg.AI.Models.Review, "check", cfg.AI.Models.AnswerCheck)
	} else {
		log.Warn("GEMINI_API_KEY not set; AI endpoints will return 503")
	}
	if !cfg.Chain.IsConfigured() {
		log.Warn("thirdweb Engine not configured; minting will fail")
	}

	gemini := service.NewGeminiClient(&cfg.AI)
	github := service.NewGitHubClient(&cfg.GitHub)

	authSvc := service.NewAuthService(&cfg.Auth)
	courseSvc := service.NewCourseService(a.CourseRepo, a.CourseCache, gemini, cfg.AI.Models, log)
	reviewSvc := service.NewReviewService(github, gemini, cfg.AI.Models, log)
	answerSvc := service.NewAnswerCheckService(gemini, cfg.AI.Models)
	mintSvc := service.NewMintService(&cfg.Chain, log)
	profileSvc := service.NewProfileService(a.LearnerRepo, a.ProofKeys, a.Leaderboard, &cfg.Chain, log)
	resumeSvc := service.NewResumeService(a.LearnerRepo, gemini, cfg.AI.Models, &cfg.Chain, log)
	completionSvc := service.NewCompletionService(a.CompletionRepo, profileSvc, log)

	a.Sessions = service.NewSessionService(courseSvc, a.SessionCache, service.SessionDeps{
		Reviewer: reviewSvc,
		Checker:  answerSvc,
		Minter:   mintSvc,
		Store:    profileSvc,
		Sagas:    completionSvc,
	}, log)

	// Inject broadcaster (hub implements service.Broadcaster)
	a.Hub = ws.NewHub(log.With("component", "ws"))
	a.Sessions.SetBroadcaster(a.Hub)

	a.router = rest.NewRouter(&rest.Container{
		Server:            &cfg.Server,
		AuthService:       authSvc,
		CourseService:     courseSvc,
		ReviewService:     reviewSvc,
		AnswerService:     answerSvc,
		MintService:       mintSvc,
		ProfileService:    profileSvc,
		ResumeService:     resumeSvc,
		CompletionService: completionSvc,
		SessionService:    a.Sessions,
		WSHub:             a.Hub,
		Log:               log,
	})
}

// Router is the HTTP handler serving the API
func (a *App) Router() http.Handler {
	return a.router
}

// Close releases the database connections
func (a *App) Close(ctx context.Context) {
	if err := a.Redis.Close(); err != nil {
		a.Log.Warn("closing Redis", "error", err)
	}
	if err := a.Mongo.Disconnect(ctx); err != nil {
		a.Log.Warn("disconnecting MongoDB", "error", err)
	}
}
