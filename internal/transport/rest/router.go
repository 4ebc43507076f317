package rest

import (
	"net/http"

	"github.com/gorilla/mux"

	"nishtha/internal/config"
	"nishtha/internal/logger"
	"nishtha/internal/service"
	"nishtha/internal/transport/rest/handler"
	"nishtha/internal/transport/rest/middleware"
	"nishtha/internal/transport/ws"
)

// Container holds all dependencies for the router
type Container struct {
	Server            *config.ServerConfig
	AuthService       *service.AuthService
	CourseService     *service.CourseService
	ReviewService     *service.ReviewService
	AnswerService     *service.AnswerCheckService
	MintService       *service.MintService
	ProfileService    *service.ProfileService
	ResumeService     *service.ResumeService
	CompletionService *service.CompletionService
	SessionService    *service.SessionService
	WSHub             *ws.Hub
	Log               *logger.Logger
}

// NewRouter creates the API router with all endpoints
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	courseHandler := handler.NewCourseHandler(c.CourseService)
	reviewHandler := handler.NewReviewHandler(c.ReviewService, c.AnswerService)
	proofHandler := handler.NewProofHandler(c.MintService, c.ProfileService)
	profileHandler := handler.NewProfileHandler(c.ProfileService, c.ResumeService)
	completionHandler := handler.NewCompletionHandler(c.CompletionService)
	sessionHandler := handler.NewSessionHandler(c.SessionService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService, c.SessionService, c.Log)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware(c.Server))

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/certificates/{projectId}", proofHandler.Certificate).Methods("GET", "OPTIONS")
	v1.HandleFunc("/leaderboard", proofHandler.Leaderboard).Methods("GET", "OPTIONS")
	v1.HandleFunc("/docs/doc.json", handler.Docs).Methods("GET")

	// WebSocket routes (public with token in query param)
	v1.HandleFunc("/ws/sessions/{id}", wsHandler.SessionWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Learner routes (require learner auth)
	learner := v1.NewRoute().Subrouter()
	learner.Use(authMW.RequireLearner)

	learner.HandleFunc("/courses/plan", courseHandler.Plan).Methods("POST", "OPTIONS")
	learner.HandleFunc("/courses/quiz", courseHandler.Quiz).Methods("POST", "OPTIONS")
	learner.HandleFunc("/courses/{videoId}", courseHandler.Get).Methods("GET", "OPTIONS")

	learner.HandleFunc("/reviews", reviewHandler.Review).Methods("POST", "OPTIONS")
	learner.HandleFunc("/answers/check", reviewHandler.CheckAnswer).Methods("POST", "OPTIONS")

	learner.HandleFunc("/proofs/mint", proofHandler.Mint).Methods("POST", "OPTIONS")
	learner.HandleFunc("/projects", proofHandler.SaveProject).Methods("POST", "OPTIONS")
	learner.HandleFunc("/profile", profileHandler.Get).Methods("GET", "OPTIONS")
	learner.HandleFunc("/resume", profileHandler.Resume).Methods("POST", "OPTIONS")

	learner.HandleFunc("/completions/pending", completionHandler.Pending).Methods("GET", "OPTIONS")
	learner.HandleFunc("/completions/{id}/reconcile", completionHandler.Reconcile).Methods("POST", "OPTIONS")

	// Checkpoint player sessions
	learner.HandleFunc("/sessions", sessionHandler.Start).Methods("POST", "OPTIONS")
	learner.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods("GET", "OPTIONS")
	learner.HandleFunc("/sessions/{id}", sessionHandler.End).Methods("DELETE", "OPTIONS")
	learner.HandleFunc("/sessions/{id}/time", sessionHandler.Time).Methods("POST", "OPTIONS")
	learner.HandleFunc("/sessions/{id}/ended", sessionHandler.Ended).Methods("POST", "OPTIONS")
	learner.HandleFunc("/sessions/{id}/playback", sessionHandler.Playback).Methods("POST", "OPTIONS")
	learner.HandleFunc("/sessions/{id}/select", sessionHandler.Select).Methods("POST", "OPTIONS")
	learner.HandleFunc("/sessions/{id}/quiz", sessionHandler.Quiz).Methods("POST", "OPTIONS")
	learner.HandleFunc("/sessions/{id}/project", sessionHandler.Project).Methods("POST", "OPTIONS")
	learner.HandleFunc("/sessions/{id}/interview", sessionHandler.Interview).Methods("POST", "OPTIONS")
	learner.HandleFunc("/sessions/{id}/replay", sessionHandler.Replay).Methods("POST", "OPTIONS")

	return r
}

func corsMiddleware(cfg *config.ServerConfig) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", cfg.AllowedOrigins)
			w.Header().Set("Access-Control-Allow-Methods", cfg.AllowedMethods)
			w.Header().Set("Access-Control-Allow-Headers", cfg.AllowedHeaders)

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
