package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/jobtrackr/jobtrackr-go/internal/middleware"
	"github.com/jobtrackr/jobtrackr-go/internal/service"
)

// RouterConfig carries everything the HTTP surface depends on.
type RouterConfig struct {
	Auth   *service.AuthService
	Reset  *service.ResetService
	Jobs   *service.JobService
	Resume *service.ResumeService
	// AI backs /ai/*. Nil omits those routes.
	AI *service.AIService

	Tokens middleware.TokenVerifier

	// Gatherer backs /metrics. Nil omits the endpoint.
	Gatherer prometheus.Gatherer
	Log      zerolog.Logger
}

// NewRouter mounts the API routes.
func NewRouter(cfg RouterConfig) http.Handler {
	v := NewValidator()
	authHandler := NewAuthHandler(cfg.Auth, v, cfg.Log)
	resetHandler := NewResetHandler(cfg.Reset, v, cfg.Log)
	jobHandler := NewJobHandler(cfg.Jobs, v, cfg.Log)
	resumeHandler := NewResumeHandler(cfg.Resume, cfg.Log)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(cfg.Log))
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if cfg.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/forgot-password", resetHandler.HandleForgotPassword)
		r.Post("/auth/reset-password", resetHandler.HandleResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(cfg.Tokens))
			r.Get("/auth/me", authHandler.HandleMe)

			r.Get("/jobs", jobHandler.HandleList)
			r.Post("/jobs", jobHandler.HandleCreate)
			r.Get("/jobs/{id}", jobHandler.HandleGet)
			r.Put("/jobs/{id}", jobHandler.HandleUpdate)
			r.Delete("/jobs/{id}", jobHandler.HandleDelete)

			r.Get("/resume", resumeHandler.HandleGet)
			r.Put("/resume", resumeHandler.HandleSave)
		})
	})

	if cfg.AI != nil {
		aiHandler := NewAIHandler(cfg.AI, v, cfg.Log)
		r.Route("/ai", func(r chi.Router) {
			r.Use(middleware.JWTAuth(cfg.Tokens))
			r.Post("/analyze", aiHandler.HandleAnalyze)
			r.Post("/cover-letter", aiHandler.HandleCoverLetter)
		})
	}

	return r
}
