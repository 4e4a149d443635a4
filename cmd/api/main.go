package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"github.com/jobtrackr/jobtrackr-go/internal/ai"
	"github.com/jobtrackr/jobtrackr-go/internal/config"
	"github.com/jobtrackr/jobtrackr-go/internal/crypto"
	"github.com/jobtrackr/jobtrackr-go/internal/handler"
	"github.com/jobtrackr/jobtrackr-go/internal/logger"
	"github.com/jobtrackr/jobtrackr-go/internal/mailer"
	"github.com/jobtrackr/jobtrackr-go/internal/metrics"
	"github.com/jobtrackr/jobtrackr-go/internal/repository"
	"github.com/jobtrackr/jobtrackr-go/internal/service"
)

type stores struct {
	users   service.UserStore
	jobs    service.JobStore
	resumes service.ResumeStore
	close   func() error
}

func main() {
	envErr := godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{})
		bootLog.Fatal().Err(err).Msg("loading configuration")
	}

	log := logger.New(logger.Options{Level: cfg.LogLevel, Pretty: !cfg.IsProduction()})
	if envErr != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close()

	hasher, err := crypto.NewHasher(cfg.BcryptCost)
	if err != nil {
		return err
	}
	tokens, err := crypto.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.JWTExpiry)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var sender mailer.Sender
	if cfg.Mail.ResendAPIKey != "" {
		sender = mailer.NewResendSender(mailer.ResendConfig{
			APIKey: cfg.Mail.ResendAPIKey,
			From:   cfg.Mail.From,
			RPS:    cfg.Mail.RPS,
		}, log)
	} else {
		log.Warn().Msg("RESEND_API_KEY not set, reset emails will only be logged")
		sender = mailer.NewLogSender(log)
	}

	var gen service.Generator
	if cfg.AI.GeminiAPIKey != "" {
		gen = ai.NewGemini(ai.GeminiConfig{APIKey: cfg.AI.GeminiAPIKey, Model: cfg.AI.GeminiModel}, log)
	} else {
		log.Info().Msg("GEMINI_API_KEY not set, AI suggestions and cover letters disabled")
	}

	router := handler.NewRouter(handler.RouterConfig{
		Auth: service.NewAuthService(st.users, hasher, tokens, m, log),
		Reset: service.NewResetService(st.users, hasher, sender, m, log, service.ResetConfig{
			TTL:         cfg.ResetTokenTTL,
			FrontendURL: cfg.FrontendURL,
		}),
		Jobs:     service.NewJobService(st.jobs),
		Resume:   service.NewResumeService(st.resumes),
		AI:       service.NewAIService(ai.NewKeywordAnalyzer(), gen, log),
		Tokens:   tokens,
		Gatherer: reg,
		Log:      log,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("store", cfg.Store).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	if cfg.Store == "memory" {
		log.Warn().Msg("using in-memory store, data is lost on restart")
		mem := repository.NewMemoryStore()
		return &stores{
			users:   mem.Users(),
			jobs:    mem.Jobs(),
			resumes: mem.Resumes(),
			close:   func() error { return nil },
		}, nil
	}

	db, err := repository.NewDB(ctx, cfg.DatabaseDSN, repository.DefaultPoolConfig())
	if err != nil {
		return nil, err
	}
	if err := repository.Migrate(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &stores{
		users:   repository.NewUserRepository(db),
		jobs:    repository.NewJobRepository(db),
		resumes: repository.NewResumeRepository(db),
		close:   db.Close,
	}, nil
}
