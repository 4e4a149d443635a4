package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

const devJWTSecret = "dev-secret-change-in-production"

// ErrInsecureSecret is returned when production runs with the development
// signing secret.
var ErrInsecureSecret = errors.New("JWT_SECRET must be set in production environment")

// ErrMailerRequired is returned when production has no mail provider. Without
// one, reset mail (and its live link) would only be written to the log.
var ErrMailerRequired = errors.New("RESEND_API_KEY must be set in production environment")

type Config struct {
	Port     string `env:"PORT, default=8080"`
	Env      string `env:"ENV, default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// Store selects the persistence backend: mysql or memory.
	Store       string `env:"STORE, default=mysql"`
	DatabaseDSN string `env:"DATABASE_DSN, default=root:password@tcp(127.0.0.1:3306)/jobtrackr"`

	JWTSecret     string        `env:"JWT_SECRET, default=dev-secret-change-in-production"`
	JWTExpiry     time.Duration `env:"JWT_EXPIRY, default=168h"`
	BcryptCost    int           `env:"BCRYPT_COST, default=10"`
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL, default=1h"`
	FrontendURL   string        `env:"FRONTEND_URL, default=http://localhost:5173"`

	Mail MailConfig
	AI   AIConfig
}

type MailConfig struct {
	ResendAPIKey string  `env:"RESEND_API_KEY"`
	From         string  `env:"RESEND_FROM_EMAIL, default=JobTrackr <onboarding@resend.dev>"`
	RPS          float64 `env:"MAIL_RPS, default=2"`
}

// AIConfig selects the language model behind AI suggestions and cover
// letters. An empty key disables both; keyword analysis still works.
type AIConfig struct {
	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL, default=gemini-2.5-flash"`
}

// Load reads configuration from the process environment.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	cfg.FrontendURL = strings.TrimRight(cfg.FrontendURL, "/")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.IsProduction() && c.JWTSecret == devJWTSecret {
		return ErrInsecureSecret
	}
	if c.IsProduction() && c.Mail.ResendAPIKey == "" {
		return ErrMailerRequired
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	switch c.Store {
	case "mysql", "memory":
	default:
		return fmt.Errorf("STORE must be mysql or memory, got %q", c.Store)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
