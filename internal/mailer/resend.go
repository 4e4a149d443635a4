package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	DefaultResendEndpoint = "https://api.resend.com/emails"
	DefaultFrom           = "JobTrackr <onboarding@resend.dev>"

	// Resend's default account limit.
	DefaultResendRPS = 2.0
)

// ResendConfig configures ResendSender.
type ResendConfig struct {
	APIKey   string
	From     string
	Endpoint string
	RPS      float64
	Client   *http.Client
}

// ResendSender delivers mail through the Resend HTTP API. Outbound calls are
// throttled to the provider's per-second limit; Send blocks until a slot is
// free or ctx is done.
type ResendSender struct {
	apiKey   string
	from     string
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
	log      zerolog.Logger
}

// NewResendSender returns a sender for cfg. Zero fields take defaults.
func NewResendSender(cfg ResendConfig, log zerolog.Logger) *ResendSender {
	if cfg.From == "" {
		cfg.From = DefaultFrom
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultResendEndpoint
	}
	if cfg.RPS <= 0 {
		cfg.RPS = DefaultResendRPS
	}
	if cfg.Client == nil {
		cfg.Client = &http.Client{Timeout: 10 * time.Second}
	}

	return &ResendSender{
		apiKey:   cfg.APIKey,
		from:     cfg.From,
		endpoint: cfg.Endpoint,
		client:   cfg.Client,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RPS), 1),
		log:      log.With().Str("component", "mailer").Str("provider", "resend").Logger(),
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Send posts msg to the provider. A non-2xx answer is returned as an
// unsuccessful Result carrying the provider's message.
func (s *ResendSender) Send(ctx context.Context, msg Message) (Result, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return Result{}, fmt.Errorf("waiting for send slot: %w", err)
	}

	body, err := json.Marshal(resendRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return Result{}, fmt.Errorf("encoding email: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := s.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("sending email: %w", err)
	}
	defer resp.Body.Close()

	var out resendResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&out); err != nil && err != io.EOF {
		s.log.Warn().Err(err).Int("status", resp.StatusCode).Msg("undecodable provider response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		reason := out.Message
		if reason == "" {
			reason = resp.Status
		}
		return Result{Success: false, Error: reason}, nil
	}

	s.log.Debug().Str("email_id", out.ID).Msg("email accepted")
	return Result{Success: true}, nil
}
