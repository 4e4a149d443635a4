package service

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/jobtrackr/jobtrackr-go/internal/crypto"
	"github.com/jobtrackr/jobtrackr-go/internal/mailer"
	"github.com/jobtrackr/jobtrackr-go/internal/metrics"
	"github.com/jobtrackr/jobtrackr-go/internal/model"
	"github.com/jobtrackr/jobtrackr-go/internal/repository"
)

const (
	// DefaultResetTTL is how long a reset link stays valid.
	DefaultResetTTL = time.Hour

	ResetRequestedMessage = "If that email exists, a password reset link has been sent."
	ResetCompletedMessage = "Password has been reset successfully."
)

// Reset request metric results.
const (
	resetSent         = "sent"
	resetUnknownEmail = "unknown_email"
	resetSendFailed   = "send_failed"
)

// ResetConfig configures ResetService.
type ResetConfig struct {
	TTL         time.Duration
	FrontendURL string
	Now         func() time.Time
}

// ResetService runs the password reset flow: issuing a single-use token by
// email and exchanging it for a new password.
//
// Per user the flow moves NoActiveReset → RequestedReset on RequestReset, and
// RequestedReset → Consumed on ConsumeReset. A newer request supersedes the
// stored token and a stored token expires after TTL; both are implicit in the
// digest and expiry columns.
type ResetService struct {
	users       UserStore
	hasher      *crypto.Hasher
	sender      mailer.Sender
	metrics     *metrics.Metrics
	log         zerolog.Logger
	ttl         time.Duration
	frontendURL string
	now         func() time.Time
}

// NewResetService creates a new ResetService.
func NewResetService(users UserStore, hasher *crypto.Hasher, sender mailer.Sender, m *metrics.Metrics, log zerolog.Logger, cfg ResetConfig) *ResetService {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultResetTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ResetService{
		users:       users,
		hasher:      hasher,
		sender:      sender,
		metrics:     m,
		log:         log.With().Str("component", "password_reset").Logger(),
		ttl:         cfg.TTL,
		frontendURL: cfg.FrontendURL,
		now:         cfg.Now,
	}
}

// RequestReset emails a reset link when email belongs to an account. The
// response is identical whether or not it does, and delivery failures are
// logged but never reported to the caller.
func (s *ResetService) RequestReset(ctx context.Context, email string) (model.ResetResponse, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return model.ResetResponse{}, ErrEmailRequired
	}

	ok := model.ResetResponse{Success: true, Message: ResetRequestedMessage}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.ResetRequestsTotal.WithLabelValues(resetUnknownEmail).Inc()
			return ok, nil
		}
		s.metrics.ResetRequestsTotal.WithLabelValues(metrics.ResultError).Inc()
		return model.ResetResponse{}, serverError(err, "failed to process password reset request")
	}

	token, err := crypto.GenerateResetToken()
	if err != nil {
		s.metrics.ResetRequestsTotal.WithLabelValues(metrics.ResultError).Inc()
		return model.ResetResponse{}, serverError(err, "failed to process password reset request")
	}

	expires := s.now().Add(s.ttl)
	if err := s.users.SetResetToken(ctx, user.ID, crypto.DigestToken(token), expires); err != nil {
		s.metrics.ResetRequestsTotal.WithLabelValues(metrics.ResultError).Inc()
		return model.ResetResponse{}, serverError(err, "failed to process password reset request")
	}

	if s.deliver(ctx, user, token) {
		s.metrics.ResetRequestsTotal.WithLabelValues(resetSent).Inc()
	} else {
		s.metrics.ResetRequestsTotal.WithLabelValues(resetSendFailed).Inc()
	}
	return ok, nil
}

// deliver sends the reset email and reports whether the provider accepted it.
func (s *ResetService) deliver(ctx context.Context, user *model.User, token string) bool {
	html, err := mailer.RenderReset(mailer.ResetEmail{
		Name:     user.Name,
		Link:     s.ResetLink(token),
		ValidFor: s.ttl,
		Year:     s.now().Year(),
	})
	if err != nil {
		s.log.Error().Err(err).Int64("user_id", user.ID).Msg("rendering reset email")
		s.metrics.MailSendsTotal.WithLabelValues(metrics.ResultError).Inc()
		return false
	}

	res, err := s.sender.Send(ctx, mailer.Message{
		To:      user.Email,
		Subject: mailer.ResetSubject,
		HTML:    html,
	})
	switch {
	case err != nil:
		s.log.Error().Err(err).Int64("user_id", user.ID).Msg("sending reset email")
		s.metrics.MailSendsTotal.WithLabelValues(metrics.ResultError).Inc()
		return false
	case !res.Success:
		s.log.Warn().Str("reason", res.Error).Int64("user_id", user.ID).Msg("reset email rejected by provider")
		s.metrics.MailSendsTotal.WithLabelValues(metrics.ResultRejected).Inc()
		return false
	}

	s.log.Info().Int64("user_id", user.ID).Msg("reset email sent")
	s.metrics.MailSendsTotal.WithLabelValues(metrics.ResultSuccess).Inc()
	return true
}

// ResetLink builds the frontend URL a user follows to choose a new password.
func (s *ResetService) ResetLink(token string) string {
	return s.frontendURL + "/reset-password?token=" + url.QueryEscape(token)
}

// ConsumeReset replaces the password of the account holding token. Unknown,
// expired, superseded and already used tokens all fail with
// ErrInvalidOrExpiredToken.
func (s *ResetService) ConsumeReset(ctx context.Context, token, newPassword string) (model.ResetResponse, error) {
	resp, err := s.consumeReset(ctx, token, newPassword)
	s.metrics.ResetConsumesTotal.WithLabelValues(outcome(err)).Inc()
	return resp, err
}

func (s *ResetService) consumeReset(ctx context.Context, token, newPassword string) (model.ResetResponse, error) {
	if token == "" {
		return model.ResetResponse{}, ErrTokenRequired
	}
	if newPassword == "" {
		return model.ResetResponse{}, ErrNewPasswordRequired
	}

	if violated := crypto.CheckPassword(newPassword); len(violated) > 0 {
		messages := make([]string, len(violated))
		for i, r := range violated {
			messages[i] = r.Message
		}
		return model.ResetResponse{}, weakPassword(messages)
	}

	digest := crypto.DigestToken(token)
	now := s.now()

	user, err := s.users.GetByResetToken(ctx, digest, now)
	if err != nil {
		if errors.Is(err, repository.ErrResetTokenNotFound) {
			return model.ResetResponse{}, ErrInvalidOrExpiredToken
		}
		return model.ResetResponse{}, serverError(err, "failed to reset password")
	}

	hash, err := s.hasher.HashPassword(newPassword)
	if err != nil {
		return model.ResetResponse{}, serverError(err, "failed to reset password")
	}

	// Re-checks digest and expiry in the same statement that writes the hash,
	// so a concurrent consumer or a newer request between the lookup and here
	// makes this one fail.
	if err := s.users.ConsumeResetToken(ctx, user.ID, digest, now, hash); err != nil {
		if errors.Is(err, repository.ErrResetTokenNotFound) {
			return model.ResetResponse{}, ErrInvalidOrExpiredToken
		}
		return model.ResetResponse{}, serverError(err, "failed to reset password")
	}

	s.log.Info().Int64("user_id", user.ID).Msg("password reset")
	return model.ResetResponse{Success: true, Message: ResetCompletedMessage}, nil
}
