package mailer

import (
	"context"

	"github.com/rs/zerolog"
)

// LogSender writes messages to the log instead of delivering them. It is used
// when no provider API key is configured, which config.Load refuses in
// production.
type LogSender struct {
	log zerolog.Logger
}

// NewLogSender returns a LogSender writing to log.
func NewLogSender(log zerolog.Logger) *LogSender {
	return &LogSender{log: log.With().Str("component", "mailer").Logger()}
}

// Send logs msg and always succeeds.
func (s *LogSender) Send(_ context.Context, msg Message) (Result, error) {
	s.log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Str("body", msg.HTML).
		Msg("email not delivered: no provider configured")
	return Result{Success: true}, nil
}
