package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendSenderSuccess(t *testing.T) {
	var (
		gotAuth string
		gotKey  string
		gotBody resendRequest
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotKey = r.Header.Get("Idempotency-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"em_123"}`))
	}))
	defer srv.Close()

	s := NewResendSender(ResendConfig{APIKey: "re_test", Endpoint: srv.URL, RPS: 100}, zerolog.Nop())
	res, err := s.Send(context.Background(), Message{To: "ada@x.com", Subject: "hi", HTML: "<p>hi</p>"})

	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Bearer re_test", gotAuth)
	assert.NotEmpty(t, gotKey)
	assert.Equal(t, []string{"ada@x.com"}, gotBody.To)
	assert.Equal(t, DefaultFrom, gotBody.From)
}

func TestResendSenderProviderRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"name":"validation_error","message":"Invalid to field"}`))
	}))
	defer srv.Close()

	s := NewResendSender(ResendConfig{APIKey: "re_test", Endpoint: srv.URL, RPS: 100}, zerolog.Nop())
	res, err := s.Send(context.Background(), Message{To: "bad", Subject: "hi", HTML: "x"})

	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "Invalid to field", res.Error)
}

func TestResendSenderTransportError(t *testing.T) {
	s := NewResendSender(ResendConfig{APIKey: "k", Endpoint: "http://127.0.0.1:1", RPS: 100}, zerolog.Nop())
	_, err := s.Send(context.Background(), Message{To: "a@x.com"})
	assert.Error(t, err)
}

func TestResendSenderHonorsCancelledContext(t *testing.T) {
	s := NewResendSender(ResendConfig{APIKey: "k", Endpoint: "http://127.0.0.1:1", RPS: 0.001}, zerolog.Nop())

	// Drain the single burst token so the next Send has to wait.
	require.True(t, s.limiter.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Send(ctx, Message{To: "a@x.com"})
	assert.Error(t, err)
}

func TestLogSenderAlwaysSucceeds(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSender(zerolog.New(&buf))

	res, err := s.Send(context.Background(), Message{To: "ada@x.com", Subject: "s", HTML: "b"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Contains(t, buf.String(), "ada@x.com")
}

func TestRenderReset(t *testing.T) {
	html, err := RenderReset(ResetEmail{
		Name:     "Ada <script>",
		Link:     "https://app.example/reset-password?token=abc",
		ValidFor: time.Hour,
		Year:     2026,
	})
	require.NoError(t, err)

	assert.Contains(t, html, "https://app.example/reset-password?token=abc")
	assert.Contains(t, html, "expire in 1 hour")
	assert.Contains(t, html, "2026")
	assert.False(t, strings.Contains(html, "<script>"), "name must be escaped")
}
