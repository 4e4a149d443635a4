package cli

import (
	"bufio"
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jobtrackr/jobtrackr-go/internal/ai"
	"github.com/jobtrackr/jobtrackr-go/internal/client"
	"github.com/jobtrackr/jobtrackr-go/internal/crypto"
	"github.com/jobtrackr/jobtrackr-go/internal/handler"
	"github.com/jobtrackr/jobtrackr-go/internal/mailer"
	"github.com/jobtrackr/jobtrackr-go/internal/metrics"
	"github.com/jobtrackr/jobtrackr-go/internal/repository"
	"github.com/jobtrackr/jobtrackr-go/internal/service"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	hasher, err := crypto.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tokens, err := crypto.NewTokenIssuer([]byte("test-secret"), time.Hour)
	require.NoError(t, err)

	repo := repository.NewMemoryStore()
	log := zerolog.Nop()
	m := metrics.Nop()

	srv := httptest.NewServer(handler.NewRouter(handler.RouterConfig{
		Auth:   service.NewAuthService(repo.Users(), hasher, tokens, m, log),
		Reset:  service.NewResetService(repo.Users(), hasher, mailer.NewLogSender(log), m, log, service.ResetConfig{}),
		Jobs:   service.NewJobService(repo.Jobs()),
		Resume: service.NewResumeService(repo.Resumes()),
		AI:     service.NewAIService(ai.NewKeywordAnalyzer(), nil, log),
		Tokens: tokens,
		Log:    log,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = orig })
}

// run executes one command with input as stdin, sharing store between runs
// the way separate invocations share the session directory.
func run(t *testing.T, url string, store client.Store, input string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := NewApp(client.NewAPI(url, nil), store, strings.NewReader(input), &out)
	err := app.Run(context.Background(), args)
	return out.String(), err
}

func TestSessionLifecycle(t *testing.T) {
	srv := newServer(t)
	store := client.NewMemoryStore()
	stubPassword(t, "Secret1!")

	out, err := run(t, srv.URL, store, "Ada Lovelace\nAda@Example.com\n", "register")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Ada Lovelace (AL)")

	out, err = run(t, srv.URL, store, "", "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "<ada@example.com>")

	out, err = run(t, srv.URL, store, "", "jobs")
	require.NoError(t, err)
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, client.SampleJob().Company)

	_, err = run(t, srv.URL, store, "", "logout")
	require.NoError(t, err)
	assert.Equal(t, 0, store.Len())

	_, err = run(t, srv.URL, store, "", "jobs")
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	out, err = run(t, srv.URL, store, "ada@example.com\n", "login")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as ada@example.com")
}

func TestJobCommands(t *testing.T) {
	srv := newServer(t)
	store := client.NewMemoryStore()
	stubPassword(t, "Secret1!")

	_, err := run(t, srv.URL, store, "Grace Hopper\ngrace@example.com\n", "register")
	require.NoError(t, err)

	out, err := run(t, srv.URL, store, "Acme\nBackend Engineer\n\nBuild things.\nIn Go.\n\n", "add-job")
	require.NoError(t, err)
	assert.Contains(t, out, "Created job")

	out, err = run(t, srv.URL, store, "", "jobs")
	require.NoError(t, err)
	require.Contains(t, out, "Acme")

	id := jobID(t, out, "Acme")

	out, err = run(t, srv.URL, store, "", "set-status", id, "Offer")
	require.NoError(t, err)
	assert.Contains(t, out, "is now Offer")

	_, err = run(t, srv.URL, store, "", "set-status", id, "Ghosted")
	assert.Error(t, err)

	_, err = run(t, srv.URL, store, "", "delete-job", id)
	require.NoError(t, err)

	out, err = run(t, srv.URL, store, "", "jobs")
	require.NoError(t, err)
	assert.NotContains(t, out, "Acme")

	_, err = run(t, srv.URL, store, "", "delete-job", "abc")
	assert.ErrorIs(t, err, ErrUsage)
}

func TestResumeCommands(t *testing.T) {
	srv := newServer(t)
	store := client.NewMemoryStore()
	stubPassword(t, "Secret1!")

	_, err := run(t, srv.URL, store, "Ada\nada@example.com\n", "register")
	require.NoError(t, err)

	out, err := run(t, srv.URL, store, "", "resume")
	require.NoError(t, err)
	assert.Contains(t, out, "JOHN DOE")

	_, err = run(t, srv.URL, store, "Line one\nLine two\n\n", "edit-resume")
	require.NoError(t, err)

	out, err = run(t, srv.URL, store, "", "resume")
	require.NoError(t, err)
	assert.Contains(t, out, "Line one\nLine two")
}

func TestAnalyzeCommand(t *testing.T) {
	srv := newServer(t)
	store := client.NewMemoryStore()
	stubPassword(t, "Secret1!")

	_, err := run(t, srv.URL, store, "Ada\nada@example.com\n", "register")
	require.NoError(t, err)
	_, err = run(t, srv.URL, store, "Go, Docker and Kubernetes.\n\n", "edit-resume")
	require.NoError(t, err)
	_, err = run(t, srv.URL, store, "Acme\nPlatform Engineer\n\nWe run Kubernetes on AWS.\n\n", "add-job")
	require.NoError(t, err)

	out, err := run(t, srv.URL, store, "", "jobs")
	require.NoError(t, err)
	id := jobID(t, out, "Acme")

	out, err = run(t, srv.URL, store, "", "analyze", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Match score: 50%")
	assert.Contains(t, out, "Missing: aws")

	_, err = run(t, srv.URL, store, "", "analyze", id, "--verbose")
	assert.ErrorIs(t, err, ErrUsage)

	_, err = run(t, srv.URL, store, "", "cover-letter", id)
	assert.ErrorContains(t, err, "AI service is not configured")
}

func TestStaleTokenIsDropped(t *testing.T) {
	srv := newServer(t)
	store := client.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, client.KeyToken, []byte("not-a-jwt")))
	require.NoError(t, store.Set(ctx, client.KeyUser, []byte(`{"id":7,"name":"X","email":"x@example.com"}`)))

	_, err := run(t, srv.URL, store, "", "whoami")
	assert.ErrorIs(t, err, ErrNotLoggedIn)
	assert.Equal(t, 0, store.Len())
}

func TestForgotPasswordDoesNotRevealAccounts(t *testing.T) {
	srv := newServer(t)
	store := client.NewMemoryStore()

	out, err := run(t, srv.URL, store, "", "forgot-password", "nobody@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, service.ResetRequestedMessage)
}

func TestResetPasswordRejectsUnknownToken(t *testing.T) {
	srv := newServer(t)
	stubPassword(t, "Secret1!")

	_, err := run(t, srv.URL, client.NewMemoryStore(), "", "reset-password", "deadbeef")
	assert.ErrorContains(t, err, "invalid or expired reset token")
}

func TestUsage(t *testing.T) {
	out, err := run(t, "http://127.0.0.1:1", client.NewMemoryStore(), "")
	assert.ErrorIs(t, err, ErrUsage)
	assert.Contains(t, out, "commands:")

	_, err = run(t, "http://127.0.0.1:1", client.NewMemoryStore(), "", "frobnicate")
	assert.ErrorIs(t, err, ErrUsage)

	out, err = run(t, "http://127.0.0.1:1", client.NewMemoryStore(), "", "help")
	require.NoError(t, err)
	assert.Contains(t, out, "reset-password")
}

func TestPromptMultiline(t *testing.T) {
	var out bytes.Buffer
	r := newReader("a\nb\n\nc\n")
	text, err := promptMultiline(r, &out, "Text")
	require.NoError(t, err)
	assert.Equal(t, "a\nb", text)

	text, err = promptMultiline(newReader("tail"), &out, "Text")
	require.NoError(t, err)
	assert.Equal(t, "tail", text)
}

func newReader(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func jobID(t *testing.T, table, company string) string {
	t.Helper()
	for _, line := range strings.Split(table, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 1 && fields[1] == company {
			return fields[0]
		}
	}
	t.Fatalf("no row for %s in:\n%s", company, table)
	return ""
}
