package service

import (
	"context"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jobtrackr/jobtrackr-go/internal/crypto"
	"github.com/jobtrackr/jobtrackr-go/internal/mailer"
	"github.com/jobtrackr/jobtrackr-go/internal/metrics"
	"github.com/jobtrackr/jobtrackr-go/internal/repository"
)

// fakeSender records every message and answers with result/err.
type fakeSender struct {
	mu     sync.Mutex
	sent   []mailer.Message
	result mailer.Result
	err    error
}

func newFakeSender() *fakeSender {
	return &fakeSender{result: mailer.Result{Success: true}}
}

func (f *fakeSender) Send(_ context.Context, msg mailer.Message) (mailer.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.result, f.err
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

var tokenInLink = regexp.MustCompile(`reset-password\?token=([0-9a-f]{64})`)

// lastToken extracts the reset token from the most recent email.
func (f *fakeSender) lastToken(t *testing.T) string {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		t.Fatal("no email sent")
	}
	m := tokenInLink.FindStringSubmatch(f.sent[len(f.sent)-1].HTML)
	if m == nil {
		t.Fatal("no reset link in email body")
	}
	return m[1]
}

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testEnv struct {
	store  *repository.MemoryStore
	auth   *AuthService
	reset  *ResetService
	jobs   *JobService
	resume *ResumeService
	sender *fakeSender
	clock  *clock
	tokens *crypto.TokenIssuer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	hasher, err := crypto.NewHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewHasher: %v", err)
	}
	tokens, err := crypto.NewTokenIssuer([]byte("test-secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewTokenIssuer: %v", err)
	}

	store := repository.NewMemoryStore()
	sender := newFakeSender()
	clk := &clock{now: time.Now()}
	m := metrics.Nop()
	log := zerolog.Nop()

	return &testEnv{
		store:  store,
		auth:   NewAuthService(store.Users(), hasher, tokens, m, log),
		reset:  NewResetService(store.Users(), hasher, sender, m, log, ResetConfig{FrontendURL: "http://app.test", Now: clk.Now}),
		jobs:   NewJobService(store.Jobs()),
		resume: NewResumeService(store.Resumes()),
		sender: sender,
		clock:  clk,
		tokens: tokens,
	}
}
