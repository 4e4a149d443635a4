package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobtrackr/jobtrackr-go/internal/apperr"
	"github.com/jobtrackr/jobtrackr-go/internal/model"
)

func TestRegister_RequiredFields(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		req  model.CreateUserRequest
		want error
	}{
		{"missing name", model.CreateUserRequest{Email: "a@x.com", Password: "pw"}, ErrNameRequired},
		{"blank name", model.CreateUserRequest{Name: "   ", Email: "a@x.com", Password: "pw"}, ErrNameRequired},
		{"missing email", model.CreateUserRequest{Name: "A", Password: "pw"}, ErrEmailRequired},
		{"missing password", model.CreateUserRequest{Name: "A", Email: "a@x.com"}, ErrPasswordRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.auth.Register(context.Background(), tt.req)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if apperr.KindOf(err) != apperr.KindValidation {
				t.Errorf("expected validation kind, got %v", apperr.KindOf(err))
			}
		})
	}
}

func TestRegister_Success(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.auth.Register(context.Background(), model.CreateUserRequest{
		Name: "Ada Lovelace", Email: "ada@x.com", Password: "Str0ng!Pass",
	})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.NotZero(t, resp.User.ID)
	assert.Equal(t, "AL", resp.User.Initials)
	assert.Equal(t, "ada@x.com", resp.User.Email)

	id, err := env.tokens.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, id)

	stored, err := env.store.Users().GetByID(context.Background(), resp.User.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "Str0ng!Pass", stored.PasswordHash)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.auth.Register(ctx, model.CreateUserRequest{Name: "Ada", Email: "ada@x.com", Password: "pw"})
	require.NoError(t, err)

	for _, email := range []string{"ada@x.com", "ADA@x.com", "  ada@X.COM "} {
		_, err = env.auth.Register(ctx, model.CreateUserRequest{Name: "Other", Email: email, Password: "pw2"})
		if !errors.Is(err, ErrEmailTaken) {
			t.Errorf("Register(%q): expected ErrEmailTaken, got %v", email, err)
		}
	}
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	env := newTestEnv(t)

	const n = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := env.auth.Register(context.Background(), model.CreateUserRequest{
				Name: "Race", Email: "race@x.com", Password: "pw",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case errors.Is(err, ErrEmailTaken):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, n-1, conflicts)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, model.CreateUserRequest{Name: "Ada Lovelace", Email: "ada@x.com", Password: "Str0ng!Pass"})
	require.NoError(t, err)

	resp, err := env.auth.Login(ctx, model.LoginRequest{Email: "Ada@X.com", Password: "Str0ng!Pass"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, resp.User.ID)
	assert.NotEmpty(t, resp.Token)

	_, wrongPassword := env.auth.Login(ctx, model.LoginRequest{Email: "ada@x.com", Password: "nope"})
	_, unknownEmail := env.auth.Login(ctx, model.LoginRequest{Email: "who@x.com", Password: "Str0ng!Pass"})

	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, apperr.KindAuth, apperr.KindOf(unknownEmail))
}

func TestLogin_RequiredFields(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.auth.Login(context.Background(), model.LoginRequest{Password: "pw"})
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, err = env.auth.Login(context.Background(), model.LoginRequest{Email: "a@x.com"})
	assert.ErrorIs(t, err, ErrPasswordRequired)
}

func TestGetUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	reg, err := env.auth.Register(ctx, model.CreateUserRequest{Name: "Ada Lovelace", Email: "ada@x.com", Password: "pw"})
	require.NoError(t, err)

	user, err := env.auth.GetUser(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, reg.User, user)

	_, err = env.auth.GetUser(ctx, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestInitials(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Ada Lovelace", "AL"},
		{"ada", "A"},
		{"grace brewster murray hopper", "GB"},
		{"  spaced   out  ", "SO"},
		{"élodie durand", "ÉD"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := Initials(tt.name); got != tt.want {
			t.Errorf("Initials(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ada@x.com", "ada@x.com"},
		{"  Ada@X.Com ", "ada@x.com"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeEmail(tt.in); got != tt.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
