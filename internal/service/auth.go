package service

import (
	"context"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"

	"github.com/jobtrackr/jobtrackr-go/internal/crypto"
	"github.com/jobtrackr/jobtrackr-go/internal/metrics"
	"github.com/jobtrackr/jobtrackr-go/internal/model"
	"github.com/jobtrackr/jobtrackr-go/internal/repository"
)

// AuthService handles registration, login and identity lookup.
type AuthService struct {
	users   UserStore
	hasher  *crypto.Hasher
	tokens  *crypto.TokenIssuer
	metrics *metrics.Metrics
	log     zerolog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, hasher *crypto.Hasher, tokens *crypto.TokenIssuer, m *metrics.Metrics, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:   users,
		hasher:  hasher,
		tokens:  tokens,
		metrics: m,
		log:     log.With().Str("component", "auth").Logger(),
	}
}

// Register creates a new user account and returns an auth token.
func (s *AuthService) Register(ctx context.Context, req model.CreateUserRequest) (model.AuthResponse, error) {
	resp, err := s.register(ctx, req)
	s.metrics.RegistrationsTotal.WithLabelValues(outcome(err)).Inc()
	return resp, err
}

func (s *AuthService) register(ctx context.Context, req model.CreateUserRequest) (model.AuthResponse, error) {
	name := strings.TrimSpace(req.Name)
	email := NormalizeEmail(req.Email)

	if name == "" {
		return model.AuthResponse{}, ErrNameRequired
	}
	if email == "" {
		return model.AuthResponse{}, ErrEmailRequired
	}
	if req.Password == "" {
		return model.AuthResponse{}, ErrPasswordRequired
	}

	// Fast path only. Two concurrent registrations can both pass this check;
	// the unique index decides, and Create reports ErrDuplicateEmail.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return model.AuthResponse{}, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return model.AuthResponse{}, serverError(err, "failed to register user")
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return model.AuthResponse{}, serverError(err, "failed to register user")
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Initials:     Initials(name),
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.AuthResponse{}, ErrEmailTaken
		}
		return model.AuthResponse{}, serverError(err, "failed to register user")
	}

	s.log.Info().Int64("user_id", user.ID).Msg("user registered")
	return s.authResponse(user)
}

// Login authenticates a user and returns an auth token. An unknown email and a
// wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	resp, err := s.login(ctx, req)
	s.metrics.LoginsTotal.WithLabelValues(outcome(err)).Inc()
	return resp, err
}

func (s *AuthService) login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	email := NormalizeEmail(req.Email)
	if email == "" {
		return model.AuthResponse{}, ErrEmailRequired
	}
	if req.Password == "" {
		return model.AuthResponse{}, ErrPasswordRequired
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.hasher.BurnCompare(req.Password)
			return model.AuthResponse{}, ErrInvalidCredentials
		}
		return model.AuthResponse{}, serverError(err, "failed to login")
	}

	match, err := s.hasher.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return model.AuthResponse{}, serverError(err, "failed to login")
	}
	if !match {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	return s.authResponse(user)
}

// GetUser retrieves a user by ID and returns safe user data.
func (s *AuthService) GetUser(ctx context.Context, userID int64) (model.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.UserResponse{}, ErrUserNotFound
		}
		return model.UserResponse{}, serverError(err, "failed to load user")
	}
	return user.Response(), nil
}

func (s *AuthService) authResponse(user *model.User) (model.AuthResponse, error) {
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return model.AuthResponse{}, serverError(err, "failed to issue token")
	}
	return model.AuthResponse{
		Success: true,
		Token:   token,
		User:    user.Response(),
	}, nil
}

// NormalizeEmail trims and case-folds an address. Every lookup and insert goes
// through it, so "Ada@X.com" and "ada@x.com" name the same account.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// Initials returns the upper-cased first rune of the first two words of name.
func Initials(name string) string {
	var b strings.Builder
	for i, word := range strings.Fields(name) {
		if i == 2 {
			break
		}
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
