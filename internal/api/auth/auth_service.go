package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-juicebox-api/app/observability/metrics"
	"github.com/FACorreiaa/go-juicebox-api/config"
	"github.com/FACorreiaa/go-juicebox-api/internal/api"
	"github.com/FACorreiaa/go-juicebox-api/internal/types"
)

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService defines the interface for registration and login.
type AuthService interface {
	// Register creates a new user and returns a signed registration token.
	// A duplicate username fails with api.ErrConflict and issues no token.
	Register(ctx context.Context, username, password, name, location string) (string, error)

	// Login verifies credentials and returns a signed session token.
	Login(ctx context.Context, username, password string) (string, error)
}

// AuthServiceImpl implements the AuthService interface.
type AuthServiceImpl struct {
	logger          *slog.Logger
	repo            UserStore
	tokens          *TokenService
	registrationTTL time.Duration
	metrics         *metrics.AppMetrics
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo UserStore, tokens *TokenService, cfg config.JWTConfig, logger *slog.Logger, appMetrics *metrics.AppMetrics) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger:          logger,
		repo:            repo,
		tokens:          tokens,
		registrationTTL: cfg.RegistrationTokenTTL,
		metrics:         appMetrics,
	}
}

// Register hashes the password, inserts the user and issues a registration
// token that expires after the configured ttl (one week by default).
func (s *AuthServiceImpl) Register(ctx context.Context, username, password, name, location string) (string, error) {
	l := s.logger.With(slog.String("method", "Register"), slog.String("username", username))
	start := time.Now()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, types.CreateUserParams{
		Username: username,
		Password: string(hashed),
		Name:     name,
		Location: location,
	})
	if err != nil {
		// A duplicate username surfaces as api.ErrConflict; no token is
		// issued on any failure path.
		if errors.Is(err, api.ErrConflict) {
			l.WarnContext(ctx, "Registration conflict", slog.Any("error", err))
		} else {
			l.ErrorContext(ctx, "Failed to create user", slog.Any("error", err))
		}
		return "", err
	}

	token, err := s.tokens.Issue(user, s.registrationTTL)
	if err != nil {
		return "", fmt.Errorf("failed to issue registration token: %w", err)
	}

	s.metrics.RegisterRequestsTotal.Add(ctx, 1)
	s.metrics.RegisterDurationSeconds.Record(ctx, time.Since(start).Seconds())
	l.InfoContext(ctx, "User registered", slog.String("userID", user.ID.String()))
	return token, nil
}

// Login checks the supplied credentials against the stored hash and issues
// a session token. Session tokens carry no expiry claim.
func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, error) {
	l := s.logger.With(slog.String("method", "Login"), slog.String("username", username))

	if username == "" || password == "" {
		return "", api.ErrMissingCredentials
	}

	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			// Same failure as a wrong password so usernames cannot be probed
			return "", api.ErrIncorrectCredentials
		}
		l.ErrorContext(ctx, "Failed to look up user", slog.Any("error", err))
		return "", fmt.Errorf("login lookup failed: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", api.ErrIncorrectCredentials
	}

	token, err := s.tokens.Issue(user, 0)
	if err != nil {
		return "", fmt.Errorf("failed to issue session token: %w", err)
	}

	s.metrics.LoginRequestsTotal.Add(ctx, 1)
	l.InfoContext(ctx, "User logged in", slog.String("userID", user.ID.String()))
	return token, nil
}
