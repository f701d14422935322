package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-juicebox-api/app/observability/metrics"
	"github.com/FACorreiaa/go-juicebox-api/internal/api"
	"github.com/FACorreiaa/go-juicebox-api/internal/types"
)

func setupAuthServiceTest(t *testing.T) (*AuthServiceImpl, *MockUserStore) {
	t.Helper()
	// The global no-op meter provider yields functional no-op instruments.
	metrics.InitAppMetrics()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := testJWTConfig()
	store := new(MockUserStore)
	tokens := NewTokenService(cfg)
	return NewAuthService(store, tokens, cfg, logger, metrics.Get()), store
}

func TestAuthServiceImpl_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success issues a verifiable token", func(t *testing.T) {
		service, store := setupAuthServiceTest(t)
		created := &types.User{ID: uuid.New(), Username: "albert", Active: true}

		store.On("CreateUser", ctx, mock.MatchedBy(func(p types.CreateUserParams) bool {
			// The stored password must be a bcrypt hash, never the plaintext.
			return p.Username == "albert" &&
				p.Password != "bertie99" &&
				bcrypt.CompareHashAndPassword([]byte(p.Password), []byte("bertie99")) == nil
		})).Return(created, nil).Once()

		token, err := service.Register(ctx, "albert", "bertie99", "Al Bert", "Sidney, Australia")
		require.NoError(t, err)

		claims, err := service.tokens.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, created.ID.String(), claims.UserID)
		require.NotNil(t, claims.ExpiresAt, "registration tokens must expire")
		store.AssertExpectations(t)
	})

	t.Run("duplicate username issues no token", func(t *testing.T) {
		service, store := setupAuthServiceTest(t)
		store.On("CreateUser", ctx, mock.Anything).
			Return(nil, api.ErrConflict).Once()

		token, err := service.Register(ctx, "albert", "bertie99", "", "")
		require.Error(t, err)
		assert.ErrorIs(t, err, api.ErrConflict)
		assert.Empty(t, token)
		store.AssertExpectations(t)
	})
}

func TestAuthServiceImpl_Login(t *testing.T) {
	ctx := context.Background()

	hashed, err := bcrypt.GenerateFromPassword([]byte("bertie99"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &types.User{
		ID:       uuid.New(),
		Username: "albert",
		Password: string(hashed),
		Active:   true,
	}

	t.Run("success issues a non-expiring token", func(t *testing.T) {
		service, store := setupAuthServiceTest(t)
		store.On("GetUserByUsername", ctx, "albert").Return(stored, nil).Once()

		token, err := service.Login(ctx, "albert", "bertie99")
		require.NoError(t, err)

		claims, err := service.tokens.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, stored.ID.String(), claims.UserID)
		assert.Nil(t, claims.ExpiresAt, "session tokens carry no expiry")
		store.AssertExpectations(t)
	})

	t.Run("missing credentials", func(t *testing.T) {
		service, store := setupAuthServiceTest(t)

		_, err := service.Login(ctx, "", "bertie99")
		assert.ErrorIs(t, err, api.ErrMissingCredentials)
		_, err = service.Login(ctx, "albert", "")
		assert.ErrorIs(t, err, api.ErrMissingCredentials)
		store.AssertNotCalled(t, "GetUserByUsername")
	})

	t.Run("unknown username looks like a wrong password", func(t *testing.T) {
		service, store := setupAuthServiceTest(t)
		store.On("GetUserByUsername", ctx, "nobody").
			Return(nil, api.ErrNotFound).Once()

		_, err := service.Login(ctx, "nobody", "whatever")
		assert.ErrorIs(t, err, api.ErrIncorrectCredentials)
		store.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		service, store := setupAuthServiceTest(t)
		store.On("GetUserByUsername", ctx, "albert").Return(stored, nil).Once()

		_, err := service.Login(ctx, "albert", "wrong")
		assert.ErrorIs(t, err, api.ErrIncorrectCredentials)
		store.AssertExpectations(t)
	})

	t.Run("lookup failure propagates", func(t *testing.T) {
		service, store := setupAuthServiceTest(t)
		lookupErr := errors.New("connection refused")
		store.On("GetUserByUsername", ctx, "albert").
			Return(nil, lookupErr).Once()

		_, err := service.Login(ctx, "albert", "bertie99")
		require.Error(t, err)
		assert.ErrorIs(t, err, lookupErr)
		assert.NotErrorIs(t, err, api.ErrIncorrectCredentials)
		store.AssertExpectations(t)
	})
}
