package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-juicebox-api/config"
	"github.com/FACorreiaa/go-juicebox-api/internal/api"
	"github.com/FACorreiaa/go-juicebox-api/internal/types"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		SecretKey:            "test-secret-do-not-use-in-prod",
		Issuer:               "juicebox-api",
		Audience:             "juicebox-clients",
		RegistrationTokenTTL: 168 * time.Hour,
	}
}

func testUser() *types.User {
	return &types.User{
		ID:       uuid.New(),
		Username: "albert",
		Active:   true,
	}
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc := NewTokenService(testJWTConfig())
	user := testUser()

	t.Run("round trip with expiry", func(t *testing.T) {
		token, err := svc.Issue(user, time.Hour)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		claims, err := svc.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID.String(), claims.UserID)
		assert.Equal(t, user.Username, claims.Username)
		assert.True(t, claims.Active)
		require.NotNil(t, claims.ExpiresAt)
	})

	t.Run("zero ttl issues a token without expiry", func(t *testing.T) {
		token, err := svc.Issue(user, 0)
		require.NoError(t, err)

		claims, err := svc.Verify(token)
		require.NoError(t, err)
		assert.Nil(t, claims.ExpiresAt)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		token, err := svc.Issue(user, -time.Minute)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		require.Error(t, err)
		assert.ErrorIs(t, err, api.ErrInvalidToken)
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		otherCfg := testJWTConfig()
		otherCfg.SecretKey = "a-different-secret"
		other := NewTokenService(otherCfg)

		token, err := other.Issue(user, time.Hour)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		require.Error(t, err)
		assert.ErrorIs(t, err, api.ErrInvalidToken)
	})

	t.Run("malformed token is rejected", func(t *testing.T) {
		_, err := svc.Verify("not.a.token")
		require.Error(t, err)
		assert.ErrorIs(t, err, api.ErrInvalidToken)
	})

	t.Run("issuer mismatch is rejected", func(t *testing.T) {
		otherCfg := testJWTConfig()
		otherCfg.Issuer = "someone-else"
		other := NewTokenService(otherCfg)

		token, err := other.Issue(user, time.Hour)
		require.NoError(t, err)

		_, err = svc.Verify(token)
		require.Error(t, err)
		assert.ErrorIs(t, err, api.ErrInvalidToken)
	})
}

func TestNewTokenService_EmptySecretPanics(t *testing.T) {
	cfg := testJWTConfig()
	cfg.SecretKey = ""
	assert.Panics(t, func() { NewTokenService(cfg) })
}
