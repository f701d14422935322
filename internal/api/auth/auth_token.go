package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/FACorreiaa/go-juicebox-api/config"
	"github.com/FACorreiaa/go-juicebox-api/internal/api"
	"github.com/FACorreiaa/go-juicebox-api/internal/types"
)

// TokenService is the credential codec: it signs and verifies the opaque
// bearer tokens that carry a user's identity claim. It holds no state
// beyond configuration, so a single instance is shared process-wide.
type TokenService struct {
	secretKey []byte
	issuer    string
	audience  string
}

func NewTokenService(cfg config.JWTConfig) *TokenService {
	if cfg.SecretKey == "" {
		panic("JWT Secret Key cannot be empty")
	}
	return &TokenService{
		secretKey: []byte(cfg.SecretKey),
		issuer:    cfg.Issuer,
		audience:  cfg.Audience,
	}
}

// Issue produces a signed token encoding the user's id, username and
// active flag at issuance. A zero ttl issues a token without an expiry
// claim; login tokens do not expire while registration tokens carry a
// one-week ttl.
func (s *TokenService) Issue(user *types.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &api.Claims{
		UserID:   user.ID.String(),
		Username: user.Username,
		Active:   user.Active,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  user.ID.String(),
			Issuer:   s.issuer,
			Audience: jwt.ClaimStrings{s.audience},
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a signed token and returns its claims.
// Every failure mode (bad signature, malformed token, unexpected signing
// method, expiry, issuer or audience mismatch) wraps api.ErrInvalidToken.
func (s *TokenService) Verify(tokenString string) (*api.Claims, error) {
	claims := &api.Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("token has expired: %w", api.ErrInvalidToken)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("malformed token: %w", api.ErrInvalidToken)
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return nil, fmt.Errorf("invalid token signature: %w", api.ErrInvalidToken)
		default:
			return nil, fmt.Errorf("token validation failed: %w", api.ErrInvalidToken)
		}
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token: %w", api.ErrInvalidToken)
	}
	if s.issuer != "" && claims.Issuer != s.issuer {
		return nil, fmt.Errorf("invalid token issuer: %w", api.ErrInvalidToken)
	}
	if s.audience != "" && !api.VerifyAudience(claims.Audience, s.audience) {
		return nil, fmt.Errorf("invalid token audience: %w", api.ErrInvalidToken)
	}

	return claims, nil
}
