package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-juicebox-api/internal/api"
	"github.com/FACorreiaa/go-juicebox-api/internal/types"
)

// Define typed context keys
type contextKey string

const identityKey contextKey = "identity"

const bearerPrefix = "Bearer "

// UserStore is the slice of the user persistence layer the auth package
// needs. The concrete user repository satisfies it.
type UserStore interface {
	CreateUser(ctx context.Context, params types.CreateUserParams) (*types.User, error)
	GetUserByUsername(ctx context.Context, username string) (*types.User, error)
	GetUserByID(ctx context.Context, userID uuid.UUID) (*types.User, error)
}

// ResolveIdentity is the identity resolver middleware. It runs once per
// request, before any route-specific logic, and resolves the Authorization
// header into one of three outcomes:
//
//   - no header: the request proceeds anonymously
//   - a header without the Bearer scheme, or an invalid token: 401
//   - a valid token: the claimed user is loaded and attached to the
//     request context; if the subject no longer resolves the request
//     proceeds anonymously, since a dangling id must not grant ambient
//     authorization (and must not fail the request either)
func ResolveIdentity(logger *slog.Logger, tokens *TokenService, users UserStore) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			l := logger.With(slog.String("middleware", "ResolveIdentity"))

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				// Anonymous request
				next.ServeHTTP(w, r)
				return
			}

			if !strings.HasPrefix(authHeader, bearerPrefix) {
				l.WarnContext(ctx, "Invalid Authorization header format")
				api.ErrorResponse(w, r, http.StatusUnauthorized, api.ErrAuthorizationHeader.Error())
				return
			}

			claims, err := tokens.Verify(strings.TrimPrefix(authHeader, bearerPrefix))
			if err != nil {
				l.WarnContext(ctx, "Token verification failed", slog.Any("error", err))
				api.ErrorResponse(w, r, http.StatusUnauthorized, err.Error())
				return
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				l.WarnContext(ctx, "Token carries malformed user id", slog.String("uid", claims.UserID))
				api.ErrorResponse(w, r, http.StatusUnauthorized, api.ErrInvalidToken.Error())
				return
			}

			user, err := users.GetUserByID(ctx, userID)
			if err != nil {
				if errors.Is(err, api.ErrNotFound) {
					// Valid token whose subject no longer exists: proceed
					// without an identity rather than failing the request.
					l.WarnContext(ctx, "Token subject no longer resolves, continuing as anonymous",
						slog.String("userID", userID.String()))
					next.ServeHTTP(w, r)
					return
				}
				l.ErrorContext(ctx, "Failed to load token subject", slog.Any("error", err))
				api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to resolve identity")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithIdentity(ctx, user)))
		})
	}
}

// ContextWithIdentity attaches a resolved user to the context.
func ContextWithIdentity(ctx context.Context, user *types.User) context.Context {
	return context.WithValue(ctx, identityKey, user)
}

// IdentityFromContext returns the resolved user for the current request.
// The second return is false for anonymous requests.
func IdentityFromContext(ctx context.Context) (*types.User, bool) {
	user, ok := ctx.Value(identityKey).(*types.User)
	if !ok || user == nil {
		return nil, false
	}
	return user, true
}
