package api

import (
	"context"
	"errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors shared by every layer. Repositories and services wrap
// these with fmt.Errorf("...: %w", ...) so handlers can map them with
// errors.Is without losing the storage-level cause.
var (
	ErrNotFound             = errors.New("requested item not found")
	ErrConflict             = errors.New("item already exists or conflict")
	ErrUnauthenticated      = errors.New("authentication required or invalid credentials")
	ErrForbidden            = errors.New("action forbidden")
	ErrAuthorizationHeader  = errors.New("authorization header must start with Bearer")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrMissingUser          = errors.New("you must be logged in to perform this action")
	ErrInactiveUser         = errors.New("this user account was deleted")
	ErrUnauthorizedUser     = errors.New("you do not own this resource")
	ErrMissingCredentials   = errors.New("please supply both a username and password")
	ErrIncorrectCredentials = errors.New("username or password is incorrect")
)

// PGXPool is the subset of *pgxpool.Pool the repositories depend on.
// pgxmock.PgxPoolIface satisfies it too, which is what the repository
// tests run against.
type PGXPool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// LoginRequest represents the expected JSON body for user login.
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"albert"`
	Password string `json:"password" binding:"required" example:"bertie99"`
}

// LoginResponse represents the successful JSON response after login.
type LoginResponse struct {
	Token   string `json:"token" example:"eyJhbGciOiJI..."`
	Message string `json:"message" example:"you're logged in!"`
}

// RegisterRequest represents the expected JSON body for user registration.
type RegisterRequest struct {
	Username string `json:"username" binding:"required" example:"albert"` // Must be unique.
	Password string `json:"password" binding:"required" example:"bertie99"`
	Name     string `json:"name" example:"Al Bert"`
	Location string `json:"location" example:"Sidney, Australia"`
}

// RegisterResponse represents the successful JSON response after registration.
type RegisterResponse struct {
	Token   string `json:"token" example:"eyJhbGciOiJI..."`
	Message string `json:"message" example:"thank you for signing up!"`
}

// Response represents a generic API response for success or error messages.
type Response struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"Operation successful"`
	Error   string `json:"error,omitempty" example:"Resource not found"`
}

// Claims represents the custom claims included in the bearer token.
type Claims struct {
	UserID               string `json:"uid"`           // Custom claim for User ID.
	Username             string `json:"usr,omitempty"` // Custom claim for Username.
	Active               bool   `json:"act"`           // Active flag at issuance time.
	jwt.RegisteredClaims        // Embed standard claims (ExpiresAt, IssuedAt, Issuer, etc.).
}
