package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/FACorreiaa/go-juicebox-api/internal/types"
)

var _ UserService = (*ServiceImpl)(nil)

// PostLister is the slice of the post persistence layer needed to hydrate
// a user profile with the posts they authored.
type PostLister interface {
	GetPostsByUser(ctx context.Context, authorID uuid.UUID) ([]types.Post, error)
}

// UserService defines the interface for user operations.
type UserService interface {
	GetAllUsers(ctx context.Context) ([]types.User, error)

	// GetUser returns the bare user row (no posts, no password hash).
	GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error)

	// GetUserProfile returns the hydrated read-model: user plus posts.
	GetUserProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error)

	UpdateUser(ctx context.Context, userID uuid.UUID, params types.UpdateUserParams) (*types.User, error)

	// DeactivateUser soft-deletes the account. The user's posts are left
	// untouched; deactivation never cascades.
	DeactivateUser(ctx context.Context, userID uuid.UUID) (*types.User, error)
}

// ServiceImpl implements the UserService interface.
type ServiceImpl struct {
	logger *slog.Logger
	repo   UserRepo
	posts  PostLister
}

// NewUserService creates a new UserService.
func NewUserService(repo UserRepo, posts PostLister, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		posts:  posts,
	}
}

func (s *ServiceImpl) GetAllUsers(ctx context.Context) ([]types.User, error) {
	return s.repo.GetAllUsers(ctx)
}

func (s *ServiceImpl) GetUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	return s.repo.GetUserByID(ctx, userID)
}

func (s *ServiceImpl) GetUserProfile(ctx context.Context, userID uuid.UUID) (*types.UserProfile, error) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	posts, err := s.posts.GetPostsByUser(ctx, userID)
	if err != nil {
		// Hydration failures propagate; a profile with silently missing
		// posts is worse than an error.
		return nil, fmt.Errorf("failed to hydrate posts for user %s: %w", userID, err)
	}

	return &types.UserProfile{User: *user, Posts: posts}, nil
}

func (s *ServiceImpl) UpdateUser(ctx context.Context, userID uuid.UUID, params types.UpdateUserParams) (*types.User, error) {
	if params.Password != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*params.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		h := string(hashed)
		params.Password = &h
	}
	return s.repo.UpdateUser(ctx, userID, params)
}

func (s *ServiceImpl) DeactivateUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	inactive := false
	return s.repo.UpdateUser(ctx, userID, types.UpdateUserParams{Active: &inactive})
}
