package post

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-juicebox-api/app/observability/metrics"
	"github.com/FACorreiaa/go-juicebox-api/internal/types"
)

var _ PostService = (*ServiceImpl)(nil)

// PostService defines the interface for post operations.
type PostService interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, params types.CreatePostParams) (*types.Post, error)
	UpdatePost(ctx context.Context, postID uuid.UUID, params types.UpdatePostParams) (*types.Post, error)

	// DeactivatePost soft-deletes the post; the row and its tag links stay.
	DeactivatePost(ctx context.Context, postID uuid.UUID) (*types.Post, error)

	// GetPost returns the post regardless of visibility. Handlers use it
	// for the existence-before-ownership check on writes.
	GetPost(ctx context.Context, postID uuid.UUID) (*types.Post, error)

	// GetVisiblePosts lists every post the caller may see. identity may be
	// nil for anonymous requests.
	GetVisiblePosts(ctx context.Context, identity *types.User) ([]types.Post, error)
	GetVisiblePostsByTag(ctx context.Context, tagName string, identity *types.User) ([]types.Post, error)

	GetPostsByUser(ctx context.Context, authorID uuid.UUID) ([]types.Post, error)
}

// ServiceImpl implements the PostService interface.
type ServiceImpl struct {
	logger  *slog.Logger
	repo    PostRepo
	metrics *metrics.AppMetrics
}

// NewPostService creates a new PostService.
func NewPostService(repo PostRepo, logger *slog.Logger, appMetrics *metrics.AppMetrics) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		repo:    repo,
		metrics: appMetrics,
	}
}

// visibleTo reports whether the caller may see the post in listings.
// Live posts by live authors are public; an author always sees their own
// posts, drafts and deactivated ones included.
func visibleTo(p *types.Post, identity *types.User) bool {
	if p.Active && p.Author.Active {
		return true
	}
	return identity != nil && p.Author.ID == identity.ID
}

func filterVisible(posts []types.Post, identity *types.User) []types.Post {
	visible := []types.Post{}
	for i := range posts {
		if visibleTo(&posts[i], identity) {
			visible = append(visible, posts[i])
		}
	}
	return visible
}

func (s *ServiceImpl) CreatePost(ctx context.Context, authorID uuid.UUID, params types.CreatePostParams) (*types.Post, error) {
	start := time.Now()
	created, err := s.repo.CreatePost(ctx, authorID, params)
	if err != nil {
		return nil, err
	}

	s.metrics.PostsCreatedTotal.Add(ctx, 1)
	s.metrics.DbQueryDurationSeconds.Record(ctx, time.Since(start).Seconds())
	s.logger.InfoContext(ctx, "Post created",
		slog.String("postID", created.ID.String()),
		slog.String("authorID", authorID.String()),
		slog.Int("tags", len(created.Tags)))
	return created, nil
}

func (s *ServiceImpl) UpdatePost(ctx context.Context, postID uuid.UUID, params types.UpdatePostParams) (*types.Post, error) {
	return s.repo.UpdatePost(ctx, postID, params)
}

func (s *ServiceImpl) DeactivatePost(ctx context.Context, postID uuid.UUID) (*types.Post, error) {
	inactive := false
	return s.repo.UpdatePost(ctx, postID, types.UpdatePostParams{Active: &inactive})
}

func (s *ServiceImpl) GetPost(ctx context.Context, postID uuid.UUID) (*types.Post, error) {
	return s.repo.GetPostByID(ctx, postID)
}

func (s *ServiceImpl) GetVisiblePosts(ctx context.Context, identity *types.User) ([]types.Post, error) {
	posts, err := s.repo.GetAllPosts(ctx)
	if err != nil {
		return nil, err
	}
	return filterVisible(posts, identity), nil
}

func (s *ServiceImpl) GetVisiblePostsByTag(ctx context.Context, tagName string, identity *types.User) ([]types.Post, error) {
	posts, err := s.repo.GetPostsByTagName(ctx, tagName)
	if err != nil {
		return nil, err
	}
	return filterVisible(posts, identity), nil
}

func (s *ServiceImpl) GetPostsByUser(ctx context.Context, authorID uuid.UUID) ([]types.Post, error) {
	return s.repo.GetPostsByUser(ctx, authorID)
}
