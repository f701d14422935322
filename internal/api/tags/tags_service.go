package tags

import (
	"context"
	"log/slog"

	"github.com/FACorreiaa/go-juicebox-api/internal/types"
)

var _ TagsService = (*ServiceImpl)(nil)

// PostLister is the slice of the post service needed to resolve the
// posts carrying a tag, visibility filter included.
type PostLister interface {
	GetVisiblePostsByTag(ctx context.Context, tagName string, identity *types.User) ([]types.Post, error)
}

// TagsService defines the interface for tag operations.
type TagsService interface {
	GetAllTags(ctx context.Context) ([]types.Tag, error)
	GetPostsByTag(ctx context.Context, tagName string, identity *types.User) ([]types.Post, error)
}

// ServiceImpl implements the TagsService interface.
type ServiceImpl struct {
	logger *slog.Logger
	repo   TagsRepo
	posts  PostLister
}

// NewTagsService creates a new TagsService.
func NewTagsService(repo TagsRepo, posts PostLister, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		posts:  posts,
	}
}

func (s *ServiceImpl) GetAllTags(ctx context.Context) ([]types.Tag, error) {
	return s.repo.GetAllTags(ctx)
}

func (s *ServiceImpl) GetPostsByTag(ctx context.Context, tagName string, identity *types.User) ([]types.Post, error) {
	return s.posts.GetVisiblePostsByTag(ctx, tagName, identity)
}
