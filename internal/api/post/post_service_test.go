package post

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-juicebox-api/app/observability/metrics"
	"github.com/FACorreiaa/go-juicebox-api/internal/types"
)

// MockPostRepo is a mock implementation of PostRepo.
type MockPostRepo struct {
	mock.Mock
}

func (m *MockPostRepo) CreatePost(ctx context.Context, authorID uuid.UUID, params types.CreatePostParams) (*types.Post, error) {
	args := m.Called(ctx, authorID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Post), args.Error(1)
}

func (m *MockPostRepo) UpdatePost(ctx context.Context, postID uuid.UUID, params types.UpdatePostParams) (*types.Post, error) {
	args := m.Called(ctx, postID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Post), args.Error(1)
}

func (m *MockPostRepo) GetPostByID(ctx context.Context, postID uuid.UUID) (*types.Post, error) {
	args := m.Called(ctx, postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Post), args.Error(1)
}

func (m *MockPostRepo) GetAllPosts(ctx context.Context) ([]types.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Post), args.Error(1)
}

func (m *MockPostRepo) GetPostsByUser(ctx context.Context, authorID uuid.UUID) ([]types.Post, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Post), args.Error(1)
}

func (m *MockPostRepo) GetPostsByTagName(ctx context.Context, tagName string) ([]types.Post, error) {
	args := m.Called(ctx, tagName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Post), args.Error(1)
}

func setupPostServiceTest(t *testing.T) (*ServiceImpl, *MockPostRepo) {
	t.Helper()
	metrics.InitAppMetrics()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mockRepo := new(MockPostRepo)
	return NewPostService(mockRepo, logger, metrics.Get()), mockRepo
}

func makePost(authorID uuid.UUID, postActive, authorActive bool) types.Post {
	return types.Post{
		ID:     uuid.New(),
		Title:  "a post",
		Active: postActive,
		Author: types.Author{ID: authorID, Username: "someone", Active: authorActive},
		Tags:   []types.Tag{},
	}
}

func TestServiceImpl_GetVisiblePosts(t *testing.T) {
	ctx := context.Background()
	alice := &types.User{ID: uuid.New(), Username: "alice", Active: true}
	bobID := uuid.New()

	livePost := makePost(bobID, true, true)
	deactivatedPost := makePost(bobID, false, true)
	postByDeletedAuthor := makePost(uuid.New(), true, false)
	alicesDraft := makePost(alice.ID, false, true)
	all := []types.Post{livePost, deactivatedPost, postByDeletedAuthor, alicesDraft}

	t.Run("anonymous caller sees only live posts by live authors", func(t *testing.T) {
		service, mockRepo := setupPostServiceTest(t)
		mockRepo.On("GetAllPosts", ctx).Return(all, nil).Once()

		posts, err := service.GetVisiblePosts(ctx, nil)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, livePost.ID, posts[0].ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("author additionally sees their own hidden posts", func(t *testing.T) {
		service, mockRepo := setupPostServiceTest(t)
		mockRepo.On("GetAllPosts", ctx).Return(all, nil).Once()

		posts, err := service.GetVisiblePosts(ctx, alice)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, livePost.ID, posts[0].ID)
		assert.Equal(t, alicesDraft.ID, posts[1].ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("another logged-in user does not see foreign hidden posts", func(t *testing.T) {
		service, mockRepo := setupPostServiceTest(t)
		carol := &types.User{ID: uuid.New(), Username: "carol", Active: true}
		mockRepo.On("GetAllPosts", ctx).Return(all, nil).Once()

		posts, err := service.GetVisiblePosts(ctx, carol)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, livePost.ID, posts[0].ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("empty listing stays an empty slice", func(t *testing.T) {
		service, mockRepo := setupPostServiceTest(t)
		mockRepo.On("GetAllPosts", ctx).Return([]types.Post{}, nil).Once()

		posts, err := service.GetVisiblePosts(ctx, nil)
		require.NoError(t, err)
		assert.NotNil(t, posts)
		assert.Empty(t, posts)
		mockRepo.AssertExpectations(t)
	})
}

func TestServiceImpl_GetVisiblePostsByTag(t *testing.T) {
	ctx := context.Background()
	authorID := uuid.New()
	live := makePost(authorID, true, true)
	hidden := makePost(authorID, false, true)

	service, mockRepo := setupPostServiceTest(t)
	mockRepo.On("GetPostsByTagName", ctx, "#happy").
		Return([]types.Post{live, hidden}, nil).Once()

	posts, err := service.GetVisiblePostsByTag(ctx, "#happy", nil)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, live.ID, posts[0].ID)
	mockRepo.AssertExpectations(t)
}

func TestServiceImpl_DeactivatePost(t *testing.T) {
	ctx := context.Background()
	service, mockRepo := setupPostServiceTest(t)
	postID := uuid.New()
	deactivated := makePost(uuid.New(), false, true)

	mockRepo.On("UpdatePost", ctx, postID, mock.MatchedBy(func(p types.UpdatePostParams) bool {
		return p.Active != nil && !*p.Active && p.Title == nil && p.Content == nil && p.Tags == nil
	})).Return(&deactivated, nil).Once()

	p, err := service.DeactivatePost(ctx, postID)
	require.NoError(t, err)
	assert.False(t, p.Active)
	mockRepo.AssertExpectations(t)
}
