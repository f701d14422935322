package tags

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-juicebox-api/internal/types"
)

// MockTagsService is a mock implementation of TagsService.
type MockTagsService struct {
	mock.Mock
}

func (m *MockTagsService) GetAllTags(ctx context.Context) ([]types.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Tag), args.Error(1)
}

func (m *MockTagsService) GetPostsByTag(ctx context.Context, tagName string, identity *types.User) ([]types.Post, error) {
	args := m.Called(ctx, tagName, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.Post), args.Error(1)
}

func setupTagsHandlerTest() (*HandlerImpl, *MockTagsService, chi.Router) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := new(MockTagsService)
	handler := NewHandlerImpl(service, logger)

	r := chi.NewRouter()
	r.Get("/api/tags", handler.GetAllTags)
	r.Get("/api/tags/{tagName}/posts", handler.GetPostsByTagName)
	return handler, service, r
}

func TestHandlerImpl_GetAllTags(t *testing.T) {
	_, service, r := setupTagsHandlerTest()
	expected := []types.Tag{
		{ID: uuid.New(), Name: "#happy"},
		{ID: uuid.New(), Name: "#worst-day-ever"},
	}
	service.On("GetAllTags", mock.Anything).Return(expected, nil).Once()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tags", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []types.Tag
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)
	service.AssertExpectations(t)
}

func TestHandlerImpl_GetPostsByTagName(t *testing.T) {
	t.Run("plain tag name", func(t *testing.T) {
		_, service, r := setupTagsHandlerTest()
		service.On("GetPostsByTag", mock.Anything, "happy", (*types.User)(nil)).
			Return([]types.Post{}, nil).Once()

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tags/happy/posts", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		service.AssertExpectations(t)
	})

	t.Run("url-encoded hash prefix is decoded", func(t *testing.T) {
		_, service, r := setupTagsHandlerTest()
		service.On("GetPostsByTag", mock.Anything, "#happy", (*types.User)(nil)).
			Return([]types.Post{}, nil).Once()

		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/tags/%23happy/posts", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		service.AssertExpectations(t)
	})
}
