package post

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/FACorreiaa/go-juicebox-api/internal/api"
	"github.com/FACorreiaa/go-juicebox-api/internal/api/auth"
	"github.com/FACorreiaa/go-juicebox-api/internal/types"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetAllPosts(w http.ResponseWriter, r *http.Request)
	CreatePost(w http.ResponseWriter, r *http.Request)
	UpdatePost(w http.ResponseWriter, r *http.Request)
	DeletePost(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	postService PostService
	logger      *slog.Logger
}

// NewHandlerImpl creates a new post HandlerImpl instance.
func NewHandlerImpl(postService PostService, logger *slog.Logger) *HandlerImpl {
	if logger == nil {
		panic("PANIC: Attempting to create post HandlerImpl with nil logger!")
	}
	return &HandlerImpl{
		postService: postService,
		logger:      logger,
	}
}

// GetAllPosts godoc
// @Summary      List Posts
// @Description  Returns all posts visible to the caller. Anonymous callers
// @Description  see live posts by live authors; authors also see their own.
// @Tags         Posts
// @Produce      json
// @Success      200 {array} types.Post "Posts"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /posts [get]
func (h *HandlerImpl) GetAllPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetAllPosts"))

	identity, _ := auth.IdentityFromContext(ctx)
	posts, err := h.postService.GetVisiblePosts(ctx, identity)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list posts", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch posts")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, posts)
}

// CreatePost godoc
// @Summary      Create Post
// @Description  Creates a post authored by the caller, with optional tags.
// @Tags         Posts
// @Accept       json
// @Produce      json
// @Param        body body types.CreatePostParams true "Post Parameters"
// @Success      201 {object} types.Post "Created Post"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      401 {object} api.Response "Missing Identity"
// @Failure      403 {object} api.Response "Deactivated Account"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /posts [post]
// @Security     BearerAuth
func (h *HandlerImpl) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "CreatePost"))

	identity, _ := auth.IdentityFromContext(ctx)
	if err := auth.RequireActiveIdentity(identity); err != nil {
		if errors.Is(err, api.ErrInactiveUser) {
			api.ErrorResponse(w, r, http.StatusForbidden, err.Error())
			return
		}
		api.ErrorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	var params types.CreatePostParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if params.Title == "" || params.Content == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Both title and content are required")
		return
	}

	created, err := h.postService.CreatePost(ctx, identity.ID, params)
	if err != nil {
		l.ErrorContext(ctx, "Failed to create post", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to create post")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, created)
}

// UpdatePost godoc
// @Summary      Update Post
// @Description  Applies a partial update to the caller's own post. A non-nil
// @Description  tags array replaces the post's entire tag set.
// @Tags         Posts
// @Accept       json
// @Produce      json
// @Param        postID path string true "Post ID"
// @Param        body body types.UpdatePostParams true "Fields to update"
// @Success      200 {object} types.Post "Updated Post"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      401 {object} api.Response "Missing Identity"
// @Failure      403 {object} api.Response "Not Your Post"
// @Failure      404 {object} api.Response "Post Not Found"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /posts/{postID} [patch]
// @Security     BearerAuth
func (h *HandlerImpl) UpdatePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdatePost"))

	identity, _ := auth.IdentityFromContext(ctx)
	if err := auth.RequireActiveIdentity(identity); err != nil {
		if errors.Is(err, api.ErrInactiveUser) {
			api.ErrorResponse(w, r, http.StatusForbidden, err.Error())
			return
		}
		api.ErrorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	postID, err := uuid.Parse(chi.URLParam(r, "postID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid post ID format")
		return
	}

	// Existence before ownership: a missing post is a 404 for everyone.
	target, err := h.postService.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Post not found")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch target post", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update post")
		return
	}

	if err := auth.RequireOwnership(target.Author.ID, identity); err != nil {
		api.ErrorResponse(w, r, http.StatusForbidden, api.ErrUnauthorizedUser.Error())
		return
	}

	var params types.UpdatePostParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.postService.UpdatePost(ctx, postID, params)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Post not found")
			return
		}
		l.ErrorContext(ctx, "Failed to update post", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update post")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, updated)
}

// DeletePost godoc
// @Summary      Deactivate Post
// @Description  Soft-deletes the caller's own post. Tag links are kept.
// @Tags         Posts
// @Produce      json
// @Param        postID path string true "Post ID"
// @Success      200 {object} types.Post "Deactivated Post"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      401 {object} api.Response "Missing Identity"
// @Failure      403 {object} api.Response "Forbidden"
// @Failure      404 {object} api.Response "Post Not Found"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /posts/{postID} [delete]
// @Security     BearerAuth
func (h *HandlerImpl) DeletePost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeletePost"))

	identity, _ := auth.IdentityFromContext(ctx)
	if err := auth.RequireActiveIdentity(identity); err != nil {
		if errors.Is(err, api.ErrInactiveUser) {
			api.ErrorResponse(w, r, http.StatusForbidden, err.Error())
			return
		}
		api.ErrorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	postID, err := uuid.Parse(chi.URLParam(r, "postID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid post ID format")
		return
	}

	target, err := h.postService.GetPost(ctx, postID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "Post not found")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch target post", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to deactivate post")
		return
	}

	if err := auth.RequireOwnership(target.Author.ID, identity); err != nil {
		api.ErrorResponse(w, r, http.StatusForbidden, api.ErrUnauthorizedUser.Error())
		return
	}

	deactivated, err := h.postService.DeactivatePost(ctx, postID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to deactivate post", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to deactivate post")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, deactivated)
}
