package tags

import (
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/FACorreiaa/go-juicebox-api/internal/api"
	"github.com/FACorreiaa/go-juicebox-api/internal/api/auth"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	GetAllTags(w http.ResponseWriter, r *http.Request)
	GetPostsByTagName(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	tagsService TagsService
	logger      *slog.Logger
}

// NewHandlerImpl creates a new tags HandlerImpl instance.
func NewHandlerImpl(tagsService TagsService, logger *slog.Logger) *HandlerImpl {
	if logger == nil {
		panic("PANIC: Attempting to create tags HandlerImpl with nil logger!")
	}
	return &HandlerImpl{
		tagsService: tagsService,
		logger:      logger,
	}
}

// GetAllTags godoc
// @Summary      List Tags
// @Description  Returns every tag in use.
// @Tags         Tags
// @Produce      json
// @Success      200 {array} types.Tag "Tags"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /tags [get]
func (h *HandlerImpl) GetAllTags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetAllTags"))

	allTags, err := h.tagsService.GetAllTags(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list tags", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch tags")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, allTags)
}

// GetPostsByTagName godoc
// @Summary      Posts By Tag
// @Description  Returns the posts carrying a tag that are visible to the
// @Description  caller. Tag names may start with an URL-encoded "#" (%23).
// @Tags         Tags
// @Produce      json
// @Param        tagName path string true "Tag Name"
// @Success      200 {array} types.Post "Posts"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /tags/{tagName}/posts [get]
func (h *HandlerImpl) GetPostsByTagName(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetPostsByTagName"))

	// chi routes on the raw path when the segment holds escaped bytes, so
	// a "#happy" tag arrives here as "%23happy".
	tagName := chi.URLParam(r, "tagName")
	if decoded, err := url.PathUnescape(tagName); err == nil {
		tagName = decoded
	}

	identity, _ := auth.IdentityFromContext(ctx)
	posts, err := h.tagsService.GetPostsByTag(ctx, tagName, identity)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list posts by tag", slog.Any("error", err), slog.String("tag", tagName))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch posts by tag")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, posts)
}
