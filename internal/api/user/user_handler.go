package user

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
	GetAllUsers(w http.ResponseWriter, r *http.Request)
	GetUserProfile(w http.ResponseWriter, r *http.Request)
	UpdateUser(w http.ResponseWriter, r *http.Request)
	DeleteUser(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	userService UserService
	logger      *slog.Logger
}

// NewHandlerImpl creates a new user HandlerImpl instance.
func NewHandlerImpl(userService UserService, logger *slog.Logger) *HandlerImpl {
	if logger == nil {
		panic("PANIC: Attempting to create user HandlerImpl with nil logger!")
	}
	return &HandlerImpl{
		userService: userService,
		logger:      logger,
	}
}

// GetAllUsers godoc
// @Summary      List Users
// @Description  Returns every user account without password material.
// @Tags         Users
// @Produce      json
// @Success      200 {array} types.User "Users"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /users [get]
func (h *HandlerImpl) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetAllUsers"))

	users, err := h.userService.GetAllUsers(ctx)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list users", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch users")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, users)
}

// GetUserProfile godoc
// @Summary      User Profile
// @Description  Returns a user together with the posts they authored.
// @Tags         Users
// @Produce      json
// @Param        userID path string true "User ID"
// @Success      200 {object} types.UserProfile "Profile"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      404 {object} api.Response "User Not Found"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /users/{userID} [get]
func (h *HandlerImpl) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "GetUserProfile"))

	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	profile, err := h.userService.GetUserProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch user profile", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch user profile")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, profile)
}

// UpdateUser godoc
// @Summary      Update User
// @Description  Applies a partial update to the caller's own account.
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        userID path string true "User ID"
// @Param        body body types.UpdateUserParams true "Fields to update"
// @Success      200 {object} types.User "Updated User"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      401 {object} api.Response "Missing Identity"
// @Failure      403 {object} api.Response "Not Your Account"
// @Failure      404 {object} api.Response "User Not Found"
// @Failure      409 {object} api.Response "Username Taken"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /users/{userID} [patch]
// @Security     BearerAuth
func (h *HandlerImpl) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "UpdateUser"))

	identity, _ := auth.IdentityFromContext(ctx)
	if err := auth.RequireIdentity(identity); err != nil {
		api.ErrorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	// Existence before ownership: a missing target is a 404 for everyone.
	target, err := h.userService.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch target user", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update user")
		return
	}

	if err := auth.RequireOwnership(target.ID, identity); err != nil {
		api.ErrorResponse(w, r, http.StatusForbidden, api.ErrUnauthorizedUser.Error())
		return
	}

	var params types.UpdateUserParams
	if err := api.DecodeJSONBody(w, r, &params); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := h.userService.UpdateUser(ctx, userID, params)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrConflict):
			api.ErrorResponse(w, r, http.StatusConflict, "A user by that username already exists")
		case errors.Is(err, api.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		default:
			l.ErrorContext(ctx, "Failed to update user", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to update user")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, updated)
}

// DeleteUser godoc
// @Summary      Deactivate User
// @Description  Soft-deletes the caller's own account. Posts are untouched.
// @Tags         Users
// @Produce      json
// @Param        userID path string true "User ID"
// @Success      200 {object} types.User "Deactivated User"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      401 {object} api.Response "Missing Identity"
// @Failure      403 {object} api.Response "Forbidden"
// @Failure      404 {object} api.Response "User Not Found"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /users/{userID} [delete]
// @Security     BearerAuth
func (h *HandlerImpl) DeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "DeleteUser"))

	identity, _ := auth.IdentityFromContext(ctx)
	if err := auth.RequireActiveIdentity(identity); err != nil {
		if errors.Is(err, api.ErrInactiveUser) {
			api.ErrorResponse(w, r, http.StatusForbidden, err.Error())
			return
		}
		api.ErrorResponse(w, r, http.StatusUnauthorized, err.Error())
		return
	}

	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return
	}

	target, err := h.userService.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		l.ErrorContext(ctx, "Failed to fetch target user", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to deactivate user")
		return
	}

	if err := auth.RequireOwnership(target.ID, identity); err != nil {
		api.ErrorResponse(w, r, http.StatusForbidden, api.ErrUnauthorizedUser.Error())
		return
	}

	deactivated, err := h.userService.DeactivateUser(ctx, userID)
	if err != nil {
		l.ErrorContext(ctx, "Failed to deactivate user", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to deactivate user")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, deactivated)
}
