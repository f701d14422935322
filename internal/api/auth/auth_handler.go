package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/FACorreiaa/go-juicebox-api/internal/api"
)

var _ Handler = (*HandlerImpl)(nil)

type Handler interface {
	Register(w http.ResponseWriter, r *http.Request)
	Login(w http.ResponseWriter, r *http.Request)
}

type HandlerImpl struct {
	authService AuthService
	logger      *slog.Logger
}

// NewHandlerImpl creates a new auth HandlerImpl instance.
func NewHandlerImpl(authService AuthService, logger *slog.Logger) *HandlerImpl {
	if logger == nil {
		panic("PANIC: Attempting to create auth HandlerImpl with nil logger!")
	}
	return &HandlerImpl{
		authService: authService,
		logger:      logger,
	}
}

// Register godoc
// @Summary      Register User
// @Description  Creates a new user account and returns a registration token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body api.RegisterRequest true "Registration Parameters"
// @Success      201 {object} api.RegisterResponse "Registered"
// @Failure      400 {object} api.Response "Invalid Input"
// @Failure      409 {object} api.Response "Username Taken"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /users/register [post]
func (h *HandlerImpl) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Register"))

	var req api.RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.Username == "" || req.Password == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, api.ErrMissingCredentials.Error())
		return
	}

	token, err := h.authService.Register(ctx, req.Username, req.Password, req.Name, req.Location)
	if err != nil {
		if errors.Is(err, api.ErrConflict) {
			api.ErrorResponse(w, r, http.StatusConflict, "A user by that username already exists")
			return
		}
		l.ErrorContext(ctx, "Registration failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to register user")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, api.RegisterResponse{
		Token:   token,
		Message: "thank you for signing up!",
	})
}

// Login godoc
// @Summary      Login
// @Description  Verifies credentials and returns a session token.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body body api.LoginRequest true "Login Parameters"
// @Success      200 {object} api.LoginResponse "Logged In"
// @Failure      400 {object} api.Response "Missing Credentials"
// @Failure      401 {object} api.Response "Incorrect Credentials"
// @Failure      500 {object} api.Response "Internal Server Error"
// @Router       /users/login [post]
func (h *HandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	var req api.LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrMissingCredentials):
			api.ErrorResponse(w, r, http.StatusBadRequest, api.ErrMissingCredentials.Error())
		case errors.Is(err, api.ErrIncorrectCredentials):
			api.ErrorResponse(w, r, http.StatusUnauthorized, api.ErrIncorrectCredentials.Error())
		default:
			l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to log in")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.LoginResponse{
		Token:   token,
		Message: "you're logged in!",
	})
}
