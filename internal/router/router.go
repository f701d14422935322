package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/FACorreiaa/go-juicebox-api/internal/api/auth"
	"github.com/FACorreiaa/go-juicebox-api/internal/api/post"
	"github.com/FACorreiaa/go-juicebox-api/internal/api/tags"
	"github.com/FACorreiaa/go-juicebox-api/internal/api/user"
)

// Config contains the handlers and middleware the router wires together.
type Config struct {
	AuthHandler auth.Handler
	UserHandler user.Handler
	PostHandler post.Handler
	TagsHandler tags.Handler

	// IdentityMiddleware resolves the bearer token (if any) into a request
	// identity. It is applied to the whole /api group; authorization itself
	// happens per handler.
	IdentityMiddleware func(http.Handler) http.Handler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are expected to be
// applied before mounting this router in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	r.Route("/api", func(r chi.Router) {
		// Every /api route sees the resolved identity; a request with no
		// (or dangling) token proceeds as anonymous.
		r.Use(cfg.IdentityMiddleware)

		r.Route("/users", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
			r.Get("/", cfg.UserHandler.GetAllUsers)
			r.Get("/{userID}", cfg.UserHandler.GetUserProfile)
			r.Patch("/{userID}", cfg.UserHandler.UpdateUser)
			r.Delete("/{userID}", cfg.UserHandler.DeleteUser)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", cfg.PostHandler.GetAllPosts)
			r.Post("/", cfg.PostHandler.CreatePost)
			r.Patch("/{postID}", cfg.PostHandler.UpdatePost)
			r.Delete("/{postID}", cfg.PostHandler.DeletePost)
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", cfg.TagsHandler.GetAllTags)
			r.Get("/{tagName}/posts", cfg.TagsHandler.GetPostsByTagName)
		})
	})

	return r
}
