// Package http wires the handlers, middleware and routes into the API server.
package http

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mdnotes/internal/handlers"
	"mdnotes/internal/i18n"
	"mdnotes/internal/service"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	AuthService    service.AuthService
	NotesService   service.NotesService
	DB             *sql.DB
	AllowedOrigins []string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	// Add chi middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(CORS(deps.AllowedOrigins))
	r.Use(LoggerMiddleware)

	r.NotFound(errorHandler(http.StatusNotFound, i18n.KeyNotFound))
	r.MethodNotAllowed(errorHandler(http.StatusMethodNotAllowed, i18n.KeyMethodNotAllowed))

	authHandler := handlers.NewAuthHandler(deps.AuthService)
	notesHandler := handlers.NewNotesHandler(deps.NotesService)
	previewHandler := handlers.NewPreviewHandler()
	healthHandler := handlers.NewHealthHandler(deps.DB)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)
		r.Post("/preview", previewHandler.Preview)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(Auth(deps.AuthService))
				r.Get("/me", authHandler.Me)
			})
		})

		r.Route("/notes", func(r chi.Router) {
			r.Use(Auth(deps.AuthService))
			r.Get("/", notesHandler.List)
			r.Post("/", notesHandler.Create)
			r.Get("/{noteID}", notesHandler.Get)
			r.Put("/{noteID}", notesHandler.Update)
			r.Delete("/{noteID}", notesHandler.Delete)
			r.Get("/{noteID}/export", notesHandler.Export)
		})
	})

	return r
}

// errorHandler builds the router's fallback responses for unknown routes and
// methods, localized like every other error.
func errorHandler(status int, key i18n.Key) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(handlers.ErrorResponse{
			Error: i18n.Message(r.Header.Get("Accept-Language"), key),
		})
	}
}
