package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"mdnotes/internal/contextutil"
	"mdnotes/internal/handlers"
	"mdnotes/internal/i18n"
	"mdnotes/internal/service"
)

// LoggerMiddleware adds a structured logger to the request context.
func LoggerMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := contextutil.LoggerFromContext(r.Context()).With(
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
		)
		ctx := contextutil.WithLogger(r.Context(), logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CORS adds CORS headers. When allowedOrigins is empty any origin is echoed
// back; otherwise only listed origins are allowed.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimSpace(o)] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			switch {
			case origin == "":
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case len(allowed) == 0 || allowed[origin]:
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Accept-Language")
			w.Header().Set("Access-Control-Max-Age", "3600")

			// Handle preflight requests
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Auth resolves the bearer token to a user and stores it in the context.
// Requests without a valid session get a 401 and never reach the handler.
func Auth(auth service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := handlers.BearerToken(r)
			if token == "" {
				unauthorized(w, r)
				return
			}
			user, err := auth.Authenticate(ctx, token)
			if err != nil {
				contextutil.LoggerFromContext(ctx).WarnContext(ctx, "authentication failed", "error", err)
				unauthorized(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(contextutil.WithUser(ctx, user)))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(handlers.ErrorResponse{
		Error: i18n.Message(r.Header.Get("Accept-Language"), i18n.KeyUnauthorized),
	})
}
