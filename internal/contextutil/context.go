package contextutil

import (
	"context"
	"log/slog"

	"mdnotes/internal/service"
)

type contextKey string

const (
	loggerKey contextKey = "logger"
	userKey   contextKey = "user"
)

// WithLogger stores a request-scoped logger in the context.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// LoggerFromContext extracts a logger from context if available, otherwise
// returns the default logger. This helper can be used by any package that
// needs to extract a logger from context.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctxLogger := ctx.Value(loggerKey); ctxLogger != nil {
		if l, ok := ctxLogger.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}

// WithUser stores the authenticated user in the context.
func WithUser(ctx context.Context, user *service.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFromContext extracts the authenticated user set by the auth middleware.
func UserFromContext(ctx context.Context) (*service.User, bool) {
	user, ok := ctx.Value(userKey).(*service.User)
	return user, ok && user != nil
}
