package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"strings"
	"time"

	"mdnotes/internal/config"
	"mdnotes/internal/http"
	"mdnotes/internal/service"
	"mdnotes/internal/storage"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	// Create repository instances
	userRepo := storage.NewUserRepo(db)
	sessionRepo := storage.NewSessionRepo(db)
	noteRepo := storage.NewNoteRepo(db)

	// Create services
	authService := service.NewAuth(userRepo, sessionRepo, cfg.SessionTTL, cfg.BcryptCost)
	notesService := service.NewNotes(noteRepo)

	// Sweep expired sessions periodically so the table does not grow unbounded
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			ctx := context.Background()
			n, err := sessionRepo.DeleteExpired(ctx)
			if err != nil {
				slog.Error("Failed to sweep expired sessions", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("Swept expired sessions", "count", n)
			}
		}
	}()

	// Create router with dependencies
	deps := &http.Deps{
		AuthService:    authService,
		NotesService:   notesService,
		DB:             db,
		AllowedOrigins: parseOrigins(cfg.AllowedOrigins),
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}

// parseOrigins splits the comma-separated ALLOWED_ORIGINS value. "*" means
// no allowlist, which the CORS middleware treats as allow-any.
func parseOrigins(s string) []string {
	if s == "" || s == "*" {
		return nil
	}
	var origins []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
