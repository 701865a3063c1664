// Package handlers contains the HTTP handlers of the API. Handlers decode
// JSON payloads, call the service layer, and map service errors to status
// codes with messages localized by the request's Accept-Language header.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"mdnotes/internal/contextutil"
	"mdnotes/internal/i18n"
	"mdnotes/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a localized error response.
func writeError(w http.ResponseWriter, r *http.Request, status int, key i18n.Key) {
	writeJSON(w, status, ErrorResponse{
		Error: i18n.Message(r.Header.Get("Accept-Language"), key),
	})
}

// handleServiceError maps service errors to appropriate HTTP status codes.
func handleServiceError(ctx context.Context, w http.ResponseWriter, r *http.Request, err error) {
	logger := contextutil.LoggerFromContext(ctx)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		logger.WarnContext(ctx, "validation error", "field", validationErr.Field, "error", err)
		writeError(w, r, http.StatusBadRequest, i18n.KeyValidationFailed)
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidInput):
		logger.WarnContext(ctx, "invalid input", "error", err)
		writeError(w, r, http.StatusBadRequest, i18n.KeyValidationFailed)
	case errors.Is(err, service.ErrNotFound):
		writeError(w, r, http.StatusNotFound, i18n.KeyNotFound)
	case errors.Is(err, service.ErrUnauthorized):
		writeError(w, r, http.StatusUnauthorized, i18n.KeyUnauthorized)
	case errors.Is(err, service.ErrEmailTaken):
		writeError(w, r, http.StatusConflict, i18n.KeyEmailTaken)
	default:
		logger.ErrorContext(ctx, "service error", "error", err)
		writeError(w, r, http.StatusInternalServerError, i18n.KeyInternalError)
	}
}
