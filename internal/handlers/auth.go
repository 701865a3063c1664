package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"mdnotes/internal/contextutil"
	"mdnotes/internal/i18n"
	"mdnotes/internal/service"
)

// AuthHandler handles signup, login, logout and the current-user endpoint.
type AuthHandler struct {
	auth service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// CredentialsRequest is the payload for signup and login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse represents an account.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// SessionResponse is returned by login.
type SessionResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// Signup registers a new account.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, r, http.StatusBadRequest, i18n.KeyInvalidBody)
		return
	}

	user, err := h.auth.Signup(ctx, req.Email, req.Password)
	if err != nil {
		handleServiceError(ctx, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, UserResponse{ID: user.ID, Email: user.Email})
}

// Login checks credentials and returns a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CredentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, r, http.StatusBadRequest, i18n.KeyInvalidBody)
		return
	}

	session, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		handleServiceError(ctx, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.UTC().Format("2006-01-02T15:04:05Z"),
	})
}

// Logout revokes the bearer token of the request.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	token := BearerToken(r)
	if token == "" {
		writeError(w, r, http.StatusUnauthorized, i18n.KeyUnauthorized)
		return
	}
	if err := h.auth.Logout(ctx, token); err != nil {
		handleServiceError(ctx, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the authenticated user. It must sit behind the auth middleware.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := contextutil.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, i18n.KeyUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, UserResponse{ID: user.ID, Email: user.Email})
}

// BearerToken extracts the token from an "Authorization: Bearer ..." header,
// returning "" when the header is missing or malformed.
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
