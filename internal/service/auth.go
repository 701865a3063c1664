package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_auth_service.go -package=mocks mdnotes/internal/service AuthService

import (
	"context"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"mdnotes/internal/storage"
)

// User is the service-level view of an account.
type User struct {
	ID    string
	Email string
}

// Session is a logged-in session: the opaque token clients send back as a
// bearer credential, plus its expiry.
type Session struct {
	Token     string
	UserID    string
	ExpiresAt time.Time
}

// AuthService defines signup, login and session validation.
type AuthService interface {
	// Signup registers a new account. Returns ErrEmailTaken for duplicate
	// emails and ValidationError for malformed input.
	Signup(ctx context.Context, email, password string) (*User, error)
	// Login checks credentials and opens a session.
	// Returns ErrUnauthorized when they do not match.
	Login(ctx context.Context, email, password string) (*Session, error)
	// Logout revokes a session token. Revoking an unknown token is not an error.
	Logout(ctx context.Context, token string) error
	// Authenticate resolves a session token to its user.
	// Returns ErrUnauthorized for unknown or expired tokens.
	Authenticate(ctx context.Context, token string) (*User, error)
}

// Auth implements AuthService on top of the user and session repositories.
type Auth struct {
	users      storage.UserStore
	sessions   storage.SessionStore
	sessionTTL time.Duration
	bcryptCost int
}

// NewAuth creates a new Auth service.
func NewAuth(users storage.UserStore, sessions storage.SessionStore, sessionTTL time.Duration, bcryptCost int) *Auth {
	return &Auth{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		bcryptCost: bcryptCost,
	}
}

// Signup registers a new account.
func (a *Auth) Signup(ctx context.Context, email, password string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, &ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	if len(password) < 8 {
		return nil, &ValidationError{Field: "password", Message: "must be at least 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return nil, WrapError(err, "failed to hash password")
	}

	record := &storage.UserRecord{Email: email, PasswordHash: string(hash)}
	if err := a.users.Create(ctx, record); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, WrapError(err, "failed to create user")
	}
	return &User{ID: record.ID, Email: record.Email}, nil
}

// Login checks credentials and opens a session.
func (a *Auth) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	record, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, WrapError(err, "failed to look up user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		return nil, ErrUnauthorized
	}

	session := &storage.SessionRecord{
		UserID:    record.ID,
		ExpiresAt: time.Now().Add(a.sessionTTL),
	}
	if err := a.sessions.Create(ctx, session); err != nil {
		return nil, WrapError(err, "failed to create session")
	}
	return &Session{
		Token:     session.Token,
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Logout revokes a session token.
func (a *Auth) Logout(ctx context.Context, token string) error {
	if token == "" {
		return ErrUnauthorized
	}
	return a.sessions.Delete(ctx, token)
}

// Authenticate resolves a session token to its user.
func (a *Auth) Authenticate(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}
	session, err := a.sessions.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, WrapError(err, "failed to look up session")
	}
	if time.Now().After(session.ExpiresAt) {
		// Lazily reap the dead session.
		_ = a.sessions.Delete(ctx, session.Token)
		return nil, ErrUnauthorized
	}

	record, err := a.users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, WrapError(err, "failed to look up session user")
	}
	return &User{ID: record.ID, Email: record.Email}, nil
}
