package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_session_store.go -package=mocks mdnotes/internal/storage SessionStore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionStore defines the interface for session storage operations.
type SessionStore interface {
	// Create inserts a new session, generating the token if empty.
	Create(ctx context.Context, session *SessionRecord) error
	// GetByToken gets a session by token. Returns ErrNotFound if absent.
	GetByToken(ctx context.Context, token string) (*SessionRecord, error)
	// Delete removes a session by token. Deleting a missing token is not an error.
	Delete(ctx context.Context, token string) error
	// DeleteExpired removes all sessions past their expiry.
	DeleteExpired(ctx context.Context) (int64, error)
}

// SessionRepo provides methods for session operations.
// It implements the SessionStore interface.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo creates a new SessionRepo.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create inserts a new session, generating the token if empty.
func (r *SessionRepo) Create(ctx context.Context, session *SessionRecord) error {
	if session.Token == "" {
		session.Token = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)",
		session.Token, session.UserID, session.ExpiresAt.UTC().Format(dbTimeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetByToken gets a session by token. Returns ErrNotFound if absent.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*SessionRecord, error) {
	var session SessionRecord
	var createdAtStr, expiresAtStr string

	err := r.db.QueryRowContext(ctx,
		"SELECT token, user_id, created_at, expires_at FROM sessions WHERE token = ?",
		token,
	).Scan(&session.Token, &session.UserID, &createdAtStr, &expiresAtStr)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	if session.CreatedAt, err = parseDBTime(createdAtStr); err != nil {
		return nil, err
	}
	if session.ExpiresAt, err = parseDBTime(expiresAtStr); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete removes a session by token.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE token = ?", token); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired removes all sessions past their expiry and reports how many
// rows were removed.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE expires_at < ?",
		time.Now().UTC().Format(dbTimeFormat),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted sessions: %w", err)
	}
	return n, nil
}
