package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_user_store.go -package=mocks mdnotes/internal/storage UserStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("record already exists")
)

// dbTimeFormat is how SQLite serializes CURRENT_TIMESTAMP.
const dbTimeFormat = "2006-01-02 15:04:05"

// parseDBTime parses a DATETIME column value, falling back to RFC3339 for
// values written by the driver rather than by SQLite itself.
func parseDBTime(s string) (time.Time, error) {
	if t, err := time.Parse(dbTimeFormat, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", s, err)
	}
	return t, nil
}

// UserStore defines the interface for user storage operations.
type UserStore interface {
	// Create inserts a new user. Returns ErrDuplicate if the email is taken.
	Create(ctx context.Context, user *UserRecord) error
	// GetByEmail gets a user by email. Returns ErrNotFound if absent.
	GetByEmail(ctx context.Context, email string) (*UserRecord, error)
	// GetByID gets a user by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*UserRecord, error)
}

// UserRepo provides methods for user operations.
// It implements the UserStore interface.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new user, generating a UUID when the record has no ID.
func (r *UserRepo) Create(ctx context.Context, user *UserRecord) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users (id, email, password_hash) VALUES (?, ?, ?)",
		user.ID, user.Email, user.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetByEmail gets a user by email. Returns ErrNotFound if absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*UserRecord, error) {
	return r.getBy(ctx, "email = ?", email)
}

// GetByID gets a user by ID. Returns ErrNotFound if absent.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*UserRecord, error) {
	return r.getBy(ctx, "id = ?", id)
}

func (r *UserRepo) getBy(ctx context.Context, where string, arg any) (*UserRecord, error) {
	var user UserRecord
	var createdAtStr string

	err := r.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at FROM users WHERE "+where,
		arg,
	).Scan(&user.ID, &user.Email, &user.PasswordHash, &createdAtStr)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user: %w", err)
	}

	user.CreatedAt, err = parseDBTime(createdAtStr)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// isUniqueViolation checks for SQLite's UNIQUE constraint error without
// leaking driver error types to callers.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
