package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_note_store.go -package=mocks mdnotes/internal/storage NoteStore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// NoteStore defines the interface for note storage operations.
type NoteStore interface {
	// Create inserts a new note, generating a UUID when the record has no ID.
	Create(ctx context.Context, note *NoteRecord) error
	// GetByID gets a note by ID. Returns ErrNotFound if absent.
	GetByID(ctx context.Context, id string) (*NoteRecord, error)
	// ListByUser returns a user's notes, newest first. A non-empty query
	// filters by substring match on title or content.
	ListByUser(ctx context.Context, userID, query string) ([]NoteRecord, error)
	// Update persists title and content changes. Returns ErrNotFound if absent.
	Update(ctx context.Context, note *NoteRecord) error
	// Delete removes a note by ID. Returns ErrNotFound if absent.
	Delete(ctx context.Context, id string) error
}

// NoteRepo provides methods for note operations.
// It implements the NoteStore interface.
type NoteRepo struct {
	db *sql.DB
}

// NewNoteRepo creates a new NoteRepo.
func NewNoteRepo(db *sql.DB) *NoteRepo {
	return &NoteRepo{db: db}
}

// Create inserts a new note, generating a UUID when the record has no ID.
func (r *NoteRepo) Create(ctx context.Context, note *NoteRecord) error {
	if note.ID == "" {
		note.ID = uuid.New().String()
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO notes (id, user_id, title, content) VALUES (?, ?, ?, ?)",
		note.ID, note.UserID, note.Title, note.Content,
	)
	if err != nil {
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

// GetByID gets a note by ID. Returns ErrNotFound if absent.
func (r *NoteRepo) GetByID(ctx context.Context, id string) (*NoteRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, title, content, created_at, updated_at FROM notes WHERE id = ?",
		id,
	)
	note, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query note: %w", err)
	}
	return note, nil
}

// ListByUser returns a user's notes, newest first.
func (r *NoteRepo) ListByUser(ctx context.Context, userID, query string) ([]NoteRecord, error) {
	sqlQuery := "SELECT id, user_id, title, content, created_at, updated_at FROM notes WHERE user_id = ?"
	args := []any{userID}
	if query != "" {
		sqlQuery += " AND (title LIKE ? OR content LIKE ?)"
		pattern := "%" + query + "%"
		args = append(args, pattern, pattern)
	}
	sqlQuery += " ORDER BY updated_at DESC, id"

	rows, err := r.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var notes []NoteRecord
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, *note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}
	return notes, nil
}

// Update persists title and content changes and bumps updated_at.
func (r *NoteRepo) Update(ctx context.Context, note *NoteRecord) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE notes SET title = ?, content = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		note.Title, note.Content, note.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count updated notes: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a note by ID. Returns ErrNotFound if absent.
func (r *NoteRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count deleted notes: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (*NoteRecord, error) {
	var note NoteRecord
	var createdAtStr, updatedAtStr string
	if err := s.Scan(&note.ID, &note.UserID, &note.Title, &note.Content, &createdAtStr, &updatedAtStr); err != nil {
		return nil, err
	}
	var err error
	if note.CreatedAt, err = parseDBTime(createdAtStr); err != nil {
		return nil, err
	}
	if note.UpdatedAt, err = parseDBTime(updatedAtStr); err != nil {
		return nil, err
	}
	return &note, nil
}
