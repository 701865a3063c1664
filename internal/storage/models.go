package storage

import "time"

// UserRecord represents a row in the users table.
type UserRecord struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// SessionRecord represents a row in the sessions table. Token is the opaque
// bearer token handed to clients.
type SessionRecord struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NoteRecord represents a row in the notes table. Content is the raw
// markdown text of the note.
type NoteRecord struct {
	ID        string
	UserID    string
	Title     string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
