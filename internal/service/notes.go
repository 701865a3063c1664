package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_notes_service.go -package=mocks mdnotes/internal/service NotesService

import (
	"context"
	"errors"
	"strings"

	"mdnotes/internal/storage"
)

// Note is the service-level view of a note. Content is raw markdown.
type Note struct {
	ID        string
	Title     string
	Content   string
	CreatedAt string
	UpdatedAt string
}

// UpdateNoteParams carries the optional fields of an update: a nil field
// keeps the stored value, so a rename does not have to resend the content.
type UpdateNoteParams struct {
	Title   *string
	Content *string
}

// NotesService defines the note CRUD operations, all scoped to the owning
// user. Requests for another user's note return ErrNotFound rather than
// revealing its existence.
type NotesService interface {
	List(ctx context.Context, userID, query string) ([]Note, error)
	Get(ctx context.Context, userID, noteID string) (*Note, error)
	Create(ctx context.Context, userID, title, content string) (*Note, error)
	Update(ctx context.Context, userID, noteID string, params UpdateNoteParams) (*Note, error)
	Delete(ctx context.Context, userID, noteID string) error
}

// Notes implements NotesService on top of the note repository.
type Notes struct {
	store storage.NoteStore
}

// NewNotes creates a new Notes service.
func NewNotes(store storage.NoteStore) *Notes {
	return &Notes{store: store}
}

// List returns the user's notes, newest first, optionally filtered by a
// substring query over title and content.
func (n *Notes) List(ctx context.Context, userID, query string) ([]Note, error) {
	records, err := n.store.ListByUser(ctx, userID, strings.TrimSpace(query))
	if err != nil {
		return nil, WrapError(err, "failed to list notes")
	}
	notes := make([]Note, len(records))
	for i, r := range records {
		notes[i] = toNote(&r)
	}
	return notes, nil
}

// Get returns one of the user's notes.
func (n *Notes) Get(ctx context.Context, userID, noteID string) (*Note, error) {
	record, err := n.owned(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}
	note := toNote(record)
	return &note, nil
}

// Create stores a new note for the user. An empty title is derived from the
// first heading or line of the content, falling back to "Untitled".
func (n *Notes) Create(ctx context.Context, userID, title, content string) (*Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = inferTitle(content)
	}
	record := &storage.NoteRecord{UserID: userID, Title: title, Content: content}
	if err := n.store.Create(ctx, record); err != nil {
		return nil, WrapError(err, "failed to create note")
	}
	return n.Get(ctx, userID, record.ID)
}

// Update applies a rename and/or content change to one of the user's notes.
func (n *Notes) Update(ctx context.Context, userID, noteID string, params UpdateNoteParams) (*Note, error) {
	if params.Title == nil && params.Content == nil {
		return nil, &ValidationError{Field: "body", Message: "nothing to update"}
	}
	record, err := n.owned(ctx, userID, noteID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		title := strings.TrimSpace(*params.Title)
		if title == "" {
			return nil, &ValidationError{Field: "title", Message: "cannot be empty"}
		}
		record.Title = title
	}
	if params.Content != nil {
		record.Content = *params.Content
	}

	if err := n.store.Update(ctx, record); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, WrapError(err, "failed to update note")
	}
	return n.Get(ctx, userID, noteID)
}

// Delete removes one of the user's notes.
func (n *Notes) Delete(ctx context.Context, userID, noteID string) error {
	if _, err := n.owned(ctx, userID, noteID); err != nil {
		return err
	}
	if err := n.store.Delete(ctx, noteID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return WrapError(err, "failed to delete note")
	}
	return nil
}

// owned loads a note and checks ownership. Foreign notes surface as
// ErrNotFound.
func (n *Notes) owned(ctx context.Context, userID, noteID string) (*storage.NoteRecord, error) {
	record, err := n.store.GetByID(ctx, noteID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, WrapError(err, "failed to load note")
	}
	if record.UserID != userID {
		return nil, ErrNotFound
	}
	return record, nil
}

func toNote(r *storage.NoteRecord) Note {
	return Note{
		ID:        r.ID,
		Title:     r.Title,
		Content:   r.Content,
		CreatedAt: r.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
		UpdatedAt: r.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

// inferTitle takes the first non-empty line, with any heading markers
// stripped.
func inferTitle(content string) string {
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#"))
		if line != "" {
			return line
		}
	}
	return "Untitled"
}
