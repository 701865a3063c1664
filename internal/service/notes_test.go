package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"mdnotes/internal/service"
	"mdnotes/internal/storage"
	"mdnotes/internal/storage/mocks"
)

func noteRecord(id, userID, title, content string) *storage.NoteRecord {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	return &storage.NoteRecord{
		ID:        id,
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestNotes_CreateInfersTitle(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		content   string
		wantTitle string
	}{
		{"explicit title wins", "My note", "# Heading", "My note"},
		{"heading becomes title", "", "# Heading\nbody", "Heading"},
		{"first line becomes title", "", "\n\nplain start", "plain start"},
		{"empty content falls back", "", "", "Untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := mocks.NewMockNoteStore(ctrl)
			store.EXPECT().
				Create(gomock.Any(), gomock.Any()).
				DoAndReturn(func(_ context.Context, r *storage.NoteRecord) error {
					if r.Title != tt.wantTitle {
						t.Errorf("Create() title = %q, want %q", r.Title, tt.wantTitle)
					}
					r.ID = "n1"
					return nil
				})
			store.EXPECT().
				GetByID(gomock.Any(), "n1").
				Return(noteRecord("n1", "u1", tt.wantTitle, tt.content), nil)

			svc := service.NewNotes(store)
			note, err := svc.Create(context.Background(), "u1", tt.title, tt.content)
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if note.ID != "n1" || note.Title != tt.wantTitle {
				t.Errorf("Create() = %+v", note)
			}
		})
	}
}

func TestNotes_GetChecksOwnership(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockNoteStore(ctrl)
	store.EXPECT().
		GetByID(gomock.Any(), "n1").
		Return(noteRecord("n1", "someone-else", "t", "c"), nil)

	svc := service.NewNotes(store)
	_, err := svc.Get(context.Background(), "u1", "n1")
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Get() foreign note error = %v, want ErrNotFound", err)
	}
}

func TestNotes_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockNoteStore(ctrl)
	store.EXPECT().
		GetByID(gomock.Any(), "n1").
		Return(noteRecord("n1", "u1", "old", "old body"), nil)
	store.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, r *storage.NoteRecord) error {
			if r.Title != "new" {
				t.Errorf("Update() title = %q, want new", r.Title)
			}
			if r.Content != "old body" {
				t.Errorf("Update() content = %q, want unchanged", r.Content)
			}
			return nil
		})
	store.EXPECT().
		GetByID(gomock.Any(), "n1").
		Return(noteRecord("n1", "u1", "new", "old body"), nil)

	svc := service.NewNotes(store)
	title := "new"
	note, err := svc.Update(context.Background(), "u1", "n1", service.UpdateNoteParams{Title: &title})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if note.Title != "new" {
		t.Errorf("Update() = %+v", note)
	}
}

func TestNotes_UpdateValidation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc := service.NewNotes(mocks.NewMockNoteStore(ctrl))
	var valErr *service.ValidationError

	_, err := svc.Update(context.Background(), "u1", "n1", service.UpdateNoteParams{})
	if !errors.As(err, &valErr) {
		t.Errorf("Update() with no fields error = %v, want ValidationError", err)
	}
}

func TestNotes_UpdateEmptyTitle(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockNoteStore(ctrl)
	store.EXPECT().
		GetByID(gomock.Any(), "n1").
		Return(noteRecord("n1", "u1", "old", "body"), nil)

	svc := service.NewNotes(store)
	empty := "   "
	var valErr *service.ValidationError
	_, err := svc.Update(context.Background(), "u1", "n1", service.UpdateNoteParams{Title: &empty})
	if !errors.As(err, &valErr) {
		t.Errorf("Update() blank title error = %v, want ValidationError", err)
	}
}

func TestNotes_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockNoteStore(ctrl)
	store.EXPECT().
		GetByID(gomock.Any(), "n1").
		Return(noteRecord("n1", "u1", "t", "c"), nil)
	store.EXPECT().Delete(gomock.Any(), "n1").Return(nil)

	svc := service.NewNotes(store)
	if err := svc.Delete(context.Background(), "u1", "n1"); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
}

func TestNotes_List(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockNoteStore(ctrl)
	store.EXPECT().
		ListByUser(gomock.Any(), "u1", "milk").
		Return([]storage.NoteRecord{*noteRecord("n1", "u1", "groceries", "- milk")}, nil)

	svc := service.NewNotes(store)
	notes, err := svc.List(context.Background(), "u1", "  milk ")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(notes) != 1 || notes[0].Title != "groceries" {
		t.Errorf("List() = %+v", notes)
	}
}
