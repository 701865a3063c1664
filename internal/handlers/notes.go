package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	ghhtml "github.com/yuin/goldmark/renderer/html"

	"mdnotes/internal/contextutil"
	"mdnotes/internal/i18n"
	"mdnotes/internal/service"
)

// NotesHandler handles the note CRUD and export endpoints. All routes sit
// behind the auth middleware, so the user is always present in the context.
type NotesHandler struct {
	notes    service.NotesService
	exporter goldmark.Markdown
	template *template.Template
}

// NewNotesHandler creates a new NotesHandler.
func NewNotesHandler(notes service.NotesService) *NotesHandler {
	tmpl := template.Must(template.New("export").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', 'Hiragino Sans', sans-serif;
      margin: 0 auto;
      padding: 2rem;
      max-width: 800px;
      line-height: 1.7;
    }
    pre {
      background: #f5f5f5;
      padding: 1rem;
      overflow-x: auto;
      border-radius: 8px;
    }
    code {
      font-family: 'SFMono-Regular', Consolas, Menlo, monospace;
    }
    blockquote {
      border-left: 4px solid #ccc;
      padding-left: 1rem;
      margin-left: 0;
      color: #555;
    }
    table {
      border-collapse: collapse;
    }
    th, td {
      border: 1px solid #ccc;
      padding: 0.4rem 0.8rem;
    }
  </style>
</head>
<body>
  <article>{{.Content}}</article>
</body>
</html>`))

	return &NotesHandler{
		notes: notes,
		exporter: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Table,
				extension.TaskList,
				extension.Strikethrough,
			),
			goldmark.WithRendererOptions(
				ghhtml.WithHardWraps(),
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
		template: tmpl,
	}
}

// NoteResponse represents a note.
type NoteResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// NoteRequest is the payload for creating a note.
type NoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// UpdateNoteRequest is the payload for updating a note. Absent fields keep
// their stored values, so a rename does not resend the content.
type UpdateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// ListNotesResponse wraps the note collection.
type ListNotesResponse struct {
	Notes []NoteResponse `json:"notes"`
}

func toNoteResponse(n *service.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// List returns the user's notes, optionally filtered by ?q=.
func (h *NotesHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := contextutil.UserFromContext(ctx)

	notes, err := h.notes.List(ctx, user.ID, r.URL.Query().Get("q"))
	if err != nil {
		handleServiceError(ctx, w, r, err)
		return
	}
	resp := ListNotesResponse{Notes: make([]NoteResponse, len(notes))}
	for i := range notes {
		resp.Notes[i] = toNoteResponse(&notes[i])
	}
	writeJSON(w, http.StatusOK, resp)
}

// Create stores a new note.
func (h *NotesHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := contextutil.UserFromContext(ctx)

	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, r, http.StatusBadRequest, i18n.KeyInvalidBody)
		return
	}

	note, err := h.notes.Create(ctx, user.ID, req.Title, req.Content)
	if err != nil {
		handleServiceError(ctx, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toNoteResponse(note))
}

// Get returns a single note.
func (h *NotesHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := contextutil.UserFromContext(ctx)

	note, err := h.notes.Get(ctx, user.ID, chi.URLParam(r, "noteID"))
	if err != nil {
		handleServiceError(ctx, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponse(note))
}

// Update renames a note and/or replaces its content.
func (h *NotesHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := contextutil.UserFromContext(ctx)

	var req UpdateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, r, http.StatusBadRequest, i18n.KeyInvalidBody)
		return
	}

	note, err := h.notes.Update(ctx, user.ID, chi.URLParam(r, "noteID"), service.UpdateNoteParams{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		handleServiceError(ctx, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toNoteResponse(note))
}

// Delete removes a note.
func (h *NotesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := contextutil.UserFromContext(ctx)

	if err := h.notes.Delete(ctx, user.ID, chi.URLParam(r, "noteID")); err != nil {
		handleServiceError(ctx, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Export downloads a note as a markdown attachment or a rendered HTML page,
// selected by ?format=markdown|html (markdown by default).
func (h *NotesHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user, _ := contextutil.UserFromContext(ctx)
	logger := contextutil.LoggerFromContext(ctx)

	note, err := h.notes.Get(ctx, user.ID, chi.URLParam(r, "noteID"))
	if err != nil {
		handleServiceError(ctx, w, r, err)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "markdown", "md":
		filename := exportFilename(note.Title) + ".md"
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		_, _ = w.Write([]byte(note.Content))
	case "html":
		var buf bytes.Buffer
		if err := h.exporter.Convert([]byte(note.Content), &buf); err != nil {
			logger.ErrorContext(ctx, "failed to render markdown", "note_id", note.ID, "error", err)
			writeError(w, r, http.StatusInternalServerError, i18n.KeyInternalError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		data := struct {
			Title   string
			Content template.HTML
		}{
			Title:   note.Title,
			Content: template.HTML(buf.String()),
		}
		if err := h.template.Execute(w, data); err != nil {
			logger.ErrorContext(ctx, "failed to execute export template", "note_id", note.ID, "error", err)
		}
	default:
		writeError(w, r, http.StatusBadRequest, i18n.KeyValidationFailed)
	}
}

// exportFilename keeps the title readable in a filename while dropping path
// separators and quotes.
func exportFilename(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', '\n', '\r':
			return '_'
		}
		return r
	}, strings.TrimSpace(title))
	if name == "" {
		return "note"
	}
	return name
}
