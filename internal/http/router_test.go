package http

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/mock/gomock"

	"mdnotes/internal/service"
	"mdnotes/internal/service/mocks"
)

func newTestDeps(t *testing.T, ctrl *gomock.Controller) (*Deps, *mocks.MockAuthService, *mocks.MockNotesService) {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	auth := mocks.NewMockAuthService(ctrl)
	notes := mocks.NewMockNotesService(ctrl)
	return &Deps{
		AuthService:  auth,
		NotesService: notes,
		DB:           db,
	}, auth, notes
}

func TestNewRouter(t *testing.T) {
	ctrl := gomock.NewController(t)
	deps, _, _ := newTestDeps(t, ctrl)

	if NewRouter(deps) == nil {
		t.Fatal("NewRouter() returned nil")
	}
}

func TestRouter_Routes(t *testing.T) {
	ctrl := gomock.NewController(t)
	deps, auth, notes := newTestDeps(t, ctrl)

	auth.EXPECT().
		Authenticate(gomock.Any(), "tok-123").
		Return(&service.User{ID: "u1", Email: "alice@example.com"}, nil).
		AnyTimes()
	auth.EXPECT().
		Authenticate(gomock.Any(), gomock.Not("tok-123")).
		Return(nil, service.ErrUnauthorized).
		AnyTimes()
	notes.EXPECT().
		List(gomock.Any(), "u1", "").
		Return(nil, nil).
		AnyTimes()

	router := NewRouter(deps)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{
			name:       "GET /api/health",
			method:     http.MethodGet,
			path:       "/api/health",
			wantStatus: http.StatusOK,
		},
		{
			name:       "POST /api/preview without body",
			method:     http.MethodPost,
			path:       "/api/preview",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "POST /api/auth/signup without body",
			method:     http.MethodPost,
			path:       "/api/auth/signup",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "GET /api/notes without token",
			method:     http.MethodGet,
			path:       "/api/notes",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "GET /api/notes with bad token",
			method:     http.MethodGet,
			path:       "/api/notes",
			token:      "stale",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "GET /api/notes with valid token",
			method:     http.MethodGet,
			path:       "/api/notes",
			token:      "tok-123",
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /api/auth/me with valid token",
			method:     http.MethodGet,
			path:       "/api/auth/me",
			token:      "tok-123",
			wantStatus: http.StatusOK,
		},
		{
			name:       "GET /api/auth/signup method not allowed",
			method:     http.MethodGet,
			path:       "/api/auth/signup",
			wantStatus: http.StatusMethodNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Router %s %s status = %v, want %v (body %s)", tt.method, tt.path, w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestRouter_PreviewEndToEnd(t *testing.T) {
	ctrl := gomock.NewController(t)
	deps, _, _ := newTestDeps(t, ctrl)
	router := NewRouter(deps)

	body := `{"text":"# Hi\n\n*nice*"}`
	req := httptest.NewRequest(http.MethodPost, "/api/preview", strings.NewReader(body))
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %v, want %v (body %s)", w.Code, http.StatusOK, w.Body.String())
	}
	got := w.Body.String()
	for _, want := range []string{`"heading"`, `"italic"`, `"nice"`} {
		if !strings.Contains(got, want) {
			t.Errorf("response does not contain %s:\n%s", want, got)
		}
	}
}

func TestRouter_MiddlewareApplied(t *testing.T) {
	ctrl := gomock.NewController(t)
	deps, _, _ := newTestDeps(t, ctrl)
	router := NewRouter(deps)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	// Check CORS headers are present
	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("Router should apply CORS middleware")
	}
}
