package handlers

import (
	"database/sql"
	"net/http"

	"mdnotes/internal/contextutil"
)

// HealthHandler reports service liveness and dependency status.
type HealthHandler struct {
	db *sql.DB
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health reports overall status. The response is 200 with status "ok" when
// every dependency check passes, otherwise 503 with status "degraded".
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	resp := HealthResponse{
		Status: "ok",
		Checks: map[string]string{"database": "ok"},
	}
	status := http.StatusOK

	if err := h.db.PingContext(ctx); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "database ping failed", "error", err)
		resp.Status = "degraded"
		resp.Checks["database"] = err.Error()
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, resp)
}
