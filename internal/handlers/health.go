package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"time"

	"archive-lens/internal/contextutil"
)

// Pinger reports whether a dependency is reachable. *sql.DB satisfies it.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	db                 Pinger
	libraryRoot        string
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger, libraryRoot string) *HealthHandler {
	return &HealthHandler{
		db:                 db,
		libraryRoot:        libraryRoot,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
//
// swagger:model HealthResponse
type HealthResponse struct {
	// Overall health status: "healthy", "degraded", or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is degraded or unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles HTTP requests for health checks.
//
// Check the health status of the system and its dependencies.
// Returns 200 OK if healthy, 503 Service Unavailable if degraded or unhealthy.
//
// swagger:route GET /api/health healthCheck
//
// # Health check endpoint
//
// Returns the health status of the database and the attachment library.
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: System is healthy
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
//	'503':
//	  description: System is degraded or unhealthy
//	  schema:
//	    "$ref": "#/definitions/HealthResponse"
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	// Create context with timeout for health checks
	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string)
	var issues []string

	if h.checkDatabase(checkCtx, logger) {
		checks["database"] = "ok"
	} else {
		checks["database"] = "error"
		issues = append(issues, "database_unavailable")
	}

	// The library only holds cached attachments; without it previews fail
	// but search and annotations keep working.
	degraded := false
	if h.checkLibrary(checkCtx, logger) {
		checks["library"] = "ok"
	} else {
		checks["library"] = "error"
		issues = append(issues, "library_unavailable")
		degraded = true
	}

	// Determine overall status
	status := "healthy"
	httpStatus := http.StatusOK
	switch {
	case checks["database"] != "ok":
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	case degraded:
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	response := HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	}

	if len(issues) > 0 {
		response.Issues = issues
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.ErrorContext(ctx, "failed to encode health response", "error", err)
	}
}

// checkDatabase checks if the database answers.
func (h *HealthHandler) checkDatabase(ctx context.Context, logger *slog.Logger) bool {
	if err := h.db.PingContext(ctx); err != nil {
		logger.WarnContext(ctx, "database health check failed", "error", err)
		return false
	}
	return true
}

// checkLibrary checks if the attachment library directory exists.
func (h *HealthHandler) checkLibrary(ctx context.Context, logger *slog.Logger) bool {
	info, err := os.Stat(h.libraryRoot)
	if err != nil || !info.IsDir() {
		logger.WarnContext(ctx, "library root unavailable", "path", h.libraryRoot, "error", err)
		return false
	}
	return true
}
