package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"archive-lens/internal/contextutil"
	"archive-lens/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	// Navigate tells the client where to go instead, e.g. "search" when the
	// archive being viewed was removed.
	Navigate string `json:"navigate,omitempty"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// handleServiceError maps service errors to appropriate HTTP status codes and responses.
func handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)

	if errors.Is(err, service.ErrArchiveGone) {
		logger.InfoContext(ctx, "archive gone", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusGone)
		_ = json.NewEncoder(w).Encode(ErrorResponse{Error: userMessage(err, "档案已不存在"), Navigate: "search"})
		return
	}

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		logger.WarnContext(ctx, "validation failed", "error", err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
		return
	}

	if errors.Is(err, service.ErrInvalidInput) {
		logger.WarnContext(ctx, "invalid input", "error", err)
		writeError(w, http.StatusBadRequest, userMessage(err, "Invalid input"))
		return
	}

	if errors.Is(err, service.ErrNotFound) {
		writeError(w, http.StatusNotFound, userMessage(err, "Resource not found"))
		return
	}

	logger.ErrorContext(ctx, "service error", "error", err)

	if errors.Is(err, service.ErrExternalService) {
		writeError(w, http.StatusBadGateway, userMessage(err, "External service error"))
		return
	}

	// Default to internal server error
	writeError(w, http.StatusInternalServerError, defaultMsg)
}

// userMessage prefers the backend's own wording, which is meant for users.
func userMessage(err error, fallback string) string {
	var be *service.BackendError
	if errors.As(err, &be) && be.Message != "" {
		return be.Message
	}
	return fallback
}

func pathParam(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}
