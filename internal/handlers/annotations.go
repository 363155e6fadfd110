package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"archive-lens/internal/contextutil"
	"archive-lens/internal/locator"
	"archive-lens/internal/service"
)

// AnnotationHandler lists, creates and deletes annotations.
type AnnotationHandler struct {
	annotations service.AnnotationService
	logger      *slog.Logger
}

// NewAnnotationHandler creates a new AnnotationHandler.
func NewAnnotationHandler(annotations service.AnnotationService) *AnnotationHandler {
	return &AnnotationHandler{
		annotations: annotations,
		logger:      slog.Default(),
	}
}

// CreateAnnotationRequest is the payload of POST /api/annotations. The
// locator is decoded according to target_kind.
type CreateAnnotationRequest struct {
	ArchiveID  string             `json:"archive_id"`
	TargetKind locator.TargetKind `json:"target_kind"`
	TargetRef  string             `json:"target_ref"`
	Locator    json.RawMessage    `json:"locator"`
	Content    string             `json:"content"`
}

// AnnotationListResponse wraps an archive's annotations, newest first.
type AnnotationListResponse struct {
	ArchiveID   string               `json:"archive_id"`
	Annotations []locator.Annotation `json:"annotations"`
}

// List handles GET /api/archives/{id}/annotations.
func (h *AnnotationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := pathParam(r, "id")

	list, err := h.annotations.List(ctx, id)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list annotations")
		return
	}
	if list == nil {
		list = []locator.Annotation{}
	}
	writeJSON(ctx, w, http.StatusOK, AnnotationListResponse{ArchiveID: id, Annotations: list})
}

// Create handles POST /api/annotations and answers with the fresh list.
func (h *AnnotationHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req CreateAnnotationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.TargetKind.Valid() {
		handleServiceError(w, ctx, &service.ValidationError{Field: "target_kind", Message: "unknown target kind"}, "")
		return
	}

	var loc locator.Locator
	if len(req.Locator) > 0 && string(req.Locator) != "null" {
		decoded, err := locator.Decode(req.TargetKind, req.Locator)
		if err != nil {
			handleServiceError(w, ctx, &service.ValidationError{Field: "locator", Message: err.Error()}, "")
			return
		}
		loc = decoded
	}

	list, err := h.annotations.Create(ctx, req.ArchiveID, req.Content, loc, locator.Target{Kind: req.TargetKind, Ref: req.TargetRef})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to create annotation")
		return
	}
	writeJSON(ctx, w, http.StatusCreated, AnnotationListResponse{ArchiveID: req.ArchiveID, Annotations: list})
}

// Delete handles DELETE /api/annotations/{id}.
func (h *AnnotationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.annotations.Delete(ctx, pathParam(r, "id")); err != nil {
		handleServiceError(w, ctx, err, "Failed to delete annotation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
