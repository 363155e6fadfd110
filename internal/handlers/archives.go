package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"archive-lens/internal/backend"
	"archive-lens/internal/service"
)

// ArchiveHandler serves archive listings, details and attachment content.
type ArchiveHandler struct {
	archives service.ArchiveService
	logger   *slog.Logger
}

// NewArchiveHandler creates a new ArchiveHandler.
func NewArchiveHandler(archives service.ArchiveService) *ArchiveHandler {
	return &ArchiveHandler{
		archives: archives,
		logger:   slog.Default(),
	}
}

// ArchiveListResponse wraps an archive listing.
type ArchiveListResponse struct {
	Archives []backend.Archive `json:"archives"`
}

// BlocksResponse wraps the paragraphs of a primary document.
type BlocksResponse struct {
	ArchiveID string          `json:"archive_id"`
	Blocks    []backend.Block `json:"blocks"`
}

// parseFilters reads date_from, date_to (unix seconds) and file_types
// (comma separated) from the query string.
func parseFilters(q url.Values) (backend.Filters, error) {
	var f backend.Filters
	for _, p := range []struct {
		name string
		dst  **int64
	}{{"date_from", &f.DateFrom}, {"date_to", &f.DateTo}} {
		raw := strings.TrimSpace(q.Get(p.name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return backend.Filters{}, &service.ValidationError{Field: p.name, Message: "must be unix seconds"}
		}
		*p.dst = &v
	}
	if raw := q.Get("file_types"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				f.FileTypes = append(f.FileTypes, t)
			}
		}
	}
	return f, nil
}

func parseInt(q url.Values, name string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &service.ValidationError{Field: name, Message: fmt.Sprintf("must be an integer, got %q", raw)}
	}
	return v, nil
}

// List handles GET /api/archives.
func (h *ArchiveHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filters, err := parseFilters(r.URL.Query())
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list archives")
		return
	}
	archives, err := h.archives.List(ctx, filters)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to list archives")
		return
	}
	if archives == nil {
		archives = []backend.Archive{}
	}
	writeJSON(ctx, w, http.StatusOK, ArchiveListResponse{Archives: archives})
}

// Detail handles GET /api/archives/{id}.
func (h *ArchiveHandler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	detail, err := h.archives.Detail(ctx, pathParam(r, "id"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load archive")
		return
	}
	writeJSON(ctx, w, http.StatusOK, detail)
}

// Blocks handles GET /api/archives/{id}/blocks.
func (h *ArchiveHandler) Blocks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := pathParam(r, "id")

	blocks, err := h.archives.Blocks(ctx, id)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load blocks")
		return
	}
	writeJSON(ctx, w, http.StatusOK, BlocksResponse{ArchiveID: id, Blocks: blocks})
}

// Preview handles GET /api/files/{id}/preview.
func (h *ArchiveHandler) Preview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	preview, err := h.archives.Preview(ctx, pathParam(r, "id"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load preview")
		return
	}
	writeJSON(ctx, w, http.StatusOK, preview)
}

// PreviewPath handles GET /api/files/{id}/path.
func (h *ArchiveHandler) PreviewPath(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	p, err := h.archives.PreviewPath(ctx, pathParam(r, "id"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to resolve preview path")
		return
	}
	writeJSON(ctx, w, http.StatusOK, p)
}
