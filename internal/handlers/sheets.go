package handlers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"archive-lens/internal/service"
)

// SheetHandler serves spreadsheet attachments window by window.
type SheetHandler struct {
	sheets service.SheetService
	logger *slog.Logger
}

// NewSheetHandler creates a new SheetHandler.
func NewSheetHandler(sheets service.SheetService) *SheetHandler {
	return &SheetHandler{
		sheets: sheets,
		logger: slog.Default(),
	}
}

// Workbook handles GET /api/files/{id}/sheets.
func (h *SheetHandler) Workbook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	wb, err := h.sheets.Workbook(ctx, pathParam(r, "id"))
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load workbook")
		return
	}
	writeJSON(ctx, w, http.StatusOK, wb)
}

func optionalInt(q url.Values, name string) (*int, error) {
	if strings.TrimSpace(q.Get(name)) == "" {
		return nil, nil
	}
	v, err := parseInt(q, name, 0)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// Window handles GET /api/files/{id}/window. Query parameters: sheet,
// scroll_left, scroll_top, width, height (viewport pixels), archive_id (adds
// annotation markers), row and col (focus a row or cell).
func (h *SheetHandler) Window(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	wq := service.WindowQuery{
		FileID:    pathParam(r, "id"),
		ArchiveID: strings.TrimSpace(q.Get("archive_id")),
		Sheet:     q.Get("sheet"),
	}
	ints := []struct {
		name string
		dst  *int
	}{
		{"scroll_left", &wq.ScrollLeft},
		{"scroll_top", &wq.ScrollTop},
		{"width", &wq.ViewportWidth},
		{"height", &wq.ViewportHeight},
	}
	for _, p := range ints {
		v, err := parseInt(q, p.name, 0)
		if err != nil {
			handleServiceError(w, ctx, err, "")
			return
		}
		*p.dst = v
	}
	var err error
	if wq.FocusRow, err = optionalInt(q, "row"); err != nil {
		handleServiceError(w, ctx, err, "")
		return
	}
	if wq.FocusCol, err = optionalInt(q, "col"); err != nil {
		handleServiceError(w, ctx, err, "")
		return
	}

	win, err := h.sheets.Window(ctx, wq)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load cells")
		return
	}
	writeJSON(ctx, w, http.StatusOK, win)
}
