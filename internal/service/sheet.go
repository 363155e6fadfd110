package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_sheet_service.go -package=mocks -mock_names=SheetService=MockSheetService archive-lens/internal/service SheetService

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"archive-lens/internal/backend"
	"archive-lens/internal/contextutil"
	"archive-lens/internal/grid"
)

// WindowQuery describes a spreadsheet viewport. When FocusRow is set the
// scroll offsets are replaced by the ones that bring that row (and FocusCol,
// if set) into view.
type WindowQuery struct {
	FileID         string
	ArchiveID      string
	Sheet          string
	ScrollLeft     int
	ScrollTop      int
	ViewportWidth  int
	ViewportHeight int
	FocusRow       *int
	FocusCol       *int
}

// SheetWindow is the block of cells covering a viewport.
type SheetWindow struct {
	FileID     string                `json:"file_id"`
	Sheet      backend.SheetInfo     `json:"sheet"`
	Window     grid.Window           `json:"window"`
	ScrollLeft int                   `json:"scroll_left"`
	ScrollTop  int                   `json:"scroll_top"`
	Cells      backend.CellsResponse `json:"cells"`
	Markers    *grid.Markers         `json:"markers,omitempty"`
}

// SheetService serves windows of spreadsheet attachments.
type SheetService interface {
	// Workbook lists the sheets of a spreadsheet attachment.
	Workbook(ctx context.Context, fileID string) (backend.Workbook, error)
	// Window fetches the cells visible in a viewport.
	Window(ctx context.Context, q WindowQuery) (SheetWindow, error)
}

type sheetService struct {
	backend backend.Backend
	fetcher *grid.Fetcher
	logger  *slog.Logger
}

// NewSheetService creates a new SheetService. Fetched windows are shared by
// all callers and expire after cacheTTL.
func NewSheetService(b backend.Backend, cacheTTL time.Duration) SheetService {
	return &sheetService{
		backend: b,
		fetcher: grid.NewFetcher(b, cacheTTL),
		logger:  slog.Default(),
	}
}

func (s *sheetService) Workbook(ctx context.Context, fileID string) (backend.Workbook, error) {
	if err := requireID("file_id", fileID); err != nil {
		return backend.Workbook{}, err
	}
	wb, err := s.backend.GetExcelSheetInfo(ctx, fileID)
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to load workbook", "file_id", fileID, "error", err)
		return backend.Workbook{}, fromBackend(err, "failed to load workbook")
	}
	return wb, nil
}

func (s *sheetService) Window(ctx context.Context, q WindowQuery) (SheetWindow, error) {
	if q.ViewportWidth < 0 || q.ViewportHeight < 0 {
		return SheetWindow{}, &ValidationError{Field: "viewport", Message: "must not be negative"}
	}
	if q.FocusRow != nil && *q.FocusRow < 0 {
		return SheetWindow{}, &ValidationError{Field: "row", Message: "must not be negative"}
	}
	wb, err := s.Workbook(ctx, q.FileID)
	if err != nil {
		return SheetWindow{}, err
	}

	name := q.Sheet
	if name == "" {
		name = wb.DefaultSheet
	}
	info, ok := wb.Sheet(name)
	if !ok {
		return SheetWindow{}, &ValidationError{Field: "sheet", Message: fmt.Sprintf("unknown sheet %q", name)}
	}

	left, top := max(0, q.ScrollLeft), max(0, q.ScrollTop)
	if q.FocusRow != nil {
		col := -1
		if q.FocusCol != nil {
			col = *q.FocusCol
		}
		left, top = grid.FocusScroll(*q.FocusRow, col, left)
	}

	size := grid.WindowSize(q.ViewportWidth, q.ViewportHeight)
	origin := grid.WindowOrigin(left, top, info.Rows, info.Cols)
	w := grid.NewWindow(origin, size, info.Rows, info.Cols)

	out := SheetWindow{
		FileID:     q.FileID,
		Sheet:      info,
		Window:     w,
		ScrollLeft: left,
		ScrollTop:  top,
		Cells:      backend.CellsResponse{RowStart: w.RowStart, ColStart: w.ColStart, Cells: [][]string{}},
	}
	if !w.Empty() {
		cells, err := s.fetcher.Fetch(ctx, q.FileID, info.Name, w)
		if err != nil {
			contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to fetch window", "file_id", q.FileID, "sheet", info.Name, "error", err)
			return SheetWindow{}, fromBackend(err, "failed to fetch cells")
		}
		out.Cells = cells
	}

	if q.ArchiveID != "" {
		annotations, err := s.backend.ListAnnotations(ctx, q.ArchiveID)
		if err != nil {
			return SheetWindow{}, fromBackend(err, "failed to list annotations")
		}
		m := grid.BuildMarkers(annotations, q.FileID, info.Name)
		out.Markers = &m
	}
	return out, nil
}
