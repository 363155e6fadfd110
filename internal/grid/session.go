package grid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"archive-lens/internal/backend"
	"archive-lens/internal/locator"
)

// ErrUnknownSheet is returned when switching to a sheet the workbook lacks.
var ErrUnknownSheet = errors.New("unknown sheet")

// State is the lifecycle of an open spreadsheet.
type State int

const (
	Idle State = iota
	DimensionsLoaded
	WindowComputed
	CellsLoaded
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case DimensionsLoaded:
		return "dimensions_loaded"
	case WindowComputed:
		return "window_computed"
	case CellsLoaded:
		return "cells_loaded"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// SheetSource is the part of the backend an open spreadsheet uses.
type SheetSource interface {
	CellSource
	GetExcelSheetInfo(ctx context.Context, fileID string) (backend.Workbook, error)
}

// FocusRequest asks to bring a row, or a cell when Col is set, into view.
type FocusRequest struct {
	Sheet string
	Row   int
	Col   *int
}

type cell struct {
	row, col int
}

// Session is one open spreadsheet. Its cache belongs to the session and is
// cleared on every sheet switch.
type Session struct {
	src     SheetSource
	fileID  string
	fetcher *Fetcher
	logger  *slog.Logger

	mu         sync.Mutex
	state      State
	gen        uint64
	workbook   backend.Workbook
	loaded     bool
	sheet      backend.SheetInfo
	viewW      int
	viewH      int
	scrollLeft int
	scrollTop  int
	size       Size
	origin     Origin
	window     Window
	visible    backend.CellsResponse
	visibleKey string
	pending    *FocusRequest
	focused    *cell
	hovered    *cell
	markers    Markers
}

// NewSession creates a session for fileID. Cached windows expire after ttl
// (never when ttl <= 0).
func NewSession(src SheetSource, fileID string, ttl time.Duration) *Session {
	return &Session{
		src:     src,
		fileID:  fileID,
		fetcher: NewFetcher(src, ttl),
		logger:  slog.Default(),
		size:    WindowSize(0, 0),
	}
}

// Open loads the workbook and activates its default sheet. A focus request
// made before Open is applied once the dimensions are known.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	gen := s.gen
	s.mu.Unlock()

	wb, err := s.src.GetExcelSheetInfo(ctx, s.fileID)
	if err != nil {
		return fmt.Errorf("failed to load sheets of %s: %w", s.fileID, err)
	}
	if len(wb.Sheets) == 0 {
		return fmt.Errorf("%w: workbook %s has no sheets", ErrUnknownSheet, s.fileID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.logger.DebugContext(ctx, "dropping superseded sheet info", "file_id", s.fileID)
		return nil
	}
	s.workbook = wb
	s.loaded = true

	name := wb.DefaultSheet
	if _, ok := wb.Sheet(name); !ok {
		name = wb.Sheets[0].Name
	}
	if s.pending != nil && s.pending.Sheet != "" {
		if _, ok := wb.Sheet(s.pending.Sheet); ok {
			name = s.pending.Sheet
		}
	}
	if err := s.switchSheetLocked(name); err != nil {
		return err
	}
	if s.pending != nil {
		req := *s.pending
		s.pending = nil
		s.applyFocusLocked(req)
	}
	return nil
}

// SwitchSheet activates another sheet. The cache, scroll position, window
// and visible cells are reset before it returns, so fetches still in flight
// for the previous sheet cannot land.
func (s *Session) SwitchSheet(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.switchSheetLocked(name)
}

func (s *Session) switchSheetLocked(name string) error {
	info, ok := s.workbook.Sheet(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownSheet, name)
	}
	s.fetcher.Clear()
	s.gen++
	s.sheet = info
	s.scrollLeft, s.scrollTop = 0, 0
	s.origin = Origin{}
	s.window = Window{}
	s.visible = backend.CellsResponse{}
	s.visibleKey = ""
	s.focused, s.hovered = nil, nil
	s.state = DimensionsLoaded
	s.recomputeLocked(true)
	return nil
}

// Scroll records a new scroll position. It reports whether the window moved.
func (s *Session) Scroll(left, top int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scrollLeft, s.scrollTop = max(0, left), max(0, top)
	return s.recomputeLocked(false)
}

// Resize records a new viewport size. It reports whether the window changed.
func (s *Session) Resize(width, height int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewW, s.viewH = width, height
	size := WindowSize(width, height)
	force := size != s.size
	s.size = size
	return s.recomputeLocked(force)
}

func (s *Session) recomputeLocked(force bool) bool {
	if s.state < DimensionsLoaded {
		return false
	}
	origin := WindowOrigin(s.scrollLeft, s.scrollTop, s.sheet.Rows, s.sheet.Cols)
	if !force && s.state >= WindowComputed && origin == s.origin {
		return false
	}
	s.origin = origin
	s.window = NewWindow(origin, s.size, s.sheet.Rows, s.sheet.Cols)
	if s.state != CellsLoaded || s.visibleKey != s.window.Key(s.fileID, s.sheet.Name) {
		s.state = WindowComputed
	}
	return true
}

// Load fetches the current window. The result is shown only if the sheet
// and window are still the ones it was requested for.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.state < WindowComputed || s.window.Empty() {
		s.mu.Unlock()
		return nil
	}
	gen, sheet, w := s.gen, s.sheet.Name, s.window
	key := w.Key(s.fileID, sheet)
	s.mu.Unlock()

	resp, err := s.fetcher.Fetch(ctx, s.fileID, sheet, w)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || key != s.window.Key(s.fileID, s.sheet.Name) {
		s.logger.DebugContext(ctx, "dropping stale window", "file_id", s.fileID, "sheet", sheet,
			"row_start", w.RowStart, "col_start", w.ColStart)
		return nil
	}
	if err != nil {
		return err
	}
	s.visible = resp
	s.visibleKey = key
	s.state = CellsLoaded
	return nil
}

// Focus brings the requested row or cell into view, switching sheets first
// when needed, and marks it as focused.
func (s *Session) Focus(req FocusRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded {
		s.pending = &req
		return nil
	}
	if req.Sheet != "" && req.Sheet != s.sheet.Name {
		if err := s.switchSheetLocked(req.Sheet); err != nil {
			return err
		}
	}
	s.applyFocusLocked(req)
	return nil
}

func (s *Session) applyFocusLocked(req FocusRequest) {
	col := -1
	if req.Col != nil {
		col = *req.Col
	}
	s.scrollLeft, s.scrollTop = FocusScroll(req.Row, col, s.scrollLeft)
	s.focused = &cell{row: req.Row, col: col}
	s.recomputeLocked(false)
}

// Hover marks the cell under the pointer; a negative row clears it.
func (s *Session) Hover(row, col int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row < 0 {
		s.hovered = nil
		return
	}
	s.hovered = &cell{row: row, col: col}
}

// SetAnnotations rebuilds the badge markers of the active sheet.
func (s *Session) SetAnnotations(annotations []locator.Annotation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.markers = BuildMarkers(annotations, s.fileID, s.sheet.Name)
}

// CellVisual is the mutually exclusive visual state of one cell.
type CellVisual int

const (
	Plain CellVisual = iota
	Annotated
	Hovered
	Focused
)

// CellState returns the visual state of a cell. Focus wins over hover,
// which wins over an annotation badge. A row focus covers every column.
func (s *Session) CellState(row, col int) CellVisual {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case s.focused != nil && s.focused.row == row && (s.focused.col < 0 || s.focused.col == col):
		return Focused
	case s.hovered != nil && s.hovered.row == row && s.hovered.col == col:
		return Hovered
	case len(s.markers.Cells[locator.CellKey(row, col)]) > 0:
		return Annotated
	}
	return Plain
}

// Markers returns the badge markers of the active sheet.
func (s *Session) Markers() Markers {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markers
}

// Cell returns the text of a cell from the visible block.
func (s *Session) Cell(row, col int) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, j := row-s.visible.RowStart, col-s.visible.ColStart
	if s.visibleKey == "" || i < 0 || i >= len(s.visible.Cells) {
		return "", false
	}
	cells := s.visible.Cells[i]
	if j < 0 || j >= len(cells) {
		return "", false
	}
	return cells[j], true
}

// State returns the lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Sheet returns the active sheet.
func (s *Session) Sheet() backend.SheetInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sheet
}

// Window returns the current window.
func (s *Session) Window() Window {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window
}

// ScrollPosition returns the current scroll offsets.
func (s *Session) ScrollPosition() (left, top int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.scrollLeft, s.scrollTop
}

// Fetcher exposes the session's window cache.
func (s *Session) Fetcher() *Fetcher {
	return s.fetcher
}
