// Package grid maps a scrollable spreadsheet viewport onto bounded fetch
// windows and keeps the fetched blocks of one open sheet.
package grid

import (
	"fmt"
	"math"
)

// Pixel geometry of the rendered grid.
const (
	RowHeight       = 28
	ColWidth        = 120
	RowHeaderWidth  = 56
	ColHeaderHeight = 28
)

// Overscan is fetched beyond the visible cells on each side; windows never
// exceed the maxima whatever the viewport size.
const (
	OverscanRows  = 6
	OverscanCols  = 3
	MaxWindowRows = 200
	MaxWindowCols = 40
)

// Size is the number of rows and columns a window spans.
type Size struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Origin is the top-left cell of a window.
type Origin struct {
	RowStart int `json:"row_start"`
	ColStart int `json:"col_start"`
}

// Window is the half-open rectangle [RowStart,RowEnd) x [ColStart,ColEnd).
type Window struct {
	RowStart int `json:"row_start"`
	RowEnd   int `json:"row_end"`
	ColStart int `json:"col_start"`
	ColEnd   int `json:"col_end"`
}

func visibleCount(extent, header, cell int) int {
	avail := extent - header
	if avail <= 0 {
		return 1
	}
	return (avail + cell - 1) / cell
}

// WindowSize returns the window that covers a viewport of the given pixel
// size plus overscan on both sides, capped at the maxima.
func WindowSize(viewportWidth, viewportHeight int) Size {
	rows := visibleCount(viewportHeight, ColHeaderHeight, RowHeight) + 2*OverscanRows
	cols := visibleCount(viewportWidth, RowHeaderWidth, ColWidth) + 2*OverscanCols
	return Size{Rows: min(rows, MaxWindowRows), Cols: min(cols, MaxWindowCols)}
}

func axisOrigin(scroll, header, cell, overscan, extent int) int {
	first := int(math.Floor(float64(scroll-header) / float64(cell)))
	start := max(0, first-overscan)
	return min(start, max(0, extent-1))
}

// WindowOrigin returns the window origin for a scroll position. The origin
// never starts past the last row or column of the sheet.
func WindowOrigin(scrollLeft, scrollTop, sheetRows, sheetCols int) Origin {
	return Origin{
		RowStart: axisOrigin(scrollTop, ColHeaderHeight, RowHeight, OverscanRows, sheetRows),
		ColStart: axisOrigin(scrollLeft, RowHeaderWidth, ColWidth, OverscanCols, sheetCols),
	}
}

// NewWindow places a window of size at origin, trimmed to the sheet extent.
func NewWindow(o Origin, size Size, sheetRows, sheetCols int) Window {
	return Window{
		RowStart: o.RowStart,
		RowEnd:   max(o.RowStart, min(o.RowStart+size.Rows, sheetRows)),
		ColStart: o.ColStart,
		ColEnd:   max(o.ColStart, min(o.ColStart+size.Cols, sheetCols)),
	}
}

// Empty reports whether the window covers no cells.
func (w Window) Empty() bool {
	return w.RowEnd <= w.RowStart || w.ColEnd <= w.ColStart
}

// Contains reports whether the cell lies inside the window.
func (w Window) Contains(row, col int) bool {
	return row >= w.RowStart && row < w.RowEnd && col >= w.ColStart && col < w.ColEnd
}

// Key identifies the window of one sheet of one file in the cache.
func (w Window) Key(fileID, sheet string) string {
	return fmt.Sprintf("%s\x00%s\x00%d:%d:%d:%d", fileID, sheet, w.RowStart, w.RowEnd, w.ColStart, w.ColEnd)
}

// FocusScroll returns the scroll offsets that put row two rows below the
// top of the viewport and col one column right of its left edge. A negative
// col leaves the horizontal offset at scrollLeft.
func FocusScroll(row, col, scrollLeft int) (left, top int) {
	top = max(0, (row-2)*RowHeight)
	left = scrollLeft
	if col >= 0 {
		left = max(0, (col-1)*ColWidth)
	}
	return left, top
}
