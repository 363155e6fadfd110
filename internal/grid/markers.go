package grid

import (
	"strings"

	"archive-lens/internal/locator"
)

// Markers are the annotation badges of one sheet. A stored row without a
// column marks the row; a row with a column marks only that cell. The two
// sets never share an annotation.
type Markers struct {
	// Rows is keyed by locator.RowKey.
	Rows map[string][]string `json:"rows"`
	// Cells is keyed by locator.CellKey.
	Cells map[string][]string `json:"cells"`
}

// BuildMarkers indexes the spreadsheet annotations of fileID's sheet.
func BuildMarkers(annotations []locator.Annotation, fileID, sheet string) Markers {
	own := make([]locator.Annotation, 0, len(annotations))
	for _, a := range annotations {
		if a.TargetRef == fileID {
			own = append(own, a)
		}
	}

	m := Markers{Rows: map[string][]string{}, Cells: map[string][]string{}}
	for key, ids := range locator.IndexByKey(own, locator.KindSpreadsheet, locator.SheetKey(sheet)) {
		if strings.Contains(key, ",") {
			m.Cells[key] = ids
		} else {
			m.Rows[key] = ids
		}
	}
	return m
}

// RowCount returns the number of row-level annotations on row.
func (m Markers) RowCount(row int) int {
	return len(m.Rows[locator.RowKey(row)])
}

// CellCount returns the number of cell-level annotations on a cell.
func (m Markers) CellCount(row, col int) int {
	return len(m.Cells[locator.CellKey(row, col)])
}
