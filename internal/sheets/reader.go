// Package sheets reads sheet extents and cell rectangles from spreadsheet
// attachments.
package sheets

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"archive-lens/internal/backend"
)

var (
	// ErrResourceFork is returned for macOS "._" metadata files.
	ErrResourceFork = backend.NewError(backend.ErrInvalidRequest, "这是 macOS 资源文件（以 ._ 开头），可忽略")
	// ErrInvalidRange is returned for an empty cell rectangle.
	ErrInvalidRange = backend.NewError(backend.ErrInvalidRequest, "无效的范围")
	// ErrNoSheets is returned when a workbook has no readable sheet.
	ErrNoSheets = errors.New("no sheets found in workbook")
	// ErrUnknownSheet is returned when the requested sheet does not exist.
	ErrUnknownSheet = backend.NewError(backend.ErrNotFound, "sheet not found")
)

// csvSheet names the single sheet of a CSV file.
const csvSheet = "Sheet1"

func checkPath(path string) error {
	if path == "" {
		return fmt.Errorf("file path is empty")
	}
	if strings.HasPrefix(filepath.Base(path), "._") {
		return ErrResourceFork
	}
	return nil
}

func isCSV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".csv")
}

// Info returns the extent of every sheet of the workbook at path. The first
// sheet is the default.
func Info(path string) ([]backend.SheetInfo, string, error) {
	if err := checkPath(path); err != nil {
		return nil, "", err
	}
	if isCSV(path) {
		rows, err := readCSV(path)
		if err != nil {
			return nil, "", err
		}
		return []backend.SheetInfo{{Name: csvSheet, Rows: len(rows), Cols: widest(rows)}}, csvSheet, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, "", ErrNoSheets
	}
	sheets := make([]backend.SheetInfo, 0, len(names))
	for _, name := range names {
		rows, cols, err := extent(f, name)
		if err != nil {
			// Unreadable sheets stay listed with no cells.
			rows, cols = 0, 0
		}
		sheets = append(sheets, backend.SheetInfo{Name: name, Rows: rows, Cols: cols})
	}
	return sheets, names[0], nil
}

func extent(f *excelize.File, sheet string) (int, int, error) {
	rows, err := f.Rows(sheet)
	if err != nil {
		return 0, 0, err
	}
	defer rows.Close()

	n, cols := 0, 0
	for rows.Next() {
		n++
		row, err := rows.Columns()
		if err != nil {
			return 0, 0, err
		}
		cols = max(cols, len(row))
	}
	return n, cols, rows.Error()
}

// Cells reads the rectangle [rowStart,rowEnd) x [colStart,colEnd) of sheet.
// Rows past the end of the sheet are omitted; short rows are padded so that
// every returned row has the same width.
func Cells(path, sheet string, rowStart, rowEnd, colStart, colEnd int) ([][]string, error) {
	if rowStart < 0 || colStart < 0 || rowEnd <= rowStart || colEnd <= colStart {
		return nil, ErrInvalidRange
	}
	if err := checkPath(path); err != nil {
		return nil, err
	}

	var window [][]string
	if isCSV(path) {
		if sheet != csvSheet {
			return nil, fmt.Errorf("%w: %s", ErrUnknownSheet, sheet)
		}
		rows, err := readCSV(path)
		if err != nil {
			return nil, err
		}
		if rowStart < len(rows) {
			window = rows[rowStart:min(rowEnd, len(rows))]
		}
	} else {
		var err error
		window, err = readXLSXRows(path, sheet, rowStart, rowEnd)
		if err != nil {
			return nil, err
		}
	}
	return crop(window, colStart, colEnd), nil
}

func readXLSXRows(path, sheet string, rowStart, rowEnd int) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSheet, sheet)
	}
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	var out [][]string
	for i := 0; i < rowEnd && rows.Next(); i++ {
		row, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d of %s: %w", i, sheet, err)
		}
		if i >= rowStart {
			out = append(out, row)
		}
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return out, nil
}

func crop(rows [][]string, colStart, colEnd int) [][]string {
	width := 0
	for _, row := range rows {
		width = max(width, min(len(row), colEnd)-colStart)
	}
	out := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, width)
		for j := range cells {
			if c := colStart + j; c < len(row) {
				cells[j] = row[c]
			}
		}
		out[i] = cells
	}
	return out
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Allow ragged rows.
	reader.FieldsPerRecord = -1
	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse csv: %w", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}

func widest(rows [][]string) int {
	w := 0
	for _, r := range rows {
		w = max(w, len(r))
	}
	return w
}
