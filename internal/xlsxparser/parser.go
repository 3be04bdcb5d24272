// =============================================================================
// tablemerge - XLSX Parser Module
// =============================================================================
//
// This module loads an Excel workbook into a table. Only the first sheet is
// read, matching how spreadsheet exports are produced by the systems this
// tool collects from; a workbook with more sheets gets a debug note so the
// choice is visible when it matters.
//
// Cells arrive as their formatted string values. The first row is the
// header and is normalized exactly like a CSV header (trimmed, blanks named,
// duplicates suffixed). Rows shorter than the header are padded with empty
// strings, which Excel produces routinely for trailing blank cells.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tablekit/tablemerge/internal/table"
)

// Options controls optional parser behavior.
type Options struct {
	// Logger receives the multiple-sheet note. When nil, slog.Default() is
	// used.
	Logger *slog.Logger
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads the first sheet of an XLSX workbook with default options.
func Parse(path string) (*table.Table, error) {
	return ParseWithOptions(path, Options{})
}

// ParseWithOptions reads the first sheet of an XLSX workbook and returns it
// as a table. A missing file is returned as is so the caller can recognize
// it; any other open or read failure is wrapped in a *table.ParseError.
func ParseWithOptions(path string, opts Options) (*table.Table, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		return nil, &table.ParseError{Path: path, Err: err}
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, &table.ParseError{Path: path, Err: errors.New("workbook has no sheets")}
	}

	if sheets := f.GetSheetList(); len(sheets) > 1 {
		logger.Debug("workbook has multiple sheets, reading the first",
			"path", path, "sheet", sheet, "sheets", len(sheets))
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &table.ParseError{Path: path, Err: err}
	}

	if len(rows) == 0 {
		return nil, &table.ParseError{Path: path, Err: errors.New("sheet " + sheet + " is empty, expected a header row")}
	}

	t := table.New(table.NormalizeHeader(rows[0]))
	t.Source = path

	for _, row := range rows[1:] {
		if isRowEmpty(row) {
			continue
		}
		t.AppendRow(row)
	}

	return t, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRowEmpty checks if a row contains only empty cells.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
