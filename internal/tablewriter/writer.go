// =============================================================================
// tablemerge - Table Writer Module
// =============================================================================
//
// This module serializes a table to disk, choosing the output format from
// the file extension: ".csv" writes RFC 4180 CSV, ".xlsx" writes a workbook
// with a single sheet and a bold header row. Anything else is rejected
// before any work is done.
//
// Output is staged at a uniquely named temp file next to the target and
// renamed into place after a successful flush. A run that fails mid-write
// therefore never leaves a partial or truncated file at the output path.
//
// Worksheet cells are re-typed on the way out when it is lossless: a value
// whose canonical integer or decimal formatting reproduces the original text
// becomes a numeric cell, everything else stays a string. Values like "007"
// or "1.50" keep their exact text through a write-then-read cycle.
//
// =============================================================================

package tablewriter

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/tablekit/tablemerge/internal/table"
	"github.com/tablekit/tablemerge/pkg/utils"
)

// outputSheet is the sheet name for workbook output.
const outputSheet = "Sheet1"

// =============================================================================
// WRITER ENTRY
// =============================================================================

// Write serializes t to path. The extension picks the format
// (case-insensitive); an extension the tool cannot produce fails with a
// *table.UnsupportedFormatError. The parent directory is created if needed.
func Write(t *table.Table, path string) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return writeAtomic(path, func(tmp string) error {
			return writeCSV(t, tmp)
		})
	case ".xlsx":
		return writeAtomic(path, func(tmp string) error {
			return writeXLSX(t, tmp)
		})
	case ".xls", ".xlsm":
		return &table.UnsupportedFormatError{
			Path: path,
			Ext:  ext,
			Hint: "write the output as .xlsx instead",
		}
	default:
		return &table.UnsupportedFormatError{Path: path, Ext: ext}
	}
}

// writeAtomic stages the output at a temp sibling of path and renames it into
// place once the write succeeds. The temp file is removed on failure.
func writeAtomic(path string, write func(string) error) error {
	if err := utils.EnsureParentDir(path); err != nil {
		return err
	}

	tmp := utils.TempPath(path)
	if err := write(tmp); err != nil {
		os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// =============================================================================
// CSV OUTPUT
// =============================================================================

func writeCSV(t *table.Table, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(file)

	if err := writer.Write(t.Columns); err != nil {
		file.Close()
		return err
	}

	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = row[col]
		}
		if err := writer.Write(record); err != nil {
			file.Close()
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return err
	}

	return file.Close()
}

// =============================================================================
// XLSX OUTPUT
// =============================================================================

// writeXLSX streams the table into a fresh workbook. The stream writer keeps
// memory flat for large merges; rows must be appended in ascending order,
// which the row loop guarantees.
func writeXLSX(t *table.Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(outputSheet)
	if err != nil {
		return err
	}

	header := make([]interface{}, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = excelize.Cell{Value: col, StyleID: headerStyle}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}

	for i, row := range t.Rows {
		cells := make([]interface{}, len(t.Columns))
		for j, col := range t.Columns {
			cells[j] = cellValue(row[col])
		}

		ref, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(ref, cells); err != nil {
			return err
		}
	}

	if err := sw.Flush(); err != nil {
		return err
	}

	return f.SaveAs(path)
}

// =============================================================================
// CELL TYPING
// =============================================================================

// cellValue decides how a value is stored in the worksheet. It returns a
// numeric type only when formatting the number back yields the original text,
// so the formatted value a later read sees is the value that was written.
// Integers are capped at 2^53 because Excel stores numbers as IEEE doubles.
func cellValue(s string) interface{} {
	if s == "" {
		return ""
	}

	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if strconv.FormatInt(n, 10) == s && n > -(1<<53) && n < 1<<53 {
			return n
		}
		return s
	}

	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return s
		}
		if strconv.FormatFloat(f, 'f', -1, 64) == s {
			return f
		}
	}

	return s
}
