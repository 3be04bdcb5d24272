// =============================================================================
// tablemerge - Merge Pipeline
// =============================================================================
//
// This package orchestrates one merge run, from loading the input files to
// writing the merged output:
//
//   1. Load every input file into a table (CSV or XLSX, by extension)
//   2. Concatenate the tables, unioning mismatched headers with null-fill
//   3. Select the requested columns, if any
//   4. Rename columns through the old -> new mapping, if any
//   5. Check that the required columns are present, if any
//   6. Write the final table (format picked by the output extension)
//
// The stages run strictly in order and the first failure aborts the run. The
// writer is atomic, so an aborted run never leaves partial output behind.
//
// =============================================================================

package pipeline

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/tablekit/tablemerge/internal/csvparser"
	"github.com/tablekit/tablemerge/internal/table"
	"github.com/tablekit/tablemerge/internal/tablewriter"
	"github.com/tablekit/tablemerge/internal/validation"
	"github.com/tablekit/tablemerge/internal/xlsxparser"
)

// =============================================================================
// OPTIONS & RESULT
// =============================================================================

// Options describes one merge run. Inputs and Output are required; the other
// fields are optional stages, skipped when empty.
type Options struct {
	// Inputs are the files to merge, in merge order.
	Inputs []string

	// Select restricts the merged table to these columns, in this order.
	Select []string

	// Rename maps old column names to new ones, applied after Select.
	Rename map[string]string

	// Required lists columns that must be present in the final table.
	Required []string

	// Output is the destination path. Its extension picks the format.
	Output string

	// DryRun runs every stage except the final write.
	DryRun bool
}

// Result summarizes a finished run.
type Result struct {
	// Output is the destination path of the run.
	Output string

	// Written reports whether the output file was actually written. It is
	// false for dry runs.
	Written bool

	// InputFiles is the number of input files loaded.
	InputFiles int

	// Rows and Columns are the dimensions of the final table.
	Rows    int
	Columns int

	// Header is the final header, in output order.
	Header []string

	// Elapsed is the total processing time.
	Elapsed time.Duration
}

// =============================================================================
// PIPELINE
// =============================================================================

// Pipeline executes the merge stages for one set of options.
type Pipeline struct {
	opts   Options
	logger *slog.Logger
}

// New creates a pipeline for the given options. A nil logger falls back to
// slog.Default().
func New(opts Options, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{opts: opts, logger: logger}
}

// Run executes the pipeline and returns a summary of the run. Stage errors
// are returned unwrapped, so callers can classify them with errors.As.
func (p *Pipeline) Run() (*Result, error) {
	start := time.Now()

	if len(p.opts.Inputs) == 0 {
		return nil, fmt.Errorf("no input files to merge")
	}

	// =========================================================================
	// STAGE 1: LOAD INPUTS
	// =========================================================================

	tables := make([]*table.Table, 0, len(p.opts.Inputs))
	for _, path := range p.opts.Inputs {
		t, err := ReadTable(path, p.logger)
		if err != nil {
			return nil, err
		}

		p.logger.Info("loaded input",
			"path", path,
			"rows", len(t.Rows),
			"columns", len(t.Columns))
		tables = append(tables, t)
	}

	// =========================================================================
	// STAGE 2: MERGE
	// =========================================================================

	merged := table.Concat(tables)
	p.logger.Info("merged inputs",
		"files", len(tables),
		"rows", len(merged.Rows),
		"columns", len(merged.Columns))

	// =========================================================================
	// STAGE 3: SELECT COLUMNS
	// =========================================================================

	if len(p.opts.Select) > 0 {
		if err := merged.Select(p.opts.Select); err != nil {
			return nil, err
		}
		p.logger.Info("selected columns",
			"header", strings.Join(merged.Columns, ", "))
	}

	// =========================================================================
	// STAGE 4: RENAME COLUMNS
	// =========================================================================

	if len(p.opts.Rename) > 0 {
		if err := merged.Rename(p.opts.Rename); err != nil {
			return nil, err
		}
		p.logger.Info("renamed columns",
			"renames", len(p.opts.Rename),
			"header", strings.Join(merged.Columns, ", "))
	}

	// =========================================================================
	// STAGE 5: REQUIRED COLUMNS
	// =========================================================================

	if len(p.opts.Required) > 0 {
		if err := validation.Required(merged, p.opts.Required); err != nil {
			return nil, err
		}
		p.logger.Info("required columns present",
			"required", strings.Join(p.opts.Required, ", "))
	}

	// =========================================================================
	// STAGE 6: WRITE OUTPUT
	// =========================================================================

	written := false
	if p.opts.DryRun {
		p.logger.Info("dry run, skipping write", "output", p.opts.Output)
	} else {
		if err := tablewriter.Write(merged, p.opts.Output); err != nil {
			return nil, err
		}
		written = true
		p.logger.Info("saved output",
			"path", p.opts.Output,
			"rows", len(merged.Rows),
			"columns", len(merged.Columns))
	}

	return &Result{
		Output:     p.opts.Output,
		Written:    written,
		InputFiles: len(tables),
		Rows:       len(merged.Rows),
		Columns:    len(merged.Columns),
		Header:     append([]string(nil), merged.Columns...),
		Elapsed:    time.Since(start),
	}, nil
}

// =============================================================================
// TABLE LOADING
// =============================================================================

// ReadTable loads one file into a table, picking the parser from the file
// extension (case-insensitive): .csv is parsed as CSV, .xlsx and .xlsm with
// excelize. Legacy .xls workbooks are not supported.
func ReadTable(path string, logger *slog.Logger) (*table.Table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		return csvparser.ParseWithOptions(path, csvparser.Options{Logger: logger})
	case ".xlsx", ".xlsm":
		return xlsxparser.ParseWithOptions(path, xlsxparser.Options{Logger: logger})
	case ".xls":
		return nil, &table.UnsupportedFormatError{
			Path: path,
			Ext:  ext,
			Hint: "convert the workbook to .xlsx first",
		}
	default:
		return nil, &table.UnsupportedFormatError{Path: path, Ext: ext}
	}
}
