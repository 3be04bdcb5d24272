// =============================================================================
// tablemerge - CSV Parser Module
// =============================================================================
//
// This module loads a CSV file into a table. Parsing is deliberately
// forgiving about shape and strict about nothing else:
//   - variable-width records are padded to the header width
//   - fully empty records are skipped
//   - quotes that do not follow strict CSV rules are tolerated
//
// The first record is the header; it is normalized (trimmed, blanks named,
// duplicates suffixed) before the data rows are read. Data values are kept
// exactly as they appear in the file, so a later write reproduces them.
//
// Input is expected to be UTF-8. A leading byte order mark is stripped, and
// a file that is not valid UTF-8 is re-decoded as Latin-1 with a logged
// warning, which matches how exports from older reporting systems usually
// arrive.
//
// =============================================================================

package csvparser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/tablekit/tablemerge/internal/table"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Options controls optional parser behavior.
type Options struct {
	// Logger receives the Latin-1 fallback warning. When nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file with default options.
func Parse(path string) (*table.Table, error) {
	return ParseWithOptions(path, Options{})
}

// ParseWithOptions reads a CSV file and returns it as a table.
//
// The file is read in full: merging needs every row in memory anyway, and
// whole-file reading lets the encoding check look at all of the bytes before
// any of them are parsed. Read failures (including a missing file) are
// returned as is; decode failures are wrapped in a *table.ParseError.
func ParseWithOptions(path string, opts Options) (*table.Table, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	data, err = decode(data, path, logger)
	if err != nil {
		return nil, &table.ParseError{Path: path, Err: err}
	}

	reader := csv.NewReader(bytes.NewReader(data))

	// Allow ragged records; rows are padded to the header width below.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, &table.ParseError{Path: path, Err: err}
	}

	if len(records) == 0 {
		return nil, &table.ParseError{Path: path, Err: errors.New("file is empty, expected a header row")}
	}

	t := table.New(table.NormalizeHeader(records[0]))
	t.Source = path

	for _, record := range records[1:] {
		if isRecordEmpty(record) {
			continue
		}
		t.AppendRow(record)
	}

	return t, nil
}

// =============================================================================
// ENCODING HANDLING
// =============================================================================

// decode strips a UTF-8 BOM and falls back to Latin-1 when the raw bytes are
// not valid UTF-8. Latin-1 maps every byte to a rune, so the fallback always
// produces a readable table; the warning tells the user what happened to any
// non-ASCII characters.
func decode(data []byte, path string, logger *slog.Logger) ([]byte, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	if utf8.Valid(data) {
		return data, nil
	}

	logger.Warn("file is not valid UTF-8, decoding as Latin-1", "path", path)

	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// isRecordEmpty checks if a record contains only empty values.
func isRecordEmpty(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
