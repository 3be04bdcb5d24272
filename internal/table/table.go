// =============================================================================
// tablemerge - Table Data Model
// =============================================================================
//
// This package defines the in-memory table shared by the loaders, the merge
// pipeline and the writers. A table is an ordered header plus data rows stored
// as header -> value maps, so later stages can address cells by column name
// without tracking positions.
//
// The package also owns the column operations the pipeline applies between
// load and write:
//   - Concat: concatenate tables, unioning mismatched headers with null-fill
//   - Select: restrict a table to an ordered subset of its columns
//   - Rename: relabel headers through a one-to-one mapping
//
// All cell values are strings. The loaders do not coerce types; the XLSX
// writer re-types cells on the way out when it can do so losslessly.
//
// =============================================================================

package table

import (
	"fmt"
	"strings"
)

// =============================================================================
// TABLE TYPE
// =============================================================================

// Row holds one data row as a header -> value map. After loading or merging,
// a row has an entry for every column in its table, possibly "".
type Row map[string]string

// Table is an ordered set of named columns plus data rows.
type Table struct {
	// Columns is the header in output order. Names are unique within a table.
	Columns []string

	// Rows contains the data rows in input order.
	Rows []Row

	// Source is the path the table was loaded from, for log and error
	// messages. Empty for derived tables.
	Source string
}

// New creates an empty table with the given header.
func New(columns []string) *Table {
	return &Table{
		Columns: columns,
		Rows:    []Row{},
	}
}

// AppendRow adds a positional record as a new row. Short records are padded
// with empty strings; cells beyond the header width are dropped.
func (t *Table) AppendRow(cells []string) {
	row := make(Row, len(t.Columns))
	for i, col := range t.Columns {
		if i < len(cells) {
			row[col] = cells[i]
		} else {
			row[col] = ""
		}
	}
	t.Rows = append(t.Rows, row)
}

// HasColumn reports whether name is in the table header.
func (t *Table) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// =============================================================================
// HEADER NORMALIZATION
// =============================================================================

// NormalizeHeader cleans a raw header record the same way for every input
// format:
//   - surrounding whitespace is trimmed from each name
//   - an empty name becomes "Column_N" (1-indexed position)
//   - a duplicate name gets a numeric suffix: the second "id" becomes "id.1",
//     the third "id.2", taking the first free suffix
//
// The result is guaranteed to contain unique, non-empty names.
func NormalizeHeader(raw []string) []string {
	seen := make(map[string]bool, len(raw))
	header := make([]string, len(raw))

	for i, name := range raw {
		name = strings.TrimSpace(name)

		if name == "" {
			name = fmt.Sprintf("Column_%d", i+1)
		}

		if seen[name] {
			base := name
			for n := 1; ; n++ {
				name = fmt.Sprintf("%s.%d", base, n)
				if !seen[name] {
					break
				}
			}
		}

		seen[name] = true
		header[i] = name
	}

	return header
}

// =============================================================================
// MERGE
// =============================================================================

// Concat concatenates tables into a new one. The merged header is the union
// of the input headers in first-seen order; rows keep their input order, with
// all rows of the first table before all rows of the second, and so on. A row
// from a table that lacks one of the merged columns gets "" for that cell.
//
// The inputs are not modified. Concatenating zero tables yields an empty
// table with no columns.
func Concat(tables []*Table) *Table {
	merged := New(nil)

	seen := make(map[string]bool)
	for _, t := range tables {
		for _, col := range t.Columns {
			if !seen[col] {
				seen[col] = true
				merged.Columns = append(merged.Columns, col)
			}
		}
	}

	for _, t := range tables {
		for _, row := range t.Rows {
			out := make(Row, len(merged.Columns))
			for _, col := range merged.Columns {
				out[col] = row[col]
			}
			merged.Rows = append(merged.Rows, out)
		}
	}

	return merged
}

// =============================================================================
// COLUMN OPERATIONS
// =============================================================================

// Select restricts the table to the named columns, in the order given. Every
// other column is dropped from the header and from each row.
//
// Requesting a column the table does not have fails with a
// *ColumnNotFoundError; requesting the same column twice fails with a
// *DuplicateColumnError. On error the table is left unchanged.
func (t *Table) Select(columns []string) error {
	requested := make(map[string]bool, len(columns))
	for _, col := range columns {
		if requested[col] {
			return &DuplicateColumnError{Column: col}
		}
		requested[col] = true

		if !t.HasColumn(col) {
			return &ColumnNotFoundError{Column: col, Available: t.Columns}
		}
	}

	rows := make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		out := make(Row, len(columns))
		for _, col := range columns {
			out[col] = row[col]
		}
		rows[i] = out
	}

	t.Columns = append([]string(nil), columns...)
	t.Rows = rows
	return nil
}

// Rename relabels header names through mapping (old name -> new name). All
// renames apply simultaneously, so swapping two columns ("a"->"b", "b"->"a")
// is legal. Cell values are not touched.
//
// The mapping must reference existing columns and must stay one-to-one:
// mapping a column the table does not have fails with a
// *ColumnNotFoundError; mapping two columns to the same target, or to a name
// an unrenamed column already holds, fails with a *RenameError. On error the
// table is left unchanged.
func (t *Table) Rename(mapping map[string]string) error {
	if len(mapping) == 0 {
		return nil
	}

	for old := range mapping {
		if !t.HasColumn(old) {
			return &ColumnNotFoundError{Column: old, Available: t.Columns}
		}
	}

	// Walk the header in order so error messages are deterministic.
	targets := make(map[string]string, len(mapping))
	for _, col := range t.Columns {
		newName, renamed := mapping[col]
		if !renamed {
			newName = col
		}

		if prev, taken := targets[newName]; taken {
			return &RenameError{
				Target: newName,
				Detail: fmt.Sprintf("both %q and %q would take this name", prev, col),
			}
		}
		targets[newName] = col
	}

	columns := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		if newName, renamed := mapping[col]; renamed {
			columns[i] = newName
		} else {
			columns[i] = col
		}
	}

	rows := make([]Row, len(t.Rows))
	for i, row := range t.Rows {
		out := make(Row, len(columns))
		for j, col := range t.Columns {
			out[columns[j]] = row[col]
		}
		rows[i] = out
	}

	t.Columns = columns
	t.Rows = rows
	return nil
}
