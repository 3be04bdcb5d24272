// =============================================================================
// tablemerge - Table Error Types
// =============================================================================
//
// Typed errors shared by the loaders, the column operations and the writers.
// Callers classify failures with errors.As: column and format errors are
// usage problems the user can fix on the command line, while ParseError wraps
// an underlying I/O or decode failure.
//
// =============================================================================

package table

import (
	"fmt"
	"strings"
)

// ParseError reports a file that could not be read as tabular data. Err
// carries the underlying cause and is exposed through Unwrap, so callers can
// still test for conditions like os.ErrNotExist.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// UnsupportedFormatError reports a file extension the tool cannot read or
// write. Hint, when set, suggests a workaround and is appended to the
// message.
type UnsupportedFormatError struct {
	Path string
	Ext  string
	Hint string
}

func (e *UnsupportedFormatError) Error() string {
	msg := fmt.Sprintf("unsupported file format %q for %s", e.Ext, e.Path)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

// ColumnNotFoundError reports a reference to a column the table does not
// have. Available lists the header at the time of the failure so the message
// shows what the user could have asked for.
type ColumnNotFoundError struct {
	Column    string
	Available []string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found (available: %s)",
		e.Column, strings.Join(e.Available, ", "))
}

// DuplicateColumnError reports the same column named twice in one request.
type DuplicateColumnError struct {
	Column string
}

func (e *DuplicateColumnError) Error() string {
	return fmt.Sprintf("column %q requested more than once", e.Column)
}

// RenameError reports a rename mapping that would leave the header with
// duplicate names.
type RenameError struct {
	Target string
	Detail string
}

func (e *RenameError) Error() string {
	return fmt.Sprintf("cannot rename to %q: %s", e.Target, e.Detail)
}
