// =============================================================================
// tablemerge - Required Column Validation
// =============================================================================
//
// Validation runs after select and rename, immediately before the write, so
// the names it checks are the names that will appear in the output file. A
// failure reports every missing column at once rather than stopping at the
// first, together with the header that was actually present.
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"

	"github.com/tablekit/tablemerge/internal/table"
)

// MissingColumnsError reports required columns absent from the final table.
type MissingColumnsError struct {
	// Missing lists the absent columns in the order they were required.
	Missing []string

	// Available is the table header at the time of the check.
	Available []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s (available: %s)",
		strings.Join(e.Missing, ", "),
		strings.Join(e.Available, ", "))
}

// Required checks that every name in required is a column of t. It returns
// nil when all are present and a *MissingColumnsError naming every absent
// column otherwise. An empty requirement always passes; rows play no part in
// the check, so a zero-row table with the right header is valid.
func Required(t *table.Table, required []string) error {
	var missing []string

	for _, name := range required {
		if !t.HasColumn(name) {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return &MissingColumnsError{
			Missing:   missing,
			Available: t.Columns,
		}
	}

	return nil
}
