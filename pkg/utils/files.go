// =============================================================================
// tablemerge - File Utilities
// =============================================================================
//
// This module provides the file helpers shared by the commands and the
// writer:
//   - input expansion: glob patterns on the command line become file lists
//   - directory management: output parent directories are created on demand
//   - temp naming: unique sibling paths for the write-then-rename pattern
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// =============================================================================
// INPUT DISCOVERY
// =============================================================================

// ExpandInputs turns command-line input arguments into a concrete file list.
// Arguments containing glob metacharacters are expanded with filepath.Glob
// (matches come back sorted); plain paths pass through untouched, so a
// missing file is still reported as missing by the loader rather than being
// silently dropped here.
//
// A pattern that matches nothing is an error: it is almost always a typo,
// and merging fewer files than the user asked for should never happen
// quietly.
func ExpandInputs(args []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[") {
			files = append(files, arg)
			continue
		}

		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad input pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("input pattern %q matched no files", arg)
		}

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				continue
			}
			if !info.IsDir() {
				files = append(files, match)
			}
		}
	}

	return files, nil
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureParentDir creates the parent directory of path if it does not exist.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}

// =============================================================================
// TEMP FILE NAMING
// =============================================================================

// TempPath returns a unique hidden sibling of path for staging a write. The
// temp file lives in the same directory as the final file so the rename that
// publishes it never crosses a filesystem boundary.
func TempPath(path string) string {
	name := fmt.Sprintf(".%s.%s.tmp", filepath.Base(path), uuid.New().String())
	return filepath.Join(filepath.Dir(path), name)
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a file exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
