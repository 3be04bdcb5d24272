// =============================================================================
// tablemerge - Configuration Module
// =============================================================================
//
// This module loads the optional job file and owns the parsing of the
// column-list and rename flag syntax shared by the commands.
//
// A job file predefines any subset of the merge options, so a recurring
// merge can live in version control and be run as "tablemerge merge" with no
// flags. Explicitly set command-line flags always win over job file values;
// the merge command handles that layering, since only it can see which flags
// were set.
//
// Unknown keys in a job file are errors. Silently ignoring a misspelled
// "required:" would skip a validation the user believes is running.
//
// =============================================================================

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the job file picked up from the working directory when
// --config is not given. It is optional there; a missing default is skipped,
// while a missing explicit --config is an error.
const DefaultFileName = "tablemerge.yaml"

// =============================================================================
// JOB STRUCTURE
// =============================================================================

// Job holds the full option set of a merge run.
type Job struct {
	// Inputs are the files to merge, in order. Entries may be glob patterns.
	Inputs []string `yaml:"inputs"`

	// Select restricts the merged table to these columns, in this order.
	// Empty means keep every column.
	Select []string `yaml:"select"`

	// Rename maps old column names to new ones, applied after select.
	Rename map[string]string `yaml:"rename"`

	// Required lists columns that must exist in the final table.
	Required []string `yaml:"required"`

	// Output is the destination path; its extension picks the format.
	Output string `yaml:"output"`

	// LogLevel controls verbosity: "debug", "info", "warn" or "error".
	// Default: "info"
	LogLevel string `yaml:"log_level"`

	// SeqURL, when set, ships structured logs to a Seq ingestion endpoint in
	// addition to stderr.
	SeqURL string `yaml:"seq_url"`
}

// Default returns a job with default settings and nothing to do.
func Default() *Job {
	return &Job{
		LogLevel: "info",
	}
}

// =============================================================================
// USAGE ERRORS
// =============================================================================

// UsageError marks a problem with how the tool was invoked (bad flag syntax,
// bad job file) rather than with the data it read. The command layer maps it
// to the validation exit code.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string {
	return e.Msg
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads a job file. Read failures are returned as is so the caller can
// distinguish a missing default file from a broken one; decode failures and
// invalid settings are usage errors.
func Load(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	job := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(job); err != nil {
		// An empty job file is a valid job file.
		if errors.Is(err, io.EOF) {
			return job, nil
		}
		return nil, &UsageError{Msg: fmt.Sprintf("config file %s: %v", path, err)}
	}

	if err := validate(job, path); err != nil {
		return nil, err
	}

	return job, nil
}

// validate checks the settings a job file could get wrong.
func validate(job *Job, path string) error {
	switch job.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return &UsageError{
			Msg: fmt.Sprintf("config file %s: invalid log_level %q (use debug, info, warn or error)", path, job.LogLevel),
		}
	}
	return nil
}

// =============================================================================
// FLAG SYNTAX PARSERS
// =============================================================================

// CleanList trims the entries of a comma-split flag value and drops empties,
// so "--select id, name," means the same as "--select id,name".
func CleanList(values []string) []string {
	var cleaned []string
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			cleaned = append(cleaned, v)
		}
	}
	return cleaned
}

// ParseRenamePairs turns command-line "old:new" pairs into a rename mapping.
// Every pair needs both names, and a source column may appear only once.
func ParseRenamePairs(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	mapping := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		from, to, ok := strings.Cut(pair, ":")
		from = strings.TrimSpace(from)
		to = strings.TrimSpace(to)

		if !ok || from == "" || to == "" {
			return nil, &UsageError{Msg: fmt.Sprintf("bad rename pair %q, expected old:new", pair)}
		}
		if _, dup := mapping[from]; dup {
			return nil, &UsageError{Msg: fmt.Sprintf("column %q renamed more than once", from)}
		}

		mapping[from] = to
	}

	return mapping, nil
}
