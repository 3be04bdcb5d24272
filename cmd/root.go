// =============================================================================
// tablemerge - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (tablemerge)
//   ├── mergeCmd   (tablemerge merge)
//   ├── inspectCmd (tablemerge inspect)
//   └── versionCmd (tablemerge version)
//
// EXIT CODES:
//   0 - success
//   2 - validation failures: unknown or duplicate columns, bad rename
//       mappings, missing required columns, unsupported formats, bad flags
//       or job files
//   1 - everything else: missing input files, parse failures, write errors
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tablekit/tablemerge/internal/config"
	"github.com/tablekit/tablemerge/internal/table"
	"github.com/tablekit/tablemerge/internal/validation"
	"github.com/tablekit/tablemerge/pkg/utils"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the job file named with --config. When empty,
// config.DefaultFileName in the working directory is used if present.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "tablemerge",
	Short: "Merge CSV and XLSX tables into one output file",
	Long: `tablemerge concatenates tabular data files (CSV or XLSX) into a single
table, with optional column selection, renaming and required-column checks
along the way. The output format is picked from the output file extension.

Mismatched headers are unioned: rows from a file that lacks one of the merged
columns get an empty value for it. Any failure aborts the run before the
output file is touched.

Example Usage:
  tablemerge merge --inputs a.csv,b.xlsx --output merged.csv
  tablemerge merge --inputs 'data/*.csv' --select id,name --output out.xlsx
  tablemerge merge --config job.yaml --dry-run
  tablemerge inspect --inputs data/accounts.xlsx`,

	// Without a subcommand there is nothing to do but explain ourselves.
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},

	// Errors are printed once, by Execute, with the proper exit code.
	SilenceUsage:  true,
	SilenceErrors: true,
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. This is called by main.main(). On failure it
// prints the error to stderr and exits with the matching code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

// exitCode classifies an error from a command run. Validation-class failures
// (anything the user can fix by correcting columns, mappings or flags) exit
// with 2; I/O and parse failures exit with 1.
func exitCode(err error) int {
	var (
		usage       *config.UsageError
		notFound    *table.ColumnNotFoundError
		duplicate   *table.DuplicateColumnError
		rename      *table.RenameError
		unsupported *table.UnsupportedFormatError
		missing     *validation.MissingColumnsError
	)

	switch {
	case errors.As(err, &usage),
		errors.As(err, &notFound),
		errors.As(err, &duplicate),
		errors.As(err, &rename),
		errors.As(err, &unsupported),
		errors.As(err, &missing):
		return 2
	default:
		return 1
	}
}

// =============================================================================
// JOB FILE RESOLUTION
// =============================================================================

// loadJob resolves the job file for a command run. An explicit --config file
// must exist; the default file is picked up only when present.
func loadJob() (*config.Job, error) {
	if cfgFile != "" {
		return config.Load(cfgFile)
	}
	if utils.FileExists(config.DefaultFileName) {
		return config.Load(config.DefaultFileName)
	}
	return config.Default(), nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================
	// Persistent flags are available to this command and all subcommands.

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		fmt.Sprintf("Path to a YAML job file (default is %s when present)", config.DefaultFileName),
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	// Flag parse failures are usage errors, so they exit with the
	// validation code like every other bad invocation.
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &config.UsageError{Msg: err.Error()}
	})
}
