// =============================================================================
// tablemerge - Merge Command
// =============================================================================
//
// This file defines the 'merge' command, the main command of the tool. It
// resolves the run options from the job file and the command line, then hands
// off to the pipeline.
//
// COMMAND USAGE:
//   tablemerge merge [flags]
//
// FLAGS:
//   --inputs    : Input files to merge (repeatable, comma lists, globs)
//   --select    : Columns to keep, in order
//   --rename    : Column renames as old:new pairs
//   --required  : Columns that must be present in the final table
//   --output    : Output file path (.csv or .xlsx)
//   --dry-run   : Run every stage except the final write
//
// OPTION PRECEDENCE:
//   Flags that were explicitly set override the job file; everything else
//   comes from the job file, when one is in play.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tablekit/tablemerge/internal/config"
	"github.com/tablekit/tablemerge/internal/logging"
	"github.com/tablekit/tablemerge/internal/pipeline"
	"github.com/tablekit/tablemerge/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// mergeInputs holds the --inputs values: paths or glob patterns.
var mergeInputs []string

// mergeSelect holds the --select column list.
var mergeSelect []string

// mergeRename holds the --rename old:new pairs.
var mergeRename []string

// mergeRequired holds the --required column list.
var mergeRequired []string

// mergeOutput is the output file path.
var mergeOutput string

// mergeDryRun runs the pipeline without writing the output file.
var mergeDryRun bool

// =============================================================================
// MERGE COMMAND DEFINITION
// =============================================================================

// mergeCmd represents the 'merge' command.
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge tabular files into one CSV or XLSX output",
	Long: `The merge command reads every input file into a table, concatenates the
tables in input order, and writes the result to the output path. The format
of each file is picked from its extension (.csv, .xlsx or .xlsm for inputs;
.csv or .xlsx for the output).

Between merging and writing, three optional stages apply in a fixed order:
  1. --select restricts the table to the named columns, in the given order
  2. --rename relabels columns through old:new pairs
  3. --required verifies the named columns exist in the final table

Every failure aborts the run and nothing is written; the output file is
published atomically, so an interrupted run never leaves partial output.

Examples:
  tablemerge merge --inputs a.csv,b.xlsx --output merged.csv
  tablemerge merge --inputs 'exports/*.csv' --select id,name,amount \
    --rename name:client,amount:value --required id,client \
    --output merged.xlsx
  tablemerge merge --config job.yaml --dry-run`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runMerge(cmd)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the merge command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringSliceVar(
		&mergeInputs,
		"inputs",
		nil,
		"Input files to merge, in order (CSV or XLSX; comma lists and glob patterns allowed)",
	)

	mergeCmd.Flags().StringSliceVar(
		&mergeSelect,
		"select",
		nil,
		"Columns to keep, in this order (all columns when omitted)",
	)

	mergeCmd.Flags().StringSliceVar(
		&mergeRename,
		"rename",
		nil,
		"Column renames as old:new pairs, e.g. name:client,amount:value",
	)

	mergeCmd.Flags().StringSliceVar(
		&mergeRequired,
		"required",
		nil,
		"Columns that must be present in the final table",
	)

	mergeCmd.Flags().StringVar(
		&mergeOutput,
		"output",
		"",
		"Output file path; the extension picks the format (.csv or .xlsx)",
	)

	mergeCmd.Flags().BoolVar(
		&mergeDryRun,
		"dry-run",
		false,
		"Run every stage except the final write",
	)
}

// =============================================================================
// MAIN MERGE FUNCTION
// =============================================================================

// runMerge resolves the run options and executes the pipeline.
func runMerge(cmd *cobra.Command) error {
	// =========================================================================
	// STEP 1: RESOLVE OPTIONS
	// =========================================================================
	// Start from the job file (or defaults) and lay explicitly-set flags on
	// top.

	job, err := loadJob()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("inputs") {
		job.Inputs = config.CleanList(mergeInputs)
	}
	if cmd.Flags().Changed("select") {
		job.Select = config.CleanList(mergeSelect)
	}
	if cmd.Flags().Changed("rename") {
		mapping, err := config.ParseRenamePairs(mergeRename)
		if err != nil {
			return err
		}
		job.Rename = mapping
	}
	if cmd.Flags().Changed("required") {
		job.Required = config.CleanList(mergeRequired)
	}
	if cmd.Flags().Changed("output") {
		job.Output = mergeOutput
	}

	if len(job.Inputs) == 0 {
		return &config.UsageError{Msg: "at least one input file is required (--inputs or the job file)"}
	}
	if job.Output == "" {
		return &config.UsageError{Msg: "an output path is required (--output or the job file)"}
	}

	inputs, err := utils.ExpandInputs(job.Inputs)
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 2: SET UP LOGGING
	// =========================================================================

	logger, flush := logging.Setup(logging.Options{
		Level:  logging.Level(job.LogLevel, verbose),
		SeqURL: job.SeqURL,
	})
	defer flush()

	// =========================================================================
	// STEP 3: RUN THE PIPELINE
	// =========================================================================

	result, err := pipeline.New(pipeline.Options{
		Inputs:   inputs,
		Select:   job.Select,
		Rename:   job.Rename,
		Required: job.Required,
		Output:   job.Output,
		DryRun:   mergeDryRun,
	}, logger).Run()
	if err != nil {
		return err
	}

	// =========================================================================
	// STEP 4: PRINT SUMMARY
	// =========================================================================

	fmt.Printf("Merged %d file(s): %d rows, %d columns\n",
		result.InputFiles, result.Rows, result.Columns)
	fmt.Printf("Header:  %s\n", strings.Join(result.Header, ", "))
	if result.Written {
		fmt.Printf("Output:  %s\n", result.Output)
	} else {
		fmt.Println("Dry run: no output written")
	}
	fmt.Printf("Elapsed: %s\n", result.Elapsed)

	return nil
}
