// =============================================================================
// tablemerge - Inspect Command
// =============================================================================
//
// This file defines the 'inspect' command, which loads each input file and
// reports its header and dimensions without merging or writing anything.
// Useful for checking what --select, --rename and --required can refer to
// before running a merge.
//
// COMMAND USAGE:
//   tablemerge inspect --inputs a.csv,b.xlsx
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

// inspectInputs holds the --inputs values for the inspect command.
var inspectInputs []string

// inspectCmd represents the 'inspect' command.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Show the header and size of each input table",
	Long: `The inspect command loads every input file the same way merge does and
prints its header and dimensions. Nothing is merged and nothing is written.

Examples:
  tablemerge inspect --inputs data/accounts.xlsx
  tablemerge inspect --inputs 'exports/*.csv'`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect(cmd)
	},
}

// init registers the inspect command with the root command and sets up flags.
func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringSliceVar(
		&inspectInputs,
		"inputs",
		nil,
		"Input files to inspect (CSV or XLSX; comma lists and glob patterns allowed)",
	)
}

// runInspect loads each input and prints a short report.
func runInspect(cmd *cobra.Command) error {
	job, err := loadJob()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("inputs") {
		job.Inputs = config.CleanList(inspectInputs)
	}
	if len(job.Inputs) == 0 {
		return &config.UsageError{Msg: "at least one input file is required (--inputs or the job file)"}
	}

	inputs, err := utils.ExpandInputs(job.Inputs)
	if err != nil {
		return err
	}

	logger, flush := logging.Setup(logging.Options{
		Level:  logging.Level(job.LogLevel, verbose),
		SeqURL: job.SeqURL,
	})
	defer flush()

	for _, path := range inputs {
		t, err := pipeline.ReadTable(path, logger)
		if err != nil {
			return err
		}

		fmt.Println(path)
		fmt.Printf("  Rows:    %d\n", len(t.Rows))
		fmt.Printf("  Columns: %d (%s)\n", len(t.Columns), strings.Join(t.Columns, ", "))
	}

	return nil
}
