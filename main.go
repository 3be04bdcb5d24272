// =============================================================================
// tablemerge - Main Entry Point
// =============================================================================
//
// This is the main entry point for the tablemerge CLI application. It
// initializes the Cobra CLI framework and delegates command execution to the
// cmd package.
//
// USAGE:
//   tablemerge merge     - Merge input tables into one output file
//   tablemerge inspect   - Show the header and size of each input table
//   tablemerge version   - Display the application version
//
// ARCHITECTURE:
//   This application follows a modular design where:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//
// =============================================================================

package main

import (
	"github.com/tablekit/tablemerge/cmd"
)

// main is the entry point of the application.
// It simply calls the Execute function from the cmd package, which
// initializes and runs the Cobra CLI.
func main() {
	cmd.Execute()
}
