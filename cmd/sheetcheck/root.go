package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sheetcheck.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheetcheck",
		Short: "Validate spreadsheet columns for spacing, time and extension problems",
		Long: `sheetcheck validates the cells of Excel workbooks and CSV files.

It flags irregular whitespace and special characters, times that are not
zero-padded 24-hour HH:MM:SS, and file extensions in the wrong case.
Every run writes a highlighted copy of each workbook and a CSV report into
a timestamped folder, and mirrors them into <output-dir>/latest.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewValidateCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
