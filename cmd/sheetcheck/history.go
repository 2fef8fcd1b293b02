package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/sheetcheck/internal/config"
	"github.com/nao1215/sheetcheck/internal/database"
	"github.com/nao1215/sheetcheck/internal/model"
)

// defaultHistoryLimit is the number of runs listed by default.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show previous validation runs",
		Long: `History lists the validation runs recorded in the history database.

Each run records its sources, the number of cells scanned and the issue
counts per rule. Cell values are never stored.

Examples:
  # List the 20 most recent runs
  sheetcheck history

  # List the 5 most recent runs as JSON
  sheetcheck history -n 5 -j

  # Show one run
  sheetcheck history 0b6c0c1e-5f37-4a0e-9d0a-3c1b7f1e2a11`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of runs to list (0 for all)")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir(), database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	return showHistory(context.Background(), db, cmd.OutOrStdout(), args, limit, jsonOutput)
}

// showHistory prints one run when args names it, or the most recent runs.
func showHistory(ctx context.Context, db *database.HistoryDB, out io.Writer, args []string, limit int, jsonOutput bool) error {
	if len(args) == 1 {
		run, err := db.GetRun(ctx, args[0])
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(out, run)
		}
		printRun(out, run)
		return nil
	}

	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		if runs == nil {
			runs = []*database.RunRecord{}
		}
		return writeJSON(out, runs)
	}
	printRuns(out, runs)
	return nil
}

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// printRuns prints a table of runs.
func printRuns(out io.Writer, runs []*database.RunRecord) {
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs found in the history database.")
		fmt.Fprintln(out, "\nUse 'sheetcheck validate <file>' to validate a spreadsheet.")
		return
	}

	fmt.Fprintf(out, "Validation history (%d runs):\n\n", len(runs))
	fmt.Fprintf(out, "  %-36s  %-19s  %7s  %s\n", "ID", "Date", "Issues", "By Rule")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 90))

	for _, run := range runs {
		fmt.Fprintf(out, "  %-36s  %-19s  %7d  %s\n",
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.TotalIssues,
			formatRuleCounts(run.RuleCounts),
		)
	}

	fmt.Fprintln(out, "\nUse 'sheetcheck history <id>' to see one run.")
}

// printRun prints the details of one run.
func printRun(out io.Writer, run *database.RunRecord) {
	fmt.Fprintf(out, "Run %s\n", run.ID)
	fmt.Fprintf(out, "  Date:       %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  Sources:    %s\n", strings.Join(run.Sources, ", "))
	fmt.Fprintf(out, "  Columns:    %d\n", run.Columns)
	fmt.Fprintf(out, "  Cells:      %d\n", run.CellsScanned)
	fmt.Fprintf(out, "  Issues:     %d in %d cells\n", run.TotalIssues, run.FlaggedCells)
	for _, kind := range model.AllRuleKinds() {
		fmt.Fprintf(out, "    %-16s %d\n", kind.Info().Label+":", run.RuleCounts[kind])
	}
	fmt.Fprintf(out, "  Spacing:    strict %d, normal %d\n", run.StrictSpacing, run.NormalSpacing)
	fmt.Fprintf(out, "  Malformed:  %d\n", run.Malformed)
	if run.OutputDir != "" {
		fmt.Fprintf(out, "  Reports:    %s\n", run.OutputDir)
	}
}

// formatRuleCounts formats per-rule counts, e.g. "spacing:3 time:1".
func formatRuleCounts(counts map[model.RuleKind]int) string {
	var parts []string
	for _, kind := range model.AllRuleKinds() {
		if n := counts[kind]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", kind, n))
		}
	}
	if len(parts) == 0 {
		return "no issues"
	}
	return strings.Join(parts, " ")
}
