package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/nao1215/sheetcheck/internal/config"
	"github.com/nao1215/sheetcheck/internal/database"
	"github.com/nao1215/sheetcheck/internal/log"
	"github.com/nao1215/sheetcheck/internal/model"
	"github.com/nao1215/sheetcheck/internal/outdir"
	"github.com/nao1215/sheetcheck/internal/report"
	"github.com/nao1215/sheetcheck/internal/rule"
	"github.com/nao1215/sheetcheck/internal/session"
	"github.com/nao1215/sheetcheck/internal/sheet"
	"github.com/nao1215/sheetcheck/internal/validator"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file...]",
		Short: "Validate spreadsheet columns",
		Long: `Validate checks the cells of one or more .xlsx, .xlsm or .csv files.

Rules:
- spacing:   leading/trailing or repeated whitespace, non-printable and
             disallowed special characters (strict mode flags any whitespace)
- time:      values that are not zero-padded 24-hour HH:MM:SS
- extension: file extensions that are not in their canonical case

All files are accumulated into one session. Each source gets a copy with
the flagged cells filled red and a "Validation Report" sheet, and the
session gets one CSV report. Reports are written to
<output-dir>/<YYYYMMDD_HHMMSS>/ and mirrored into <output-dir>/latest/.

Examples:
  # Validate every column of the first sheet
  sheetcheck validate orders.xlsx

  # Validate two columns, one of them strictly
  sheetcheck validate -C FileName,Notes -S FileName orders.xlsx

  # Only check times in the StartTime column
  sheetcheck validate -r time -C StartTime shifts.csv

  # Validate every sheet and print a Markdown summary
  sheetcheck validate -s '*' -m orders.xlsx`,
		Args: cobra.ArbitraryArgs,
		RunE: runValidateCmd,
	}

	// Selection flags
	cmd.Flags().StringSliceP("sheet", "s", nil,
		"Sheets to validate (default: first sheet, '*' for all)")
	cmd.Flags().StringSliceP("columns", "C", nil,
		"Columns to validate by header label (default: all)")
	cmd.Flags().StringSliceP("rules", "r", nil,
		"Rules to apply: spacing, time, extension (default: all)")
	cmd.Flags().StringSliceP("strict", "S", nil,
		"Columns validated in strict mode")
	cmd.Flags().StringSlice("time-columns", nil,
		"Restrict the time rule to these columns")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .sheetcheck in current or home directory)")

	// Output flags
	cmd.Flags().StringP("output-dir", "o", config.DefaultOutputDir,
		"Root folder for timestamped report folders")
	cmd.Flags().BoolP("json", "j", false,
		"Print the summary as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Print the summary as Markdown (mutually exclusive with --json)")
	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the history database")

	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of columns validated concurrently")

	return cmd
}

// runValidateCmd executes the validate command.
func runValidateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runValidate(ctx, cfg, logger, cmd.OutOrStdout(), cmd.ErrOrStderr())
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from the config file and cobra command flags.
// The file is applied first; flags the user set explicitly override it.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit path that does not exist is an error; a missing default
	// file is not.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	if configPath != "" {
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := cfg.Apply(cf); err != nil {
			return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if cfg.Sheets, err = flags.GetStringSlice("sheet"); err != nil {
		return nil, err
	}
	if cfg.Columns, err = flags.GetStringSlice("columns"); err != nil {
		return nil, err
	}

	if flags.Changed("rules") {
		names, err := flags.GetStringSlice("rules")
		if err != nil {
			return nil, err
		}
		cfg.Rules, err = model.ParseRuleKinds(names)
		if err != nil {
			return nil, fmt.Errorf("invalid --rules: %w", err)
		}
		cfg.TimeRuleRequested = slices.Contains(cfg.Rules, model.RuleTimeFormat)
	}
	if flags.Changed("strict") {
		if cfg.StrictColumns, err = flags.GetStringSlice("strict"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("time-columns") {
		if cfg.TimeColumns, err = flags.GetStringSlice("time-columns"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("output-dir") {
		if cfg.OutputDir, err = flags.GetString("output-dir"); err != nil {
			return nil, err
		}
	}

	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}

	noHistory, err := flags.GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noHistory

	if cfg.BatchSize, err = flags.GetInt("batch"); err != nil {
		return nil, err
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Files = args

	return cfg, nil
}

// runValidate reads every input, validates it into one session and writes
// the reports. Column-level problems are printed to errOut and do not fail
// the run unless no column could be validated at all.
func runValidate(ctx context.Context, cfg *config.Config, logger *slog.Logger, out, errOut io.Writer) error {
	startedAt := time.Now()
	runID := uuid.New().String()

	logger.Info("starting validation",
		"run_id", runID,
		"files", cfg.Files,
		"rules", model.NewRuleSet(cfg.Rules...).String(),
		"batchSize", cfg.BatchSize,
	)

	reader := sheet.NewReader(sheet.WithLogger(logger))
	var tables []*model.Table
	for _, path := range cfg.Files {
		read, err := reader.Read(path, cfg.Sheets)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		tables = append(tables, read...)
	}
	uniqueSources(tables)

	v := validator.New(
		rule.NewSet(cfg.RuleOptions()),
		validator.WithLogger(logger),
		validator.WithConcurrency(cfg.BatchSize),
	)
	acc := session.New()

	var (
		skipped     []error
		timeChecked bool
	)
	for _, table := range tables {
		plans := planColumns(cfg, table, logger)
		for _, plan := range plans {
			if slices.Contains(plan.Rules, model.RuleTimeFormat) {
				timeChecked = true
			}
		}
		columnErrs, err := v.ValidateTable(ctx, table, plans, acc)
		if err != nil {
			return err
		}
		for _, e := range columnErrs {
			if e != nil {
				skipped = append(skipped, e)
				fmt.Fprintf(errOut, "Warning: %v\n", e)
			}
		}
	}
	if cfg.TimeRuleExpected() && !timeChecked {
		logger.Warn("time rule selected but no time column matched", "time_columns", cfg.TimeColumns)
		fmt.Fprintln(errOut, "Warning: the time rule was not applied to any column (select columns with --time-columns, or --rules time with --columns)")
	}
	if acc.Len() == 0 {
		if len(skipped) > 0 {
			return fmt.Errorf("no column could be validated: %w", errors.Join(skipped...))
		}
		return errors.New("no column could be validated (check --columns and --time-columns)")
	}

	bundle := report.Build(acc.Snapshot())

	run, err := outdir.New(cfg.OutputDir, startedAt,
		outdir.WithLogger(logger),
		outdir.WithLockTimeout(cfg.LockTimeout),
	)
	if err != nil {
		return err
	}
	if err := writeReports(run, tables, &bundle, logger); err != nil {
		return err
	}

	latestPublished := true
	if err := run.PublishLatest(ctx); err != nil {
		if !errors.Is(err, outdir.ErrLocked) {
			return fmt.Errorf("failed to update %s: %w", run.LatestPath(), err)
		}
		latestPublished = false
		fmt.Fprintf(errOut, "Warning: %s is in use by another run; reports were left in %s only\n",
			run.LatestPath(), run.Dir)
	}

	meta := report.Metadata{
		RunID:       runID,
		Version:     getVersion(),
		GeneratedAt: startedAt,
	}
	if err := outputSummary(cfg, out, meta, &bundle); err != nil {
		return err
	}
	if !cfg.JSONReport && !cfg.MarkdownReport {
		fmt.Fprintf(out, "\nReports written to %s\n", run.Dir)
		if latestPublished {
			fmt.Fprintf(out, "Latest reports:    %s\n", run.LatestPath())
		}
	}

	if cfg.SaveToDB {
		record := database.NewRunRecord(runID, startedAt, run.Dir, bundle.Summary)
		if err := saveRun(ctx, cfg.DBDir, record, logger); err != nil {
			logger.Error("failed to save run history", "error", err)
		}
	}

	return nil
}

// planColumns lists the columns of table to validate with their rules and
// mode. Repeated names are planned once; columns left without any rule are
// skipped.
func planColumns(cfg *config.Config, table *model.Table, logger *slog.Logger) []validator.ColumnPlan {
	names := cfg.Columns
	if len(names) == 0 {
		names = table.ColumnNames()
	}

	plans := make([]validator.ColumnPlan, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		key := model.FoldLabel(name)
		if seen[key] {
			continue
		}
		seen[key] = true

		rules, mode := cfg.ColumnRules(name)
		if len(rules) == 0 {
			logger.Warn("no rule applies to column, skipping", "source", table.Source, "column", name)
			continue
		}
		plans = append(plans, validator.ColumnPlan{Column: name, Rules: rules, Mode: mode})
	}
	return plans
}

// uniqueSources relabels tables whose file shares its base name with an
// earlier, different file, e.g. "x.csv" and "x.csv (2)". Issues are matched
// to workbooks by source label, so labels must not repeat across files.
func uniqueSources(tables []*model.Table) {
	names := make(map[string]string) // path -> display name
	used := make(map[string]bool)    // display names taken
	for _, t := range tables {
		name, ok := names[t.Path]
		if !ok {
			base := filepath.Base(t.Path)
			name = base
			for i := 2; used[model.FoldLabel(name)]; i++ {
				name = fmt.Sprintf("%s (%d)", base, i)
			}
			used[model.FoldLabel(name)] = true
			names[t.Path] = name
		}
		t.Source = sheet.Label(name, t.Sheet)
	}
}

// writeReports writes one highlighted workbook per source file and the
// session CSV into the run folder.
func writeReports(run *outdir.Run, tables []*model.Table, bundle *report.Bundle, logger *slog.Logger) error {
	ww := report.NewWorkbookWriter(report.WithWorkbookLogger(logger))

	used := make(map[string]bool)
	for _, group := range groupByPath(tables) {
		name := uniqueName(used, workbookName(group, run.Stamp))
		if err := ww.WriteWorkbook(run.Path(name), group, bundle); err != nil {
			return err
		}
		logger.Debug("workbook report written", "path", run.Path(name))
	}

	name := report.CSVName(run.Stamp)
	f, err := run.Create(name)
	if err != nil {
		return err
	}
	if _, err := report.NewCSVWriter(f).Write(bundle); err != nil {
		_ = f.Close() //nolint:errcheck // the write error is more useful
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	logger.Debug("csv report written", "path", run.Path(name))
	return nil
}

// groupByPath groups tables by the file they came from, keeping input order.
func groupByPath(tables []*model.Table) [][]*model.Table {
	var groups [][]*model.Table
	index := make(map[string]int)
	for _, t := range tables {
		i, ok := index[t.Path]
		if !ok {
			i = len(groups)
			index[t.Path] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], t)
	}
	return groups
}

// workbookName names the highlighted copy of one source file. The sheet is
// part of the name only when a single sheet was validated.
func workbookName(group []*model.Table, stamp string) string {
	path := group[0].Path
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	sheetName := ""
	if len(group) == 1 {
		sheetName = group[0].Sheet
	}
	return report.WorkbookName(base, sheetName, stamp)
}

// uniqueName appends a counter to name when it was already used.
func uniqueName(used map[string]bool, name string) string {
	candidate := name
	ext := filepath.Ext(name)
	for i := 2; used[candidate]; i++ {
		candidate = fmt.Sprintf("%s_%d%s", strings.TrimSuffix(name, ext), i, ext)
	}
	used[candidate] = true
	return candidate
}

// outputSummary prints the session summary in the requested format.
func outputSummary(cfg *config.Config, out io.Writer, meta report.Metadata, bundle *report.Bundle) error {
	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(out, meta, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(out, meta)
	default:
		w = report.NewSimpleWriter(out, report.WithVerbose(cfg.Verbose))
	}
	_, err := w.Write(bundle)
	return err
}

// saveRun records the run in the history database.
func saveRun(ctx context.Context, dbDir string, record *database.RunRecord, logger *slog.Logger) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.SaveRun(ctx, record); err != nil {
		return err
	}
	logger.Info("run saved to history", "run_id", record.ID, "db", db.Path())
	return nil
}
