package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/sheetcheck/internal/model"
	"github.com/nao1215/sheetcheck/internal/report"
)

// FileName is the name of the history database inside its directory.
const FileName = "history.db"

// ErrRunNotFound is returned by GetRun when no run has the given ID.
var ErrRunNotFound = errors.New("run not found")

// HistoryDB stores one record per validate run.
type HistoryDB struct {
	db     *sql.DB
	dbPath string
}

// Options configures HistoryDB behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the history database in dbDir.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*HistoryDB, error) {
	dbPath := filepath.Join(dbDir, FileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// mode=rw refuses to create a missing file.
	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	hdb := &HistoryDB{
		db:     db,
		dbPath: dbPath,
	}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := hdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return hdb, nil
}

// Path returns the database file path.
func (hdb *HistoryDB) Path() string {
	return hdb.dbPath
}

// Close closes the database connection.
func (hdb *HistoryDB) Close() error {
	return hdb.db.Close()
}

func (hdb *HistoryDB) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		started_at TEXT NOT NULL,
		sources TEXT NOT NULL,
		columns INTEGER NOT NULL,
		cells_scanned INTEGER NOT NULL,
		total_issues INTEGER NOT NULL,
		flagged_cells INTEGER NOT NULL,
		strict_spacing INTEGER NOT NULL,
		normal_spacing INTEGER NOT NULL,
		malformed INTEGER NOT NULL,
		rule_counts TEXT NOT NULL,
		output_dir TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
	`

	_, err := hdb.db.ExecContext(context.Background(), schema)
	return err
}

// RunRecord is the stored summary of one validate run.
type RunRecord struct {
	ID            string                 `json:"id"`
	StartedAt     time.Time              `json:"started_at"`
	Sources       []string               `json:"sources"`
	Columns       int                    `json:"columns"`
	CellsScanned  int                    `json:"cells_scanned"`
	TotalIssues   int                    `json:"total_issues"`
	FlaggedCells  int                    `json:"flagged_cells"`
	StrictSpacing int                    `json:"strict_spacing"`
	NormalSpacing int                    `json:"normal_spacing"`
	Malformed     int                    `json:"malformed"`
	RuleCounts    map[model.RuleKind]int `json:"rule_counts"`
	OutputDir     string                 `json:"output_dir,omitempty"`
}

// NewRunRecord builds a record from a report summary. An empty id gets a
// fresh random UUID.
func NewRunRecord(id string, startedAt time.Time, outputDir string, sum report.Summary) *RunRecord {
	if id == "" {
		id = uuid.New().String()
	}
	counts := make(map[model.RuleKind]int, len(sum.ByRule))
	for k, n := range sum.ByRule {
		counts[k] = n
	}
	return &RunRecord{
		ID:            id,
		StartedAt:     startedAt.UTC(),
		Sources:       append([]string(nil), sum.Sources...),
		Columns:       len(sum.Columns),
		CellsScanned:  sum.CellsScanned,
		TotalIssues:   sum.TotalIssues,
		FlaggedCells:  sum.FlaggedCells,
		StrictSpacing: sum.StrictSpacing,
		NormalSpacing: sum.NormalSpacing,
		Malformed:     sum.Malformed,
		RuleCounts:    counts,
		OutputDir:     outputDir,
	}
}

// SaveRun inserts a run record.
func (hdb *HistoryDB) SaveRun(ctx context.Context, run *RunRecord) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}

	sourcesJSON, err := json.Marshal(run.Sources)
	if err != nil {
		return fmt.Errorf("failed to serialize sources: %w", err)
	}
	countsJSON, err := json.Marshal(run.RuleCounts)
	if err != nil {
		return fmt.Errorf("failed to serialize rule counts: %w", err)
	}

	query := `
	INSERT INTO runs (id, started_at, sources, columns, cells_scanned, total_issues,
		flagged_cells, strict_spacing, normal_spacing, malformed, rule_counts, output_dir)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = hdb.db.ExecContext(ctx, query,
		run.ID,
		run.StartedAt.UTC().Format(storedTimeLayout),
		string(sourcesJSON),
		run.Columns,
		run.CellsScanned,
		run.TotalIssues,
		run.FlaggedCells,
		run.StrictSpacing,
		run.NormalSpacing,
		run.Malformed,
		string(countsJSON),
		run.OutputDir,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

const selectRun = `
	SELECT id, started_at, sources, columns, cells_scanned, total_issues,
		flagged_cells, strict_spacing, normal_spacing, malformed, rule_counts, output_dir
	FROM runs
	`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(s rowScanner) (*RunRecord, error) {
	var (
		run         RunRecord
		startedAt   string
		sourcesJSON string
		countsJSON  string
		outputDir   sql.NullString
	)
	if err := s.Scan(&run.ID, &startedAt, &sourcesJSON, &run.Columns, &run.CellsScanned,
		&run.TotalIssues, &run.FlaggedCells, &run.StrictSpacing, &run.NormalSpacing,
		&run.Malformed, &countsJSON, &outputDir); err != nil {
		return nil, err
	}

	run.StartedAt = parseTimestamp(startedAt)
	run.OutputDir = outputDir.String
	if err := json.Unmarshal([]byte(sourcesJSON), &run.Sources); err != nil {
		return nil, fmt.Errorf("failed to parse sources of run %s: %w", run.ID, err)
	}
	run.RuleCounts = make(map[model.RuleKind]int)
	if err := json.Unmarshal([]byte(countsJSON), &run.RuleCounts); err != nil {
		return nil, fmt.Errorf("failed to parse rule counts of run %s: %w", run.ID, err)
	}
	return &run, nil
}

// ListRuns returns the most recent runs, newest first. A limit of zero or
// less returns every run.
func (hdb *HistoryDB) ListRuns(ctx context.Context, limit int) ([]*RunRecord, error) {
	query := selectRun + "ORDER BY started_at DESC, rowid DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := hdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*RunRecord
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns the run with the given ID, or ErrRunNotFound.
func (hdb *HistoryDB) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	run, err := scanRun(hdb.db.QueryRowContext(ctx, selectRun+"WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// storedTimeLayout is fixed-width so that started_at sorts as text.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z"

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp tries each known format and returns zero time if none match.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
