package validator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/sheetcheck/internal/model"
	"github.com/nao1215/sheetcheck/internal/rule"
	"github.com/nao1215/sheetcheck/internal/session"
)

// DefaultConcurrency is the number of columns validated at once by ValidateTable.
const DefaultConcurrency = 4

// Validator checks columns against a rule set.
type Validator struct {
	rules       *rule.Set
	logger      *slog.Logger
	concurrency int
}

// Option configures a Validator.
type Option func(*Validator)

// WithLogger sets the logger used for progress and column failures.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// WithConcurrency sets how many columns ValidateTable checks at once.
// Non-positive values keep the default.
func WithConcurrency(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.concurrency = n
		}
	}
}

// New creates a Validator that dispatches to the evaluators in rules.
func New(rules *rule.Set, opts ...Option) *Validator {
	v := &Validator{
		rules:       rules,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.logger == nil {
		v.logger = slog.Default()
	}
	return v
}

// Validate checks every non-blank cell of col with the selected rule kinds.
//
// Evaluators run in the fixed order spacing, time, extension for each cell,
// so the issues of the result are in row order and, within a row, in rule
// order. Duplicate kinds are applied once. An empty or unknown selection
// returns a *model.RuleSelectionError and no result.
func (v *Validator) Validate(col model.Column, rules []model.RuleKind, mode model.Mode) (model.ColumnResult, error) {
	evaluators, kinds, err := v.evaluatorsFor(col.Name, rules)
	if err != nil {
		return model.ColumnResult{}, err
	}

	result := model.ColumnResult{
		Source: col.Source,
		Column: col.Name,
		Mode:   mode,
		Rules:  kinds,
		Issues: make([]model.Issue, 0),
	}

	for _, cell := range col.Cells {
		if cell.IsBlank() {
			continue
		}
		result.CellsScanned++

		for _, e := range evaluators {
			issue, found := e.Evaluate(cell.Value, mode)
			if !found {
				continue
			}
			issue.Cell = cell.Ref
			issue.Value = cell.Value
			issue.Strict = mode.IsStrict()
			result.Issues = append(result.Issues, issue)
		}
	}

	return result, nil
}

// evaluatorsFor resolves the selection into evaluators in canonical order.
func (v *Validator) evaluatorsFor(column string, rules []model.RuleKind) ([]rule.Evaluator, []model.RuleKind, error) {
	if len(rules) == 0 {
		return nil, nil, &model.RuleSelectionError{Column: column}
	}

	var unknown []string
	for _, k := range rules {
		if !k.Valid() {
			unknown = append(unknown, fmt.Sprintf("#%d", int(k)))
		}
	}
	if len(unknown) > 0 {
		return nil, nil, &model.RuleSelectionError{Column: column, Unknown: unknown}
	}

	kinds := model.NewRuleSet(rules...).Kinds()
	evaluators := make([]rule.Evaluator, 0, len(kinds))
	for _, k := range kinds {
		e, err := v.rules.Evaluator(k)
		if err != nil {
			var selErr *model.RuleSelectionError
			if errors.As(err, &selErr) {
				selErr.Column = column
			}
			return nil, nil, err
		}
		evaluators = append(evaluators, e)
	}
	return evaluators, kinds, nil
}

// ColumnPlan selects one column of a table and how to check it.
type ColumnPlan struct {
	Column string
	Rules  []model.RuleKind
	Mode   model.Mode
}

// ValidateTable validates the planned columns of table and accumulates the
// results into acc in plan order.
//
// A plan naming a missing column (*model.InputShapeError) or carrying an
// invalid rule selection (*model.RuleSelectionError) is skipped and its
// error returned in the first return value; the other columns still run.
// The second return value is non-nil only when ctx is cancelled, in which
// case nothing is accumulated.
func (v *Validator) ValidateTable(ctx context.Context, table *model.Table, plans []ColumnPlan, acc *session.Accumulator) ([]error, error) {
	v.logger.Info("validating table",
		"source", table.Source,
		"columns", len(plans),
		"concurrency", v.concurrency,
	)
	startTime := time.Now()

	results := make([]*model.ColumnResult, len(plans))
	columnErrs := make([]error, len(plans))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(v.concurrency)

	for i, plan := range plans {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			col, err := table.Column(plan.Column)
			if err != nil {
				v.logger.Warn("skipping column", "source", table.Source, "column", plan.Column, "error", err)
				columnErrs[i] = err
				return nil
			}

			result, err := v.Validate(col, plan.Rules, plan.Mode)
			if err != nil {
				v.logger.Warn("skipping column", "source", table.Source, "column", col.Name, "error", err)
				columnErrs[i] = err
				return nil
			}

			v.logger.Debug("column validated",
				"source", table.Source,
				"column", col.Name,
				"mode", plan.Mode.String(),
				"cells", result.CellsScanned,
				"issues", result.IssueCount(),
			)
			results[i] = &result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", table.Source, err)
	}

	var errs []error
	for i := range plans {
		if columnErrs[i] != nil {
			errs = append(errs, columnErrs[i])
			continue
		}
		acc.Accumulate(*results[i])
	}

	v.logger.Info("table validated",
		"source", table.Source,
		"elapsed", time.Since(startTime),
		"skipped", len(errs),
	)
	return errs, nil
}
