package log

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"
)

// cellKeys contains attribute keys that carry raw cell contents.
var cellKeys = map[string]bool{
	"value":          true,
	"cell_value":     true,
	"cellvalue":      true,
	"original_value": true,
	"raw":            true,
	"raw_value":      true,
	"suggestion":     true,
	"suggested_fix":  true,
	"offending":      true,
	"row_values":     true,
}

// secretKeywords mark keys whose values must never be logged.
var secretKeywords = []string{"password", "passwd", "secret", "token", "credential"}

// MaskValue is the string used to replace redacted values.
const MaskValue = "***REDACTED***"

// DefaultMaxValueLen is the rune length above which string values are cut.
const DefaultMaxValueLen = 256

// Option configures a RedactingHandler.
type Option func(*RedactingHandler)

// WithCellValues lets cell contents through unmasked. Secrets stay masked.
func WithCellValues() Option {
	return func(h *RedactingHandler) {
		h.showCells = true
	}
}

// WithMaxValueLen sets the rune length above which string values are cut.
// Zero disables truncation.
func WithMaxValueLen(n int) Option {
	return func(h *RedactingHandler) {
		if n >= 0 {
			h.maxLen = n
		}
	}
}

// RedactingHandler wraps an slog.Handler and masks cell contents and
// secrets before passing records on. It works with any underlying handler.
type RedactingHandler struct {
	// handler is the underlying slog handler that receives redacted records.
	handler slog.Handler

	showCells bool
	maxLen    int
}

// NewRedactingHandler creates a RedactingHandler wrapping the given handler.
// If handler is nil, slog.Default().Handler() is used.
func NewRedactingHandler(handler slog.Handler, opts ...Option) *RedactingHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	h := &RedactingHandler{handler: handler, maxLen: DefaultMaxValueLen}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle redacts the record's attributes and passes it to the underlying handler.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	redacted := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(h.redactAttr(a))
		return true
	})

	return h.handler.Handle(ctx, redacted)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are redacted before being added.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redactAttr(a)
	}
	return &RedactingHandler{handler: h.handler.WithAttrs(redacted), showCells: h.showCells, maxLen: h.maxLen}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{handler: h.handler.WithGroup(name), showCells: h.showCells, maxLen: h.maxLen}
}

// redactAttr redacts a single attribute, recursively handling groups.
func (h *RedactingHandler) redactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		redacted := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			redacted[i] = h.redactAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	}

	key := strings.ToLower(a.Key)
	if isSecretKey(key) || (!h.showCells && cellKeys[key]) {
		return slog.String(a.Key, MaskValue)
	}

	if a.Value.Kind() == slog.KindString && h.maxLen > 0 {
		if s := a.Value.String(); utf8.RuneCountInString(s) > h.maxLen {
			return slog.String(a.Key, truncate(s, h.maxLen))
		}
	}

	return a
}

// isSecretKey checks if the key contains a secret keyword.
func isSecretKey(key string) bool {
	for _, keyword := range secretKeywords {
		if strings.Contains(key, keyword) {
			return true
		}
	}
	return false
}

// truncate cuts s to maxLen runes and marks the cut.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	return string(r[:maxLen]) + "...(truncated)"
}

// levelFor maps the verbose switch to a minimum level.
func levelFor(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelWarn
}

// NewLogger creates a text slog.Logger that redacts cell contents.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
func NewLogger(w io.Writer, verbose bool, opts ...Option) *slog.Logger {
	textHandler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: levelFor(verbose)})
	return slog.New(NewRedactingHandler(textHandler, opts...))
}

// NewJSONLogger creates a JSON slog.Logger that redacts cell contents.
// Useful for structured log aggregation.
func NewJSONLogger(w io.Writer, verbose bool, opts ...Option) *slog.Logger {
	jsonHandler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: levelFor(verbose)})
	return slog.New(NewRedactingHandler(jsonHandler, opts...))
}
