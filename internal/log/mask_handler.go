package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// MaskHandler wraps an slog.Handler to rewrite home-directory prefixes
// in string attribute values. It intercepts log records and replaces the
// leading home directory of any path-like value with "~" before passing
// the record to the underlying handler.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Components only need a *slog.Logger, not a custom type
type MaskHandler struct {
	// handler is the underlying slog handler that receives masked records.
	handler slog.Handler
	// home is the home directory prefix to rewrite. Empty disables masking.
	home string
}

// NewMaskHandler creates a new MaskHandler wrapping the given handler.
// The current user's home directory is resolved once at construction.
// If handler is nil, the returned MaskHandler will use slog.Default().Handler().
func NewMaskHandler(handler slog.Handler) *MaskHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return &MaskHandler{handler: handler, home: home}
}

// Enabled reports whether the handler handles records at the given level.
// It delegates to the underlying handler.
func (h *MaskHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle masks the record's attributes and passes it to the underlying handler.
func (h *MaskHandler) Handle(ctx context.Context, r slog.Record) error {
	masked := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)

	r.Attrs(func(a slog.Attr) bool {
		masked.AddAttrs(h.maskAttr(a))
		return true
	})

	return h.handler.Handle(ctx, masked)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are masked before being added.
func (h *MaskHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	maskedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		maskedAttrs[i] = h.maskAttr(a)
	}
	return &MaskHandler{handler: h.handler.WithAttrs(maskedAttrs), home: h.home}
}

// WithGroup returns a new handler with the given group name.
func (h *MaskHandler) WithGroup(name string) slog.Handler {
	return &MaskHandler{handler: h.handler.WithGroup(name), home: h.home}
}

// maskAttr masks a single attribute, recursively handling groups.
func (h *MaskHandler) maskAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		maskedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			maskedAttrs[i] = h.maskAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(maskedAttrs...)}
	}

	if a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, h.maskPath(a.Value.String()))
	}

	return a
}

// maskPath rewrites a leading home-directory prefix with "~".
// Values that merely contain the home directory mid-string are left alone;
// only a path rooted at the home directory is rewritten.
func (h *MaskHandler) maskPath(value string) string {
	if h.home == "" || h.home == "/" {
		return value
	}
	if value == h.home {
		return "~"
	}
	prefix := h.home
	if !strings.HasSuffix(prefix, string(os.PathSeparator)) {
		prefix += string(os.PathSeparator)
	}
	if strings.HasPrefix(value, prefix) {
		return "~" + string(os.PathSeparator) + value[len(prefix):]
	}
	return value
}

// NewMaskedLogger creates a new slog.Logger with home-directory masking.
//
// Parameters:
//   - w: The io.Writer to write log output to (typically os.Stderr)
//   - verbose: If true, sets log level to Debug; otherwise Warn
//
// Returns a *slog.Logger that can be used with slog.SetDefault() or passed
// to components that accept *slog.Logger.
func NewMaskedLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	textHandler := slog.NewTextHandler(w, opts)
	maskHandler := NewMaskHandler(textHandler)

	return slog.New(maskHandler)
}

// NewMaskedJSONLogger creates a new slog.Logger with home-directory masking
// that outputs JSON format. Useful for structured log aggregation.
func NewMaskedJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	jsonHandler := slog.NewJSONHandler(w, opts)
	maskHandler := NewMaskHandler(jsonHandler)

	return slog.New(maskHandler)
}
