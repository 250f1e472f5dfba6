package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/muesli/termenv"
	"go.trai.ch/nob/internal/ui/output"
	"go.trai.ch/nob/internal/ui/style"
)

// PrettyHandler is a slog.Handler writing one colored line per record.
// Warnings and errors carry an icon; informational lines are plain so that
// build progress reads like a transcript of the commands run.
type PrettyHandler struct {
	out    *termenv.Output
	level  slog.Leveler
	attrs  []string
	prefix string
}

// NewPrettyHandler creates a new PrettyHandler writing to w.
// The level is read on every record, so a *slog.LevelVar in opts can be
// changed after construction.
func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if w == nil {
		w = os.Stderr
	}

	var level slog.Leveler = slog.LevelInfo
	if opts != nil && opts.Level != nil {
		level = opts.Level
	}

	return &PrettyHandler{
		out:   output.New(w),
		level: level,
	}
}

// Enabled reports whether the handler handles records at the given level.
func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

// Handle formats and outputs the log record.
//
//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	icon, color := levelStyle(r.Level)

	var b strings.Builder
	if icon != "" {
		b.WriteString(icon)
		b.WriteByte(' ')
	}
	b.WriteString(r.Message)

	for _, attr := range h.attrs {
		b.WriteByte(' ')
		b.WriteString(attr)
	}
	r.Attrs(func(attr slog.Attr) bool {
		for _, part := range flattenAttr(h.prefix, attr) {
			b.WriteByte(' ')
			b.WriteString(part)
		}
		return true
	})

	styled := h.out.String(b.String()).Foreground(termenv.RGBColor(color))
	_, err := h.out.WriteString(styled.String() + "\n")

	return err
}

// WithAttrs returns a new Handler with the given attributes pre-formatted.
func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	formatted := make([]string, 0, len(h.attrs)+len(attrs))
	formatted = append(formatted, h.attrs...)
	for _, attr := range attrs {
		formatted = append(formatted, flattenAttr(h.prefix, attr)...)
	}

	return &PrettyHandler{
		out:    h.out,
		level:  h.level,
		attrs:  formatted,
		prefix: h.prefix,
	}
}

// WithGroup returns a new Handler qualifying later attributes with name.
// Groups nest: WithGroup("a").WithGroup("b") yields keys "a.b.key".
func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	return &PrettyHandler{
		out:    h.out,
		level:  h.level,
		attrs:  h.attrs,
		prefix: h.prefix + name + ".",
	}
}

func levelStyle(level slog.Level) (icon, color string) {
	switch {
	case level >= slog.LevelError:
		return style.Cross, string(style.Red)
	case level >= slog.LevelWarn:
		return style.Warning, string(style.Yellow)
	case level >= slog.LevelInfo:
		return "", string(style.Slate)
	default:
		return style.Dot, string(style.Iris)
	}
}

// flattenAttr renders attr as key=value pairs, expanding group values.
func flattenAttr(prefix string, attr slog.Attr) []string {
	attr.Value = attr.Value.Resolve()
	if attr.Equal(slog.Attr{}) {
		return nil
	}

	if attr.Value.Kind() == slog.KindGroup {
		inner := prefix
		if attr.Key != "" {
			inner += attr.Key + "."
		}
		var parts []string
		for _, a := range attr.Value.Group() {
			parts = append(parts, flattenAttr(inner, a)...)
		}
		return parts
	}

	return []string{prefix + attr.Key + "=" + quoteValue(attr.Value.String())}
}

// quoteValue quotes values a reader could not otherwise split on spaces.
func quoteValue(v string) string {
	if v == "" || strings.ContainsAny(v, " \t\n\"=") {
		return strconv.Quote(v)
	}
	return v
}
