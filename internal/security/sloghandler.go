package security

import (
	"context"
	"log/slog"
)

// RedactingHandler wraps a slog.Handler and redacts secrets from all
// string-valued attributes before passing them to the inner handler.
// This ensures no secret leaks into log output regardless of where
// the log call originates.
type RedactingHandler struct {
	inner    slog.Handler
	redactor *Redactor
	groups   []string
	attrs    []slog.Attr
}

// Compile-time check.
var _ slog.Handler = (*RedactingHandler)(nil)

// NewRedactingHandler creates a handler that wraps inner, applying
// redactor to every string attribute value.
func NewRedactingHandler(inner slog.Handler, redactor *Redactor) *RedactingHandler {
	return &RedactingHandler{
		inner:    inner,
		redactor: redactor,
	}
}

// Enabled delegates to the inner handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle redacts string values in the record's attributes and message,
// then delegates to the inner handler.
func (h *RedactingHandler) Handle(ctx context.Context, record slog.Record) error {
	record.Message = h.redactor.Redact(record.Message)

	redacted := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)

	record.Attrs(func(a slog.Attr) bool {
		redacted.AddAttrs(h.redactAttr(a))
		return true
	})

	inner := h.inner
	if len(h.attrs) > 0 {
		inner = inner.WithAttrs(h.attrs)
	}
	for _, g := range h.groups {
		inner = inner.WithGroup(g)
	}

	return inner.Handle(ctx, redacted)
}

// WithAttrs returns a handler whose pre-set attributes are redacted eagerly.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = h.redactAttr(a)
	}
	return &RedactingHandler{
		inner:    h.inner,
		redactor: h.redactor,
		groups:   h.groups,
		attrs:    append(append([]slog.Attr{}, h.attrs...), redacted...),
	}
}

// WithGroup records the group for later application to the inner handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{
		inner:    h.inner,
		redactor: h.redactor,
		groups:   append(append([]string{}, h.groups...), name),
		attrs:    h.attrs,
	}
}

// redactAttr returns a copy of a with string values redacted.
// Group attributes are walked recursively.
func (h *RedactingHandler) redactAttr(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, h.redactor.Redact(a.Value.String()))
	case slog.KindGroup:
		members := a.Value.Group()
		redacted := make([]any, 0, len(members))
		for _, m := range members {
			redacted = append(redacted, h.redactAttr(m))
		}
		return slog.Group(a.Key, redacted...)
	default:
		return a
	}
}
