package logger

import (
	"context"
	"log/slog"
	"slices"
)

// ContextExtractor pulls one attribute out of a context at log time.
// Returning false leaves the record unchanged.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// ContextHandler decorates another handler with attributes extracted from
// each record's context. Extraction runs per call, so request-scoped values
// such as request IDs stay current instead of being captured once.
type ContextHandler struct {
	inner slog.Handler
	pull  []ContextExtractor
}

// NewContextHandler wraps next with the given extractors. Nil extractors
// are discarded; with none left, next is returned unwrapped.
func NewContextHandler(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	pull := slices.DeleteFunc(slices.Clone(extractors), func(ex ContextExtractor) bool {
		return ex == nil
	})
	if len(pull) == 0 {
		return next
	}
	return &ContextHandler{inner: next, pull: pull}
}

func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *ContextHandler) Handle(ctx context.Context, rec slog.Record) error {
	for _, pull := range h.pull {
		if attr, ok := pull(ctx); ok {
			rec.AddAttrs(attr)
		}
	}
	return h.inner.Handle(ctx, rec)
}

func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs), pull: h.pull}
}

func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name), pull: h.pull}
}
