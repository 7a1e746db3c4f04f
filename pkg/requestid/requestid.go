package requestid

import (
	"context"
	"log/slog"
	"regexp"

	"github.com/google/uuid"
)

// Header is the canonical HTTP header carrying the request ID.
const Header = "X-Request-ID"

// maxLength caps client-supplied IDs to keep log lines bounded.
const maxLength = 128

var idPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// New generates a fresh request ID.
func New() string {
	return uuid.New().String()
}

// Valid reports whether a client-supplied ID is safe to propagate.
// IDs are limited to URL-safe characters so they can be echoed into
// headers and logs without escaping.
func Valid(id string) bool {
	return id != "" && len(id) <= maxLength && idPattern.MatchString(id)
}

// FromRequestHeader returns the inbound header value when it is valid,
// or a freshly generated ID otherwise.
func FromRequestHeader(get func(string) string) string {
	if id := get(Header); Valid(id) {
		return id
	}
	return New()
}

// ContextKey is the context key request IDs are stored under. It is
// exported so engines with their own context plumbing can store the ID
// without going through WithContext.
type ContextKey struct{}

// WithContext stores the request ID in ctx.
func WithContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ContextKey{}, id)
}

// FromContext retrieves the request ID, or "" when none was stored.
func FromContext(ctx context.Context) string {
	if id, ok := ctx.Value(ContextKey{}).(string); ok {
		return id
	}
	return ""
}

// LoggerExtractor exposes the stored request ID to the logger package's
// context extractor mechanism.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := FromContext(ctx); id != "" {
			return slog.String("request_id", id), true
		}
		return slog.Attr{}, false
	}
}
