package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/dmitrymomot/bindkit"
)

// ErrPanicked marks a request that died in a panic. It renders as a
// plain 500 so the panic value never reaches the client.
var ErrPanicked = errors.New("middleware: handler panicked")

type noParams struct{}

// Recover traps panics from later links, logs the panic value with its
// stack, and fails the request with ErrPanicked. Place it outermost so
// nothing above it can die unobserved.
func Recover(log *slog.Logger) bindkit.Link {
	if log == nil {
		log = slog.Default()
	}
	return bindkit.NewMiddleware(func(ctx bindkit.Context, _ noParams, next bindkit.Next) (resp any, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				log.LogAttrs(ctx, slog.LevelError, "panic recovered",
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
					slog.String("method", ctx.Request().Method),
					slog.String("path", ctx.Request().URL.Path),
				)
				resp = nil
				err = fmt.Errorf("%w: %v", ErrPanicked, rec)
			}
		}()
		return next()
	})
}
