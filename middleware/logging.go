package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/bindkit"
	"github.com/dmitrymomot/bindkit/pkg/clientip"
	"github.com/dmitrymomot/bindkit/pkg/logger"
)

type loggingParams struct {
	Request *http.Request
}

// Logging emits one line per request with method, path, client IP,
// duration and outcome. Completed requests log at info; failures log at
// warn below status 500 and at error from 500 up.
func Logging(log *slog.Logger) bindkit.Link {
	if log == nil {
		log = slog.Default()
	}
	return bindkit.NewMiddleware(func(ctx bindkit.Context, p loggingParams, next bindkit.Next) (any, error) {
		start := time.Now()
		resp, err := next()

		attrs := []slog.Attr{
			slog.String("method", p.Request.Method),
			slog.String("path", p.Request.URL.Path),
			slog.String("client_ip", clientip.FromRequest(p.Request)),
			logger.Duration(time.Since(start)),
		}
		level := slog.LevelInfo
		msg := "request completed"
		if err != nil {
			status := bindkit.ErrorStatus(err)
			msg = "request failed"
			attrs = append(attrs, slog.Int("status", status), logger.Error(err))
			if status >= http.StatusInternalServerError {
				level = slog.LevelError
			} else {
				level = slog.LevelWarn
			}
		}
		log.LogAttrs(ctx, level, msg, attrs...)
		return resp, err
	})
}
