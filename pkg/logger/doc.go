// Package logger builds context-aware slog loggers.
//
// New creates a *slog.Logger from functional options: output format (text
// or json), level, static attributes, and ContextExtractor callbacks that
// pull request-scoped values out of the context on every log call.
//
// Usage:
//
//	log := logger.New(
//	    logger.WithProduction("api"),
//	    logger.WithContextValue("request_id", requestIDKey),
//	)
//	logger.SetAsDefault(log)
//
//	log.InfoContext(ctx, "request bound",
//	    logger.Endpoint("users.create"),
//	    logger.Duration(time.Since(start)),
//	)
//
// Attribute helpers (Error, Endpoint, Link, RequestID, ...) keep key
// naming consistent across packages. Error and Errors return empty attrs
// for nil errors so callers need no nil checks.
package logger
