// Package middleware provides ready-made chain links for common
// cross-cutting concerns: request correlation IDs, request logging,
// panic recovery and rate limiting.
//
// Each link is a regular middleware built with bindkit.NewMiddleware and
// composes through bindkit.WithMiddleware, outermost first:
//
//	ep := bindkit.MustEndpoint(
//		bindkit.NewHandler(createUser),
//		bindkit.WithMiddleware(
//			middleware.Recover(log),
//			middleware.RequestID(),
//			middleware.Logging(log),
//			middleware.RateLimit(100),
//		),
//	)
package middleware
