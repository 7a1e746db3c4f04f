// Package metrics exports Prometheus collectors for the request binding
// pipeline.
//
// A Metrics value carries its own registry and three observation points:
// an HTTP middleware for status codes and latency, a chain link for
// binding outcomes and validation failure kinds, and a cache stats hook
// for the per-request extraction cache.
//
//	m := metrics.New()
//	ep := bindkit.MustEndpoint(
//		bindkit.NewHandler(createUser),
//		bindkit.WithMiddleware(m.Link("create_user")),
//		bindkit.WithCacheStats(m.ObserveCache),
//	)
//	mux.Handle("POST /users", m.Middleware("create_user")(ep))
//	mux.Handle("GET /metrics", m.Handler())
package metrics
