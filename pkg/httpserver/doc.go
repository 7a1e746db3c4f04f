// Package httpserver wraps net/http with graceful shutdown, functional
// options, lifecycle hooks, and health-check handlers.
//
// Run binds the listener synchronously, so address errors surface
// immediately, then serves until the context is cancelled, SIGINT or
// SIGTERM arrives, or serving fails. Shutdown drains in-flight requests
// within a configurable deadline. Sentinel errors ErrStart and
// ErrShutdown wrap the underlying causes for errors.Is checks.
//
// Typical usage with a bindkit endpoint mounted on chi:
//
//	r := chi.NewRouter()
//	r.Get("/healthz", httpserver.HealthHandler(log))
//	r.Post("/users", bindkit.MustEndpoint(
//		bindkit.NewHandler(createUser),
//		bindkit.WithPathParams(bindkit.ChiPathParams),
//	).ServeHTTP)
//
//	srv := httpserver.New(
//		httpserver.WithAddr(":8080"),
//		httpserver.WithLogger(log),
//		httpserver.WithShutdownTimeout(10*time.Second),
//	)
//	if err := srv.Run(ctx, r); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
//
// Settings can also come from the environment through Config and
// NewFromConfig, sharing the pkg/config loader with the rest of the
// application.
package httpserver
