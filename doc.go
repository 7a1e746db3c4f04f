// Package bindkit binds HTTP requests to strongly-typed handler parameters.
//
// A handler declares what it needs as a plain struct; bindkit compiles the
// struct's tags into an extraction table at registration, and at request
// time extracts, coerces and validates every declared field before the
// handler runs. Requests that fail validation never reach business logic:
// they are rejected with a 422 listing every failing field at once.
//
// Key properties:
//
//   - All reflection happens at registration. Serving a request only
//     executes precompiled tables; conflicting declarations fail at startup.
//   - Each request carries one extraction cache shared by every middleware
//     link and the handler, so a body is read and decoded at most once no
//     matter how many links declare parameters from it.
//   - Validation collects all failures across all fields before rejecting.
//
// Basic usage:
//
//	type createUser struct {
//		Name  string `body:"name" validate:"min_len=3"`
//		Email string `body:"email" validate:"pattern=.+@.+"`
//		Quota int    `query:"quota" default:"10" validate:"gt=0,le=100"`
//	}
//
//	h := bindkit.NewHandler(func(ctx bindkit.Context, p createUser) (User, error) {
//		return newUser(ctx, p.Name, p.Email, p.Quota)
//	})
//
//	http.Handle("/users", bindkit.MustEndpoint(h))
//
// Sources and modes:
//
// Fields bind to one of five sources via tags: path, header, cookie, query
// and body (plus form and file for non-JSON bodies). A tag names one field
// of the source; the ",schema" option binds the whole source to a struct,
// and ",raw" hands over the source's native value unvalidated. An untagged
// *http.Request field receives the whole request.
//
// Middleware:
//
// Middleware links are handlers with a Next capability. Each link has its
// own params struct compiled the same way, and all links share the
// request's extraction cache:
//
//	type authParams struct {
//		Token string `header:"Authorization"`
//	}
//
//	auth := bindkit.NewMiddleware(func(ctx bindkit.Context, p authParams, next bindkit.Next) (any, error) {
//		if !tokenValid(p.Token) {
//			return nil, bindkit.ErrUnauthorized
//		}
//		return next()
//	})
//
//	ep := bindkit.MustEndpoint(h, bindkit.WithMiddleware(auth))
//
// Routers:
//
// Endpoints are plain http.Handlers. Path parameters come from the router
// through a small adapter:
//
//	r := chi.NewRouter()
//	r.Method(http.MethodGet, "/users/{id}", bindkit.MustEndpoint(h,
//		bindkit.WithPathParams(bindkit.ChiPathParams),
//	))
//
// Adapters for gorilla/mux and julienschmidt/httprouter are included.
package bindkit
