package bindkit

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/mux"
	"github.com/julienschmidt/httprouter"
)

// ChiPathParams reads the URL parameters matched by a chi router.
//
//	r := chi.NewRouter()
//	r.Method(http.MethodGet, "/users/{id}", bindkit.MustEndpoint(h,
//		bindkit.WithPathParams(bindkit.ChiPathParams),
//	))
func ChiPathParams(r *http.Request) map[string]string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return nil
	}
	params := make(map[string]string, len(rctx.URLParams.Keys))
	for i, key := range rctx.URLParams.Keys {
		params[key] = rctx.URLParams.Values[i]
	}
	return params
}

// GorillaPathParams reads the route variables matched by a gorilla/mux
// router.
func GorillaPathParams(r *http.Request) map[string]string {
	return mux.Vars(r)
}

// HTTPRouterParams reads httprouter parameters from the request context.
// Params land there when the endpoint is registered through the router's
// http.Handler surface or through HTTPRouterHandle.
func HTTPRouterParams(r *http.Request) map[string]string {
	ps := httprouter.ParamsFromContext(r.Context())
	if len(ps) == 0 {
		return nil
	}
	params := make(map[string]string, len(ps))
	for _, p := range ps {
		params[p.Key] = p.Value
	}
	return params
}

// HTTPRouterHandle adapts an Endpoint to httprouter's native Handle,
// stashing the matched params where HTTPRouterParams finds them.
//
//	router.GET("/users/:id", bindkit.HTTPRouterHandle(ep))
func HTTPRouterHandle(ep *Endpoint) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		ctx := context.WithValue(r.Context(), httprouter.ParamsKey, ps)
		ep.ServeHTTP(w, r.WithContext(ctx))
	}
}
