package bindkit

import (
	"reflect"
)

// Next invokes the rest of the chain and reports its outcome. Middleware
// call it to proceed; not calling it short-circuits the request. Errors
// returned by Next may be intercepted and replaced with a response.
type Next func() (Response, error)

// Link is one unit of an endpoint's chain: either a middleware or the
// terminal handler, together with the parameter struct its table is
// compiled from. Links are built once and shared by all requests.
type Link struct {
	name       string
	paramsType reflect.Type
	responses  []reflect.Type
	terminal   bool
	invoke     func(ctx Context, params reflect.Value, next Next) (any, error)
}

// Name reports the link's display name, derived from its params type.
func (l Link) Name() string {
	return l.name
}

// declares reports whether a plain return value of type t may be encoded
// on behalf of this link.
func (l Link) declares(t reflect.Type) bool {
	if t == nil {
		return false
	}
	for _, rt := range l.responses {
		if rt == t {
			return true
		}
		if rt.Kind() == reflect.Interface && t.Implements(rt) {
			return true
		}
	}
	return false
}

// LinkOption configures a middleware link at construction.
type LinkOption func(*Link)

// WithResponseTypes declares the plain value types a middleware may return
// instead of calling Next. Values are examples; only their types are kept.
//
//	bindkit.NewMiddleware(authFn, bindkit.WithResponseTypes(LoginPage{}))
//
// Returning a plain value of an undeclared type is a contract error and
// renders as a 500, never as the client's fault.
func WithResponseTypes(examples ...any) LinkOption {
	return func(l *Link) {
		for _, ex := range examples {
			if t := reflect.TypeOf(ex); t != nil {
				l.responses = append(l.responses, t)
			}
		}
	}
}

// NewHandler builds the terminal link of a chain from a typed function.
// P is the parameter struct compiled into the link's extraction table,
// R the declared response type.
//
//	type getUser struct {
//		ID   int    `path:"id"`
//		Host string `header:"Host"`
//	}
//
//	h := bindkit.NewHandler(func(ctx bindkit.Context, p getUser) (User, error) {
//		return loadUser(ctx, p.ID)
//	})
func NewHandler[P any, R any](fn func(ctx Context, params P) (R, error)) Link {
	paramsType := reflect.TypeOf((*P)(nil)).Elem()
	link := Link{
		name:       paramsType.String(),
		paramsType: paramsType,
		responses:  []reflect.Type{reflect.TypeOf((*R)(nil)).Elem()},
		terminal:   true,
	}
	if fn != nil {
		link.invoke = func(ctx Context, params reflect.Value, _ Next) (any, error) {
			r, err := fn(ctx, params.Interface().(P))
			if err != nil {
				return nil, err
			}
			return r, nil
		}
	}
	return link
}

// NewMiddleware builds a chain link with its own parameter struct. The
// function decides whether to call next, return a Response, or return a
// plain value of a type declared via WithResponseTypes.
//
//	type authParams struct {
//		Token string `header:"Authorization"`
//	}
//
//	auth := bindkit.NewMiddleware(func(ctx bindkit.Context, p authParams, next bindkit.Next) (any, error) {
//		if !valid(p.Token) {
//			return nil, bindkit.ErrUnauthorized
//		}
//		return next()
//	})
func NewMiddleware[P any](fn func(ctx Context, params P, next Next) (any, error), opts ...LinkOption) Link {
	paramsType := reflect.TypeOf((*P)(nil)).Elem()
	link := Link{
		name:       paramsType.String(),
		paramsType: paramsType,
	}
	if fn != nil {
		link.invoke = func(ctx Context, params reflect.Value, next Next) (any, error) {
			return fn(ctx, params.Interface().(P), next)
		}
	}
	for _, opt := range opts {
		opt(&link)
	}
	return link
}
