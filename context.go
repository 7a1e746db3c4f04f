package bindkit

import (
	"context"
	"net/http"
	"time"
)

// Context is what handler and middleware functions receive. It embeds the
// request's context and exposes the request plus the response metadata the
// current link may stage for its own plain return value.
type Context interface {
	context.Context
	Request() *http.Request
	Meta() *ResponseMeta

	// SetValue stores val in the request's context. The value is visible
	// to every later link in the chain and to any code that reads the
	// request context, including logger context extractors.
	SetValue(key, val any)
}

// ResponseMeta accumulates status, headers and cookies for the response a
// link produces by returning a plain value. Each link in a chain gets a
// fresh instance; metadata staged by one link never leaks into another's
// response.
type ResponseMeta struct {
	status  int
	header  http.Header
	cookies []*http.Cookie
	signer  CookieSigner
}

// SetStatus overrides the status code used when the link's plain return
// value is encoded. Later calls win.
func (m *ResponseMeta) SetStatus(code int) {
	m.status = code
}

// Header returns the header set staged for the link's response. Mutations
// apply only if this link's plain return value becomes the response.
func (m *ResponseMeta) Header() http.Header {
	if m.header == nil {
		m.header = make(http.Header)
	}
	return m.header
}

// SetCookie stages a Set-Cookie header for the link's response.
func (m *ResponseMeta) SetCookie(c *http.Cookie) {
	m.cookies = append(m.cookies, c)
}

// SetSignedCookie signs the cookie value with the endpoint's cookie manager
// before staging it. Fails when the endpoint was built without one.
func (m *ResponseMeta) SetSignedCookie(c *http.Cookie) error {
	if m.signer == nil {
		return ErrSignedCookieSupport
	}
	signed, err := m.signer.Sign(c.Name, c.Value)
	if err != nil {
		return err
	}
	cc := *c
	cc.Value = signed
	m.cookies = append(m.cookies, &cc)
	return nil
}

// Status reports the staged status code, or 0 when none was set.
func (m *ResponseMeta) Status() int {
	return m.status
}

// apply writes the staged metadata onto w. Headers first, then cookies,
// so Set-Cookie entries survive a header reset.
func (m *ResponseMeta) apply(w http.ResponseWriter) {
	for key, values := range m.header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	for _, c := range m.cookies {
		http.SetCookie(w, c)
	}
}

// linkContext is the Context handed to one link invocation.
type linkContext struct {
	r    *http.Request
	meta *ResponseMeta
}

func newLinkContext(r *http.Request, signer CookieSigner) *linkContext {
	return &linkContext{r: r, meta: &ResponseMeta{signer: signer}}
}

func (c *linkContext) Request() *http.Request {
	return c.r
}

func (c *linkContext) Meta() *ResponseMeta {
	return c.meta
}

func (c *linkContext) SetValue(key, val any) {
	// Rebind the request in place so every holder of the pointer,
	// including the extraction cache and later links, sees the value.
	*c.r = *c.r.WithContext(context.WithValue(c.r.Context(), key, val))
}

func (c *linkContext) Deadline() (deadline time.Time, ok bool) {
	return c.r.Context().Deadline()
}

func (c *linkContext) Done() <-chan struct{} {
	return c.r.Context().Done()
}

func (c *linkContext) Err() error {
	return c.r.Context().Err()
}

func (c *linkContext) Value(key any) any {
	return c.r.Context().Value(key)
}

// ContextKey is a key for context values.
// It should be created as a package-level variable.
type ContextKey struct{ name string }

// NewContextKey creates a new context key.
// The name should be unique within your application.
//
// Example:
//
//	var userKey = bindkit.NewContextKey("user")
func NewContextKey(name string) *ContextKey {
	return &ContextKey{name}
}

// ContextValue retrieves a typed value from the context.
// Returns the zero value of T if the key is not present or has a different type.
//
// Example:
//
//	var userKey = bindkit.NewContextKey("user")
//
//	// Set value
//	ctx = context.WithValue(ctx, userKey, &User{ID: 123})
//
//	// Get value
//	user := bindkit.ContextValue[*User](ctx, userKey)
//	if user != nil {
//		// Use user
//	}
func ContextValue[T any](ctx context.Context, key any) T {
	val, _ := ctx.Value(key).(T)
	return val
}
