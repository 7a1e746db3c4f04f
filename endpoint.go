package bindkit

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/bindkit/binder"
	"github.com/dmitrymomot/bindkit/pkg/logger"
	"github.com/dmitrymomot/bindkit/pkg/requestid"
)

// Endpoint is a compiled chain of links behind a single http.Handler. All
// reflection and tag parsing happens in NewEndpoint; serving a request only
// executes the compiled tables.
type Endpoint struct {
	name    string
	chain   *chain
	maxBody int64
	pathFn  binder.PathParamsFunc
	log     *slog.Logger
	statsFn func(binder.Stats)
}

// EndpointOption configures an Endpoint at construction.
type EndpointOption func(*endpointConfig)

type endpointConfig struct {
	name       string
	middleware []Link
	maxBody    int64
	pathFn     binder.PathParamsFunc
	enc        Encoder
	log        *slog.Logger
	cookies    CookieManager
	defaults   map[string]func() any
	statsFn    func(binder.Stats)
}

// WithMiddleware prepends links to the chain, outermost first.
func WithMiddleware(links ...Link) EndpointOption {
	return func(c *endpointConfig) {
		c.middleware = append(c.middleware, links...)
	}
}

// WithMaxBodyBytes caps the request body size for this endpoint. Bodies
// over the cap are rejected with 413 before buffering.
func WithMaxBodyBytes(n int64) EndpointOption {
	return func(c *endpointConfig) {
		c.maxBody = n
	}
}

// WithPathParams wires the router's matched path variables into the
// extraction cache. See ChiPathParams, GorillaPathParams, HTTPRouterParams.
func WithPathParams(fn binder.PathParamsFunc) EndpointOption {
	return func(c *endpointConfig) {
		c.pathFn = fn
	}
}

// WithEncoder replaces the JSON encoder used for plain return values.
func WithEncoder(enc Encoder) EndpointOption {
	return func(c *endpointConfig) {
		if enc != nil {
			c.enc = enc
		}
	}
}

// WithLogger sets the endpoint's logger. Without it the endpoint is silent.
func WithLogger(log *slog.Logger) EndpointOption {
	return func(c *endpointConfig) {
		if log != nil {
			c.log = log
		}
	}
}

// WithName names the endpoint in configuration errors and logs.
func WithName(name string) EndpointOption {
	return func(c *endpointConfig) {
		c.name = name
	}
}

// WithFieldDefault attaches a per-request default factory to one field of
// the handler's params struct. The factory runs only when the request does
// not carry the field. Path fields cannot take defaults.
func WithFieldDefault(field string, factory func() any) EndpointOption {
	return func(c *endpointConfig) {
		if c.defaults == nil {
			c.defaults = make(map[string]func() any)
		}
		c.defaults[field] = factory
	}
}

// WithCookieManager enables signed-cookie extraction and
// Meta().SetSignedCookie for the whole chain.
func WithCookieManager(m CookieManager) EndpointOption {
	return func(c *endpointConfig) {
		c.cookies = m
	}
}

// WithCacheStats registers a callback that receives the extraction cache
// counters after each request. Collectors such as pkg/metrics plug in
// here.
func WithCacheStats(fn func(binder.Stats)) EndpointOption {
	return func(c *endpointConfig) {
		c.statsFn = fn
	}
}

// NewEndpoint compiles the handler and its middleware into a servable
// endpoint. Every table is built here; conflicting declarations, bad
// targets and malformed constraints all fail now, never at request time.
func NewEndpoint(handler Link, opts ...EndpointOption) (*Endpoint, error) {
	cfg := &endpointConfig{
		maxBody: binder.DefaultMaxBodyBytes,
		enc:     JSONEncoder{},
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if handler.invoke == nil || !handler.terminal {
		return nil, &ConfigError{Endpoint: cfg.name, Err: ErrNilHandler}
	}

	var verifier CookieVerifier
	var signer CookieSigner
	if cfg.cookies != nil {
		verifier, signer = cfg.cookies, cfg.cookies
	}

	links := make([]compiledLink, 0, len(cfg.middleware)+1)
	for _, mw := range cfg.middleware {
		if mw.invoke == nil || mw.terminal {
			return nil, &ConfigError{Endpoint: cfg.name, Link: mw.name, Err: ErrNilHandler}
		}
		cl, err := compileLink(cfg, mw, nil, verifier)
		if err != nil {
			return nil, err
		}
		links = append(links, cl)
	}
	cl, err := compileLink(cfg, handler, cfg.defaults, verifier)
	if err != nil {
		return nil, err
	}
	links = append(links, cl)

	return &Endpoint{
		name: cfg.name,
		chain: &chain{
			links:    links,
			enc:      cfg.enc,
			log:      cfg.log,
			verifier: verifier,
			signer:   signer,
		},
		maxBody: cfg.maxBody,
		pathFn:  cfg.pathFn,
		log:     cfg.log,
		statsFn: cfg.statsFn,
	}, nil
}

func compileLink(cfg *endpointConfig, link Link, defaults map[string]func() any, verifier CookieVerifier) (compiledLink, error) {
	table, err := buildTable(link.paramsType, defaults)
	if err != nil {
		return compiledLink{}, locateError(cfg.name, link.name, err)
	}
	if table.UsesSignedCookies() && verifier == nil {
		return compiledLink{}, &ConfigError{Endpoint: cfg.name, Link: link.name, Err: ErrSignedCookieSupport}
	}
	return compiledLink{Link: link, table: table}, nil
}

// locateError stamps the endpoint and link names onto a compilation error.
func locateError(endpoint, link string, err error) error {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		cfgErr.Endpoint, cfgErr.Link = endpoint, link
		return cfgErr
	}
	return &ConfigError{Endpoint: endpoint, Link: link, Err: err}
}

// MustEndpoint is NewEndpoint that panics on configuration errors. Use it
// for endpoints registered at process start.
func MustEndpoint(handler Link, opts ...EndpointOption) *Endpoint {
	ep, err := NewEndpoint(handler, opts...)
	if err != nil {
		panic(err)
	}
	return ep
}

// Name reports the endpoint's configured name.
func (e *Endpoint) Name() string {
	return e.name
}

// ServeHTTP implements http.Handler. One extraction cache is built per
// request and shared by every link in the chain.
func (e *Endpoint) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cache := binder.New(r,
		binder.WithMaxBodyBytes(e.maxBody),
		binder.WithPathParams(e.pathFn),
	)
	if e.statsFn != nil {
		defer func() { e.statsFn(cache.Stats()) }()
	}

	resp, err := e.chain.run(cache)
	if err == nil && resp == nil {
		err = ErrNilResponse
	}
	if err != nil {
		e.logError(r, err)
		resp = errorResponse(err)
	}

	if rerr := resp.Render(w, r); rerr != nil {
		e.log.LogAttrs(r.Context(), slog.LevelError, "render failed",
			logger.Endpoint(e.name),
			logger.Errors(err, rerr),
		)
	}
}

// logError records chain failures. Server defects log at error level,
// client mistakes at debug, so request noise stays out of alert streams.
func (e *Endpoint) logError(r *http.Request, err error) {
	level := slog.LevelDebug
	if classifyError(err).Code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	e.log.LogAttrs(r.Context(), level, "request failed",
		logger.Endpoint(e.name),
		logger.RequestID(requestid.FromContext(r.Context())),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		logger.Error(err),
	)
}
