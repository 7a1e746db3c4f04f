// Package binder turns the components of an incoming request (path
// parameters, headers, cookies, query string, body) into raw extracted
// material, parsing each component at most once per request.
//
// All extraction goes through a request-scoped Cache. Every consumer of the
// same component, no matter which middleware or handler it sits in, observes
// the one memoized parse result. Parsing failures are memoized too: a body
// that failed to decode is not re-read for the next consumer.
package binder

import (
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
)

// DefaultMaxBodyBytes caps request bodies when no explicit limit is set.
const DefaultMaxBodyBytes int64 = 10 << 20 // 10 MiB

// PathParamsFunc extracts matched route parameters from a request. Router
// adapters supply implementations; a nil func means no router is attached
// and the path parameter map is empty.
type PathParamsFunc func(r *http.Request) map[string]string

// Cache memoizes per-request extraction results. It is created when a
// request enters the chain and discarded with it. Entries are single-flight:
// concurrent consumers of one entry serialize, the first performs the parse
// and the rest observe its result.
type Cache struct {
	r       *http.Request
	maxBody int64
	pathFn  PathParamsFunc

	path      entry[map[string]string]
	header    entry[http.Header]
	cookies   entry[map[string]string]
	query     entry[url.Values]
	rawBody   entry[[]byte]
	jsonBody  entry[any]
	formBody  entry[url.Values]
	multipart entry[[]Part]

	stats counters
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxBodyBytes sets the request body size limit. Bodies over the limit
// are rejected before buffering.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Cache) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// WithPathParams attaches the router's path parameter extractor.
func WithPathParams(fn PathParamsFunc) Option {
	return func(c *Cache) {
		c.pathFn = fn
	}
}

// New creates a cache bound to one request.
func New(r *http.Request, opts ...Option) *Cache {
	c := &Cache{r: r, maxBody: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request returns the request this cache is bound to.
func (c *Cache) Request() *http.Request { return c.r }

// MaxBodyBytes returns the configured body size limit.
func (c *Cache) MaxBodyBytes() int64 { return c.maxBody }

// Stats is a point-in-time account of cache activity.
type Stats struct {
	PathParses   int64
	HeaderParses int64
	CookieParses int64
	QueryParses  int64
	BodyReads    int64 // raw body I/O operations
	BodyDecodes  int64 // syntactic decodes of body material
	Hits         int64 // loads served from a memoized entry
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	return Stats{
		PathParses:   c.stats.path.Load(),
		HeaderParses: c.stats.header.Load(),
		CookieParses: c.stats.cookie.Load(),
		QueryParses:  c.stats.query.Load(),
		BodyReads:    c.stats.bodyReads.Load(),
		BodyDecodes:  c.stats.bodyDecodes.Load(),
		Hits:         c.stats.hits.Load(),
	}
}

type counters struct {
	path        atomic.Int64
	header      atomic.Int64
	cookie      atomic.Int64
	query       atomic.Int64
	bodyReads   atomic.Int64
	bodyDecodes atomic.Int64
	hits        atomic.Int64
}

// entry is a single-flight memoized parse result.
type entry[T any] struct {
	once sync.Once
	val  T
	err  error
}

func (e *entry[T]) load(parses, hits *atomic.Int64, parse func() (T, error)) (T, error) {
	first := false
	e.once.Do(func() {
		first = true
		e.val, e.err = parse()
	})
	if first {
		parses.Add(1)
	} else {
		hits.Add(1)
	}
	return e.val, e.err
}

// contentType parses the request's Content-Type header.
func (c *Cache) contentType() (string, map[string]string, error) {
	ct := c.r.Header.Get("Content-Type")
	if ct == "" {
		return "", nil, ErrMissingContentType
	}
	mt, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %q", ErrUnsupportedMediaType, ct)
	}
	return mt, params, nil
}

func errTooLarge(limit int64) error {
	return fmt.Errorf("%w: exceeds %d bytes", ErrBodyTooLarge, limit)
}
