package binder

import "net/http"

// Header returns the request headers. net/http has already parsed them;
// going through the cache keeps the at-most-once account that the rest of
// the extraction layer relies on.
func (c *Cache) Header() http.Header {
	h, _ := c.header.load(&c.stats.header, &c.stats.hits, func() (http.Header, error) {
		return c.r.Header, nil
	})
	return h
}
