package binder

import "net/url"

// Query decodes the raw query string once and returns the resulting values.
// Undecodable pairs are dropped, matching url.URL.Query; repeated keys keep
// their order of appearance.
func (c *Cache) Query() url.Values {
	values, _ := c.query.load(&c.stats.query, &c.stats.hits, func() (url.Values, error) {
		values, _ := url.ParseQuery(c.r.URL.RawQuery)
		if values == nil {
			values = url.Values{}
		}
		return values, nil
	})
	return values
}
