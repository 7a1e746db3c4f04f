package binder

// Cookies parses the Cookie header once and returns the name to value
// mapping. When a name repeats, the first occurrence wins, matching
// http.Request.Cookie.
func (c *Cache) Cookies() (map[string]string, error) {
	return c.cookies.load(&c.stats.cookie, &c.stats.hits, func() (map[string]string, error) {
		cookies := c.r.Cookies()
		m := make(map[string]string, len(cookies))
		for _, ck := range cookies {
			if _, ok := m[ck.Name]; !ok {
				m[ck.Name] = ck.Value
			}
		}
		return m, nil
	})
}
