package binder

// PathParams returns the matched route parameters, invoking the attached
// router extractor exactly once per request. Without an extractor the map
// is empty and every required path parameter reports as missing.
func (c *Cache) PathParams() (map[string]string, error) {
	return c.path.load(&c.stats.path, &c.stats.hits, func() (map[string]string, error) {
		if c.pathFn == nil {
			return map[string]string{}, nil
		}
		params := c.pathFn(c.r)
		if params == nil {
			params = map[string]string{}
		}
		return params, nil
	})
}
