package binder

import (
	"fmt"
	"net/url"
)

// FormValues returns the form fields of the body, decoded once. Urlencoded
// bodies are parsed directly; multipart bodies share the single multipart
// parse and expose their non-file parts as values, in part order.
func (c *Cache) FormValues() (url.Values, error) {
	return c.formBody.load(&c.stats.bodyDecodes, &c.stats.hits, func() (url.Values, error) {
		mt, _, err := c.contentType()
		if err != nil {
			return nil, fmt.Errorf("%w, expected a form encoding", err)
		}

		switch mt {
		case "application/x-www-form-urlencoded":
			raw, err := c.bodyBytes()
			if err != nil {
				return nil, err
			}
			values, err := url.ParseQuery(string(raw))
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
			}
			return values, nil

		case "multipart/form-data":
			parts, err := c.MultipartParts()
			if err != nil {
				return nil, err
			}
			values := url.Values{}
			for _, p := range parts {
				if !p.IsFile() {
					values.Add(p.Name, string(p.Data))
				}
			}
			return values, nil

		default:
			return nil, fmt.Errorf("%w: got %s, expected a form encoding", ErrUnsupportedMediaType, mt)
		}
	})
}
