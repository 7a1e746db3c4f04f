package binder

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// JSONBody reads and decodes the request body exactly once, no matter how
// many parameters across the chain consume it. Numbers decode as
// json.Number so decimal targets keep their textual precision.
//
// The body is rejected before buffering when its declared length exceeds
// the limit, and aborted mid-read when an undeclared length does.
func (c *Cache) JSONBody() (any, error) {
	return c.jsonBody.load(&c.stats.bodyDecodes, &c.stats.hits, func() (any, error) {
		mt, _, err := c.contentType()
		if err != nil {
			return nil, fmt.Errorf("%w, expected application/json", err)
		}
		if mt != "application/json" && !strings.HasSuffix(mt, "+json") {
			return nil, fmt.Errorf("%w: got %s, expected application/json", ErrUnsupportedMediaType, mt)
		}

		raw, err := c.bodyBytes()
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(raw)) == 0 {
			return nil, ErrEmptyBody
		}

		dec := json.NewDecoder(bytes.NewReader(raw))
		dec.UseNumber()
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
		}
		if dec.More() {
			return nil, fmt.Errorf("%w: unexpected data after JSON document", ErrMalformedBody)
		}
		return v, nil
	})
}

// bodyBytes reads the raw body once, enforcing the size limit. A declared
// Content-Length over the limit is rejected without reading anything.
func (c *Cache) bodyBytes() ([]byte, error) {
	return c.rawBody.load(&c.stats.bodyReads, &c.stats.hits, func() ([]byte, error) {
		if err := c.r.Context().Err(); err != nil {
			return nil, err
		}
		if c.r.ContentLength > c.maxBody {
			return nil, errTooLarge(c.maxBody)
		}
		if c.r.Body == nil {
			return nil, nil
		}

		data, err := io.ReadAll(io.LimitReader(c.r.Body, c.maxBody+1))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadBody, err)
		}
		if int64(len(data)) > c.maxBody {
			return nil, errTooLarge(c.maxBody)
		}
		return data, nil
	})
}
