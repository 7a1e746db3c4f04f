package binder

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
)

// Part is one decoded multipart section, file or value, in body order.
// A part without a declared content type stays an untyped byte sequence;
// nothing here inspects or sniffs content.
type Part struct {
	Name     string
	Filename string
	Header   textproto.MIMEHeader
	Data     []byte
}

// IsFile reports whether the part carries an uploaded file rather than a
// plain form value.
func (p Part) IsFile() bool { return p.Filename != "" }

// ContentType returns the declared content type of the part, empty when the
// client sent none.
func (p Part) ContentType() string { return p.Header.Get("Content-Type") }

// MultipartParts streams and decodes the multipart body exactly once,
// returning every part in order. Duplicate part names are preserved so
// repeated fields keep slice semantics. The cumulative size limit aborts
// the stream instead of buffering past it.
func (c *Cache) MultipartParts() ([]Part, error) {
	return c.multipart.load(&c.stats.bodyDecodes, &c.stats.hits, func() ([]Part, error) {
		if err := c.r.Context().Err(); err != nil {
			return nil, err
		}

		mt, params, err := c.contentType()
		if err != nil {
			return nil, fmt.Errorf("%w, expected multipart/form-data", err)
		}
		if mt != "multipart/form-data" {
			return nil, fmt.Errorf("%w: got %s, expected multipart/form-data", ErrUnsupportedMediaType, mt)
		}
		boundary := params["boundary"]
		if boundary == "" {
			return nil, fmt.Errorf("%w: missing multipart boundary", ErrMalformedBody)
		}

		if c.r.ContentLength > c.maxBody {
			return nil, errTooLarge(c.maxBody)
		}
		if c.r.Body == nil {
			return nil, ErrEmptyBody
		}

		c.stats.bodyReads.Add(1)
		lr := &io.LimitedReader{R: c.r.Body, N: c.maxBody + 1}
		mr := multipart.NewReader(lr, boundary)

		var parts []Part
		for {
			p, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				if lr.N <= 0 {
					return nil, errTooLarge(c.maxBody)
				}
				return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
			}

			data, err := io.ReadAll(p)
			if err != nil {
				if lr.N <= 0 {
					return nil, errTooLarge(c.maxBody)
				}
				return nil, fmt.Errorf("%w: reading part %q: %v", ErrMalformedBody, p.FormName(), err)
			}
			parts = append(parts, Part{
				Name:     p.FormName(),
				Filename: p.FileName(),
				Header:   p.Header,
				Data:     data,
			})
		}
		if lr.N <= 0 {
			return nil, errTooLarge(c.maxBody)
		}
		return parts, nil
	})
}
