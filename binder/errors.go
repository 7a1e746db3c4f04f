package binder

import "errors"

// Extraction errors. The endpoint maps these onto transport statuses:
// ErrBodyTooLarge to 413, media type errors to 415, ErrMalformedBody to 400.
var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMissingContentType   = errors.New("missing content type")
	ErrMalformedBody        = errors.New("malformed body")
	ErrBodyTooLarge         = errors.New("request body too large")
	ErrEmptyBody            = errors.New("empty body")
	ErrReadBody             = errors.New("reading body")
)
