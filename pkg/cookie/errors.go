package cookie

import "errors"

var (
	// ErrNoSecret means New was given no usable secret.
	ErrNoSecret = errors.New("cookie.no_secret")
	// ErrSecretTooShort means a secret is under the 32-character minimum.
	ErrSecretTooShort = errors.New("cookie.secret_too_short")
	// ErrCookieNotFound means the request carries no cookie by that name.
	ErrCookieNotFound = errors.New("cookie.not_found")
	// ErrInvalidFormat means a signed value is not value "." signature.
	ErrInvalidFormat = errors.New("cookie.invalid_format")
	// ErrInvalidSignature means no configured secret verifies the value.
	ErrInvalidSignature = errors.New("cookie.invalid_signature")
)
