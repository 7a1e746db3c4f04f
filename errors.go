package bindkit

import (
	"errors"
	"fmt"
)

// Configuration errors, reported by NewEndpoint before the first request is
// served. A process that sees one of these must not start serving.
var (
	ErrNilHandler            = errors.New("bindkit: nil handler")
	ErrNotStruct             = errors.New("bindkit: params type must be a struct")
	ErrConflictingTags       = errors.New("bindkit: field declares more than one source")
	ErrDefaultOnPathParam    = errors.New("bindkit: path parameter cannot use a default")
	ErrConflictingExtraction = errors.New("bindkit: another data extraction type already exists for this source")
	ErrMixedBodyKinds        = errors.New("bindkit: json body cannot be combined with form or file parameters")
	ErrBadTarget             = errors.New("bindkit: invalid target type")
	ErrUnknownField          = errors.New("bindkit: unknown params field")
	ErrRulesOnAggregate      = errors.New("bindkit: validate rules require field mode")
	ErrSignedCookieSupport   = errors.New("bindkit: signed cookies require a cookie manager")
)

// Request-time contract errors.
var (
	ErrNilResponse        = errors.New("bindkit: handler returned nil response")
	ErrUndeclaredResponse = errors.New("bindkit: returned value type is not declared for this link")
)

// ConfigError wraps a startup failure with enough position to fix it: the
// endpoint, the chain link and the struct field that could not be compiled.
type ConfigError struct {
	Endpoint string
	Link     string
	Field    string
	Err      error
}

func (e *ConfigError) Error() string {
	msg := e.Err.Error()
	if e.Field != "" {
		msg = fmt.Sprintf("field %s: %s", e.Field, msg)
	}
	if e.Link != "" {
		msg = fmt.Sprintf("link %s: %s", e.Link, msg)
	}
	if e.Endpoint != "" {
		msg = fmt.Sprintf("endpoint %s: %s", e.Endpoint, msg)
	}
	return msg
}

func (e *ConfigError) Unwrap() error { return e.Err }
