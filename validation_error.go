package bindkit

import (
	"errors"

	"github.com/dmitrymomot/bindkit/validate"
)

// ValidationError aggregates every validation failure collected while
// binding one request. It is never empty: the engine only constructs it
// after at least one parameter was rejected. On the wire it renders as
// HTTP 422 with a body of the form
//
//	{"errors": [{"loc": ["query", "limit"], "type": "greater_than",
//	             "msg": "value must be greater than 0", "ctx": {"gt": 0}}]}
type ValidationError struct {
	Failures validate.Failures
}

func newValidationError(fails validate.Failures) *ValidationError {
	if len(fails) == 0 {
		return nil
	}
	return &ValidationError{Failures: fails}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return e.Failures.Error()
}

// AsValidationError extracts a ValidationError from an error chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
