// Package validate coerces raw request material into typed Go values and
// checks the declared constraints, reporting every violation it finds.
//
// The package is deliberately small: it knows nothing about HTTP. Callers
// hand it a raw value (a string from a query parameter, a decoded JSON
// value) and a target type; it answers with the typed value or with the
// full list of failures. Failures carry a symbolic kind and a structured
// context so they can be rendered for machines, not just humans.
package validate

import (
	"fmt"
	"strings"
)

// Failure kinds. These are stable identifiers clients may switch on;
// changing one is a breaking change.
const (
	KindMissing         = "missing"
	KindStringType      = "string_type"
	KindIntParsing      = "int_parsing"
	KindFloatParsing    = "float_parsing"
	KindBoolParsing     = "bool_parsing"
	KindDecimalParsing  = "decimal_parsing"
	KindUUIDParsing     = "uuid_parsing"
	KindDatetimeParsing = "datetime_parsing"
	KindModelType       = "model_type"
	KindGreaterThan     = "greater_than"
	KindGreaterEqual    = "greater_than_equal"
	KindLessThan        = "less_than"
	KindLessEqual       = "less_than_equal"
	KindMultipleOf      = "multiple_of"
	KindStringTooShort  = "string_too_short"
	KindStringTooLong   = "string_too_long"
	KindTooShort        = "too_short"
	KindTooLong         = "too_long"
	KindPatternMismatch = "string_pattern_mismatch"
	KindMaxDigits       = "decimal_max_digits"
	KindMaxPlaces       = "decimal_max_places"
	KindListType        = "list_type"
	KindValueError      = "value_error"
)

// Failure describes a single rejected value: where it came from, what went
// wrong symbolically, a human-readable message, and the constraint context.
type Failure struct {
	Loc     []any          `json:"loc"`
	Kind    string         `json:"type"`
	Message string         `json:"msg"`
	Ctx     map[string]any `json:"ctx,omitempty"`
}

func (f Failure) String() string {
	parts := make([]string, 0, len(f.Loc))
	for _, p := range f.Loc {
		parts = append(parts, fmt.Sprint(p))
	}
	return fmt.Sprintf("%s: %s", strings.Join(parts, "."), f.Message)
}

// Failures is an ordered collection of failures. Order is meaningful: it
// follows declaration order of the parameters that produced them.
type Failures []Failure

func (fs Failures) Error() string {
	if len(fs) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(fs))
	for _, f := range fs {
		parts = append(parts, f.String())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (fs Failures) IsEmpty() bool { return len(fs) == 0 }

// Prefixed returns a copy of the collection with loc elements prepended to
// every failure. Used to anchor field-relative failures at their absolute
// request location, e.g. ["body", "items", 2] + ["price"].
func (fs Failures) Prefixed(loc ...any) Failures {
	if len(loc) == 0 || len(fs) == 0 {
		return fs
	}
	out := make(Failures, len(fs))
	for i, f := range fs {
		full := make([]any, 0, len(loc)+len(f.Loc))
		full = append(full, loc...)
		full = append(full, f.Loc...)
		f.Loc = full
		out[i] = f
	}
	return out
}

// Missing reports an absent required value.
func Missing(loc ...any) Failure {
	return Failure{Loc: loc, Kind: KindMissing, Message: "field is required"}
}

func parsingFailure(kind, what string) Failure {
	return Failure{Kind: kind, Message: "value is not a valid " + what}
}
