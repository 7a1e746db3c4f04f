package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidRule reports a constraint declaration that could not be compiled.
var ErrInvalidRule = errors.New("validate: invalid rule")

// Rules is a compiled constraint set for a single parameter. All fields are
// optional; nil means the constraint is not declared. Rules are compiled once
// at registration and shared read-only across requests.
type Rules struct {
	Gt, Ge, Lt, Le *decimal.Decimal
	MultipleOf     *decimal.Decimal
	MinLen, MaxLen *int
	Pattern        *regexp.Regexp
	MaxDigits      *int
	MaxPlaces      *int
}

// IsZero reports whether no constraint is declared.
func (r Rules) IsZero() bool {
	return r.Gt == nil && r.Ge == nil && r.Lt == nil && r.Le == nil &&
		r.MultipleOf == nil && r.MinLen == nil && r.MaxLen == nil &&
		r.Pattern == nil && r.MaxDigits == nil && r.MaxPlaces == nil
}

// Parse compiles a comma-separated rule list such as
//
//	"gt=0,le=100,multiple_of=5"
//	"min_len=3,max_len=64,pattern=^[a-z]+$"
//
// into a Rules value. The pattern rule, when present, must come last: its
// value is taken verbatim up to the end of the tag so the expression may
// contain commas.
func Parse(tag string) (Rules, error) {
	var rules Rules
	rest := strings.TrimSpace(tag)
	for rest != "" {
		var item string
		if strings.HasPrefix(rest, "pattern=") {
			item, rest = rest, ""
		} else if i := strings.IndexByte(rest, ','); i >= 0 {
			item, rest = rest[:i], rest[i+1:]
		} else {
			item, rest = rest, ""
		}
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		name, value, ok := strings.Cut(item, "=")
		if !ok {
			return Rules{}, fmt.Errorf("%w: %q has no value", ErrInvalidRule, item)
		}

		var err error
		switch name {
		case "gt":
			rules.Gt, err = parseDecimalRule(name, value)
		case "ge":
			rules.Ge, err = parseDecimalRule(name, value)
		case "lt":
			rules.Lt, err = parseDecimalRule(name, value)
		case "le":
			rules.Le, err = parseDecimalRule(name, value)
		case "multiple_of":
			rules.MultipleOf, err = parseDecimalRule(name, value)
		case "min_len":
			rules.MinLen, err = parseLenRule(name, value)
		case "max_len":
			rules.MaxLen, err = parseLenRule(name, value)
		case "max_digits":
			rules.MaxDigits, err = parseLenRule(name, value)
		case "decimal_places":
			rules.MaxPlaces, err = parseLenRule(name, value)
		case "pattern":
			var re *regexp.Regexp
			re, err = regexp.Compile(value)
			if err != nil {
				err = fmt.Errorf("%w: pattern %q: %v", ErrInvalidRule, value, err)
			}
			rules.Pattern = re
		default:
			return Rules{}, fmt.Errorf("%w: unknown rule %q", ErrInvalidRule, name)
		}
		if err != nil {
			return Rules{}, err
		}
	}
	return rules, nil
}

func parseDecimalRule(name, value string) (*decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s=%q is not a number", ErrInvalidRule, name, value)
	}
	return &d, nil
}

func parseLenRule(name, value string) (*int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: %s=%q is not a non-negative integer", ErrInvalidRule, name, value)
	}
	return &n, nil
}

func numCtx(key string, d decimal.Decimal) map[string]any {
	return map[string]any{key: json.Number(d.String())}
}
