package validate

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// Apply checks a coerced value against the compiled rules in a fixed order:
// range, multiple_of, length, pattern, decimal precision. Every violated
// rule reports its own failure; checking never stops at the first one.
func Apply(rules Rules, v reflect.Value) Failures {
	if rules.IsZero() || !v.IsValid() {
		return nil
	}
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	var fails Failures

	if num, ok := numericValue(v); ok {
		if rules.Gt != nil && !num.GreaterThan(*rules.Gt) {
			fails = append(fails, Failure{
				Kind:    KindGreaterThan,
				Message: "value must be greater than " + rules.Gt.String(),
				Ctx:     numCtx("gt", *rules.Gt),
			})
		}
		if rules.Ge != nil && !num.GreaterThanOrEqual(*rules.Ge) {
			fails = append(fails, Failure{
				Kind:    KindGreaterEqual,
				Message: "value must be greater than or equal to " + rules.Ge.String(),
				Ctx:     numCtx("ge", *rules.Ge),
			})
		}
		if rules.Lt != nil && !num.LessThan(*rules.Lt) {
			fails = append(fails, Failure{
				Kind:    KindLessThan,
				Message: "value must be less than " + rules.Lt.String(),
				Ctx:     numCtx("lt", *rules.Lt),
			})
		}
		if rules.Le != nil && !num.LessThanOrEqual(*rules.Le) {
			fails = append(fails, Failure{
				Kind:    KindLessEqual,
				Message: "value must be less than or equal to " + rules.Le.String(),
				Ctx:     numCtx("le", *rules.Le),
			})
		}
		if rules.MultipleOf != nil && !num.Mod(*rules.MultipleOf).IsZero() {
			fails = append(fails, Failure{
				Kind:    KindMultipleOf,
				Message: "value must be a multiple of " + rules.MultipleOf.String(),
				Ctx:     numCtx("multiple_of", *rules.MultipleOf),
			})
		}
	}

	if length, isString, ok := lengthOf(v); ok {
		if rules.MinLen != nil && length < *rules.MinLen {
			fails = append(fails, lengthFailure(isString, true, *rules.MinLen))
		}
		if rules.MaxLen != nil && length > *rules.MaxLen {
			fails = append(fails, lengthFailure(isString, false, *rules.MaxLen))
		}
	}

	if rules.Pattern != nil && v.Kind() == reflect.String {
		if !rules.Pattern.MatchString(v.String()) {
			fails = append(fails, Failure{
				Kind:    KindPatternMismatch,
				Message: "value does not match pattern " + rules.Pattern.String(),
				Ctx:     map[string]any{"pattern": rules.Pattern.String()},
			})
		}
	}

	if d, ok := v.Interface().(decimal.Decimal); ok {
		digits, places := decimalDigits(d)
		if rules.MaxDigits != nil && digits > *rules.MaxDigits {
			fails = append(fails, Failure{
				Kind:    KindMaxDigits,
				Message: fmt.Sprintf("value must have at most %d digits in total", *rules.MaxDigits),
				Ctx:     map[string]any{"max_digits": *rules.MaxDigits},
			})
		}
		if rules.MaxPlaces != nil && places > *rules.MaxPlaces {
			fails = append(fails, Failure{
				Kind:    KindMaxPlaces,
				Message: fmt.Sprintf("value must have at most %d decimal places", *rules.MaxPlaces),
				Ctx:     map[string]any{"decimal_places": *rules.MaxPlaces},
			})
		}
	}

	return fails
}

// CheckRules verifies at registration that every declared rule is applicable
// to the target type. Inapplicable rules are configuration errors, caught
// before the first request.
func CheckRules(rules Rules, t reflect.Type) error {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if rules.Gt != nil || rules.Ge != nil || rules.Lt != nil || rules.Le != nil || rules.MultipleOf != nil {
		if !isNumericType(t) {
			return fmt.Errorf("%w: numeric rules require a numeric field, got %s", ErrInvalidRule, t)
		}
	}
	if rules.MinLen != nil || rules.MaxLen != nil {
		switch t.Kind() {
		case reflect.String, reflect.Slice, reflect.Array, reflect.Map:
		default:
			return fmt.Errorf("%w: length rules require a string, slice or map field, got %s", ErrInvalidRule, t)
		}
	}
	if rules.Pattern != nil && t.Kind() != reflect.String {
		return fmt.Errorf("%w: pattern requires a string field, got %s", ErrInvalidRule, t)
	}
	if (rules.MaxDigits != nil || rules.MaxPlaces != nil) && t != decimalType {
		return fmt.Errorf("%w: digit rules require a decimal field, got %s", ErrInvalidRule, t)
	}
	return nil
}

func isNumericType(t reflect.Type) bool {
	if t == decimalType {
		return true
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func numericValue(v reflect.Value) (decimal.Decimal, bool) {
	if d, ok := v.Interface().(decimal.Decimal); ok {
		return d, true
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(v.Uint()), 0), true
	case reflect.Float32, reflect.Float64:
		return decimal.NewFromFloat(v.Float()), true
	}
	return decimal.Decimal{}, false
}

func lengthOf(v reflect.Value) (length int, isString, ok bool) {
	switch v.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(v.String()), true, true
	case reflect.Slice, reflect.Array, reflect.Map:
		return v.Len(), false, true
	}
	return 0, false, false
}

func lengthFailure(isString, tooShort bool, bound int) Failure {
	switch {
	case isString && tooShort:
		return Failure{
			Kind:    KindStringTooShort,
			Message: fmt.Sprintf("value must have at least %d characters", bound),
			Ctx:     map[string]any{"min_length": bound},
		}
	case isString:
		return Failure{
			Kind:    KindStringTooLong,
			Message: fmt.Sprintf("value must have at most %d characters", bound),
			Ctx:     map[string]any{"max_length": bound},
		}
	case tooShort:
		return Failure{
			Kind:    KindTooShort,
			Message: fmt.Sprintf("value must have at least %d items", bound),
			Ctx:     map[string]any{"min_length": bound},
		}
	default:
		return Failure{
			Kind:    KindTooLong,
			Message: fmt.Sprintf("value must have at most %d items", bound),
			Ctx:     map[string]any{"max_length": bound},
		}
	}
}

func decimalDigits(d decimal.Decimal) (digits, places int) {
	exp := int(d.Exponent())
	coeff := strings.TrimLeft(new(big.Int).Abs(d.Coefficient()).String(), "0")
	digits = len(coeff)
	if exp > 0 {
		digits += exp
	}
	if exp < 0 {
		places = -exp
	}
	return digits, places
}
