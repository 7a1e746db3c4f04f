package validate

import (
	"encoding"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FromString converts one textual value (a path segment, header, cookie,
// query or form value) into the shape's type. Slice shapes treat the value
// as a single-element list.
func (s *Shape) FromString(raw string) (reflect.Value, Failures) {
	switch s.kind {
	case kindString:
		return reflect.ValueOf(raw).Convert(s.Type), nil

	case kindInt:
		n, err := strconv.ParseInt(raw, 10, s.Type.Bits())
		if err != nil {
			return reflect.Value{}, Failures{parsingFailure(KindIntParsing, "integer")}
		}
		v := reflect.New(s.Type).Elem()
		v.SetInt(n)
		return v, nil

	case kindUint:
		n, err := strconv.ParseUint(raw, 10, s.Type.Bits())
		if err != nil {
			return reflect.Value{}, Failures{parsingFailure(KindIntParsing, "integer")}
		}
		v := reflect.New(s.Type).Elem()
		v.SetUint(n)
		return v, nil

	case kindFloat:
		f, err := strconv.ParseFloat(raw, s.Type.Bits())
		if err != nil {
			return reflect.Value{}, Failures{parsingFailure(KindFloatParsing, "number")}
		}
		v := reflect.New(s.Type).Elem()
		v.SetFloat(f)
		return v, nil

	case kindBool:
		b, ok := parseBool(raw)
		if !ok {
			return reflect.Value{}, Failures{parsingFailure(KindBoolParsing, "boolean")}
		}
		v := reflect.New(s.Type).Elem()
		v.SetBool(b)
		return v, nil

	case kindDecimal:
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return reflect.Value{}, Failures{parsingFailure(KindDecimalParsing, "decimal")}
		}
		return reflect.ValueOf(d), nil

	case kindUUID:
		id, err := uuid.Parse(raw)
		if err != nil {
			return reflect.Value{}, Failures{parsingFailure(KindUUIDParsing, "uuid")}
		}
		return reflect.ValueOf(id), nil

	case kindTime:
		t, ok := parseTime(raw)
		if !ok {
			return reflect.Value{}, Failures{parsingFailure(KindDatetimeParsing, "datetime")}
		}
		return reflect.ValueOf(t), nil

	case kindBytes:
		return reflect.ValueOf([]byte(raw)).Convert(s.Type), nil

	case kindText:
		v := reflect.New(s.Type)
		if err := v.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw)); err != nil {
			return reflect.Value{}, Failures{{Kind: KindValueError, Message: err.Error()}}
		}
		return v.Elem(), nil

	case kindPointer:
		ev, fails := s.elem.FromString(raw)
		if len(fails) > 0 {
			return reflect.Value{}, fails
		}
		p := reflect.New(s.elem.Type)
		p.Elem().Set(ev)
		return p, nil

	case kindSlice:
		return s.FromStrings([]string{raw})

	case kindAny:
		v := reflect.New(s.Type).Elem()
		v.Set(reflect.ValueOf(raw))
		return v, nil

	default:
		return reflect.Value{}, Failures{{Kind: KindModelType, Message: "value is not a valid object"}}
	}
}

// FromStrings converts repeated textual values (query or form keys that
// appear more than once) into the shape's type. Non-slice shapes take the
// first value, matching url.Values.Get.
func (s *Shape) FromStrings(raws []string) (reflect.Value, Failures) {
	switch s.kind {
	case kindSlice:
		out := reflect.MakeSlice(s.Type, 0, len(raws))
		var fails Failures
		for i, raw := range raws {
			ev, efails := s.elem.FromString(raw)
			if len(efails) > 0 {
				fails = append(fails, efails.Prefixed(i)...)
				continue
			}
			out = reflect.Append(out, ev)
		}
		if len(fails) > 0 {
			return reflect.Value{}, fails
		}
		return out, nil

	case kindPointer:
		ev, fails := s.elem.FromStrings(raws)
		if len(fails) > 0 {
			return reflect.Value{}, fails
		}
		p := reflect.New(s.elem.Type)
		p.Elem().Set(ev)
		return p, nil

	default:
		if len(raws) == 0 {
			return reflect.Value{}, Failures{Missing()}
		}
		return s.FromString(raws[0])
	}
}

// FromJSON converts a decoded JSON value (nil, bool, json.Number, string,
// []any or map[string]any) into the shape's type. Numbers must have been
// decoded with json.Decoder.UseNumber so decimal targets keep full precision.
func (s *Shape) FromJSON(v any) (reflect.Value, Failures) {
	if v == nil {
		switch s.kind {
		case kindPointer, kindAny, kindSlice, kindMap, kindBytes:
			return reflect.Zero(s.Type), nil
		default:
			return reflect.Value{}, Failures{s.typeFailure()}
		}
	}

	switch s.kind {
	case kindAny:
		out := reflect.New(s.Type).Elem()
		out.Set(reflect.ValueOf(v))
		return out, nil

	case kindPointer:
		ev, fails := s.elem.FromJSON(v)
		if len(fails) > 0 {
			return reflect.Value{}, fails
		}
		p := reflect.New(s.elem.Type)
		p.Elem().Set(ev)
		return p, nil

	case kindString:
		str, ok := v.(string)
		if !ok {
			return reflect.Value{}, Failures{{Kind: KindStringType, Message: "value is not a valid string"}}
		}
		return reflect.ValueOf(str).Convert(s.Type), nil

	case kindInt, kindUint, kindFloat, kindDecimal:
		return s.fromJSONNumber(v)

	case kindBool:
		switch b := v.(type) {
		case bool:
			out := reflect.New(s.Type).Elem()
			out.SetBool(b)
			return out, nil
		case string:
			return s.FromString(b)
		}
		return reflect.Value{}, Failures{parsingFailure(KindBoolParsing, "boolean")}

	case kindUUID, kindTime, kindText, kindBytes:
		str, ok := v.(string)
		if !ok {
			return reflect.Value{}, Failures{s.typeFailure()}
		}
		return s.FromString(str)

	case kindSlice:
		items, ok := v.([]any)
		if !ok {
			return reflect.Value{}, Failures{{Kind: KindListType, Message: "value is not a valid list"}}
		}
		out := reflect.MakeSlice(s.Type, 0, len(items))
		var fails Failures
		for i, item := range items {
			ev, efails := s.elem.FromJSON(item)
			if len(efails) > 0 {
				fails = append(fails, efails.Prefixed(i)...)
				continue
			}
			out = reflect.Append(out, ev)
		}
		if len(fails) > 0 {
			return reflect.Value{}, fails
		}
		return out, nil

	case kindMap:
		m, ok := v.(map[string]any)
		if !ok {
			return reflect.Value{}, Failures{{Kind: KindModelType, Message: "value is not a valid object"}}
		}
		out := reflect.MakeMapWithSize(s.Type, len(m))
		var fails Failures
		for key, item := range m {
			ev, efails := s.elem.FromJSON(item)
			if len(efails) > 0 {
				fails = append(fails, efails.Prefixed(key)...)
				continue
			}
			out.SetMapIndex(reflect.ValueOf(key).Convert(s.Type.Key()), ev)
		}
		if len(fails) > 0 {
			return reflect.Value{}, fails
		}
		return out, nil

	case kindStruct:
		m, ok := v.(map[string]any)
		if !ok {
			return reflect.Value{}, Failures{{Kind: KindModelType, Message: "value is not a valid object"}}
		}
		return s.structFromJSON(m)

	default:
		return reflect.Value{}, Failures{s.typeFailure()}
	}
}

func (s *Shape) structFromJSON(m map[string]any) (reflect.Value, Failures) {
	out := reflect.New(s.Type).Elem()
	var fails Failures
	for _, f := range s.fields {
		if f.inline {
			iv, ifails := f.shape.structFromJSON(m)
			fails = append(fails, ifails...)
			if len(ifails) == 0 {
				out.Field(f.index).Set(iv)
			}
			continue
		}

		raw, ok := LookupKey(m, f.key)
		if !ok {
			if f.hasDefault {
				out.Field(f.index).Set(f.defaultVal)
				continue
			}
			if f.required {
				fails = append(fails, Missing(f.key))
			}
			continue
		}

		fv, ffails := f.shape.FromJSON(raw)
		if len(ffails) > 0 {
			fails = append(fails, ffails.Prefixed(f.key)...)
			continue
		}
		if rfails := Apply(f.rules, fv); len(rfails) > 0 {
			fails = append(fails, rfails.Prefixed(f.key)...)
			continue
		}
		out.Field(f.index).Set(fv)
	}
	if len(fails) > 0 {
		return reflect.Value{}, fails
	}
	return out, nil
}

// FromLookup converts a keyed textual source (query string, headers,
// cookies, form values) into a struct shape, pulling each compiled field by
// its key. Only struct shapes support lookup conversion.
func (s *Shape) FromLookup(get func(key string) ([]string, bool)) (reflect.Value, Failures) {
	if s.kind == kindPointer && s.elem.kind == kindStruct {
		ev, fails := s.elem.FromLookup(get)
		if len(fails) > 0 {
			return reflect.Value{}, fails
		}
		p := reflect.New(s.elem.Type)
		p.Elem().Set(ev)
		return p, nil
	}
	if s.kind != kindStruct {
		return reflect.Value{}, Failures{{Kind: KindModelType, Message: "value is not a valid object"}}
	}

	out := reflect.New(s.Type).Elem()
	var fails Failures
	for _, f := range s.fields {
		if f.inline {
			iv, ifails := f.shape.FromLookup(get)
			fails = append(fails, ifails...)
			if len(ifails) == 0 {
				out.Field(f.index).Set(iv)
			}
			continue
		}

		values, ok := get(f.key)
		if !ok || len(values) == 0 {
			if f.hasDefault {
				out.Field(f.index).Set(f.defaultVal)
				continue
			}
			if f.required {
				fails = append(fails, Missing(f.key))
			}
			continue
		}

		fv, ffails := f.shape.FromStrings(values)
		if len(ffails) > 0 {
			fails = append(fails, ffails.Prefixed(f.key)...)
			continue
		}
		if rfails := Apply(f.rules, fv); len(rfails) > 0 {
			fails = append(fails, rfails.Prefixed(f.key)...)
			continue
		}
		out.Field(f.index).Set(fv)
	}
	if len(fails) > 0 {
		return reflect.Value{}, fails
	}
	return out, nil
}

func (s *Shape) fromJSONNumber(v any) (reflect.Value, Failures) {
	var str string
	switch n := v.(type) {
	case json.Number:
		str = string(n)
	case string:
		str = n
	case float64:
		str = strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return reflect.Value{}, Failures{s.typeFailure()}
	}
	return s.FromString(str)
}

func (s *Shape) typeFailure() Failure {
	switch s.kind {
	case kindString:
		return Failure{Kind: KindStringType, Message: "value is not a valid string"}
	case kindInt, kindUint:
		return parsingFailure(KindIntParsing, "integer")
	case kindFloat:
		return parsingFailure(KindFloatParsing, "number")
	case kindBool:
		return parsingFailure(KindBoolParsing, "boolean")
	case kindDecimal:
		return parsingFailure(KindDecimalParsing, "decimal")
	case kindUUID:
		return parsingFailure(KindUUIDParsing, "uuid")
	case kindTime:
		return parsingFailure(KindDatetimeParsing, "datetime")
	case kindSlice:
		return Failure{Kind: KindListType, Message: "value is not a valid list"}
	default:
		return Failure{Kind: KindModelType, Message: "value is not a valid object"}
	}
}

// LookupKey finds a key in a decoded JSON object, preferring an exact match
// and falling back to a case-insensitive one, like encoding/json.
func LookupKey(m map[string]any, key string) (any, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func parseBool(raw string) (bool, bool) {
	switch strings.ToLower(raw) {
	case "1", "t", "true", "yes", "on":
		return true, true
	case "0", "f", "false", "no", "off":
		return false, true
	}
	return false, false
}

func parseTime(raw string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}
