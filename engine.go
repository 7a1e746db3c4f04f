package bindkit

import (
	"errors"
	"fmt"
	"maps"
	"net/url"
	"reflect"

	"github.com/dmitrymomot/bindkit/binder"
	"github.com/dmitrymomot/bindkit/validate"
)

// CookieVerifier checks the signature of a signed cookie and returns the
// plain value. Tampered or malformed signatures return an error; the engine
// then treats the cookie as absent rather than failing the request.
type CookieVerifier interface {
	Verify(name, signed string) (string, error)
}

// CookieSigner signs a cookie value for the response side.
type CookieSigner interface {
	Sign(name, value string) (string, error)
}

// CookieManager combines both directions of signed-cookie support.
// pkg/cookie.Manager satisfies it.
type CookieManager interface {
	CookieSigner
	CookieVerifier
}

// bindEnv carries the request-scoped collaborators of one binding pass.
type bindEnv struct {
	cache    *binder.Cache
	verifier CookieVerifier
}

// bindParams populates a fresh instance of the table's params struct. It
// walks every spec in declaration order and collects all validation
// failures before deciding, so a response reports everything wrong with the
// request at once. Extraction I/O problems (unreadable, oversized or
// unparseable bodies) abort immediately as hard errors.
func bindParams(t *Table, env bindEnv) (reflect.Value, validate.Failures, error) {
	out := reflect.New(t.params).Elem()
	var fails validate.Failures

	for _, spec := range t.specs {
		var (
			v      reflect.Value
			sfails validate.Failures
			err    error
		)

		switch spec.Source {
		case SourceRequest:
			v = reflect.ValueOf(env.cache.Request())
		case SourcePath:
			v, sfails, err = bindPath(spec, env)
		case SourceHeader:
			v, sfails, err = bindHeader(spec, env)
		case SourceCookie:
			v, sfails, err = bindCookie(spec, env)
		case SourceQuery:
			v, sfails, err = bindQuery(spec, env)
		case SourceBody:
			v, sfails, err = bindBody(spec, env)
		}

		if err != nil {
			return reflect.Value{}, nil, err
		}
		if len(sfails) > 0 {
			fails = append(fails, sfails...)
			continue
		}
		if v.IsValid() {
			out.Field(spec.FieldIndex).Set(v)
		}
	}

	if len(fails) > 0 {
		return reflect.Value{}, fails, nil
	}
	return out, nil, nil
}

// bindOne runs the shared tail of field-mode binding: defaults for absent
// values, the missing failure for required ones, then coercion and rules.
func bindOne(spec Spec, values []string, present bool) (reflect.Value, validate.Failures, error) {
	if !present || len(values) == 0 {
		def, ok, err := spec.defaultValue()
		if err != nil {
			return reflect.Value{}, nil, fmt.Errorf("%w: default factory for %s", err, spec.FieldName)
		}
		if ok {
			return def, nil, nil
		}
		if spec.Required {
			return reflect.Value{}, validate.Failures{validate.Missing(spec.Loc()...)}, nil
		}
		return reflect.Value{}, nil, nil
	}

	v, fails := spec.Shape.FromStrings(values)
	if len(fails) == 0 {
		fails = validate.Apply(spec.Rules, v)
	}
	if len(fails) > 0 {
		return reflect.Value{}, fails.Prefixed(spec.Loc()...), nil
	}
	return v, nil, nil
}

func bindPath(spec Spec, env bindEnv) (reflect.Value, validate.Failures, error) {
	params, err := env.cache.PathParams()
	if err != nil {
		return reflect.Value{}, nil, err
	}

	switch spec.Mode {
	case ModeRaw:
		return reflect.ValueOf(maps.Clone(params)), nil, nil
	case ModeSchema:
		v, fails := spec.Shape.FromLookup(func(key string) ([]string, bool) {
			raw, ok := params[key]
			if !ok || raw == "" {
				return nil, false
			}
			return []string{raw}, true
		})
		return v, fails.Prefixed(spec.Loc()...), nil
	default:
		raw, ok := params[spec.Name]
		return bindOne(spec, []string{raw}, ok && raw != "")
	}
}

func bindHeader(spec Spec, env bindEnv) (reflect.Value, validate.Failures, error) {
	h := env.cache.Header()

	switch spec.Mode {
	case ModeRaw:
		return reflect.ValueOf(h.Clone()), nil, nil
	case ModeSchema:
		v, fails := spec.Shape.FromLookup(func(key string) ([]string, bool) {
			values := h.Values(key)
			return values, len(values) > 0
		})
		return v, fails.Prefixed(spec.Loc()...), nil
	default:
		values := h.Values(spec.Name)
		return bindOne(spec, values, len(values) > 0)
	}
}

func bindCookie(spec Spec, env bindEnv) (reflect.Value, validate.Failures, error) {
	cookies, err := env.cache.Cookies()
	if err != nil {
		return reflect.Value{}, nil, err
	}

	switch spec.Mode {
	case ModeRaw:
		return reflect.ValueOf(maps.Clone(cookies)), nil, nil
	case ModeSchema:
		v, fails := spec.Shape.FromLookup(func(key string) ([]string, bool) {
			raw, ok := cookies[key]
			if !ok {
				return nil, false
			}
			return []string{raw}, true
		})
		return v, fails.Prefixed(spec.Loc()...), nil
	default:
		raw, ok := cookies[spec.Name]
		if ok && spec.Signed {
			plain, err := env.verifier.Verify(spec.Name, raw)
			if err != nil {
				ok = false // tampered signatures read as absent
			} else {
				raw = plain
			}
		}
		return bindOne(spec, []string{raw}, ok)
	}
}

func bindQuery(spec Spec, env bindEnv) (reflect.Value, validate.Failures, error) {
	q := env.cache.Query()

	switch spec.Mode {
	case ModeRaw:
		return reflect.ValueOf(cloneValues(q)), nil, nil
	case ModeSchema:
		v, fails := spec.Shape.FromLookup(func(key string) ([]string, bool) {
			values, ok := q[key]
			return values, ok && len(values) > 0
		})
		return v, fails.Prefixed(spec.Loc()...), nil
	default:
		values, ok := q[spec.Name]
		return bindOne(spec, values, ok && len(values) > 0)
	}
}

func bindBody(spec Spec, env bindEnv) (reflect.Value, validate.Failures, error) {
	switch spec.BodyKind {
	case BodyJSON:
		return bindJSONBody(spec, env)
	case BodyForm:
		return bindFormBody(spec, env)
	default:
		return bindFileBody(spec, env)
	}
}

func bindJSONBody(spec Spec, env bindEnv) (reflect.Value, validate.Failures, error) {
	doc, err := env.cache.JSONBody()
	absent := errors.Is(err, binder.ErrEmptyBody)
	if err != nil && !absent {
		if errors.Is(err, binder.ErrMissingContentType) && !spec.Required {
			absent = true // optional body, request without one
		} else {
			return reflect.Value{}, nil, err
		}
	}

	switch spec.Mode {
	case ModeRaw:
		if absent {
			return reflect.Zero(spec.Type), nil, nil
		}
		v := reflect.New(spec.Type).Elem()
		if doc != nil {
			v.Set(reflect.ValueOf(doc))
		}
		return v, nil, nil

	case ModeSchema:
		if absent {
			if spec.Required {
				return reflect.Value{}, validate.Failures{validate.Missing(spec.Loc()...)}, nil
			}
			return reflect.Value{}, nil, nil
		}
		v, fails := spec.Shape.FromJSON(doc)
		return v, fails.Prefixed(spec.Loc()...), nil

	default:
		if absent {
			return bindJSONField(spec, nil, false)
		}
		obj, ok := doc.(map[string]any)
		if !ok {
			return reflect.Value{}, validate.Failures{{
				Loc:     []any{SourceBody.String()},
				Kind:    validate.KindModelType,
				Message: "value is not a valid object",
			}}, nil
		}
		raw, ok := validate.LookupKey(obj, spec.Name)
		return bindJSONField(spec, raw, ok)
	}
}

// bindJSONField mirrors bindOne for values already decoded from JSON.
func bindJSONField(spec Spec, raw any, present bool) (reflect.Value, validate.Failures, error) {
	if !present {
		def, ok, err := spec.defaultValue()
		if err != nil {
			return reflect.Value{}, nil, fmt.Errorf("%w: default factory for %s", err, spec.FieldName)
		}
		if ok {
			return def, nil, nil
		}
		if spec.Required {
			return reflect.Value{}, validate.Failures{validate.Missing(spec.Loc()...)}, nil
		}
		return reflect.Value{}, nil, nil
	}

	v, fails := spec.Shape.FromJSON(raw)
	if len(fails) == 0 {
		fails = validate.Apply(spec.Rules, v)
	}
	if len(fails) > 0 {
		return reflect.Value{}, fails.Prefixed(spec.Loc()...), nil
	}
	return v, nil, nil
}

func bindFormBody(spec Spec, env bindEnv) (reflect.Value, validate.Failures, error) {
	values, err := env.cache.FormValues()
	if err != nil {
		if errors.Is(err, binder.ErrEmptyBody) || errors.Is(err, binder.ErrMissingContentType) {
			values = url.Values{} // no form sent, fields resolve as absent
		} else {
			return reflect.Value{}, nil, err
		}
	}

	switch spec.Mode {
	case ModeRaw:
		return reflect.ValueOf(cloneValues(values)), nil, nil
	case ModeSchema:
		v, fails := spec.Shape.FromLookup(func(key string) ([]string, bool) {
			vs, ok := values[key]
			return vs, ok && len(vs) > 0
		})
		return v, fails.Prefixed(spec.Loc()...), nil
	default:
		vs, ok := values[spec.Name]
		return bindOne(spec, vs, ok && len(vs) > 0)
	}
}

func bindFileBody(spec Spec, env bindEnv) (reflect.Value, validate.Failures, error) {
	parts, err := env.cache.MultipartParts()
	if err != nil {
		if errors.Is(err, binder.ErrEmptyBody) || errors.Is(err, binder.ErrMissingContentType) {
			parts = nil
		} else {
			return reflect.Value{}, nil, err
		}
	}

	if spec.Mode == ModeRaw {
		out := make([]binder.Part, len(parts))
		copy(out, parts)
		return reflect.ValueOf(out), nil, nil
	}

	var files []binder.FileUpload
	var fails validate.Failures
	for _, p := range parts {
		if p.Name != spec.Name || !p.IsFile() {
			continue
		}
		f := binder.FileFromPart(p)
		if ffails := validate.Apply(spec.Rules, reflect.ValueOf(f.Content)); len(ffails) > 0 {
			fails = append(fails, ffails.Prefixed(spec.Loc()...)...)
			continue
		}
		files = append(files, f)
	}
	if len(fails) > 0 {
		return reflect.Value{}, fails, nil
	}

	if len(files) == 0 {
		if spec.Required {
			return reflect.Value{}, validate.Failures{validate.Missing(spec.Loc()...)}, nil
		}
		return reflect.Value{}, nil, nil
	}

	switch spec.Type {
	case filesType:
		return reflect.ValueOf(files), nil, nil
	case filePtrType:
		return reflect.ValueOf(&files[0]), nil, nil
	default:
		return reflect.ValueOf(files[0]), nil, nil
	}
}

func cloneValues(v url.Values) url.Values {
	out := make(url.Values, len(v))
	for key, values := range v {
		out[key] = append([]string(nil), values...)
	}
	return out
}
