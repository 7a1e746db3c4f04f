package bindkit

import (
	"reflect"

	"github.com/dmitrymomot/bindkit/validate"
)

// Spec is the compiled description of one handler parameter: where it comes
// from, how it converts and which constraints apply. Specs are built once at
// registration and shared read-only across requests.
type Spec struct {
	FieldIndex  int
	FieldName   string // Go field name, used in configuration errors
	Name        string // wire name: tag alias or lowercased field name
	Source      Source
	BodyKind    BodyKind
	Mode        Mode
	Type        reflect.Type
	Shape       *validate.Shape // nil for raw, file and request specs
	Rules       validate.Rules
	Required    bool
	HasDefault  bool
	Default     reflect.Value
	DefaultFunc func() any
	Signed      bool // cookie value carries an HMAC signature
}

// Loc is the wire location prefix for failures of this parameter.
func (s Spec) Loc() []any {
	if s.Mode == ModeField {
		return []any{s.Source.String(), s.Name}
	}
	return []any{s.Source.String()}
}

// defaultValue returns the parameter's default, from the factory when one
// is declared. The second result is false when the spec has no default.
func (s Spec) defaultValue() (reflect.Value, bool, error) {
	if s.DefaultFunc != nil {
		v := reflect.ValueOf(s.DefaultFunc())
		if !v.IsValid() || !v.Type().AssignableTo(s.Type) {
			return reflect.Value{}, false, ErrBadTarget
		}
		return v, true, nil
	}
	if s.HasDefault {
		return s.Default, true, nil
	}
	return reflect.Value{}, false, nil
}

// Table is the ordered parameter spec list of one chain link, in struct
// declaration order. It is immutable after registration.
type Table struct {
	params reflect.Type
	specs  []Spec
}

// Specs returns the compiled parameter specs in declaration order.
func (t *Table) Specs() []Spec { return t.specs }

// ParamsType returns the struct type the table binds into.
func (t *Table) ParamsType() reflect.Type { return t.params }

// BodyKind returns the body encoding this table consumes, BodyNone when no
// parameter reads the body.
func (t *Table) BodyKind() BodyKind {
	for _, s := range t.specs {
		if s.Source == SourceBody {
			return s.BodyKind
		}
	}
	return BodyNone
}

// UsesSignedCookies reports whether any spec needs HMAC verification.
func (t *Table) UsesSignedCookies() bool {
	for _, s := range t.specs {
		if s.Signed {
			return true
		}
	}
	return false
}
