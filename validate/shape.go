package validate

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrUnsupportedType reports a target type the compiler cannot plan a
// conversion for.
var ErrUnsupportedType = errors.New("validate: unsupported target type")

type shapeKind uint8

const (
	kindInvalid shapeKind = iota
	kindString
	kindInt
	kindUint
	kindFloat
	kindBool
	kindDecimal
	kindUUID
	kindTime
	kindText // encoding.TextUnmarshaler fallback
	kindBytes
	kindPointer
	kindSlice
	kindMap
	kindStruct
	kindAny
)

// Shape is a compiled conversion plan for one target type. Compilation walks
// the type exactly once, at registration; request handling only executes the
// plan. Shapes are immutable and safe for concurrent use.
type Shape struct {
	Type   reflect.Type
	kind   shapeKind
	elem   *Shape       // pointer, slice and map element
	fields []shapeField // struct
}

type shapeField struct {
	index      int
	key        string
	inline     bool // embedded struct promoted into the parent
	shape      *Shape
	rules      Rules
	required   bool
	hasDefault bool
	defaultVal reflect.Value
}

var (
	decimalType = reflect.TypeFor[decimal.Decimal]()
	uuidType    = reflect.TypeFor[uuid.UUID]()
	timeType    = reflect.TypeFor[time.Time]()
	textType    = reflect.TypeFor[encoding.TextUnmarshaler]()
	anyType     = reflect.TypeFor[any]()
	byteType    = reflect.TypeFor[byte]()
)

var shapeCache sync.Map // shapeCacheKey -> *Shape

type shapeCacheKey struct {
	t   reflect.Type
	tag string
}

// CompileShape builds (or returns the cached) conversion plan for t. Struct
// field keys are read from the tagKey struct tag ("json", "query", ...),
// falling back to the lowercased field name. Recursive types are supported.
func CompileShape(t reflect.Type, tagKey string) (*Shape, error) {
	key := shapeCacheKey{t: t, tag: tagKey}
	if s, ok := shapeCache.Load(key); ok {
		return s.(*Shape), nil
	}
	s, err := compileShape(t, tagKey, map[reflect.Type]*Shape{})
	if err != nil {
		return nil, err
	}
	actual, _ := shapeCache.LoadOrStore(key, s)
	return actual.(*Shape), nil
}

// MustCompileShape is CompileShape that panics on error, for tests and
// statically known types.
func MustCompileShape(t reflect.Type, tagKey string) *Shape {
	s, err := CompileShape(t, tagKey)
	if err != nil {
		panic(err)
	}
	return s
}

func compileShape(t reflect.Type, tagKey string, seen map[reflect.Type]*Shape) (*Shape, error) {
	if s, ok := seen[t]; ok {
		return s, nil
	}

	s := &Shape{Type: t}

	switch {
	case t == decimalType:
		s.kind = kindDecimal
		return s, nil
	case t == uuidType:
		s.kind = kindUUID
		return s, nil
	case t == timeType:
		s.kind = kindTime
		return s, nil
	case t == anyType:
		s.kind = kindAny
		return s, nil
	}

	switch t.Kind() {
	case reflect.String:
		s.kind = kindString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		s.kind = kindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		s.kind = kindUint
	case reflect.Float32, reflect.Float64:
		s.kind = kindFloat
	case reflect.Bool:
		s.kind = kindBool
	case reflect.Pointer:
		s.kind = kindPointer
		seen[t] = s
		elem, err := compileShape(t.Elem(), tagKey, seen)
		if err != nil {
			return nil, err
		}
		s.elem = elem
	case reflect.Slice:
		if t.Elem() == byteType {
			s.kind = kindBytes
			break
		}
		s.kind = kindSlice
		seen[t] = s
		elem, err := compileShape(t.Elem(), tagKey, seen)
		if err != nil {
			return nil, err
		}
		s.elem = elem
	case reflect.Map:
		if t.Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map key of %s must be a string", ErrUnsupportedType, t)
		}
		s.kind = kindMap
		seen[t] = s
		elem, err := compileShape(t.Elem(), tagKey, seen)
		if err != nil {
			return nil, err
		}
		s.elem = elem
	case reflect.Struct:
		if reflect.PointerTo(t).Implements(textType) {
			s.kind = kindText
			break
		}
		s.kind = kindStruct
		seen[t] = s
		if err := compileStructFields(s, t, tagKey, seen); err != nil {
			return nil, err
		}
	default:
		if reflect.PointerTo(t).Implements(textType) {
			s.kind = kindText
			break
		}
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
	}

	return s, nil
}

func compileStructFields(s *Shape, t reflect.Type, tagKey string, seen map[reflect.Type]*Shape) error {
	for i := range t.NumField() {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}

		tag := f.Tag.Get(tagKey)
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")

		if f.Anonymous && name == "" && f.Type.Kind() == reflect.Struct {
			inner, err := compileShape(f.Type, tagKey, seen)
			if err != nil {
				return err
			}
			s.fields = append(s.fields, shapeField{index: i, inline: true, shape: inner})
			continue
		}

		if name == "" {
			name = strings.ToLower(f.Name)
		}

		fs, err := compileShape(f.Type, tagKey, seen)
		if err != nil {
			return fmt.Errorf("field %s: %w", f.Name, err)
		}

		var rules Rules
		if vt, ok := f.Tag.Lookup("validate"); ok {
			rules, err = Parse(vt)
			if err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
			if err := CheckRules(rules, f.Type); err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
		}

		field := shapeField{
			index: i,
			key:   name,
			shape: fs,
			rules: rules,
		}

		if lit, ok := f.Tag.Lookup("default"); ok {
			v, err := fs.ParseDefault(lit)
			if err != nil {
				return fmt.Errorf("field %s: %w", f.Name, err)
			}
			field.hasDefault = true
			field.defaultVal = v
		} else if f.Type.Kind() != reflect.Pointer {
			field.required = true
		}

		s.fields = append(s.fields, field)
	}
	return nil
}

// ParseDefault converts a default literal declared at registration into the
// shape's type. Errors here are configuration errors, not request failures.
func (s *Shape) ParseDefault(lit string) (reflect.Value, error) {
	v, fails := s.FromString(lit)
	if len(fails) > 0 {
		return reflect.Value{}, fmt.Errorf("default %q: %s", lit, fails[0].Message)
	}
	return v, nil
}

// CanFromString reports whether the shape converts from textual input.
// Struct and map shapes need a document or a keyed lookup instead.
func (s *Shape) CanFromString() bool {
	switch s.kind {
	case kindStruct, kindMap:
		return false
	case kindPointer, kindSlice:
		return s.elem.CanFromString()
	default:
		return true
	}
}

// IsStruct reports whether the shape targets a struct, directly or behind a
// pointer.
func (s *Shape) IsStruct() bool {
	if s.kind == kindPointer {
		return s.elem.kind == kindStruct
	}
	return s.kind == kindStruct
}
