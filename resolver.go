package bindkit

import (
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/dmitrymomot/bindkit/binder"
	"github.com/dmitrymomot/bindkit/validate"
)

var (
	requestType   = reflect.TypeFor[*http.Request]()
	anyValueType  = reflect.TypeFor[any]()
	headerType    = reflect.TypeFor[http.Header]()
	valuesType    = reflect.TypeFor[url.Values]()
	stringMapType = reflect.TypeFor[map[string]string]()
	partsType     = reflect.TypeFor[[]binder.Part]()
	fileType      = reflect.TypeFor[binder.FileUpload]()
	filePtrType   = reflect.TypeFor[*binder.FileUpload]()
	filesType     = reflect.TypeFor[[]binder.FileUpload]()
	bytesType     = reflect.TypeFor[[]byte]()
)

// sourceTag maps a struct tag key onto the component it extracts from.
type sourceTag struct {
	key      string
	source   Source
	bodyKind BodyKind
}

var sourceTags = []sourceTag{
	{"path", SourcePath, BodyNone},
	{"header", SourceHeader, BodyNone},
	{"cookie", SourceCookie, BodyNone},
	{"query", SourceQuery, BodyNone},
	{"body", SourceBody, BodyJSON},
	{"form", SourceBody, BodyForm},
	{"file", SourceBody, BodyMultipart},
}

// buildTable compiles the parameter spec table for one params struct. All
// reflection and tag parsing happens here, once, at registration; request
// handling only walks the compiled specs. Every rule violation is reported
// as a configuration error naming the offending field.
func buildTable(t reflect.Type, factories map[string]func() any) (*Table, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %s", ErrNotStruct, t)
	}

	table := &Table{params: t}
	consumed := make(map[string]bool, len(factories))

	for i := range t.NumField() {
		f := t.Field(i)
		if f.PkgPath != "" {
			continue // unexported
		}

		spec, ok, err := compileField(i, f)
		if err != nil {
			return nil, &ConfigError{Field: f.Name, Err: err}
		}
		if !ok {
			continue
		}

		if fn, has := factories[f.Name]; has {
			consumed[f.Name] = true
			if spec.Source == SourcePath {
				return nil, &ConfigError{Field: f.Name, Err: ErrDefaultOnPathParam}
			}
			if spec.Mode != ModeField {
				return nil, &ConfigError{Field: f.Name, Err: fmt.Errorf("%w: default factory requires field mode", ErrBadTarget)}
			}
			if spec.HasDefault {
				return nil, &ConfigError{Field: f.Name, Err: fmt.Errorf("%w: both default literal and factory declared", ErrBadTarget)}
			}
			spec.DefaultFunc = fn
			spec.Required = false
		}

		table.specs = append(table.specs, spec)
	}

	for name := range factories {
		if !consumed[name] {
			return nil, &ConfigError{Field: name, Err: ErrUnknownField}
		}
	}

	if err := checkConflicts(table.specs); err != nil {
		return nil, err
	}
	return table, nil
}

func compileField(index int, f reflect.StructField) (Spec, bool, error) {
	var matched []sourceTag
	var tagValue string
	for _, st := range sourceTags {
		if v, ok := f.Tag.Lookup(st.key); ok {
			matched = append(matched, st)
			tagValue = v
		}
	}

	switch len(matched) {
	case 0:
		if f.Type == requestType {
			return Spec{
				FieldIndex: index,
				FieldName:  f.Name,
				Source:     SourceRequest,
				Mode:       ModeRaw,
				Type:       f.Type,
			}, true, nil
		}
		return Spec{}, false, nil // plain struct data, not a parameter
	case 1:
	default:
		keys := make([]string, 0, len(matched))
		for _, m := range matched {
			keys = append(keys, m.key)
		}
		return Spec{}, false, fmt.Errorf("%w: %s", ErrConflictingTags, strings.Join(keys, ", "))
	}

	st := matched[0]
	spec := Spec{
		FieldIndex: index,
		FieldName:  f.Name,
		Source:     st.source,
		BodyKind:   st.bodyKind,
		Type:       f.Type,
	}

	name, opts, err := parseTagValue(tagValue)
	if err != nil {
		return Spec{}, false, err
	}
	spec.Mode = opts.mode
	spec.Signed = opts.signed

	if spec.Signed && (st.source != SourceCookie || spec.Mode != ModeField) {
		return Spec{}, false, fmt.Errorf("%w: signed applies to cookie fields only", ErrBadTarget)
	}

	switch spec.Mode {
	case ModeField:
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		spec.Name = name
		if err := compileFieldMode(&spec, f, st); err != nil {
			return Spec{}, false, err
		}
	case ModeSchema:
		if name != "" {
			return Spec{}, false, fmt.Errorf("%w: schema mode takes no name", ErrBadTarget)
		}
		if err := compileSchemaMode(&spec, f, st); err != nil {
			return Spec{}, false, err
		}
	case ModeRaw:
		if name != "" {
			return Spec{}, false, fmt.Errorf("%w: raw mode takes no name", ErrBadTarget)
		}
		if _, ok := f.Tag.Lookup("validate"); ok {
			return Spec{}, false, ErrRulesOnAggregate
		}
		if _, ok := f.Tag.Lookup("default"); ok {
			return Spec{}, false, fmt.Errorf("%w: raw mode takes no default", ErrBadTarget)
		}
		if err := checkRawTarget(&spec, st); err != nil {
			return Spec{}, false, err
		}
	}

	return spec, true, nil
}

type tagOpts struct {
	mode   Mode
	signed bool
}

func parseTagValue(tag string) (string, tagOpts, error) {
	parts := strings.Split(tag, ",")
	name := parts[0]
	var opts tagOpts
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "schema":
			if opts.mode != ModeField {
				return "", tagOpts{}, fmt.Errorf("%w: schema and raw are exclusive", ErrBadTarget)
			}
			opts.mode = ModeSchema
		case "signed":
			opts.signed = true
		case "raw":
			if opts.mode != ModeField {
				return "", tagOpts{}, fmt.Errorf("%w: schema and raw are exclusive", ErrBadTarget)
			}
			opts.mode = ModeRaw
		case "":
		default:
			return "", tagOpts{}, fmt.Errorf("%w: unknown tag option %q", ErrBadTarget, opt)
		}
	}
	return name, opts, nil
}

// compileFieldMode finishes a single-value spec: shape, rules, defaults and
// the required flag.
func compileFieldMode(spec *Spec, f reflect.StructField, st sourceTag) error {
	if st.bodyKind == BodyMultipart {
		return compileFileField(spec, f)
	}

	shapeTag := st.key
	if spec.Source == SourceBody {
		shapeTag = "json"
	}
	shape, err := validate.CompileShape(f.Type, shapeTag)
	if err != nil {
		return err
	}
	if spec.Source != SourceBody && !shape.CanFromString() {
		return fmt.Errorf("%w: %s cannot convert from a %s value, use schema mode", ErrBadTarget, f.Type, st.key)
	}
	spec.Shape = shape

	if vt, ok := f.Tag.Lookup("validate"); ok {
		rules, err := validate.Parse(vt)
		if err != nil {
			return err
		}
		if err := validate.CheckRules(rules, f.Type); err != nil {
			return err
		}
		spec.Rules = rules
	}

	if lit, ok := f.Tag.Lookup("default"); ok {
		if spec.Source == SourcePath {
			return ErrDefaultOnPathParam
		}
		def, err := shape.ParseDefault(lit)
		if err != nil {
			return err
		}
		spec.HasDefault = true
		spec.Default = def
	}

	switch {
	case spec.Source == SourcePath:
		spec.Required = true
	case spec.HasDefault:
		spec.Required = false
	default:
		spec.Required = f.Type.Kind() != reflect.Pointer
	}
	return nil
}

// compileFileField handles `file:` tags, which bind multipart file parts
// into FileUpload values. Length rules bound the content byte size.
func compileFileField(spec *Spec, f reflect.StructField) error {
	switch f.Type {
	case fileType, filePtrType, filesType:
	default:
		return fmt.Errorf("%w: file fields must be binder.FileUpload, *binder.FileUpload or []binder.FileUpload, got %s", ErrBadTarget, f.Type)
	}

	if vt, ok := f.Tag.Lookup("validate"); ok {
		rules, err := validate.Parse(vt)
		if err != nil {
			return err
		}
		if err := validate.CheckRules(rules, bytesType); err != nil {
			return err
		}
		spec.Rules = rules
	}
	if _, ok := f.Tag.Lookup("default"); ok {
		return fmt.Errorf("%w: file fields take no default", ErrBadTarget)
	}

	spec.Required = f.Type == fileType || f.Type == filesType
	return nil
}

func compileSchemaMode(spec *Spec, f reflect.StructField, st sourceTag) error {
	if st.bodyKind == BodyMultipart {
		return fmt.Errorf("%w: file supports field and raw modes only", ErrBadTarget)
	}
	if _, ok := f.Tag.Lookup("validate"); ok {
		return ErrRulesOnAggregate
	}
	if _, ok := f.Tag.Lookup("default"); ok {
		return fmt.Errorf("%w: schema mode takes no default", ErrBadTarget)
	}

	shapeTag := st.key
	if spec.Source == SourceBody {
		shapeTag = "json"
	}
	shape, err := validate.CompileShape(f.Type, shapeTag)
	if err != nil {
		return err
	}
	if !shape.IsStruct() {
		return fmt.Errorf("%w: schema mode requires a struct target, got %s", ErrBadTarget, f.Type)
	}
	spec.Shape = shape
	spec.Required = f.Type.Kind() != reflect.Pointer
	return nil
}

func checkRawTarget(spec *Spec, st sourceTag) error {
	var want reflect.Type
	switch {
	case spec.Source == SourcePath, spec.Source == SourceCookie:
		want = stringMapType
	case spec.Source == SourceHeader:
		want = headerType
	case spec.Source == SourceQuery:
		want = valuesType
	case st.bodyKind == BodyJSON:
		want = anyValueType
	case st.bodyKind == BodyForm:
		want = valuesType
	default:
		want = partsType
	}
	if !want.AssignableTo(spec.Type) {
		return fmt.Errorf("%w: %s raw mode requires %s, got %s", ErrBadTarget, st.key, want, spec.Type)
	}
	return nil
}

// checkConflicts enforces the per-source extraction invariants: at most one
// aggregate (schema or raw) per source, never mixed with field extraction
// from the same source, and one body encoding per table.
func checkConflicts(specs []Spec) error {
	type usage struct {
		fields     int
		aggregates int
		aggField   string
	}
	perSource := map[Source]*usage{}
	var jsonField, otherBodyField string

	for _, s := range specs {
		if s.Source == SourceRequest {
			continue
		}
		u := perSource[s.Source]
		if u == nil {
			u = &usage{}
			perSource[s.Source] = u
		}
		if s.Mode == ModeField {
			u.fields++
		} else {
			u.aggregates++
			u.aggField = s.FieldName
		}

		if s.Source == SourceBody {
			if s.BodyKind == BodyJSON {
				jsonField = s.FieldName
			} else {
				otherBodyField = s.FieldName
			}
		}
	}

	for source, u := range perSource {
		if u.aggregates > 1 || (u.aggregates == 1 && u.fields > 0) {
			return &ConfigError{
				Field: u.aggField,
				Err:   fmt.Errorf("%w (%s)", ErrConflictingExtraction, source),
			}
		}
	}
	if jsonField != "" && otherBodyField != "" {
		return &ConfigError{Field: jsonField, Err: ErrMixedBodyKinds}
	}
	return nil
}
