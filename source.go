package bindkit

// Source names the request component a parameter is extracted from.
type Source uint8

const (
	SourceInvalid Source = iota
	SourcePath
	SourceHeader
	SourceCookie
	SourceQuery
	SourceBody
	SourceRequest // the whole *http.Request, injected as-is
)

func (s Source) String() string {
	switch s {
	case SourcePath:
		return "path"
	case SourceHeader:
		return "header"
	case SourceCookie:
		return "cookie"
	case SourceQuery:
		return "query"
	case SourceBody:
		return "body"
	case SourceRequest:
		return "request"
	default:
		return "invalid"
	}
}

// BodyKind distinguishes the supported body encodings.
type BodyKind uint8

const (
	BodyNone BodyKind = iota
	BodyJSON
	BodyForm
	BodyMultipart
)

func (k BodyKind) String() string {
	switch k {
	case BodyJSON:
		return "json"
	case BodyForm:
		return "form"
	case BodyMultipart:
		return "multipart"
	default:
		return "none"
	}
}

// Mode is the extraction granularity of a parameter: one named value, the
// whole component decoded into a struct, or the raw component untouched.
type Mode uint8

const (
	ModeField Mode = iota
	ModeSchema
	ModeRaw
)

func (m Mode) String() string {
	switch m {
	case ModeSchema:
		return "schema"
	case ModeRaw:
		return "raw"
	default:
		return "field"
	}
}
