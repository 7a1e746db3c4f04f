package bindkit

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrymomot/bindkit/binder"
	"github.com/dmitrymomot/bindkit/validate"
)

// Response renders itself to an http.ResponseWriter.
// Implementations should set headers, status code, and write body.
// A Response returned by any link passes up the chain untouched.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Encoder turns a link's plain return value into a Response, together with
// the metadata the link staged on its Context. The endpoint uses one encoder
// for every plain value in the chain; JSON is the default.
type Encoder interface {
	Encode(v any, meta *ResponseMeta) Response
}

// JSONEncoder is the default Encoder. Plain values become
// `application/json` bodies with the staged status (200 when none).
type JSONEncoder struct{}

func (JSONEncoder) Encode(v any, meta *ResponseMeta) Response {
	return &jsonValue{val: v, meta: meta}
}

type jsonValue struct {
	val  any
	meta *ResponseMeta
}

func (j *jsonValue) Render(w http.ResponseWriter, r *http.Request) error {
	if j.meta != nil {
		j.meta.apply(w)
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
	status := http.StatusOK
	if j.meta != nil && j.meta.Status() != 0 {
		status = j.meta.Status()
	}
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(j.val)
}

// JSON creates a Response with the given status and a JSON-encoded body.
func JSON(status int, v any) Response {
	return &jsonResponse{status: status, body: v}
}

type jsonResponse struct {
	status int
	body   any
}

func (j *jsonResponse) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(j.status)
	return json.NewEncoder(w).Encode(j.body)
}

// NoContent creates an empty 204 Response.
func NoContent() Response {
	return noContent{}
}

type noContent struct{}

func (noContent) Render(w http.ResponseWriter, r *http.Request) error {
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// Redirect creates a redirect Response with the given status and location.
func Redirect(status int, location string) Response {
	return &redirectResponse{status: status, location: location}
}

type redirectResponse struct {
	status   int
	location string
}

func (rr *redirectResponse) Render(w http.ResponseWriter, r *http.Request) error {
	http.Redirect(w, r, rr.location, rr.status)
	return nil
}

// validationBody is the wire form of a rejected request:
// {"errors":[{"loc":[...],"type":"...","msg":"...","ctx":{...}}, ...]}.
type validationBody struct {
	Errors validate.Failures `json:"errors"`
}

// errorBody is the wire form of every non-validation error.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorResponse maps an error from the chain to a Response. Validation
// failures carry their full structured payload; everything else collapses
// to a status and a stable key so internals never leak to clients.
func errorResponse(err error) Response {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return &jsonResponse{
			status: http.StatusUnprocessableEntity,
			body:   validationBody{Errors: verr.Failures},
		}
	}

	httpErr := classifyError(err)
	return &jsonResponse{
		status: httpErr.Code,
		body: errorBody{Error: errorDetail{
			Code:    httpErr.Key,
			Message: http.StatusText(httpErr.Code),
		}},
	}
}

// ErrorStatus reports the HTTP status an error from the chain renders
// with. Middleware can use it to pick log levels without re-implementing
// the error taxonomy.
func ErrorStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	return classifyError(err).Code
}

// classifyError resolves the transport status for a chain error. Binder
// sentinels map to their I/O statuses, explicit HTTPErrors keep their own,
// anything unrecognized is a server defect.
func classifyError(err error) HTTPError {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return ErrUnprocessableEntity
	}

	switch {
	case errors.Is(err, binder.ErrBodyTooLarge):
		return ErrPayloadTooLarge
	case errors.Is(err, binder.ErrMalformedBody):
		return NewHTTPError(http.StatusBadRequest, "malformed_body")
	case errors.Is(err, binder.ErrUnsupportedMediaType),
		errors.Is(err, binder.ErrMissingContentType):
		return ErrUnsupportedMedia
	case errors.Is(err, binder.ErrReadBody):
		return ErrBadRequest
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return ErrInternalServerError
}
