package middleware

import (
	"net/http"

	"github.com/dmitrymomot/bindkit"
	"github.com/dmitrymomot/bindkit/pkg/requestid"
)

type requestIDParams struct {
	ID string `header:"X-Request-ID" default:""`
}

// RequestID gives every request a correlation ID. A valid inbound
// X-Request-ID value is reused so traces can span services; anything
// else is replaced with a generated one. The ID is stored in the
// request context, where requestid.FromContext and the logger's context
// extractor pick it up, and echoed as a response header when the chain
// completes. Failed requests carry the ID in log context only.
func RequestID() bindkit.Link {
	return bindkit.NewMiddleware(func(ctx bindkit.Context, p requestIDParams, next bindkit.Next) (any, error) {
		id := p.ID
		if !requestid.Valid(id) {
			id = requestid.New()
		}
		ctx.SetValue(requestid.ContextKey{}, id)

		resp, err := next()
		if err != nil || resp == nil {
			return resp, err
		}
		return &headerEcho{next: resp, key: requestid.Header, value: id}, nil
	})
}

// headerEcho decorates a response with one fixed header.
type headerEcho struct {
	next  bindkit.Response
	key   string
	value string
}

func (h *headerEcho) Render(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set(h.key, h.value)
	return h.next.Render(w, r)
}
