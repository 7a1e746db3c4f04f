package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrymomot/bindkit"
)

// Middleware wraps an http.Handler and records request counts and
// latency under the given endpoint label. It composes with any router's
// middleware convention.
func (m *Metrics) Middleware(endpoint string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(rec, r)
			m.requests.WithLabelValues(endpoint, strconv.Itoa(rec.status)).Inc()
			m.duration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		})
	}
}

type noParams struct{}

// Link returns a chain middleware that records how each chain run ends
// and, on validation failures, which constraint kinds fired. Place it
// outermost so it sees the whole chain.
func (m *Metrics) Link(endpoint string) bindkit.Link {
	return bindkit.NewMiddleware(func(ctx bindkit.Context, _ noParams, next bindkit.Next) (any, error) {
		resp, err := next()
		m.observeOutcome(endpoint, err)
		return resp, err
	})
}

func (m *Metrics) observeOutcome(endpoint string, err error) {
	state := "completed"
	if err != nil {
		state = "failed"
	}
	m.outcomes.WithLabelValues(endpoint, state).Inc()

	if verr, ok := bindkit.AsValidationError(err); ok {
		for _, f := range verr.Failures {
			m.validation.WithLabelValues(endpoint, f.Kind).Inc()
		}
	}
}

// statusRecorder captures the status code written by the wrapped
// handler. An untouched recorder reports 200, matching net/http's
// implicit WriteHeader.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
