package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/bindkit"
	"github.com/dmitrymomot/bindkit/binder"
	"github.com/dmitrymomot/bindkit/pkg/metrics"
)

func TestMiddleware(t *testing.T) {
	t.Parallel()

	t.Run("records status and latency", func(t *testing.T) {
		t.Parallel()
		m := metrics.New()
		h := m.Middleware("ping")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusTeapot, rec.Code)

		expected := strings.NewReader(`
# HELP bindkit_requests_total Requests served, by endpoint and HTTP status code.
# TYPE bindkit_requests_total counter
bindkit_requests_total{code="418",endpoint="ping"} 1
`)
		require.NoError(t, testutil.GatherAndCompare(m.Registry(), expected, "bindkit_requests_total"))

		n, err := testutil.GatherAndCount(m.Registry(), "bindkit_request_duration_seconds")
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("implicit 200", func(t *testing.T) {
		t.Parallel()
		m := metrics.New()
		h := m.Middleware("ok")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("hi"))
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		expected := strings.NewReader(`
# HELP bindkit_requests_total Requests served, by endpoint and HTTP status code.
# TYPE bindkit_requests_total counter
bindkit_requests_total{code="200",endpoint="ok"} 1
`)
		require.NoError(t, testutil.GatherAndCompare(m.Registry(), expected, "bindkit_requests_total"))
	})
}

type limitParams struct {
	Limit int `query:"limit" validate:"gt=0"`
}

func TestLink(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	ep := bindkit.MustEndpoint(
		bindkit.NewHandler(func(ctx bindkit.Context, p limitParams) (map[string]int, error) {
			return map[string]int{"limit": p.Limit}, nil
		}),
		bindkit.WithMiddleware(m.Link("list")),
	)

	rec := httptest.NewRecorder()
	ep.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	ep.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?limit=0", nil))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	expected := strings.NewReader(`
# HELP bindkit_chain_outcomes_total Chain executions, by endpoint and final state.
# TYPE bindkit_chain_outcomes_total counter
bindkit_chain_outcomes_total{endpoint="list",state="completed"} 1
bindkit_chain_outcomes_total{endpoint="list",state="failed"} 1
# HELP bindkit_validation_failures_total Validation failures, by endpoint and failure kind.
# TYPE bindkit_validation_failures_total counter
bindkit_validation_failures_total{endpoint="list",kind="greater_than"} 1
`)
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), expected,
		"bindkit_chain_outcomes_total", "bindkit_validation_failures_total"))
}

func TestObserveCache(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.ObserveCache(binder.Stats{
		PathParses:   1,
		HeaderParses: 2,
		QueryParses:  1,
		BodyReads:    1,
		BodyDecodes:  1,
		Hits:         3,
	})

	expected := strings.NewReader(`
# HELP bindkit_cache_parses_total Extraction cache parses, by request component.
# TYPE bindkit_cache_parses_total counter
bindkit_cache_parses_total{source="body_decode"} 1
bindkit_cache_parses_total{source="body_read"} 1
bindkit_cache_parses_total{source="cookie"} 0
bindkit_cache_parses_total{source="header"} 2
bindkit_cache_parses_total{source="path"} 1
bindkit_cache_parses_total{source="query"} 1
# HELP bindkit_cache_hits_total Extraction cache loads served from a memoized entry.
# TYPE bindkit_cache_hits_total counter
bindkit_cache_hits_total 3
`)
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), expected,
		"bindkit_cache_parses_total", "bindkit_cache_hits_total"))
}

func TestHandler(t *testing.T) {
	t.Parallel()

	m := metrics.New()
	m.ObserveCache(binder.Stats{Hits: 1})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "bindkit_cache_hits_total 1")
}

func TestNamespaceOption(t *testing.T) {
	t.Parallel()

	m := metrics.New(metrics.WithNamespace("svc"))
	m.ObserveCache(binder.Stats{Hits: 1})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "svc_cache_hits_total 1")
}
