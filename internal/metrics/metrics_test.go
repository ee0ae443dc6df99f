package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	// A fresh registry per test avoids duplicate registration.
	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)
	return m
}

func TestMiddlewareCountsByRoutePattern(t *testing.T) {
	m := newTestMetrics(t)

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/posts/{key}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Delete("/posts/{key}", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad", http.StatusBadRequest)
	})
	r.Handle("/metrics", m.Handler())

	for _, path := range []string{"/posts/a", "/posts/b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/posts/a", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/posts/{key}", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues("DELETE", "/posts/{key}", "400")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues("GET", unmatchedRoute, "404")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.requestCount.WithLabelValues("GET", "/metrics", "200")))
}

func TestTransitionsAndSessions(t *testing.T) {
	m := newTestMetrics(t)

	m.Transition("home", "blog")
	m.Transition("contact", "blog")
	m.Transition("blog", "home")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.transitions.WithLabelValues("blog")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.transitions.WithLabelValues("home")))

	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.liveSessions))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := newTestMetrics(t)
	m.Transition("home", "contact")

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, strings.Contains(body, `portfolio_section_transitions_total{to="contact"} 1`))
	assert.Contains(t, body, "portfolio_live_sessions 0")
}

func TestNewRejectsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}
