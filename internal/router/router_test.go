// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/crypto/bcrypt"

	"portfolio/internal/blog"
	"portfolio/internal/handlers"
	"portfolio/internal/live"
	"portfolio/internal/metrics"
	"portfolio/internal/middleware"
	"portfolio/internal/render"
	"portfolio/internal/section"
	"portfolio/web"
)

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status: got %d, want 200", resp.StatusCode)
	}

	ct := resp.Header.Get("Content-Type")
	if ct != "application/json" {
		t.Errorf("content-type: got %q, want %q", ct, "application/json")
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body["status"], "ok")
	}
}

func TestHealthHandlerMethods(t *testing.T) {
	// Health endpoint only accepts GET.
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("GET /health: got %d, want 200", w.Code)
	}
}

// testDeps wires real handlers around the default seed.
func testDeps(t *testing.T, tokenHash []byte) Deps {
	t.Helper()

	rn, err := render.New(false)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}
	display := blog.NewDisplay()
	posts := blog.NewRenderer(blog.DefaultSeed(), display)
	if err := posts.Render(); err != nil {
		t.Fatalf("Render: %v", err)
	}
	m, err := metrics.New(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("metrics.New: %v", err)
	}
	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		t.Fatalf("fs.Sub: %v", err)
	}
	limiter := middleware.NewRateLimiter(3, time.Minute)
	t.Cleanup(limiter.Stop)

	public := handlers.NewPublic(rn, section.Default(), "Jane Doe", display, nil)
	return Deps{
		Public:            public,
		Post:              handlers.NewPostPage(rn, section.Default(), "Jane Doe", posts, public.NotFound),
		Live:              live.NewHub(live.Options{Sections: section.Default(), Blog: display}),
		Static:            static,
		Operator:          handlers.NewOperator(posts),
		OperatorTokenHash: tokenHash,
		OperatorLimiter:   limiter,
		Metrics:           m,
	}
}

func serve(h http.Handler, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.RemoteAddr = "203.0.113.9:5000"
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestPublicRoutes(t *testing.T) {
	r := New(testDeps(t, nil))

	home := serve(r, http.MethodGet, "/", nil)
	if home.Code != http.StatusOK {
		t.Fatalf("GET /: got %d, want 200", home.Code)
	}
	if !strings.Contains(home.Body.String(), "The Future of Open Source Finance") {
		t.Error("GET /: missing seeded post")
	}
	if home.Header().Get("X-Request-ID") == "" {
		t.Error("GET /: missing X-Request-ID")
	}
	if home.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("GET /: missing security headers")
	}

	if rr := serve(r, http.MethodGet, "/does-not-exist", nil); rr.Code != http.StatusNotFound {
		t.Errorf("GET /does-not-exist: got %d, want 404", rr.Code)
	}

	if rr := serve(r, http.MethodGet, "/posts/right-to-repair-digital-age", nil); rr.Code != http.StatusOK {
		t.Errorf("GET /posts/{key}: got %d, want 200", rr.Code)
	}
	if rr := serve(r, http.MethodGet, "/posts/unknown", nil); rr.Code != http.StatusNotFound {
		t.Errorf("GET /posts/unknown: got %d, want 404", rr.Code)
	}

	js := serve(r, http.MethodGet, "/static/js/live.js", nil)
	if js.Code != http.StatusOK {
		t.Errorf("GET /static/js/live.js: got %d, want 200", js.Code)
	}
	if !strings.Contains(js.Body.String(), "history.replaceState") {
		t.Error("live.js should keep location.hash on the active section")
	}
	if css := serve(r, http.MethodGet, "/static/css/site.css", nil); css.Code != http.StatusOK {
		t.Errorf("GET /static/css/site.css: got %d, want 200", css.Code)
	}

	// A plain GET is not a WebSocket handshake, but the route exists.
	if rr := serve(r, http.MethodGet, "/live", nil); rr.Code == http.StatusNotFound {
		t.Error("GET /live: route not mounted")
	}
}

func TestMetricsRoute(t *testing.T) {
	r := New(testDeps(t, nil))

	serve(r, http.MethodGet, "/", nil)
	rr := serve(r, http.MethodGet, "/metrics", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /metrics: got %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `http_requests_total{method="GET",route="/",status="200"} 1`) {
		t.Errorf("GET /metrics: request counter missing from\n%s", rr.Body.String())
	}
}

func TestOperatorRoutesNotMountedWithoutHash(t *testing.T) {
	r := New(testDeps(t, nil))

	rr := serve(r, http.MethodGet, "/operator/posts", map[string]string{"Authorization": "Bearer x"})
	if rr.Code != http.StatusNotFound {
		t.Errorf("GET /operator/posts: got %d, want 404", rr.Code)
	}
}

func TestOperatorRoutes(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("token"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	r := New(testDeps(t, hash))
	auth := map[string]string{"Authorization": "Bearer token"}

	if rr := serve(r, http.MethodGet, "/operator/posts", nil); rr.Code != http.StatusUnauthorized {
		t.Errorf("no token: got %d, want 401", rr.Code)
	}
	if rr := serve(r, http.MethodGet, "/operator/posts", auth); rr.Code != http.StatusOK {
		t.Errorf("list: got %d, want 200", rr.Code)
	}
	if rr := serve(r, http.MethodDelete, "/operator/posts/right-to-repair-digital-age", auth); rr.Code != http.StatusOK {
		t.Errorf("delete by path: got %d, want 200", rr.Code)
	}

	// The limiter allows 3 requests per minute per client.
	if rr := serve(r, http.MethodGet, "/operator/posts", auth); rr.Code != http.StatusTooManyRequests {
		t.Errorf("fourth request: got %d, want 429", rr.Code)
	}
}
