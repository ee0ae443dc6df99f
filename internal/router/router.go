// Package router sets up all HTTP routes and middleware chains for the
// portfolio server. It organizes routes into public, live and operator
// groups with appropriate middleware stacks.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"portfolio/internal/handlers"
	"portfolio/internal/metrics"
	"portfolio/internal/middleware"
)

// Deps holds everything the routes are wired to. Optional parts left nil
// are not mounted.
type Deps struct {
	Public *handlers.Public
	Post   *handlers.PostPage
	Live   http.Handler
	Static fs.FS

	// Operator routes are mounted only when both are set.
	Operator          *handlers.Operator
	OperatorTokenHash []byte
	// OperatorLimiter rate-limits the operator routes per client IP.
	OperatorLimiter *middleware.RateLimiter

	Metrics *metrics.Metrics
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	r.Get("/health", healthHandler)

	if d.Static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(d.Static)))
	}

	if d.Live != nil {
		r.Method(http.MethodGet, "/live", d.Live)
	}

	// Operator API: bearer token, rate limited before the bcrypt check.
	if d.Operator != nil && len(d.OperatorTokenHash) > 0 {
		r.Route("/operator", func(r chi.Router) {
			if d.OperatorLimiter != nil {
				r.Use(d.OperatorLimiter.Middleware)
			}
			r.Use(middleware.RequireOperator(d.OperatorTokenHash))

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", d.Operator.List)
				r.Post("/", d.Operator.Create)
				r.Delete("/", d.Operator.Remove)
				r.Delete("/{key}", d.Operator.Remove)
			})
		})
	}

	// Public site: a single document, every other path is a 404 page.
	r.Get("/", d.Public.Homepage)
	if d.Post != nil {
		r.Get("/posts/{key}", d.Post.Show)
	}
	r.NotFound(d.Public.NotFound)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
