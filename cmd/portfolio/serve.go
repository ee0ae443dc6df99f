package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"portfolio/internal/blog"
	"portfolio/internal/cache"
	"portfolio/internal/config"
	"portfolio/internal/handlers"
	"portfolio/internal/live"
	"portfolio/internal/metrics"
	"portfolio/internal/middleware"
	"portfolio/internal/render"
	"portfolio/internal/router"
	"portfolio/web"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "serve",
		Aliases: []string{"s"},
		Short:   "Serve the portfolio site",
		Long: `Serve the portfolio site, the live navigation endpoint and, when
OPERATOR_TOKEN_HASH is set, the operator post API.

Configuration comes from the environment, an optional .env file and an
optional YAML site file (SITE_FILE).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

// serve wires every component and runs the server until ctx is done.
func serve(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	sections, err := cfg.SectionSet()
	if err != nil {
		return err
	}

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"sections", cfg.Sections,
		"posts", len(cfg.Seed),
	)

	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		return fmt.Errorf("initialize template renderer: %w", err)
	}

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	display := blog.NewDisplay()
	hub := live.NewHub(live.Options{
		Sections: sections,
		Owner:    cfg.Owner,
		Blog:     display,
		Observer: m,
	})
	containers := blog.Containers{display, hub}

	// Valkey page cache, optional.
	var pages cache.Pages
	var valkeyClient *redis.Client
	if cfg.CacheEnabled() {
		valkeyClient, err = cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			return fmt.Errorf("connect to valkey: %w", err)
		}
		defer valkeyClient.Close()

		pageCache := cache.NewPageCache(valkeyClient, cache.DefaultPageTTL)
		defer pageCache.Wait()
		containers = append(containers, pageCache)
		pages = pageCache
	} else {
		slog.Warn("valkey not configured, page cache disabled")
	}

	posts := blog.NewRenderer(cfg.Seed, containers)
	if err := posts.Render(); err != nil {
		return fmt.Errorf("render blog: %w", err)
	}

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("static assets: %w", err)
	}

	public := handlers.NewPublic(renderer, sections, cfg.Owner, display, pages)
	deps := router.Deps{
		Public:  public,
		Post:    handlers.NewPostPage(renderer, sections, cfg.Owner, posts, public.NotFound),
		Live:    hub,
		Static:  static,
		Metrics: m,
	}
	if cfg.OperatorEnabled() {
		limiter := middleware.NewRateLimiter(cfg.OperatorRateLimit, time.Minute)
		defer limiter.Stop()

		deps.Operator = handlers.NewOperator(posts)
		deps.OperatorTokenHash = []byte(cfg.OperatorTokenHash)
		deps.OperatorLimiter = limiter
		slog.Info("operator API enabled", "rate_limit_per_minute", cfg.OperatorRateLimit)
	} else {
		slog.Warn("OPERATOR_TOKEN_HASH not set, operator API disabled")
	}

	// No server-wide read or write timeout: /live connections stay open
	// for the life of the page and the hub bounds each write itself.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(deps),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	slog.Info("shutdown signal received")

	// Shutdown does not wait for hijacked connections, so close the live
	// sessions first.
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}
