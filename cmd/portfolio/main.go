// Package main is the entry point for the portfolio server and its
// operator CLI. "portfolio serve" runs the site; "posts" and "token"
// manage a running server.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"portfolio/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Running the binary without a
// subcommand serves the site.
func newRootCmd() *cobra.Command {
	var logLevel string

	root := &cobra.Command{
		Use:          "portfolio",
		Short:        "Single-page portfolio site with live navigation",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogger(logLevel)
		},
	}
	root.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "", "log level (debug, info, warn, error); default depends on APP_ENV")

	serve := newServeCmd()
	root.RunE = serve.RunE
	root.AddCommand(serve, newPostsCmd(), newTokenCmd())
	return root
}

// setupLogger installs the default slog logger: JSON in production, text
// otherwise. .env is loaded first so APP_ENV may come from it.
func setupLogger(level string) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	var lvl slog.Level
	switch {
	case level != "":
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return fmt.Errorf("invalid --log-level %q", level)
		}
	case isProduction():
		lvl = slog.LevelInfo
	default:
		lvl = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if isProduction() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

func isProduction() bool {
	return strings.EqualFold(os.Getenv("APP_ENV"), "production")
}
