// Package app provides the top-level application lifecycle for kalshiedge. It
// wires together the upstream clients, the scan pipeline, optional
// persistence, caching, object storage and notifications, then runs the
// configured operating mode.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/alanyoungcy/kalshiedge/internal/config"
)

// App is the root application object. It owns the configuration, logger, and a
// list of cleanup functions that are called in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	root    *slog.Logger
	logger  *slog.Logger
	out     io.Writer
	closers []func()

	quotaAlerted bool
}

// New creates a new App. Reports are written to out.
func New(cfg *config.Config, logger *slog.Logger, out io.Writer) *App {
	return &App{
		cfg:    cfg,
		root:   logger,
		logger: logger.With(slog.String("component", "app")),
		out:    out,
	}
}

// Run is the main entry point. It wires all dependencies, runs the configured
// mode and reports whether the run found what it was looking for: at least one
// opportunity for scan and watch, always true for a successful dry run.
func (a *App) Run(ctx context.Context) (bool, error) {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("mode", a.cfg.Mode),
		slog.String("log_level", a.cfg.LogLevel),
		slog.Any("sports", a.cfg.SportKeys()),
	)

	deps, cleanup, err := Wire(ctx, a.cfg, a.root, a.out)
	if err != nil {
		return false, fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	deps.Printer.PrintHeader(time.Now(), a.cfg.SportKeys(), a.cfg.Analysis.MinEdge)

	mode := strings.ToLower(a.cfg.Mode)
	if a.cfg.OddsAPI.RefreshCache && mode != "dry_run" {
		a.refreshOdds(ctx, deps)
	}

	switch mode {
	case "scan":
		return a.ScanMode(ctx, deps)
	case "dry_run":
		return a.DryRunMode(ctx, deps)
	case "watch":
		return a.WatchMode(ctx, deps)
	default:
		return false, fmt.Errorf("app: unsupported mode %q", a.cfg.Mode)
	}
}

// Close tears down all resources in reverse registration order. It is safe to
// call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	a.logger.Debug("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
