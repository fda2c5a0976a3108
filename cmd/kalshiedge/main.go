// Command kalshiedge compares sportsbook consensus odds with Kalshi
// game-winner prices and reports contracts priced below their fair value. It
// loads configuration, applies command-line overrides, validates, sets up
// signal handling and runs the configured mode.
//
// Exit status is 0 when at least one opportunity was found (or a dry run
// succeeded) and 1 otherwise.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alanyoungcy/kalshiedge/internal/app"
	"github.com/alanyoungcy/kalshiedge/internal/config"
)

const defaultConfigPath = "config.toml"

type flags struct {
	configPath     string
	oddsAPIKey     string
	kalshiAPIKey   string
	minEdge        float64
	minBookmakers  int
	sports         string
	allSports      bool
	exportCSV      bool
	detailedExport bool
	trackHistory   bool
	compact        bool
	verbose        bool
	dryRun         bool
	refreshOdds    bool
	watch          time.Duration
}

func parseFlags() (flags, map[string]bool) {
	var f flags
	flag.StringVar(&f.configPath, "config", "", "path to configuration file (default "+defaultConfigPath+" when present)")
	flag.StringVar(&f.oddsAPIKey, "odds-api-key", "", "The Odds API key")
	flag.StringVar(&f.kalshiAPIKey, "kalshi-api-key", "", "Kalshi API key")
	flag.Float64Var(&f.minEdge, "min-edge", 0, "minimum net edge threshold")
	flag.IntVar(&f.minBookmakers, "min-bookmakers", 0, "minimum bookmakers for consensus")
	flag.StringVar(&f.sports, "sports", "", "comma-separated sport keys to analyze")
	flag.BoolVar(&f.allSports, "all-sports", false, "analyze all supported sports")
	flag.BoolVar(&f.exportCSV, "export-csv", false, "export results to CSV")
	flag.BoolVar(&f.detailedExport, "detailed-export", false, "export detailed CSV")
	flag.BoolVar(&f.trackHistory, "track-history", false, "append to history file")
	flag.BoolVar(&f.compact, "compact", false, "use compact table output")
	flag.BoolVar(&f.verbose, "verbose", false, "verbose output")
	flag.BoolVar(&f.verbose, "v", false, "verbose output (shorthand)")
	flag.BoolVar(&f.dryRun, "dry-run", false, "only fetch Kalshi markets (no odds API calls)")
	flag.BoolVar(&f.refreshOdds, "refresh-odds", false, "ignore cached odds snapshots on the first scan")
	flag.DurationVar(&f.watch, "watch", 0, "rescan on this interval until interrupted")
	flag.Parse()

	set := make(map[string]bool)
	flag.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return f, set
}

// applyFlags overrides cfg with every flag given on the command line.
func applyFlags(cfg *config.Config, f flags, set map[string]bool) {
	if set["odds-api-key"] {
		cfg.OddsAPI.ApiKey = f.oddsAPIKey
	}
	if set["kalshi-api-key"] {
		cfg.Kalshi.ApiKey = f.kalshiAPIKey
	}
	if set["min-edge"] {
		cfg.Analysis.MinEdge = f.minEdge
	}
	if set["min-bookmakers"] {
		cfg.Analysis.MinBookmakers = f.minBookmakers
	}
	if set["sports"] {
		cfg.Analysis.Sports = config.SplitList(f.sports)
	}
	if f.allSports {
		cfg.Analysis.AllSports = true
	}
	if f.exportCSV {
		cfg.Output.ExportCSV = true
	}
	if f.detailedExport {
		cfg.Output.DetailedExport = true
	}
	if f.trackHistory {
		cfg.Output.TrackHistory = true
	}
	if f.compact {
		cfg.Output.Compact = true
	}
	if f.verbose {
		cfg.LogLevel = "debug"
	}
	if f.refreshOdds {
		cfg.OddsAPI.RefreshCache = true
	}
	if f.watch > 0 {
		cfg.Mode = "watch"
		cfg.WatchInterval.Duration = f.watch
	}
	if f.dryRun {
		cfg.Mode = "dry_run"
	}
}

func logLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func main() {
	os.Exit(run())
}

func run() int {
	f, set := parseFlags()

	// Reports go to stdout, so logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	path := f.configPath
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			path = defaultConfigPath
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		logger.Error("failed to load config",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return 1
	}
	applyFlags(cfg, f, set)

	logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	logger.Debug("configuration loaded", slog.Any("config", config.RedactedConfig(cfg)))

	application := app.New(cfg, logger, os.Stdout)
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	found, err := application.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Info("application shut down gracefully")
			return 1
		}
		logger.Error("application exited with error", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 1
	}
	if !found {
		return 1
	}
	return 0
}
