package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	s3blob "github.com/alanyoungcy/kalshiedge/internal/blob/s3"
	"github.com/alanyoungcy/kalshiedge/internal/cache/redis"
	"github.com/alanyoungcy/kalshiedge/internal/config"
	"github.com/alanyoungcy/kalshiedge/internal/consensus"
	"github.com/alanyoungcy/kalshiedge/internal/domain"
	"github.com/alanyoungcy/kalshiedge/internal/edge"
	"github.com/alanyoungcy/kalshiedge/internal/export"
	"github.com/alanyoungcy/kalshiedge/internal/fees"
	"github.com/alanyoungcy/kalshiedge/internal/matcher"
	"github.com/alanyoungcy/kalshiedge/internal/notify"
	"github.com/alanyoungcy/kalshiedge/internal/odds"
	"github.com/alanyoungcy/kalshiedge/internal/platform/kalshi"
	"github.com/alanyoungcy/kalshiedge/internal/platform/oddsapi"
	"github.com/alanyoungcy/kalshiedge/internal/report"
	"github.com/alanyoungcy/kalshiedge/internal/scanner"
	"github.com/alanyoungcy/kalshiedge/internal/store/postgres"
)

// Dependencies bundles everything the modes need. It is constructed by Wire
// and torn down by the returned cleanup function. Optional backends are nil
// when disabled.
type Dependencies struct {
	Kalshi  *kalshi.Client
	Odds    *oddsapi.Client
	Scanner *scanner.Scanner

	Printer  *report.Printer
	Exporter *export.Exporter
	Notifier *notify.Notifier

	// Postgres
	AuditStore       domain.AuditStore
	OpportunityStore domain.OpportunityStore
	ScanStore        domain.ScanStore

	// Redis
	OddsCache   domain.OddsCache
	RateLimiter domain.RateLimiter
	LockManager domain.LockManager
	Bus         domain.OpportunityBus

	// S3
	BlobWriter domain.BlobWriter
	Archiver   *s3blob.ScanArchiver
}

// Wire constructs all concrete dependency implementations from the given
// configuration and returns them together with a cleanup function that should
// be called on shutdown to release resources.
func Wire(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) (*Dependencies, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*Dependencies, func(), error) {
		cleanup()
		return nil, nil, err
	}

	deps := &Dependencies{}
	mode := strings.ToLower(cfg.Mode)

	// --- PostgreSQL ---
	if cfg.Postgres.Enabled && mode != "dry_run" {
		pgClient, err := postgres.New(ctx, postgres.ClientConfig{
			DSN:      cfg.Postgres.DSN,
			Host:     cfg.Postgres.Host,
			Port:     cfg.Postgres.Port,
			Database: cfg.Postgres.Database,
			User:     cfg.Postgres.User,
			Password: cfg.Postgres.Password,
			SSLMode:  cfg.Postgres.SSLMode,
			MaxConns: cfg.Postgres.PoolMaxConns,
			MinConns: cfg.Postgres.PoolMinConns,
		})
		if err != nil {
			return fail(fmt.Errorf("wire: postgres: %w", err))
		}
		closers = append(closers, pgClient.Close)

		if cfg.Postgres.RunMigrations {
			if err := pgClient.RunMigrations(ctx); err != nil {
				return fail(fmt.Errorf("wire: postgres migrations: %w", err))
			}
		}

		stores := pgClient.Stores()
		deps.AuditStore = stores.Audit
		deps.OpportunityStore = stores.Opportunities
		deps.ScanStore = stores.Scans
	}

	// --- Redis ---
	if cfg.Redis.Enabled {
		redisClient, err := redis.New(ctx, redis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
			Prefix:     cfg.Redis.Prefix,
		})
		if err != nil {
			return fail(fmt.Errorf("wire: redis: %w", err))
		}
		closers = append(closers, func() { _ = redisClient.Close() })

		deps.OddsCache = redis.NewOddsCache(redisClient)
		deps.LockManager = redis.NewLockManager(redisClient)
		if cfg.Redis.RequestsPerSecond > 0 {
			perSecond := redis.Limit{Requests: cfg.Redis.RequestsPerSecond, Window: time.Second}
			deps.RateLimiter = redis.NewRateLimiter(redisClient, map[string]redis.Limit{
				kalshi.RateLimitKey:  perSecond,
				oddsapi.RateLimitKey: perSecond,
			})
		}
		if cfg.Redis.Publish {
			deps.Bus = redis.NewOpportunityBus(redisClient)
		}
	}

	// --- S3 blob storage ---
	if cfg.S3.Enabled {
		s3Client, err := s3blob.New(ctx, s3blob.ClientConfig{
			Endpoint:       cfg.S3.Endpoint,
			Region:         cfg.S3.Region,
			Bucket:         cfg.S3.Bucket,
			AccessKey:      cfg.S3.AccessKey,
			SecretKey:      cfg.S3.SecretKey,
			UseSSL:         cfg.S3.UseSSL,
			ForcePathStyle: cfg.S3.ForcePathStyle,
			Prefix:         cfg.S3.Prefix,
		})
		if err != nil {
			return fail(fmt.Errorf("wire: s3: %w", err))
		}
		if err := s3Client.Health(ctx); err != nil {
			logger.WarnContext(ctx, "s3 bucket not reachable, uploads will fail until it is",
				slog.String("component", "wire"),
				slog.String("error", err.Error()),
			)
		}
		deps.BlobWriter = s3blob.NewWriter(s3Client)
		if cfg.S3.ArchiveScans {
			deps.Archiver = s3blob.NewScanArchiver(deps.BlobWriter, deps.AuditStore)
		}
	}

	// --- Notifications ---
	var senders []notify.Sender
	if cfg.Notify.TelegramToken != "" && cfg.Notify.TelegramChatID != "" {
		senders = append(senders, notify.NewTelegramSender("", cfg.Notify.TelegramToken, cfg.Notify.TelegramChatID))
	}
	if cfg.Notify.DiscordWebhookURL != "" {
		senders = append(senders, notify.NewDiscordSender(cfg.Notify.DiscordWebhookURL))
	}
	if cfg.Notify.SlackWebhookURL != "" {
		senders = append(senders, notify.NewSlackSender(cfg.Notify.SlackWebhookURL))
	}
	deps.Notifier = notify.NewNotifier(senders, cfg.Notify.Events, domain.ParseConfidence(strings.ToLower(cfg.Notify.MinConfidence)), logger)

	// --- Upstream APIs ---
	kalshiOpts := []kalshi.Option{
		kalshi.WithTimeout(cfg.HTTP.Timeout.Duration),
		kalshi.WithRetries(cfg.HTTP.MaxRetries, cfg.HTTP.RetryDelay.Duration),
		kalshi.WithMaxPages(cfg.Kalshi.MaxPages),
		kalshi.WithLogger(logger),
	}
	if deps.RateLimiter != nil {
		kalshiOpts = append(kalshiOpts, kalshi.WithRateLimiter(deps.RateLimiter))
	}
	deps.Kalshi = kalshi.NewClient(cfg.Kalshi.BaseURL, cfg.Kalshi.ApiKey, kalshiOpts...)
	if cfg.Kalshi.RsaPrivateKeyPath != "" {
		if err := deps.Kalshi.LoadRSAPrivateKeyFile(cfg.Kalshi.RsaPrivateKeyPath); err != nil {
			return fail(fmt.Errorf("wire: kalshi key: %w", err))
		}
	}

	// The odds client is optional in dry runs, which never fetch odds.
	if cfg.OddsAPI.ApiKey != "" || mode != "dry_run" {
		oddsOpts := []oddsapi.Option{
			oddsapi.WithTimeout(cfg.HTTP.Timeout.Duration),
			oddsapi.WithRetries(cfg.HTTP.MaxRetries, cfg.HTTP.RetryDelay.Duration),
			oddsapi.WithRegions(cfg.OddsAPI.Regions),
			oddsapi.WithLogger(logger),
		}
		if deps.RateLimiter != nil {
			oddsOpts = append(oddsOpts, oddsapi.WithRateLimiter(deps.RateLimiter))
		}
		if deps.OddsCache != nil && cfg.OddsAPI.CacheTTL.Duration > 0 {
			oddsOpts = append(oddsOpts, oddsapi.WithCache(deps.OddsCache, cfg.OddsAPI.CacheTTL.Duration))
		}
		oddsClient, err := oddsapi.NewClient(cfg.OddsAPI.BaseURL, cfg.OddsAPI.ApiKey, oddsOpts...)
		if err != nil {
			return fail(fmt.Errorf("wire: odds api: %w", err))
		}
		deps.Odds = oddsClient
	}

	// --- Core ---
	format, err := odds.ParseFormat(strings.ToLower(cfg.Analysis.OddsFormat))
	if err != nil {
		return fail(fmt.Errorf("wire: %w", err))
	}
	feeModel, err := fees.NewModel(cfg.Analysis.TakerFeeMultiplier, cfg.Analysis.MakerFeeMultiplier)
	if err != nil {
		return fail(fmt.Errorf("wire: %w", err))
	}
	engine := edge.New(edge.Config{
		MinEdge: cfg.Analysis.MinEdge,
		Maker:   cfg.Analysis.Maker,
	}, feeModel, logger)

	var events domain.EventSource
	if deps.Odds != nil {
		events = deps.Odds
	}
	opts := []scanner.Option{scanner.WithLogger(logger)}
	if deps.OpportunityStore != nil {
		opts = append(opts, scanner.WithOpportunityStore(deps.OpportunityStore))
	}
	if deps.ScanStore != nil {
		opts = append(opts, scanner.WithScanStore(deps.ScanStore))
	}
	if deps.AuditStore != nil {
		opts = append(opts, scanner.WithAuditStore(deps.AuditStore))
	}
	if deps.Bus != nil {
		opts = append(opts, scanner.WithBus(deps.Bus))
	}
	if deps.Notifier.Enabled() {
		opts = append(opts, scanner.WithNotifier(deps.Notifier))
	}
	if deps.Archiver != nil {
		opts = append(opts, scanner.WithArchiver(deps.Archiver))
	}
	if deps.LockManager != nil && mode == "watch" {
		opts = append(opts, scanner.WithLock(deps.LockManager))
	}
	deps.Scanner = scanner.New(
		scanner.Config{
			SportKeys:   cfg.SportKeys(),
			Concurrency: cfg.HTTP.Concurrency,
			LockTTL:     cfg.WatchInterval.Duration,
		},
		events,
		deps.Kalshi,
		matcher.New(cfg.Matcher, logger),
		consensus.NewBuilder(cfg.Analysis.MinBookmakers, format, logger),
		engine,
		opts...,
	)

	deps.Printer = report.NewPrinter(out, feeModel)
	exportOpts := []export.Option{export.WithLogger(logger)}
	if deps.BlobWriter != nil {
		exportOpts = append(exportOpts, export.WithUploader(deps.BlobWriter))
	}
	deps.Exporter = export.New(cfg.Output.ExportDir, exportOpts...)

	return deps, cleanup, nil
}
