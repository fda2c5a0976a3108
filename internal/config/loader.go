package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies KALSHIEDGE_* environment variable overrides, and
// returns the final Config. An empty path skips the file. The returned Config
// has NOT been validated; the caller should invoke Config.Validate() after
// applying any flag overrides.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known KALSHIEDGE_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Kalshi ──
	setStr(&cfg.Kalshi.ApiKey, "KALSHI_API_KEY") // compatibility alias
	setStr(&cfg.Kalshi.ApiKey, "KALSHIEDGE_KALSHI_API_KEY")
	setStr(&cfg.Kalshi.RsaPrivateKeyPath, "KALSHIEDGE_KALSHI_RSA_PRIVATE_KEY_PATH")
	setStr(&cfg.Kalshi.BaseURL, "KALSHIEDGE_KALSHI_BASE_URL")
	setInt(&cfg.Kalshi.MaxPages, "KALSHIEDGE_KALSHI_MAX_PAGES")

	// ── Odds API ──
	setStr(&cfg.OddsAPI.ApiKey, "ODDS_API_KEY") // compatibility alias
	setStr(&cfg.OddsAPI.ApiKey, "KALSHIEDGE_ODDS_API_KEY")
	setStr(&cfg.OddsAPI.BaseURL, "KALSHIEDGE_ODDS_API_BASE_URL")
	setStr(&cfg.OddsAPI.Regions, "KALSHIEDGE_ODDS_API_REGIONS")
	setDuration(&cfg.OddsAPI.CacheTTL, "KALSHIEDGE_ODDS_API_CACHE_TTL")
	setInt(&cfg.OddsAPI.QuotaLowThreshold, "KALSHIEDGE_ODDS_API_QUOTA_LOW_THRESHOLD")
	setBool(&cfg.OddsAPI.RefreshCache, "KALSHIEDGE_ODDS_API_REFRESH_CACHE")

	// ── HTTP ──
	setDuration(&cfg.HTTP.Timeout, "KALSHIEDGE_HTTP_TIMEOUT")
	setInt(&cfg.HTTP.MaxRetries, "KALSHIEDGE_HTTP_MAX_RETRIES")
	setDuration(&cfg.HTTP.RetryDelay, "KALSHIEDGE_HTTP_RETRY_DELAY")
	setInt(&cfg.HTTP.Concurrency, "KALSHIEDGE_HTTP_CONCURRENCY")

	// ── Analysis ──
	setFloat64(&cfg.Analysis.MinEdge, "KALSHIEDGE_ANALYSIS_MIN_EDGE")
	setInt(&cfg.Analysis.MinBookmakers, "KALSHIEDGE_ANALYSIS_MIN_BOOKMAKERS")
	setBool(&cfg.Analysis.Maker, "KALSHIEDGE_ANALYSIS_MAKER")
	setStr(&cfg.Analysis.OddsFormat, "KALSHIEDGE_ANALYSIS_ODDS_FORMAT")
	setStringSlice(&cfg.Analysis.Sports, "KALSHIEDGE_ANALYSIS_SPORTS")
	setBool(&cfg.Analysis.AllSports, "KALSHIEDGE_ANALYSIS_ALL_SPORTS")

	// ── Output ──
	setBool(&cfg.Output.Compact, "KALSHIEDGE_OUTPUT_COMPACT")
	setBool(&cfg.Output.ExportCSV, "KALSHIEDGE_OUTPUT_EXPORT_CSV")
	setBool(&cfg.Output.DetailedExport, "KALSHIEDGE_OUTPUT_DETAILED_EXPORT")
	setBool(&cfg.Output.TrackHistory, "KALSHIEDGE_OUTPUT_TRACK_HISTORY")
	setStr(&cfg.Output.ExportDir, "KALSHIEDGE_OUTPUT_EXPORT_DIR")

	// ── Postgres ──
	setBool(&cfg.Postgres.Enabled, "KALSHIEDGE_POSTGRES_ENABLED")
	setStr(&cfg.Postgres.DSN, "KALSHIEDGE_POSTGRES_DSN")
	setStr(&cfg.Postgres.Host, "KALSHIEDGE_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "KALSHIEDGE_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "KALSHIEDGE_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "KALSHIEDGE_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "KALSHIEDGE_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "KALSHIEDGE_POSTGRES_SSL_MODE")
	setInt(&cfg.Postgres.PoolMaxConns, "KALSHIEDGE_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "KALSHIEDGE_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "KALSHIEDGE_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setBool(&cfg.Redis.Enabled, "KALSHIEDGE_REDIS_ENABLED")
	setStr(&cfg.Redis.Addr, "KALSHIEDGE_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "KALSHIEDGE_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "KALSHIEDGE_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "KALSHIEDGE_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "KALSHIEDGE_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "KALSHIEDGE_REDIS_TLS_ENABLED")
	setStr(&cfg.Redis.Prefix, "KALSHIEDGE_REDIS_PREFIX")
	setInt(&cfg.Redis.RequestsPerSecond, "KALSHIEDGE_REDIS_REQUESTS_PER_SECOND")
	setBool(&cfg.Redis.Publish, "KALSHIEDGE_REDIS_PUBLISH")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "KALSHIEDGE_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "KALSHIEDGE_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "KALSHIEDGE_S3_REGION")
	setStr(&cfg.S3.Bucket, "KALSHIEDGE_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "KALSHIEDGE_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "KALSHIEDGE_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "KALSHIEDGE_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "KALSHIEDGE_S3_FORCE_PATH_STYLE")
	setStr(&cfg.S3.Prefix, "KALSHIEDGE_S3_PREFIX")
	setBool(&cfg.S3.ArchiveScans, "KALSHIEDGE_S3_ARCHIVE_SCANS")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "KALSHIEDGE_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "KALSHIEDGE_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "KALSHIEDGE_NOTIFY_DISCORD_WEBHOOK_URL")
	setStr(&cfg.Notify.SlackWebhookURL, "KALSHIEDGE_NOTIFY_SLACK_WEBHOOK_URL")
	setStr(&cfg.Notify.MinConfidence, "KALSHIEDGE_NOTIFY_MIN_CONFIDENCE")
	setStringSlice(&cfg.Notify.Events, "KALSHIEDGE_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "KALSHIEDGE_MODE")
	setStr(&cfg.LogLevel, "KALSHIEDGE_LOG_LEVEL")
	setDuration(&cfg.WatchInterval, "KALSHIEDGE_WATCH_INTERVAL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		if cleaned := SplitList(v); len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}

// SplitList splits a comma-separated list, trimming blanks.
func SplitList(v string) []string {
	parts := strings.Split(v, ",")
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	return cleaned
}
