// Package config defines the top-level configuration for kalshiedge and
// provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
	"github.com/alanyoungcy/kalshiedge/internal/fees"
	"github.com/alanyoungcy/kalshiedge/internal/matcher"
)

// Config is the root configuration structure. Fields are populated from a TOML
// file and then optionally overridden by KALSHIEDGE_* environment variables
// and finally by command-line flags.
type Config struct {
	Kalshi   KalshiConfig   `toml:"kalshi"`
	OddsAPI  OddsAPIConfig  `toml:"odds_api"`
	HTTP     HTTPConfig     `toml:"http"`
	Analysis AnalysisConfig `toml:"analysis"`
	Matcher  matcher.Config `toml:"matcher"`
	Output   OutputConfig   `toml:"output"`
	Postgres PostgresConfig `toml:"postgres"`
	Redis    RedisConfig    `toml:"redis"`
	S3       S3Config       `toml:"s3"`
	Notify   NotifyConfig   `toml:"notify"`

	Mode          string   `toml:"mode"`
	LogLevel      string   `toml:"log_level"`
	WatchInterval duration `toml:"watch_interval"`
}

// KalshiConfig holds Kalshi exchange API credentials.
type KalshiConfig struct {
	ApiKey            string `toml:"api_key"`
	RsaPrivateKeyPath string `toml:"rsa_private_key_path"`
	BaseURL           string `toml:"base_url"`
	MaxPages          int    `toml:"max_pages"`
}

// OddsAPIConfig holds The Odds API credentials and request parameters.
type OddsAPIConfig struct {
	ApiKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Regions string `toml:"regions"`
	// CacheTTL keeps per-sport snapshots in Redis; zero disables caching.
	CacheTTL duration `toml:"cache_ttl"`
	// QuotaLowThreshold raises a quota_low notification when the remaining
	// request allowance drops to or below it. Zero disables the alert.
	QuotaLowThreshold int `toml:"quota_low_threshold"`
	// RefreshCache drops the cached snapshots of the configured sports
	// before the first scan.
	RefreshCache bool `toml:"refresh_cache"`
}

// HTTPConfig holds the shared HTTP client behaviour.
type HTTPConfig struct {
	Timeout    duration `toml:"timeout"`
	MaxRetries int      `toml:"max_retries"`
	RetryDelay duration `toml:"retry_delay"`
	// Concurrency bounds the number of in-flight odds requests per scan.
	Concurrency int `toml:"concurrency"`
}

// AnalysisConfig holds the edge and consensus parameters.
type AnalysisConfig struct {
	MinEdge            float64  `toml:"min_edge"`
	MinBookmakers      int      `toml:"min_bookmakers"`
	Maker              bool     `toml:"maker"`
	TakerFeeMultiplier float64  `toml:"taker_fee_multiplier"`
	MakerFeeMultiplier float64  `toml:"maker_fee_multiplier"`
	OddsFormat         string   `toml:"odds_format"`
	Sports             []string `toml:"sports"`
	AllSports          bool     `toml:"all_sports"`
}

// OutputConfig controls console output and CSV exports.
type OutputConfig struct {
	Compact        bool   `toml:"compact"`
	ExportCSV      bool   `toml:"export_csv"`
	DetailedExport bool   `toml:"detailed_export"`
	TrackHistory   bool   `toml:"track_history"`
	ExportDir      string `toml:"export_dir"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Enabled       bool   `toml:"enabled"`
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
	Prefix     string `toml:"prefix"`
	// RequestsPerSecond caps outbound API calls across all processes sharing
	// this Redis.
	RequestsPerSecond int  `toml:"requests_per_second"`
	Publish           bool `toml:"publish"`
}

// S3Config holds S3-compatible object storage parameters.
type S3Config struct {
	Enabled        bool   `toml:"enabled"`
	Endpoint       string `toml:"endpoint"`
	Region         string `toml:"region"`
	Bucket         string `toml:"bucket"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	UseSSL         bool   `toml:"use_ssl"`
	ForcePathStyle bool   `toml:"force_path_style"`
	Prefix         string `toml:"prefix"`
	ArchiveScans   bool   `toml:"archive_scans"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken     string   `toml:"telegram_token"`
	TelegramChatID    string   `toml:"telegram_chat_id"`
	DiscordWebhookURL string   `toml:"discord_webhook_url"`
	SlackWebhookURL   string   `toml:"slack_webhook_url"`
	MinConfidence     string   `toml:"min_confidence"`
	Events            []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string decoding
// (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5m" or "30s".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// AllSportKeys lists every sport key the scanner knows how to match.
var AllSportKeys = []string{
	"americanfootball_nfl",
	"basketball_nba",
	"basketball_ncaab",
	"basketball_wncaab",
	"icehockey_nhl",
	"baseball_mlb",
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Kalshi: KalshiConfig{
			BaseURL:  "https://api.elections.kalshi.com/trade-api/v2",
			MaxPages: 10,
		},
		OddsAPI: OddsAPIConfig{
			BaseURL:           "https://api.the-odds-api.com/v4",
			Regions:           "us",
			CacheTTL:          duration{2 * time.Minute},
			QuotaLowThreshold: 50,
		},
		HTTP: HTTPConfig{
			Timeout:     duration{30 * time.Second},
			MaxRetries:  3,
			RetryDelay:  duration{time.Second},
			Concurrency: 4,
		},
		Analysis: AnalysisConfig{
			MinEdge:            0.02,
			MinBookmakers:      3,
			TakerFeeMultiplier: 0.07,
			MakerFeeMultiplier: 0.0175,
			OddsFormat:         "american",
			Sports:             []string{"americanfootball_nfl", "basketball_nba"},
		},
		Matcher: matcher.DefaultConfig(),
		Output: OutputConfig{
			ExportDir: "./output/",
		},
		Postgres: PostgresConfig{
			Host:          "localhost",
			Port:          5432,
			Database:      "postgres",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Redis: RedisConfig{
			Addr:              "localhost:6379",
			PoolSize:          20,
			MaxRetries:        3,
			Prefix:            "kalshiedge:",
			RequestsPerSecond: 10,
			Publish:           true,
		},
		S3: S3Config{
			Endpoint:       "http://localhost:9000",
			Region:         "us-east-1",
			Bucket:         "kalshiedge-data",
			ForcePathStyle: true,
			Prefix:         "kalshiedge/",
			ArchiveScans:   true,
		},
		Notify: NotifyConfig{
			MinConfidence: "high",
			Events:        []string{"opportunity", "scan_failed", "quota_low"},
		},
		Mode:          "scan",
		LogLevel:      "info",
		WatchInterval: duration{5 * time.Minute},
	}
}

// SportKeys returns the odds sport keys to scan, honouring AllSports. Entries
// may also be sport codes ("nba", "ncaab"), which expand to their keys.
// Unknown entries pass through so Validate can report them.
func (c *Config) SportKeys() []string {
	if c.Analysis.AllSports {
		return append([]string(nil), AllSportKeys...)
	}
	seen := make(map[string]bool, len(c.Analysis.Sports))
	var keys []string
	add := func(k string) {
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for _, s := range c.Analysis.Sports {
		if _, ok := domain.SportKeyToSport[s]; ok {
			add(s)
			continue
		}
		expanded := domain.SportKeysFor([]string{s})
		if len(expanded) == 0 {
			add(s)
			continue
		}
		for _, k := range expanded {
			add(k)
		}
	}
	return keys
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"scan":    true,
	"dry_run": true,
	"watch":   true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validConfidences = map[string]bool{
	string(domain.ConfidenceHigh):   true,
	string(domain.ConfidenceMedium): true,
	string(domain.ConfidenceLow):    true,
}

var validOddsFormats = map[string]bool{
	"american": true,
	"decimal":  true,
}

// Validate checks Config for obviously invalid or missing values and returns a
// combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	mode := strings.ToLower(c.Mode)
	if !validModes[mode] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: scan, dry_run, watch)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}
	if mode == "watch" && c.WatchInterval.Duration <= 0 {
		errs = append(errs, "watch_interval must be > 0 in watch mode")
	}

	// Odds API key is only needed once odds are fetched.
	if mode != "dry_run" && strings.TrimSpace(c.OddsAPI.ApiKey) == "" {
		errs = append(errs, "odds_api: api_key is required (or use dry_run mode)")
	}
	if c.Kalshi.BaseURL == "" {
		errs = append(errs, "kalshi: base_url must not be empty")
	}
	if c.OddsAPI.BaseURL == "" {
		errs = append(errs, "odds_api: base_url must not be empty")
	}

	if c.HTTP.Timeout.Duration <= 0 {
		errs = append(errs, "http: timeout must be > 0")
	}
	if c.HTTP.MaxRetries < 1 {
		errs = append(errs, "http: max_retries must be >= 1")
	}

	// Analysis
	if c.Analysis.MinEdge < 0 || c.Analysis.MinEdge >= 1 {
		errs = append(errs, fmt.Sprintf("analysis: min_edge must be in [0, 1), got %g", c.Analysis.MinEdge))
	}
	if c.Analysis.MinBookmakers < 1 {
		errs = append(errs, "analysis: min_bookmakers must be >= 1")
	}
	if !fees.ValidMultiplier(c.Analysis.TakerFeeMultiplier) {
		errs = append(errs, fmt.Sprintf("analysis: taker_fee_multiplier must be in (0, 1), got %g", c.Analysis.TakerFeeMultiplier))
	}
	if !fees.ValidMultiplier(c.Analysis.MakerFeeMultiplier) {
		errs = append(errs, fmt.Sprintf("analysis: maker_fee_multiplier must be in (0, 1), got %g", c.Analysis.MakerFeeMultiplier))
	}
	if !validOddsFormats[strings.ToLower(c.Analysis.OddsFormat)] {
		errs = append(errs, fmt.Sprintf("analysis: unknown odds_format %q (valid: american, decimal)", c.Analysis.OddsFormat))
	}
	keys := c.SportKeys()
	if len(keys) == 0 {
		errs = append(errs, "analysis: at least one sport is required")
	}
	for _, k := range keys {
		if _, ok := domain.SportKeyToSport[k]; !ok {
			errs = append(errs, fmt.Sprintf("analysis: unknown sport key %q", k))
		}
	}

	if (c.Output.ExportCSV || c.Output.DetailedExport || c.Output.TrackHistory) && c.Output.ExportDir == "" {
		errs = append(errs, "output: export_dir must not be empty when exporting")
	}

	// Postgres
	if c.Postgres.Enabled {
		if strings.TrimSpace(c.Postgres.DSN) == "" {
			if c.Postgres.Host == "" {
				errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
			}
			if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
				errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
			}
			if c.Postgres.Database == "" {
				errs = append(errs, "postgres: database must not be empty")
			}
		}
		if c.Postgres.PoolMaxConns < 1 {
			errs = append(errs, "postgres: pool_max_conns must be >= 1")
		}
		if c.Postgres.PoolMinConns < 0 {
			errs = append(errs, "postgres: pool_min_conns must be >= 0")
		}
		if c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
			errs = append(errs, "postgres: pool_min_conns must not exceed pool_max_conns")
		}
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	// S3
	if c.S3.Enabled && c.S3.Bucket == "" {
		errs = append(errs, "s3: bucket must not be empty")
	}

	// Notify
	if c.Notify.TelegramToken != "" && c.Notify.TelegramChatID == "" {
		errs = append(errs, "notify: telegram_chat_id is required when telegram_token is set")
	}
	if c.Notify.MinConfidence != "" && !validConfidences[strings.ToLower(c.Notify.MinConfidence)] {
		errs = append(errs, fmt.Sprintf("notify: unknown min_confidence %q (valid: high, medium, low)", c.Notify.MinConfidence))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
