// Package oddsapi is a client for The Odds API sportsbook feed.
package oddsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
)

// DefaultBaseURL is the v4 API root.
const DefaultBaseURL = "https://api.the-odds-api.com/v4"

// DefaultRegions restricts quotes to US sportsbooks.
const DefaultRegions = "us"

// RateLimitKey is the RateLimiter bucket shared by every odds request.
const RateLimitKey = "oddsapi:rest"

var errTransport = errors.New("transport error")

// Quota is the request allowance reported by the last response. A negative
// value means the header has not been seen yet.
type Quota struct {
	Remaining int
	Used      int
	UpdatedAt time.Time
}

// Known reports whether any response carried quota headers.
func (q Quota) Known() bool { return q.Remaining >= 0 }

// Client fetches head-to-head odds.
type Client struct {
	baseURL    string
	apiKey     string
	regions    string
	httpClient *http.Client
	logger     *slog.Logger
	limiter    domain.RateLimiter
	cache      domain.OddsCache
	cacheTTL   time.Duration

	maxRetries   int
	retryBackoff time.Duration

	mu    sync.Mutex
	quota Quota
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRetries sets the attempt count and the base retry delay.
func WithRetries(max int, backoff time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithRegions sets the bookmaker regions sent with every odds request.
func WithRegions(regions string) Option {
	return func(c *Client) { c.regions = regions }
}

// WithRateLimiter makes every request wait on the limiter first.
func WithRateLimiter(rl domain.RateLimiter) Option {
	return func(c *Client) { c.limiter = rl }
}

// WithCache serves FetchH2H from the cache while a snapshot younger than ttl
// exists, and stores every fresh fetch.
func WithCache(cache domain.OddsCache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// NewClient creates a client. An API key is mandatory.
func NewClient(baseURL, apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errors.New("oddsapi: api key is required")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		regions:      DefaultRegions,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		logger:       slog.Default(),
		maxRetries:   3,
		retryBackoff: time.Second,
		quota:        Quota{Remaining: -1, Used: -1},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxRetries < 1 {
		c.maxRetries = 1
	}
	c.logger = c.logger.With(slog.String("component", "oddsapi"))
	return c, nil
}

// Quota returns the allowance reported by the most recent response.
func (c *Client) Quota() Quota {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quota
}

// FetchH2H returns moneyline odds for sportKey, from the cache when a fresh
// snapshot exists. Cache failures are logged and fall through to the API.
func (c *Client) FetchH2H(ctx context.Context, sportKey string) ([]domain.RawEvent, error) {
	if c.cache != nil {
		events, err := c.cache.GetEvents(ctx, sportKey)
		switch {
		case err == nil:
			c.logger.DebugContext(ctx, "odds cache hit",
				slog.String("sport_key", sportKey),
				slog.Int("events", len(events)),
			)
			return events, nil
		case !errors.Is(err, domain.ErrNotFound):
			c.logger.WarnContext(ctx, "odds cache read failed",
				slog.String("sport_key", sportKey),
				slog.String("error", err.Error()),
			)
		}
	}

	events, err := c.GetH2HOdds(ctx, sportKey, c.regions)
	if err != nil {
		return nil, err
	}

	if c.cache != nil && c.cacheTTL > 0 {
		if err := c.cache.SetEvents(ctx, sportKey, events, c.cacheTTL); err != nil {
			c.logger.WarnContext(ctx, "odds cache write failed",
				slog.String("sport_key", sportKey),
				slog.String("error", err.Error()),
			)
		}
	}
	return events, nil
}

// GetH2HOdds fetches head-to-head odds in American format for one sport key.
func (c *Client) GetH2HOdds(ctx context.Context, sportKey, regions string) ([]domain.RawEvent, error) {
	if regions == "" {
		regions = DefaultRegions
	}
	params := url.Values{}
	params.Set("regions", regions)
	params.Set("markets", domain.MarketH2H)
	params.Set("oddsFormat", "american")

	body, err := c.doRequest(ctx, "/sports/"+url.PathEscape(sportKey)+"/odds", params)
	if err != nil {
		return nil, fmt.Errorf("oddsapi: get odds %s: %w", sportKey, err)
	}

	var events []domain.RawEvent
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("oddsapi: decode odds %s: %w", sportKey, err)
	}

	q := c.Quota()
	c.logger.InfoContext(ctx, "fetched odds",
		slog.String("sport_key", sportKey),
		slog.Int("events", len(events)),
		slog.Int("quota_remaining", q.Remaining),
	)
	return events, nil
}

func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx, RateLimitKey); err != nil {
				return nil, fmt.Errorf("rate limiter: %w", err)
			}
		}

		body, err := c.send(ctx, path, params)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var delay time.Duration
		switch {
		case errors.Is(err, domain.ErrRateLimited):
			delay = c.retryBackoff << attempt
		case errors.Is(err, errTransport):
			delay = c.retryBackoff
		default:
			return nil, err
		}
		if attempt == c.maxRetries-1 {
			break
		}

		c.logger.WarnContext(ctx, "retrying request",
			slog.String("path", path),
			slog.Int("attempt", attempt+1),
			slog.Duration("delay", delay),
			slog.String("error", err.Error()),
		)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, lastErr
}

func (c *Client) send(ctx context.Context, path string, params url.Values) ([]byte, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// The request URL carries the key, so the *url.Error text is dropped.
		return nil, fmt.Errorf("http request %s: %w", path, errTransport)
	}
	defer resp.Body.Close()

	c.recordQuota(resp.Header)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %v: %w", err, errTransport)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, fmt.Errorf("invalid api key: %w", domain.ErrUnauthorized)
	case resp.StatusCode == http.StatusTooManyRequests:
		if q := c.Quota(); q.Known() && q.Remaining == 0 {
			return nil, fmt.Errorf("HTTP 429: %w", domain.ErrQuotaExhausted)
		}
		return nil, fmt.Errorf("HTTP 429: %w", domain.ErrRateLimited)
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("HTTP 404: %w", domain.ErrNotFound)
	default:
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
}

func (c *Client) recordQuota(h http.Header) {
	remaining, errR := strconv.Atoi(strings.TrimSpace(h.Get("x-requests-remaining")))
	used, errU := strconv.Atoi(strings.TrimSpace(h.Get("x-requests-used")))
	if errR != nil && errU != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if errR == nil {
		c.quota.Remaining = remaining
	}
	if errU == nil {
		c.quota.Used = used
	}
	c.quota.UpdatedAt = time.Now()
}
