package kalshi

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
)

// DefaultBaseURL is the public trade API root.
const DefaultBaseURL = "https://api.elections.kalshi.com/trade-api/v2"

// RateLimitKey is the RateLimiter bucket shared by every Kalshi request.
const RateLimitKey = "kalshi:rest"

var (
	errServer    = errors.New("server error")
	errTransport = errors.New("transport error")
)

// Client is the REST client for the Kalshi exchange API.
type Client struct {
	baseURL    string
	apiKeyID   string
	privateKey *rsa.PrivateKey
	httpClient *http.Client
	logger     *slog.Logger
	limiter    domain.RateLimiter

	maxRetries   int
	retryBackoff time.Duration
	maxPages     int
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

// WithRateLimiter makes every request wait on the limiter first.
func WithRateLimiter(rl domain.RateLimiter) Option {
	return func(c *Client) { c.limiter = rl }
}

// WithMaxPages bounds cursor pagination per series.
func WithMaxPages(n int) Option {
	return func(c *Client) { c.maxPages = n }
}

// NewClient creates a new Kalshi REST client.
//
// baseURL is the API root, e.g. "https://api.elections.kalshi.com/trade-api/v2".
// apiKeyID is the Kalshi API key identifier; it is sent as a bearer token
// unless an RSA key is configured, in which case requests are signed.
func NewClient(baseURL, apiKeyID string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		apiKeyID: apiKeyID,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:       slog.Default(),
		maxRetries:   3,
		retryBackoff: time.Second,
		maxPages:     10,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.maxRetries < 1 {
		c.maxRetries = 1
	}
	if c.maxPages < 1 {
		c.maxPages = 1
	}
	c.logger = c.logger.With(slog.String("component", "kalshi"))
	return c
}

// SetRSAPrivateKey loads an RSA private key from PEM-encoded bytes and
// configures the client for RSA-signed authentication.
func (c *Client) SetRSAPrivateKey(pemBytes []byte) error {
	block, _ := pem.Decode(pemBytes)
	if block == nil {
		return fmt.Errorf("kalshi: no PEM block found in private key")
	}

	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		// Try PKCS1 as fallback.
		pkcs1Key, pkcs1Err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if pkcs1Err != nil {
			return fmt.Errorf("kalshi: parse private key: %w (pkcs1: %v)", err, pkcs1Err)
		}
		c.privateKey = pkcs1Key
		return nil
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return fmt.Errorf("kalshi: expected RSA private key, got %T", key)
	}
	c.privateKey = rsaKey
	return nil
}

// LoadRSAPrivateKeyFile reads a PEM file and calls SetRSAPrivateKey.
func (c *Client) LoadRSAPrivateKeyFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("kalshi: read private key: %w", err)
	}
	return c.SetRSAPrivateKey(b)
}

// MarketsQuery filters GET /markets.
type MarketsQuery struct {
	Status       string
	SeriesTicker string
	Cursor       string
	Limit        int
}

func (q MarketsQuery) encode() string {
	params := url.Values{}
	if q.Status != "" {
		params.Set("status", q.Status)
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.SeriesTicker != "" {
		params.Set("series_ticker", q.SeriesTicker)
	}
	if q.Cursor != "" {
		params.Set("cursor", q.Cursor)
	}
	if len(params) == 0 {
		return ""
	}
	return "?" + params.Encode()
}

// GetMarkets returns one page of Kalshi markets and the cursor of the next.
func (c *Client) GetMarkets(ctx context.Context, q MarketsQuery) (KalshiMarketsResponse, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/markets", q.encode())
	if err != nil {
		return KalshiMarketsResponse{}, fmt.Errorf("kalshi: get markets: %w", err)
	}

	var resp KalshiMarketsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return KalshiMarketsResponse{}, fmt.Errorf("kalshi: decode markets: %w", err)
	}
	return resp, nil
}

// --------------------------------------------------------------------------
// Internal helpers
// --------------------------------------------------------------------------

// doRequest sends a request, retrying rate limits with exponential backoff
// and transport or 5xx failures with the base delay. Other HTTP errors are
// returned immediately.
func (c *Client) doRequest(ctx context.Context, method, path, query string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx, RateLimitKey); err != nil {
				return nil, fmt.Errorf("rate limiter: %w", err)
			}
		}

		body, err := c.send(ctx, method, path, query)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var delay time.Duration
		switch {
		case errors.Is(err, domain.ErrRateLimited):
			delay = c.retryBackoff << attempt
		case errors.Is(err, errServer), errors.Is(err, errTransport):
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

func (c *Client) send(ctx context.Context, method, path, query string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+query, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	switch {
	case c.privateKey != nil:
		if err := c.signRequest(req, method, path); err != nil {
			return nil, fmt.Errorf("sign request: %w", err)
		}
	case c.apiKeyID != "":
		req.Header.Set("Authorization", "Bearer "+c.apiKeyID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("http request: %v: %w", err, errTransport)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %v: %w", err, errTransport)
	}

	if err := c.checkStatus(resp.StatusCode, respBody); err != nil {
		return nil, err
	}
	return respBody, nil
}

// signRequest adds RSA authentication headers to the HTTP request.
// Kalshi uses RSA-PSS-SHA256 signatures over the timestamp + method + path
// message string, where path includes the API prefix but not the query.
func (c *Client) signRequest(req *http.Request, method, path string) error {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 10)
	message := ts + method + req.URL.Path

	hash := sha256.Sum256([]byte(message))
	signature, err := rsa.SignPSS(rand.Reader, c.privateKey, crypto.SHA256, hash[:], &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
	})
	if err != nil {
		return fmt.Errorf("RSA sign %s: %w", path, err)
	}

	req.Header.Set("KALSHI-ACCESS-KEY", c.apiKeyID)
	req.Header.Set("KALSHI-ACCESS-SIGNATURE", base64.StdEncoding.EncodeToString(signature))
	req.Header.Set("KALSHI-ACCESS-TIMESTAMP", ts)
	return nil
}

// checkStatus maps non-2xx HTTP status codes to appropriate errors.
func (c *Client) checkStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	var apiErr KalshiErrorResponse
	_ = json.Unmarshal(body, &apiErr)

	switch {
	case statusCode == http.StatusNotFound:
		return fmt.Errorf("kalshi: %s (%s): %w", apiErr.Message, apiErr.Code, domain.ErrNotFound)
	case statusCode == http.StatusUnauthorized, statusCode == http.StatusForbidden:
		return fmt.Errorf("kalshi: %s (%s): %w", apiErr.Message, apiErr.Code, domain.ErrUnauthorized)
	case statusCode == http.StatusTooManyRequests:
		return fmt.Errorf("kalshi: %s (%s): %w", apiErr.Message, apiErr.Code, domain.ErrRateLimited)
	case statusCode == http.StatusBadRequest:
		return fmt.Errorf("kalshi: bad request: %s (%s)", apiErr.Message, apiErr.Code)
	case statusCode >= 500:
		return fmt.Errorf("kalshi: HTTP %d: %s: %w", statusCode, apiErr.Message, errServer)
	default:
		return fmt.Errorf("kalshi: HTTP %d: %s (%s)", statusCode, apiErr.Message, apiErr.Code)
	}
}
