package kalshi

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(url string, opts ...Option) *Client {
	opts = append([]Option{WithLogger(quietLogger()), WithRetries(3, time.Millisecond)}, opts...)
	return NewClient(url, "test-key", opts...)
}

func TestNewClient(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		c := NewClient("", "k")
		if c.baseURL != DefaultBaseURL {
			t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
		}
		if c.httpClient.Timeout != 30*time.Second {
			t.Errorf("Timeout = %v, want %v", c.httpClient.Timeout, 30*time.Second)
		}
		if c.maxRetries != 3 || c.retryBackoff != time.Second {
			t.Errorf("retries = %d/%v, want 3/1s", c.maxRetries, c.retryBackoff)
		}
	})

	t.Run("options", func(t *testing.T) {
		c := NewClient("https://example.com/", "", WithTimeout(5*time.Second), WithRetries(5, 2*time.Second), WithMaxPages(2))
		if c.baseURL != "https://example.com" {
			t.Errorf("baseURL = %q, want trailing slash trimmed", c.baseURL)
		}
		if c.httpClient.Timeout != 5*time.Second {
			t.Errorf("Timeout = %v, want 5s", c.httpClient.Timeout)
		}
		if c.maxRetries != 5 || c.retryBackoff != 2*time.Second || c.maxPages != 2 {
			t.Errorf("got %d/%v/%d", c.maxRetries, c.retryBackoff, c.maxPages)
		}
	})
}

func TestGetMarketsQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/markets" {
			t.Errorf("path = %q, want /markets", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("status") != "open" || q.Get("series_ticker") != "KXNBAGAME" || q.Get("limit") != "200" {
			t.Errorf("unexpected query %v", q)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		_ = json.NewEncoder(w).Encode(KalshiMarketsResponse{
			Markets: []KalshiMarket{{Ticker: "KXNBAGAME-25JAN15LALBOS-LAL", YesAsk: 42}},
		})
	}))
	defer srv.Close()

	resp, err := newTestClient(srv.URL).GetMarkets(context.Background(), MarketsQuery{
		Status: "open", SeriesTicker: "KXNBAGAME", Limit: 200,
	})
	if err != nil {
		t.Fatalf("GetMarkets error = %v", err)
	}
	if len(resp.Markets) != 1 || resp.Markets[0].YesAsk != 42 {
		t.Errorf("markets = %+v", resp.Markets)
	}
}

func TestRetryOnRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(KalshiMarketsResponse{})
	}))
	defer srv.Close()

	if _, err := newTestClient(srv.URL).GetMarkets(context.Background(), MarketsQuery{}); err != nil {
		t.Fatalf("GetMarkets error = %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestRateLimitExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetMarkets(context.Background(), MarketsQuery{})
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Errorf("error = %v, want ErrRateLimited", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestNoRetryOnClientError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"unauthorized","message":"bad key"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetMarkets(context.Background(), MarketsQuery{})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestFetchGameWinnerListings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch q.Get("series_ticker") {
		case "KXNBAGAME":
			if q.Get("cursor") == "" {
				_ = json.NewEncoder(w).Encode(KalshiMarketsResponse{
					Markets: []KalshiMarket{{Ticker: "KXNBAGAME-25JAN15LALBOS-LAL", Title: "LAL @ BOS", YesAsk: 41}},
					Cursor:  "page2",
				})
				return
			}
			_ = json.NewEncoder(w).Encode(KalshiMarketsResponse{
				Markets: []KalshiMarket{{Ticker: "KXNBAGAME-25JAN15LALBOS-BOS", Title: "LAL @ BOS", YesAsk: 60}},
			})
		case "KXNHLGAME":
			w.WriteHeader(http.StatusBadRequest)
		default:
			t.Errorf("unexpected series %q", q.Get("series_ticker"))
		}
	}))
	defer srv.Close()

	listings, err := newTestClient(srv.URL).FetchGameWinnerListings(context.Background(), []string{"NBA", "nhl", "cricket"})
	if err != nil {
		t.Fatalf("FetchGameWinnerListings error = %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("len(listings) = %d, want 2", len(listings))
	}
	first := listings[0]
	if first.Sport != "nba" || first.GameID != "25JAN15LALBOS" || first.TeamCode != "LAL" || first.YesAsk != 41 {
		t.Errorf("listing = %+v", first)
	}
	if listings[1].TeamCode != "BOS" {
		t.Errorf("second page listing = %+v", listings[1])
	}
}

func TestFetchGameWinnerListingsUnauthorized(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"code":"unauthorized","message":"bad key"}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).FetchGameWinnerListings(context.Background(), []string{"nfl", "nba"})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestSignedRequest(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatal(err)
	}
	pemBytes := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, h := range []string{"KALSHI-ACCESS-KEY", "KALSHI-ACCESS-SIGNATURE", "KALSHI-ACCESS-TIMESTAMP"} {
			if r.Header.Get(h) == "" {
				t.Errorf("missing header %s", h)
			}
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("signed requests must not carry a bearer token")
		}
		_ = json.NewEncoder(w).Encode(KalshiMarketsResponse{})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if err := c.SetRSAPrivateKey(pemBytes); err != nil {
		t.Fatalf("SetRSAPrivateKey error = %v", err)
	}
	if _, err := c.GetMarkets(context.Background(), MarketsQuery{}); err != nil {
		t.Fatalf("GetMarkets error = %v", err)
	}

	if err := c.SetRSAPrivateKey([]byte("not a pem")); err == nil {
		t.Error("SetRSAPrivateKey should reject non-PEM input")
	}
}
