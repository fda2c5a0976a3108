package oddsapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
)

const oddsBody = `[{
	"id": "ev1",
	"sport_key": "basketball_nba",
	"sport_title": "NBA",
	"commence_time": "2025-01-15T00:10:00Z",
	"home_team": "Boston Celtics",
	"away_team": "Los Angeles Lakers",
	"bookmakers": [{
		"key": "draftkings",
		"title": "DraftKings",
		"markets": [{"key": "h2h", "outcomes": [
			{"name": "Boston Celtics", "price": -150},
			{"name": "Los Angeles Lakers", "price": 130}
		]}]
	}]
}]`

func newTestClient(t *testing.T, url string, opts ...Option) *Client {
	t.Helper()
	opts = append([]Option{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithRetries(3, time.Millisecond),
	}, opts...)
	c, err := NewClient(url, "secret", opts...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("", ""); err == nil {
		t.Error("NewClient should reject an empty api key")
	}
	c, err := NewClient("", "k")
	if err != nil {
		t.Fatal(err)
	}
	if c.baseURL != DefaultBaseURL || c.regions != DefaultRegions {
		t.Errorf("defaults = %q/%q", c.baseURL, c.regions)
	}
	if c.Quota().Known() {
		t.Error("quota should be unknown before the first request")
	}
}

func TestGetH2HOdds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/sports/basketball_nba/odds" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		want := map[string]string{"regions": "us", "markets": "h2h", "oddsFormat": "american", "apiKey": "secret"}
		for k, v := range want {
			if q.Get(k) != v {
				t.Errorf("query %s = %q, want %q", k, q.Get(k), v)
			}
		}
		w.Header().Set("x-requests-remaining", "487")
		w.Header().Set("x-requests-used", "13")
		_, _ = w.Write([]byte(oddsBody))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	events, err := c.GetH2HOdds(context.Background(), "basketball_nba", "")
	if err != nil {
		t.Fatalf("GetH2HOdds error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	ev := events[0]
	if ev.HomeTeam != "Boston Celtics" || ev.Sport() != "nba" {
		t.Errorf("event = %+v", ev)
	}
	h2h, ok := ev.Bookmakers[0].H2H()
	if !ok {
		t.Fatal("missing h2h market")
	}
	if p, _ := h2h.Price("Los Angeles Lakers"); p != 130 {
		t.Errorf("away price = %v, want 130", p)
	}

	q := c.Quota()
	if q.Remaining != 487 || q.Used != 13 {
		t.Errorf("quota = %+v, want 487/13", q)
	}
}

func TestUnauthorized(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).GetH2HOdds(context.Background(), "basketball_nba", "us")
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("error = %v, want ErrUnauthorized", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

func TestRateLimitedThenOK(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	events, err := newTestClient(t, srv.URL).GetH2HOdds(context.Background(), "icehockey_nhl", "us")
	if err != nil {
		t.Fatalf("GetH2HOdds error = %v", err)
	}
	if len(events) != 0 || calls.Load() != 2 {
		t.Errorf("events = %d, calls = %d", len(events), calls.Load())
	}
}

func TestQuotaExhaustedIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("x-requests-remaining", "0")
		w.Header().Set("x-requests-used", "500")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).GetH2HOdds(context.Background(), "baseball_mlb", "us")
	if !errors.Is(err, domain.ErrQuotaExhausted) {
		t.Errorf("error = %v, want ErrQuotaExhausted", err)
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}

type memCache struct {
	mu     sync.Mutex
	events map[string][]domain.RawEvent
	sets   int
}

func (m *memCache) SetEvents(_ context.Context, key string, events []domain.RawEvent, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.events == nil {
		m.events = make(map[string][]domain.RawEvent)
	}
	m.events[key] = events
	m.sets++
	return nil
}

func (m *memCache) GetEvents(_ context.Context, key string) ([]domain.RawEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev, ok := m.events[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return ev, nil
}

func (m *memCache) Invalidate(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.events, key)
	return nil
}

func TestFetchH2HUsesCache(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(oddsBody))
	}))
	defer srv.Close()

	cache := &memCache{}
	c := newTestClient(t, srv.URL, WithCache(cache, time.Minute))

	for i := 0; i < 3; i++ {
		events, err := c.FetchH2H(context.Background(), "basketball_nba")
		if err != nil {
			t.Fatalf("FetchH2H error = %v", err)
		}
		if len(events) != 1 {
			t.Fatalf("len(events) = %d, want 1", len(events))
		}
	}
	if calls.Load() != 1 {
		t.Errorf("network calls = %d, want 1", calls.Load())
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d, want 1", cache.sets)
	}
}
