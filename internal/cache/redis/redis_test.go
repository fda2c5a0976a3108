package redis

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
	"github.com/google/uuid"
)

// testClient connects to KALSHIEDGE_TEST_REDIS_ADDR under a throwaway prefix
// and skips when the variable is unset.
func testClient(t *testing.T) *Client {
	t.Helper()
	addr := os.Getenv("KALSHIEDGE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("KALSHIEDGE_TEST_REDIS_ADDR not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	c, err := New(ctx, ClientConfig{Addr: addr, Prefix: "kalshiedge-test:" + uuid.NewString() + ":"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() {
		keys, _ := c.rdb.Keys(context.Background(), c.prefix+"*").Result()
		if len(keys) > 0 {
			_ = c.rdb.Del(context.Background(), keys...).Err()
		}
		_ = c.Close()
	})
	return c
}

func TestKey(t *testing.T) {
	c := &Client{prefix: "p:"}
	if got := c.Key("odds", "basketball_nba"); got != "p:odds:basketball_nba" {
		t.Errorf("Key = %q", got)
	}
	if got := c.Key("x"); got != "p:x" {
		t.Errorf("Key = %q", got)
	}
}

func TestOddsCacheRoundTrip(t *testing.T) {
	c := testClient(t)
	ctx := context.Background()
	cache := NewOddsCache(c)

	if _, err := cache.GetEvents(ctx, "basketball_nba"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("GetEvents on empty cache = %v, want ErrNotFound", err)
	}

	events := []domain.RawEvent{{ID: "ev1", SportKey: "basketball_nba", HomeTeam: "Boston Celtics", AwayTeam: "Los Angeles Lakers"}}
	if err := cache.SetEvents(ctx, "basketball_nba", events, time.Minute); err != nil {
		t.Fatalf("SetEvents: %v", err)
	}
	got, err := cache.GetEvents(ctx, "basketball_nba")
	if err != nil {
		t.Fatalf("GetEvents: %v", err)
	}
	if len(got) != 1 || got[0].HomeTeam != "Boston Celtics" {
		t.Errorf("GetEvents = %+v", got)
	}

	if err := cache.Invalidate(ctx, "basketball_nba"); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}
	if _, err := cache.GetEvents(ctx, "basketball_nba"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("GetEvents after Invalidate = %v, want ErrNotFound", err)
	}
}

func TestRateLimiterAllow(t *testing.T) {
	c := testClient(t)
	ctx := context.Background()
	rl := NewRateLimiter(c, nil)

	for i := 0; i < 3; i++ {
		ok, err := rl.Allow(ctx, "k", 3, time.Minute)
		if err != nil || !ok {
			t.Fatalf("request %d: allowed=%v err=%v", i, ok, err)
		}
	}
	ok, err := rl.Allow(ctx, "k", 3, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("fourth request inside the window should be refused")
	}
}

func TestRateLimiterWaitHonoursContext(t *testing.T) {
	c := testClient(t)
	rl := NewRateLimiter(c, map[string]Limit{"slow": {Requests: 1, Window: time.Hour}})

	if err := rl.Wait(context.Background(), "slow"); err != nil {
		t.Fatalf("first Wait: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Millisecond)
	defer cancel()
	if err := rl.Wait(ctx, "slow"); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("second Wait = %v, want deadline exceeded", err)
	}
}

func TestOpportunityBus(t *testing.T) {
	c := testClient(t)
	ctx := context.Background()
	bus := NewOpportunityBus(c)

	opp := domain.ValueOpportunity{ID: "o1", Ticker: "KXNBAGAME-25JAN15LALBOS-BOS", NetEdge: 0.05}
	if err := bus.PublishOpportunity(ctx, opp); err != nil {
		t.Fatalf("PublishOpportunity: %v", err)
	}

	msgs, err := c.rdb.XRange(ctx, bus.stream, "-", "+").Result()
	if err != nil {
		t.Fatalf("XRange: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Values["ticker"] != opp.Ticker {
		t.Fatalf("stream = %+v", msgs)
	}
	payload, _ := msgs[0].Values["payload"].(string)
	var got domain.ValueOpportunity
	if err := json.Unmarshal([]byte(payload), &got); err != nil || got.ID != opp.ID {
		t.Errorf("payload = %q, %v", payload, err)
	}
}

func TestLockManager(t *testing.T) {
	c := testClient(t)
	ctx := context.Background()
	lm := NewLockManager(c)

	unlock, err := lm.Acquire(ctx, "scan", time.Minute)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	_, err = lm.Acquire(ctx, "scan", time.Minute)
	if !errors.Is(err, domain.ErrLockHeld) {
		t.Errorf("second Acquire = %v, want ErrLockHeld", err)
	} else if !strings.Contains(err.Error(), lm.owner) {
		t.Errorf("second Acquire = %v, want holder %q in message", err, lm.owner)
	}
	unlock()
	unlock()

	again, err := lm.Acquire(ctx, "scan", time.Minute)
	if err != nil {
		t.Fatalf("Acquire after unlock: %v", err)
	}
	again()
}
