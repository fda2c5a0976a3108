package redis

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
	"github.com/redis/go-redis/v9"
)

//go:embed scripts/sliding_window.lua
var slidingWindowLua string

const waitPollInterval = 50 * time.Millisecond

// Limit is a request budget over a sliding window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// DefaultLimit applies to keys without an explicit Limit.
var DefaultLimit = Limit{Requests: 10, Window: time.Second}

// RateLimiter implements domain.RateLimiter using a sliding-window approach
// backed by Redis sorted sets and an atomic Lua script. The window is shared
// by every process pointed at the same Redis, so parallel scanners draw from
// one upstream budget.
type RateLimiter struct {
	c             *Client
	slidingWindow *redis.Script
	limits        map[string]Limit
}

// NewRateLimiter creates a RateLimiter. limits maps a bucket key to the
// budget Wait enforces for it.
func NewRateLimiter(c *Client, limits map[string]Limit) *RateLimiter {
	l := make(map[string]Limit, len(limits))
	for k, v := range limits {
		l[k] = v
	}
	return &RateLimiter{
		c:             c,
		slidingWindow: redis.NewScript(slidingWindowLua),
		limits:        l,
	}
}

// Allow checks whether a request for the given key is permitted under the
// sliding window rate limit. An allowed request is counted.
func (rl *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now().UnixMicro()

	result, err := rl.slidingWindow.Run(
		ctx,
		rl.c.rdb,
		[]string{rl.c.Key("ratelimit", key)},
		now,
		window.Microseconds(),
		limit,
	).Int64Slice()
	if err != nil {
		return false, fmt.Errorf("redis: rate limit allow %s: %w", key, err)
	}
	if len(result) < 2 {
		return false, fmt.Errorf("redis: rate limit allow %s: unexpected result length %d", key, len(result))
	}
	return result[0] == 1, nil
}

// Wait blocks until the key's configured budget admits a request.
func (rl *RateLimiter) Wait(ctx context.Context, key string) error {
	lim, ok := rl.limits[key]
	if !ok {
		lim = DefaultLimit
	}
	for {
		allowed, err := rl.Allow(ctx, key, lim.Requests, lim.Window)
		if err != nil {
			return err
		}
		if allowed {
			return nil
		}

		timer := time.NewTimer(waitPollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("redis: rate limit wait %s: %w", key, ctx.Err())
		case <-timer.C:
		}
	}
}

// Compile-time interface check.
var _ domain.RateLimiter = (*RateLimiter)(nil)
