package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
	"github.com/redis/go-redis/v9"
)

// OddsCache implements domain.OddsCache with one JSON snapshot per sport key.
//
// Key schema:
//
//	{prefix}odds:{sportKey} - hash with fields "data" (JSON events) and
//	                          "fetched_at" (RFC3339)
type OddsCache struct {
	c *Client
}

// NewOddsCache creates an OddsCache backed by the given Client.
func NewOddsCache(c *Client) *OddsCache {
	return &OddsCache{c: c}
}

func (oc *OddsCache) key(sportKey string) string { return oc.c.Key("odds", sportKey) }

// SetEvents stores the snapshot for sportKey. A non-positive ttl is a no-op.
func (oc *OddsCache) SetEvents(ctx context.Context, sportKey string, events []domain.RawEvent, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(events)
	if err != nil {
		return fmt.Errorf("redis: marshal odds %s: %w", sportKey, err)
	}

	key := oc.key(sportKey)
	pipe := oc.c.rdb.TxPipeline()
	pipe.HSet(ctx, key, "data", data, "fetched_at", time.Now().UTC().Format(time.RFC3339))
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: set odds %s: %w", sportKey, err)
	}
	return nil
}

// GetEvents returns the cached snapshot, or domain.ErrNotFound once the TTL
// has lapsed.
func (oc *OddsCache) GetEvents(ctx context.Context, sportKey string) ([]domain.RawEvent, error) {
	data, err := oc.c.rdb.HGet(ctx, oc.key(sportKey), "data").Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("redis: get odds %s: %w", sportKey, err)
	}

	var events []domain.RawEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("redis: unmarshal odds %s: %w", sportKey, err)
	}
	return events, nil
}

// Invalidate drops the snapshot for sportKey.
func (oc *OddsCache) Invalidate(ctx context.Context, sportKey string) error {
	if err := oc.c.rdb.Del(ctx, oc.key(sportKey)).Err(); err != nil {
		return fmt.Errorf("redis: invalidate odds %s: %w", sportKey, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.OddsCache = (*OddsCache)(nil)
