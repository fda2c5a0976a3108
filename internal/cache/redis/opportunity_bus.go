package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
	"github.com/redis/go-redis/v9"
)

// streamMaxLen is the approximate maximum length of the opportunity stream,
// enforced via XADD MAXLEN ~.
const streamMaxLen int64 = 10000

// OpportunityBus implements domain.OpportunityBus. Every opportunity is
// appended to a capped stream for durable consumers and published on a
// Pub/Sub channel for live ones.
type OpportunityBus struct {
	c       *Client
	stream  string
	channel string
}

// NewOpportunityBus creates an OpportunityBus backed by the given Client.
func NewOpportunityBus(c *Client) *OpportunityBus {
	return &OpportunityBus{
		c:       c,
		stream:  c.Key("stream", "opportunities"),
		channel: c.Key("opportunities"),
	}
}

// PublishOpportunity appends opp to the stream and notifies subscribers.
func (b *OpportunityBus) PublishOpportunity(ctx context.Context, opp domain.ValueOpportunity) error {
	payload, err := json.Marshal(opp)
	if err != nil {
		return fmt.Errorf("redis: marshal opportunity %s: %w", opp.ID, err)
	}

	pipe := b.c.rdb.Pipeline()
	pipe.XAdd(ctx, &redis.XAddArgs{
		Stream: b.stream,
		MaxLen: streamMaxLen,
		Approx: true,
		Values: map[string]interface{}{
			"ticker":  opp.Ticker,
			"payload": payload,
		},
	})
	pipe.Publish(ctx, b.channel, payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: publish opportunity %s: %w", opp.ID, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.OpportunityBus = (*OpportunityBus)(nil)
