package domain

import (
	"context"
	"time"
)

// OddsCache keeps the last odds snapshot per sport so repeated scans inside
// the TTL do not spend request quota.
type OddsCache interface {
	SetEvents(ctx context.Context, sportKey string, events []RawEvent, ttl time.Duration) error
	GetEvents(ctx context.Context, sportKey string) ([]RawEvent, error)
	Invalidate(ctx context.Context, sportKey string) error
}

// RateLimiter provides distributed rate limiting.
type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	Wait(ctx context.Context, key string) error
}

// OpportunityBus fans emitted opportunities out to downstream consumers.
type OpportunityBus interface {
	PublishOpportunity(ctx context.Context, opp ValueOpportunity) error
}

// LockManager provides distributed mutual exclusion.
type LockManager interface {
	// Acquire returns an unlock func, or ErrLockHeld if another holder has
	// the key.
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error)
}
