package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/alanyoungcy/kalshiedge/internal/domain"
)

// releaseLua deletes the lock only while it still holds the caller's value,
// so a scan that outlived its TTL cannot drop a lock another process now owns.
const releaseLua = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
    return redis.call('DEL', KEYS[1])
end
return 0
`

// releaseTimeout bounds the release call, which runs on a fresh context.
const releaseTimeout = 5 * time.Second

// LockManager implements domain.LockManager with SET NX PX. The stored value
// names the holder ("host/pid/token") so a skipped scan can report who is
// running instead.
type LockManager struct {
	c       *Client
	release *redis.Script
	owner   string
}

// NewLockManager creates a LockManager backed by the given Client.
func NewLockManager(c *Client) *LockManager {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return &LockManager{
		c:       c,
		release: redis.NewScript(releaseLua),
		owner:   fmt.Sprintf("%s/%d", host, os.Getpid()),
	}
}

// Acquire takes key for ttl. It returns an error wrapping domain.ErrLockHeld,
// and naming the current holder, when another process has the key. The
// returned release func is idempotent.
func (lm *LockManager) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	lk := lm.c.Key("lock", key)
	value := lm.owner + "/" + uuid.NewString()

	err := lm.c.rdb.SetArgs(ctx, lk, value, redis.SetArgs{Mode: "NX", TTL: ttl}).Err()
	switch {
	case errors.Is(err, redis.Nil):
		holder, _ := lm.c.rdb.Get(ctx, lk).Result()
		if holder == "" {
			return nil, domain.ErrLockHeld
		}
		return nil, fmt.Errorf("%w by %s", domain.ErrLockHeld, holder)
	case err != nil:
		return nil, fmt.Errorf("redis: acquire lock %s: %w", key, err)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			rctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
			defer cancel()
			_ = lm.release.Run(rctx, lm.c.rdb, []string{lk}, value).Err()
		})
	}, nil
}

var _ domain.LockManager = (*LockManager)(nil)
