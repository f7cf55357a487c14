package guard

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateKeyPrefix = "contact:ratelimit:" // contact:ratelimit:{client}

// The first hit of a window sets its expiry; a key that somehow lost its
// TTL gets a fresh one rather than blocking the client forever.
var fixedWindow = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
if n == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
  ttl = tonumber(ARGV[1])
end
return {n, ttl}
`)

// RedisLimiter shares counters between every instance pointed at the same Redis.
type RedisLimiter struct {
	client *redis.Client
	limit  int
	period time.Duration
}

func NewRedisLimiter(client *redis.Client, limit int, period time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, limit: limit, period: period}
}

func (r *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	res, err := fixedWindow.Run(ctx, r.client, []string{rateKeyPrefix + key}, r.period.Milliseconds()).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("rate limit counter: %w", err)
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("rate limit counter: unexpected reply %v", res)
	}

	now := time.Now()
	resetAt := now.Add(time.Duration(res[1]) * time.Millisecond)
	return decide(int(res[0]), r.limit, resetAt, now), nil
}
