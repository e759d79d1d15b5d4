package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/flightbooking/config"
	"github.com/redis/go-redis/v9"
)

// bookingBucket is a token bucket kept in one hash per client at
// "<prefix>:<client key>" with two fields: left (tokens still available) and
// refilled_at (ms timestamp of the last whole refill interval). Refills are
// applied lazily on the next call and one token is taken per allowed call.
// An idle key expires after ttl seconds.
// Replies {allowed, left, wait_ms}.
var bookingBucket = redis.NewScript(`
local now, size, step, every, ttl =
    tonumber(ARGV[1]), tonumber(ARGV[2]), tonumber(ARGV[3]), tonumber(ARGV[4]), tonumber(ARGV[5])

local left = tonumber(redis.call('HGET', KEYS[1], 'left'))
local refilled_at = tonumber(redis.call('HGET', KEYS[1], 'refilled_at'))
if not left or not refilled_at then
    left, refilled_at = size, now
end

if every > 0 and step > 0 and now > refilled_at then
    local n = math.floor((now - refilled_at) / every)
    left = math.min(size, left + n * step)
    refilled_at = refilled_at + n * every
end

local wait = 0
local ok = 0
if left >= 1 then
    ok, left = 1, left - 1
else
    wait = math.max(0, refilled_at + every - now)
end

redis.call('HSET', KEYS[1], 'left', left, 'refilled_at', refilled_at)
redis.call('EXPIRE', KEYS[1], ttl)
return { ok, left, wait }
`)

type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

type RateLimiter struct {
	client *redis.Client
	cfg    config.RateLimitConfig
	now    func() time.Time
}

func NewRateLimiter(client *redis.Client, cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{client: client, cfg: cfg, now: time.Now}
}

func (l *RateLimiter) Capacity() int {
	return l.cfg.Capacity
}

func (l *RateLimiter) bucketKey(key string) string {
	return strings.TrimSuffix(l.cfg.Prefix, ":") + ":" + key
}

// Allow takes a token from the bucket named by key.
func (l *RateLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	interval := l.cfg.RefillInterval()
	ttl := max(int64(interval/time.Second)*int64(max(l.cfg.Capacity, 1)), 60)

	vals, err := bookingBucket.Run(ctx, l.client, []string{l.bucketKey(key)},
		l.now().UnixMilli(), l.cfg.Capacity, l.cfg.RefillTokens, interval.Milliseconds(), ttl,
	).Int64Slice()
	if err != nil {
		return Decision{}, err
	}
	if len(vals) != 3 {
		return Decision{}, fmt.Errorf("unexpected rate limit reply %v", vals)
	}
	return Decision{
		Allowed:    vals[0] == 1,
		Remaining:  vals[1],
		RetryAfter: time.Duration(vals[2]) * time.Millisecond,
	}, nil
}
