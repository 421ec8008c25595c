package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// rateLimitSignupPrefix is the Redis key prefix for per-IP signup windows.
const rateLimitSignupPrefix = "ratelimit:signup:"

// slidingWindowScript keeps one sorted-set member per accepted request,
// scored by its time in milliseconds. Rejected requests are not added.
var slidingWindowScript = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])     -- current time in ms
	local window = tonumber(ARGV[2])  -- window in ms
	local limit = tonumber(ARGV[3])
	local member = ARGV[4]

	redis.call('ZREMRANGEBYSCORE', key, '-inf', '(' .. (now - window))

	local count = redis.call('ZCARD', key)
	if count >= limit then
		return 0
	end

	redis.call('ZADD', key, now, member)
	redis.call('PEXPIRE', key, window + 1)
	return 1
`)

// SlidingWindow is a ratelimit.Limiter whose state lives in Redis, so every
// instance behind a load balancer shares the same counts.
type SlidingWindow struct {
	cache  *Cache
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewSlidingWindow creates a Redis-backed sliding window limiter.
func (c *Cache) NewSlidingWindow(limit int, window time.Duration) *SlidingWindow {
	return &SlidingWindow{
		cache:  c,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

// Allow records the request and reports whether it fits in the window.
func (s *SlidingWindow) Allow(ctx context.Context, key string) (bool, error) {
	res, err := slidingWindowScript.Run(ctx, s.cache.client,
		[]string{signupKey(key)},
		s.now().UnixMilli(),
		s.window.Milliseconds(),
		s.limit,
		uuid.NewString(),
	).Int64()
	if err != nil {
		return false, fmt.Errorf("sliding window script: %w", err)
	}

	return res == 1, nil
}

// Ping checks Redis connectivity.
func (s *SlidingWindow) Ping(ctx context.Context) error {
	return s.cache.Ping(ctx)
}

// signupKey returns the sorted-set key holding ip's window.
func signupKey(ip string) string {
	return rateLimitSignupPrefix + hashIP(ip)
}

// hashIP creates a truncated SHA256 hash of an IP address.
// This provides privacy while maintaining uniqueness.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8]) // 16 hex chars
}
