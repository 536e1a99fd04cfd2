package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RateLimitStore counts requests per identifier in fixed windows shared by
// every API instance. It satisfies echo's middleware.RateLimiterStore.
// Key format: ratelimit:<policy>:<identifier>:<window_index>
type RateLimitStore struct {
	client *redis.Client
	policy string
	limit  int64
	window time.Duration
	now    func() time.Time
}

// NewRateLimitStore allows limit requests per identifier in each window.
func NewRateLimitStore(client *redis.Client, policy string, limit int, window time.Duration) *RateLimitStore {
	return &RateLimitStore{
		client: client,
		policy: policy,
		limit:  int64(limit),
		window: window,
		now:    time.Now,
	}
}

// Allow increments the identifier's counter for the current window and reports
// whether it is still within the limit.
func (s *RateLimitStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	key := s.key(identifier)
	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, s.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("rate limit %s: %w", s.policy, err)
	}
	return incr.Val() <= s.limit, nil
}

func (s *RateLimitStore) key(identifier string) string {
	return fmt.Sprintf("ratelimit:%s:%s:%d", s.policy, identifier, s.now().UnixNano()/int64(s.window))
}
