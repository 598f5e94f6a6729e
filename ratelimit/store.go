package ratelimit

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
)

// StoreLimiter admits requests using a ulule/limiter store. The store keeps
// the same fixed window semantics as Window, so swapping one for the other
// does not change who gets throttled.
type StoreLimiter struct {
	limiter *limiter.Limiter
}

// NewStoreLimiter wraps store with rate.
func NewStoreLimiter(store limiter.Store, rate limiter.Rate) *StoreLimiter {
	return &StoreLimiter{limiter: limiter.New(store, rate)}
}

// NewRedisLimiter builds a StoreLimiter shared by every instance pointing at
// the same Redis. Keys are prefixed with prefix.
func NewRedisLimiter(rdb *redis.Client, prefix string, rate limiter.Rate) (*StoreLimiter, error) {
	store, err := redisstore.NewStoreWithOptions(rdb, limiter.StoreOptions{
		Prefix:   fmt.Sprintf("rate_limiter:%s", prefix),
		MaxRetry: 3,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis store for %s: %w", prefix, err)
	}
	return NewStoreLimiter(store, rate), nil
}

// Admit implements Limiter.
func (s *StoreLimiter) Admit(ctx context.Context, key string) (bool, error) {
	lctx, err := s.limiter.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("rate limit store: %w", err)
	}
	return !lctx.Reached, nil
}
