package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/joy095/taxibooking/logger"
	"github.com/redis/go-redis/v9"
)

var ErrNoRedisURL = errors.New("REDIS_URL is not set")

// NewClient connects to redisURL and pings it so a bad URL fails at startup
// rather than on the first booking.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	if redisURL == "" {
		return nil, ErrNoRedisURL
	}

	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.InfoLogger.Infof("Connected to Redis at %s", opt.Addr)
	return client, nil
}

// Close closes client, logging rather than returning the error.
func Close(client *redis.Client) {
	if client == nil {
		return
	}
	if err := client.Close(); err != nil {
		logger.ErrorLogger.Errorf("Error closing Redis connection: %v", err)
		return
	}
	logger.InfoLogger.Info("Redis connection closed")
}
