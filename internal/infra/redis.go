package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the go-redis client with health checking.
type RedisClient struct {
	*redis.Client
}

// NewRedisClient connects to url. It returns nil, nil when url is empty so
// callers can treat Redis as optional.
func NewRedisClient(ctx context.Context, url string) (*RedisClient, error) {
	if url == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 3 * time.Second
	opts.ReadTimeout = time.Second
	opts.WriteTimeout = time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisClient{Client: client}, nil
}

// Health pings the server.
func (c *RedisClient) Health(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.Ping(ctx).Err()
}
