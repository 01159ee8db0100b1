package database

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/redmonkez12/taskboard/internal/config"
)

// OpenRedis initializes the Redis connection and returns a Redis client
func OpenRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}
