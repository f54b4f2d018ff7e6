package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"musiclib/config"

	"github.com/go-redis/redis/v8"
)

// ConnectRedis creates a Redis client for cfg and checks it with PING.
func ConnectRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

// isMiss reports whether err is the go-redis "key does not exist" reply.
func isMiss(err error) bool {
	return errors.Is(err, redis.Nil)
}
