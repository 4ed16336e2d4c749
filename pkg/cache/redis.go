package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/idea-observation-api/pkg/config"
)

// NewRedis returns a Redis client for the reference-data cache after a ping.
// It returns nil without error when caching is disabled so callers can wire a no-op cache.
func NewRedis(ctx context.Context, cfg config.RedisConfig, enabled bool) (*redis.Client, error) {
	if !enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}
