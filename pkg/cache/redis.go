// Package cache holds the redis client constructor. The portal treats
// redis as an accelerator: callers decide whether a failed connection
// is fatal.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/campus360/portal-api/pkg/config"
)

const pingTimeout = 5 * time.Second

// NewRedis connects and verifies the connection with a bounded ping.
// On ping failure the client is closed and an error returned so the
// caller never holds a half-dead handle.
func NewRedis(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return client, nil
}
