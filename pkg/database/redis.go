package database

import (
	"context"
	"fmt"
	"time"

	"coursehub_backend/internal/config"

	"github.com/go-redis/redis/v8"
)

// InitRedis connects and verifies the server is reachable before the
// client is handed out. Redis backs the upload progress tracker and the
// password-reset code store.
func InitRedis(cfg *config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     50,
		MinIdleConns: 5,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return rdb, nil
}
