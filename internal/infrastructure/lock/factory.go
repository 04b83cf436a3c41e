package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/hpfin/backend/internal/domain/shared"
	"github.com/hpfin/backend/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewLocker returns a Redis backed locker when Redis is configured and an in-process one otherwise.
// The returned close func releases the Redis client.
func NewLocker(cfg config.RedisConfig, logger *zap.Logger) (shared.Locker, func() error, error) {
	if cfg.Host == "" {
		logger.Warn("Redis not configured, using in-process locks")
		return NewMemoryLocker(), func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Using Redis locks", zap.String("addr", cfg.Addr()))
	return NewRedisLocker(client, ""), client.Close, nil
}
