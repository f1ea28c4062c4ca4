package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var errNoRedisClient = errors.New("no redis client")

// NewIdempotencyStore returns a Redis store over client when Redis is enabled
// and answers a ping, and the in-memory store otherwise. With strict set an
// unreachable Redis is an error rather than a fallback. client may be nil.
func NewIdempotencyStore(ctx context.Context, cfg config.RedisConfig, client *redis.Client, strict bool, logger *zap.Logger) (shared.IdempotencyStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if !cfg.Enabled {
		logger.Info("Redis disabled, using in-memory idempotency store")
		return NewInMemoryIdempotencyStore(), nil
	}

	err := errNoRedisClient
	if client != nil {
		err = client.Ping(ctx).Err()
	}
	switch {
	case err == nil:
		logger.Info("Using Redis idempotency store", zap.String("addr", cfg.Addr()))
		return NewRedisIdempotencyStore(client, ""), nil
	case strict:
		return nil, fmt.Errorf("redis required for idempotency: %w", err)
	}

	logger.Warn("Redis unavailable, using in-memory idempotency store. "+
		"Receipts may be sent twice if several instances handle the same event.",
		zap.Error(err))
	return NewInMemoryIdempotencyStore(), nil
}
