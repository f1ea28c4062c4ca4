package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Requires a reachable Redis at LEGAL_TEST_REDIS_HOST (port 6379)
func TestRedisIdempotencyStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping Redis test in short mode")
	}
	host := os.Getenv("LEGAL_TEST_REDIS_HOST")
	if host == "" {
		t.Skip("LEGAL_TEST_REDIS_HOST not set")
	}

	ctx := context.Background()
	client, err := NewRedisClient(ctx, config.RedisConfig{Host: host, Port: 6379})
	require.NoError(t, err)
	defer client.Close()

	store := NewRedisIdempotencyStore(client, "test:idempotency:")
	key := "receipt:" + uuid.NewString()

	isNew, err := store.MarkProcessed(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.True(t, isNew)

	isNew, err = store.MarkProcessed(ctx, key, time.Minute)
	require.NoError(t, err)
	assert.False(t, isNew)

	processed, err := store.IsProcessed(ctx, key)
	require.NoError(t, err)
	assert.True(t, processed)

	require.NoError(t, store.Release(ctx, key))
	processed, err = store.IsProcessed(ctx, key)
	require.NoError(t, err)
	assert.False(t, processed)
}
