package cache

import (
	"context"
	"testing"

	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIdempotencyStore(t *testing.T) {
	ctx := context.Background()

	fallbacks := []struct {
		name string
		cfg  config.RedisConfig
	}{
		{"redis disabled", config.RedisConfig{}},
		{"enabled without client", config.RedisConfig{Enabled: true}},
	}
	for _, tc := range fallbacks {
		t.Run(tc.name, func(t *testing.T) {
			store, err := NewIdempotencyStore(ctx, tc.cfg, nil, false, nil)
			require.NoError(t, err)
			defer store.Close()
			assert.IsType(t, &InMemoryIdempotencyStore{}, store)
		})
	}

	t.Run("strict without client errors", func(t *testing.T) {
		_, err := NewIdempotencyStore(ctx, config.RedisConfig{Enabled: true}, nil, true, nil)
		assert.ErrorIs(t, err, errNoRedisClient)
	})

	t.Run("strict is ignored while redis is disabled", func(t *testing.T) {
		store, err := NewIdempotencyStore(ctx, config.RedisConfig{}, nil, true, nil)
		require.NoError(t, err)
		assert.NoError(t, store.Close())
	})
}
