package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers which units of work already ran. A key is held
// from a successful MarkProcessed until its ttl lapses or it is released.
type IdempotencyStore interface {
	// MarkProcessed claims key for ttl and reports whether this call got it
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)
	IsProcessed(ctx context.Context, key string) (bool, error)
	// Release gives up a claim so the work can run again
	Release(ctx context.Context, key string) error
	Close() error
}

type IdempotencyConfig struct {
	Enabled bool
	// TTL bounds how long a delivered event is remembered
	TTL time.Duration
}

func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{Enabled: true, TTL: 24 * time.Hour}
}
