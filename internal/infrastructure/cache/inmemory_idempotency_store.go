package cache

import (
	"context"
	"sync"
	"time"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
)

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)

const sweepInterval = 5 * time.Minute

// InMemoryIdempotencyStore keeps claims in a map with per-key expiry. Claims
// are only visible to this process.
type InMemoryIdempotencyStore struct {
	mu     sync.RWMutex
	claims map[string]time.Time
	now    func() time.Time

	done     chan struct{}
	swept    chan struct{}
	stopOnce sync.Once
}

// NewInMemoryIdempotencyStore starts a sweeper that drops lapsed claims until
// Close is called.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	s := &InMemoryIdempotencyStore{
		claims: make(map[string]time.Time),
		now:    time.Now,
		done:   make(chan struct{}),
		swept:  make(chan struct{}),
	}
	go s.sweepLoop()
	return s
}

func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, key string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if s.live(key, now) {
		return false, nil
	}
	s.claims[key] = now.Add(ttl)
	return true, nil
}

func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.live(key, s.now()), nil
}

func (s *InMemoryIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.claims, key)
	s.mu.Unlock()
	return nil
}

// Close stops the sweeper. Later calls are no-ops.
func (s *InMemoryIdempotencyStore) Close() error {
	s.stopOnce.Do(func() {
		close(s.done)
		<-s.swept
	})
	return nil
}

// Size counts held claims, lapsed ones not yet swept included
func (s *InMemoryIdempotencyStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.claims)
}

// live must be called with mu held
func (s *InMemoryIdempotencyStore) live(key string, now time.Time) bool {
	until, ok := s.claims[key]
	return ok && now.Before(until)
}

func (s *InMemoryIdempotencyStore) sweepLoop() {
	defer close(s.swept)

	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *InMemoryIdempotencyStore) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key := range s.claims {
		if !s.live(key, now) {
			delete(s.claims, key)
		}
	}
}
