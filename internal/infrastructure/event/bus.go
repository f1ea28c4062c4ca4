package event

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

var _ shared.EventBus = (*InMemoryEventBus)(nil)

// NamedHandler is implemented by handlers that want a stable name in logs
// and idempotency keys
type NamedHandler interface {
	Name() string
}

func handlerName(h shared.EventHandler) string {
	if n, ok := h.(NamedHandler); ok {
		return n.Name()
	}
	return fmt.Sprintf("%T", h)
}

// InMemoryEventBus delivers events to its subscribers in the publishing
// goroutine, in subscription order.
type InMemoryEventBus struct {
	subs     subscriptions
	inflight sync.WaitGroup
	logger   *zap.Logger
}

func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{logger: logger.Named("eventbus")}
}

// Publish hands every event to every matching handler, even after one fails.
// Failures come back joined, each prefixed with the handler name.
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	b.inflight.Add(1)
	defer b.inflight.Done()

	var errs []error
	for _, ev := range events {
		for _, h := range b.subs.matching(ev.EventType()) {
			err := b.deliver(ctx, h, ev)
			if err == nil {
				continue
			}
			name := handlerName(h)
			b.logger.Error("Event handler failed",
				zap.String("handler", name),
				zap.String("event_type", ev.EventType()),
				zap.Stringer("event_id", ev.EventID()),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Subscribe adds handler for eventTypes, or for its own EventTypes when none
// are given
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.subs.add(handler, eventTypes...)
	b.logger.Debug("Handler subscribed",
		zap.String("handler", handlerName(handler)),
		zap.Strings("event_types", eventTypes))
}

func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.subs.remove(handler)
}

func (b *InMemoryEventBus) Start(context.Context) error {
	b.logger.Info("Event bus started", zap.Int("handlers", b.subs.len()))
	return nil
}

// Stop waits for running publishes until ctx ends
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	idle := make(chan struct{})
	go func() {
		b.inflight.Wait()
		close(idle)
	}()

	select {
	case <-idle:
		b.logger.Info("Event bus stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// deliver runs one handler and turns a panic into an error
func (b *InMemoryEventBus) deliver(ctx context.Context, h shared.EventHandler, ev shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Event handler panicked",
				zap.String("handler", handlerName(h)),
				zap.Any("panic", r))
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h.Handle(ctx, ev)
}
