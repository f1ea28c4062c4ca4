package event

import (
	"context"
	"sync/atomic"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// DeliveryCounts tallies what an IdempotentHandler did with each delivery.
// One value may be shared by several handlers.
type DeliveryCounts struct {
	handled   atomic.Int64
	duplicate atomic.Int64
	failed    atomic.Int64
}

// DeliveryStats is a point-in-time copy of DeliveryCounts
type DeliveryStats struct {
	Handled   int64 `json:"handled"`
	Duplicate int64 `json:"duplicate"`
	Failed    int64 `json:"failed"`
}

func (c *DeliveryCounts) Snapshot() DeliveryStats {
	return DeliveryStats{
		Handled:   c.handled.Load(),
		Duplicate: c.duplicate.Load(),
		Failed:    c.failed.Load(),
	}
}

// IdempotentHandler runs the wrapped handler at most once per event even
// when the outbox redelivers it. Keys are "<handler name>:<event id>", so a
// receipt that failed is retried without the staff notification going out
// a second time.
type IdempotentHandler struct {
	next   shared.EventHandler
	name   string
	store  shared.IdempotencyStore
	config shared.IdempotencyConfig
	counts *DeliveryCounts
	logger *zap.Logger
}

var (
	_ shared.EventHandler = (*IdempotentHandler)(nil)
	_ NamedHandler        = (*IdempotentHandler)(nil)
)

type IdempotentOption func(*IdempotentHandler)

// WithHandlerName replaces the type-derived name used in keys
func WithHandlerName(name string) IdempotentOption {
	return func(h *IdempotentHandler) { h.name = name }
}

// WithDeliveryCounts records into counts instead of a private tally
func WithDeliveryCounts(counts *DeliveryCounts) IdempotentOption {
	return func(h *IdempotentHandler) { h.counts = counts }
}

func NewIdempotentHandler(
	next shared.EventHandler,
	store shared.IdempotencyStore,
	config shared.IdempotencyConfig,
	logger *zap.Logger,
	opts ...IdempotentOption,
) *IdempotentHandler {
	if config.TTL <= 0 {
		config.TTL = shared.DefaultIdempotencyConfig().TTL
	}
	h := &IdempotentHandler{
		next:   next,
		name:   handlerName(next),
		store:  store,
		config: config,
		counts: &DeliveryCounts{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *IdempotentHandler) Name() string { return h.name }

func (h *IdempotentHandler) EventTypes() []string { return h.next.EventTypes() }

func (h *IdempotentHandler) Counts() *DeliveryCounts { return h.counts }

func (h *IdempotentHandler) Key(event shared.DomainEvent) string {
	return h.name + ":" + event.EventID().String()
}

func (h *IdempotentHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if !h.config.Enabled {
		return h.next.Handle(ctx, event)
	}

	key := h.Key(event)
	log := h.logger.With(
		zap.String("handler", h.name),
		zap.Stringer("event_id", event.EventID()),
		zap.String("event_type", event.EventType()),
	)

	claimed, err := h.store.MarkProcessed(ctx, key, h.config.TTL)
	switch {
	case err != nil:
		// an unreachable store must not swallow the event
		claimed = false
		log.Warn("idempotency check failed, handling anyway", zap.Error(err))
	case !claimed:
		h.counts.duplicate.Add(1)
		log.Debug("duplicate delivery skipped")
		return nil
	}

	if err := h.next.Handle(ctx, event); err != nil {
		h.counts.failed.Add(1)
		log.Error("event handler failed", zap.Error(err))
		if claimed {
			// hand the key back so the next delivery runs the handler again
			if relErr := h.store.Release(context.WithoutCancel(ctx), key); relErr != nil {
				log.Warn("failed to release idempotency key", zap.Error(relErr))
			}
		}
		return err
	}

	h.counts.handled.Add(1)
	log.Debug("event handled")
	return nil
}
