package event

import (
	"context"
	"fmt"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"gorm.io/gorm"
)

// OutboxPublisher turns domain events into outbox rows written on the
// caller's transaction, so they commit or roll back with the aggregate.
type OutboxPublisher struct {
	serializer *EventSerializer
}

var _ shared.OutboxEventSaver = (*OutboxPublisher)(nil)

func NewOutboxPublisher(serializer *EventSerializer) *OutboxPublisher {
	return &OutboxPublisher{serializer: serializer}
}

// SaveEvents stores events through tx, which must be a *gorm.DB. An event
// whose type the serializer cannot decode later is refused up front.
func (p *OutboxPublisher) SaveEvents(ctx context.Context, tx any, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	db, ok := tx.(*gorm.DB)
	if !ok {
		return fmt.Errorf("outbox: tx must be a *gorm.DB, got %T", tx)
	}

	entries, err := p.entries(events)
	if err != nil {
		return err
	}
	return NewGormOutboxRepository(db).Save(ctx, entries...)
}

func (p *OutboxPublisher) entries(events []shared.DomainEvent) ([]*shared.OutboxEntry, error) {
	out := make([]*shared.OutboxEntry, len(events))
	for i, e := range events {
		if !p.serializer.IsRegistered(e.EventType()) {
			return nil, fmt.Errorf("outbox: %w: %s", ErrUnknownEventType, e.EventType())
		}
		payload, err := p.serializer.Serialize(e)
		if err != nil {
			return nil, err
		}
		out[i] = shared.NewOutboxEntry(e, payload)
	}
	return out, nil
}
