package shared

import "context"

// EventHandler reacts to delivered events. Returning an error leaves the
// outbox entry to be retried.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes is the default subscription. Empty subscribes to all.
	EventTypes() []string
}

type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

type EventBus interface {
	EventPublisher
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// OutboxEventSaver records events in the same transaction as the change that
// raised them. tx is the caller's *gorm.DB.
type OutboxEventSaver interface {
	SaveEvents(ctx context.Context, tx any, events ...DomainEvent) error
}
