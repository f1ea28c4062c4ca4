package event

import (
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/booking"
)

// RegisterAllEvents registers every domain event type with the serializer.
// The outbox processor can only deliver entries whose type is registered here.
func RegisterAllEvents(serializer *EventSerializer) {
	RegisterEvent[booking.PaymentCompletedEvent](serializer, booking.EventTypePaymentCompleted)
}
