package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
)

// EventTypePaymentCompleted is raised once per recorded payment
const EventTypePaymentCompleted = "booking.payment_completed"

// PaymentCompletedEvent carries everything the receipt and staff notifications need
type PaymentCompletedEvent struct {
	shared.BaseDomainEvent
	PaymentID        uuid.UUID `json:"payment_id"`
	BookingID        uuid.UUID `json:"booking_id"`
	Reference        string    `json:"reference"`
	ClientName       string    `json:"client_name"`
	ClientEmail      string    `json:"client_email"`
	ClientPhone      string    `json:"client_phone,omitempty"`
	Amount           string    `json:"amount"`
	Currency         string    `json:"currency"`
	SlotDate         string    `json:"slot_date"`
	SlotTime         string    `json:"slot_time"`
	ConsultationType string    `json:"consultation_type"`
	PracticeArea     string    `json:"practice_area,omitempty"`
	PaidAt           time.Time `json:"paid_at"`
	LateConfirmation bool      `json:"late_confirmation,omitempty"`
}

// NewPaymentCompletedEvent builds the event for a confirmed booking and its payment
func NewPaymentCompletedEvent(b *Booking, p *Payment, late bool) *PaymentCompletedEvent {
	return &PaymentCompletedEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypePaymentCompleted, AggregateTypeBooking, b.ID),
		PaymentID:        p.ID,
		BookingID:        b.ID,
		Reference:        b.Reference,
		ClientName:       b.ClientName,
		ClientEmail:      p.CustomerEmail,
		ClientPhone:      b.ClientPhone,
		Amount:           p.Amount.StringFixed(),
		Currency:         string(p.Amount.Currency()),
		SlotDate:         b.Slot.Date,
		SlotTime:         b.Slot.Time,
		ConsultationType: string(b.ConsultationType),
		PracticeArea:     b.PracticeArea,
		PaidAt:           p.PaidAt,
		LateConfirmation: late,
	}
}
