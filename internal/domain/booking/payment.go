package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared/valueobject"
)

// PaymentStatus of a recorded payment
type PaymentStatus string

const PaymentStatusPaid PaymentStatus = "paid"

var ErrPaymentNotFound = shared.NewDomainError("NOT_FOUND", "Payment not found")

// Payment is a settled checkout session. There is at most one per session.
type Payment struct {
	shared.BaseEntity
	BookingID          uuid.UUID
	CheckoutSessionID  string
	PaymentIntentID    string
	Amount             valueobject.Money
	CustomerEmail      string
	Status             PaymentStatus
	PaidAt             time.Time
	ReceiptSentAt      *time.Time
	NotificationSentAt *time.Time
}

// NewPayment records a paid checkout session for a booking
func NewPayment(b *Booking, sessionID, paymentIntentID string, amount valueobject.Money, customerEmail string, paidAt time.Time) *Payment {
	if customerEmail == "" {
		customerEmail = b.ClientEmail
	}
	return &Payment{
		BaseEntity:        shared.NewBaseEntity(),
		BookingID:         b.ID,
		CheckoutSessionID: sessionID,
		PaymentIntentID:   paymentIntentID,
		Amount:            amount,
		CustomerEmail:     customerEmail,
		Status:            PaymentStatusPaid,
		PaidAt:            paidAt,
	}
}

// ReceiptSent reports whether the client receipt went out
func (p *Payment) ReceiptSent() bool { return p.ReceiptSentAt != nil }

// NotificationSent reports whether staff were notified
func (p *Payment) NotificationSent() bool { return p.NotificationSentAt != nil }
