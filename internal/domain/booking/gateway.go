package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared/valueobject"
)

var (
	ErrPaymentProvider         = shared.NewDomainError("PAYMENT_PROVIDER_ERROR", "Payment provider is unavailable, please try again")
	ErrInvalidWebhookSignature = shared.NewDomainError("INVALID_SIGNATURE", "Webhook signature verification failed")
	ErrInvalidWebhookPayload   = errors.New("payment: webhook payload could not be decoded")
)

// Gateway event types the booking flow reacts to
const (
	GatewayEventCheckoutCompleted     = "checkout.session.completed"
	GatewayEventCheckoutExpired       = "checkout.session.expired"
	GatewayEventAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"
	GatewayEventAsyncPaymentFailed    = "checkout.session.async_payment_failed"
)

// Metadata keys attached to every checkout session
const (
	MetadataBookingID = "booking_id"
	MetadataReference = "reference"
)

// CheckoutRequest asks the processor for a hosted checkout page
type CheckoutRequest struct {
	BookingID     uuid.UUID
	Reference     string
	Amount        valueobject.Money
	ProductName   string
	CustomerEmail string
	ExpiresAt     time.Time
	Metadata      map[string]string
}

// CheckoutSession is the processor's hosted checkout
type CheckoutSession struct {
	ID        string
	URL       string
	ExpiresAt time.Time
}

// GatewayEvent is a verified webhook event about a checkout session
type GatewayEvent struct {
	ID                string
	Type              string
	SessionID         string
	PaymentStatus     string // paid, unpaid, no_payment_required
	PaymentIntentID   string
	ClientReferenceID string
	CustomerEmail     string
	AmountTotal       int64 // minor units
	Currency          string
	Metadata          map[string]string
	Created           time.Time
}

// IsPaid reports whether the session's funds were captured
func (e *GatewayEvent) IsPaid() bool {
	return e.PaymentStatus == "paid"
}

// BookingID returns the booking metadata, falling back to the client reference
func (e *GatewayEvent) BookingID() (uuid.UUID, bool) {
	for _, raw := range []string{e.Metadata[MetadataBookingID], e.ClientReferenceID} {
		if raw == "" {
			continue
		}
		if id, err := uuid.Parse(raw); err == nil {
			return id, true
		}
	}
	return uuid.Nil, false
}

// PaymentGateway is a hosted-checkout payment processor
type PaymentGateway interface {
	// CreateCheckoutSession opens a hosted checkout for one booking
	CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)
	// ParseWebhook verifies the signature and decodes the event.
	// Returns ErrInvalidWebhookSignature when verification fails.
	ParseWebhook(payload []byte, signature string) (*GatewayEvent, error)
}
