package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared/valueobject"
)

// Filter narrows a booking listing. Dates are YYYY-MM-DD and inclusive.
type Filter struct {
	shared.Filter
	Status   Status
	DateFrom string
	DateTo   string
}

// PaymentFilter narrows a payment listing
type PaymentFilter struct {
	shared.Filter
	BookingID *uuid.UUID
	PaidFrom  *time.Time
	PaidTo    *time.Time
}

// Repository persists bookings
type Repository interface {
	// Create inserts a new booking. A clash on an active slot returns ErrSlotUnavailable.
	Create(ctx context.Context, b *Booking) error
	// Save updates an existing booking with an optimistic version check
	Save(ctx context.Context, b *Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	FindByReference(ctx context.Context, reference string) (*Booking, error)
	FindByCheckoutSessionID(ctx context.Context, sessionID string) (*Booking, error)
	// ExistsActiveForSlot reports whether a confirmed, or unexpired pending, booking holds slot
	ExistsActiveForSlot(ctx context.Context, slot Slot, now time.Time) (bool, error)
	// FindActiveTimesOn returns the held slot times for a date
	FindActiveTimesOn(ctx context.Context, date string, now time.Time) ([]string, error)
	// ExpireStale moves pending bookings whose checkout lapsed to expired
	ExpireStale(ctx context.Context, now time.Time) (int64, error)
	FindAll(ctx context.Context, filter Filter) ([]Booking, int64, error)
	// CountConfirmedBetween counts bookings paid with from <= paid_at < to
	CountConfirmedBetween(ctx context.Context, from, to time.Time) (int64, error)
	// CountUpcomingConfirmed counts confirmed bookings on or after date
	CountUpcomingConfirmed(ctx context.Context, date string) (int64, error)
}

// PaymentRepository persists payments
type PaymentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindByCheckoutSessionID(ctx context.Context, sessionID string) (*Payment, error)
	MarkReceiptSent(ctx context.Context, id uuid.UUID, at time.Time) error
	MarkNotificationSent(ctx context.Context, id uuid.UUID, at time.Time) error
	FindAll(ctx context.Context, filter PaymentFilter) ([]Payment, int64, error)
	// SumPaidBetween totals payments in currency with from <= paid_at < to
	SumPaidBetween(ctx context.Context, from, to time.Time, currency valueobject.Currency) (valueobject.Money, error)
	FindRecent(ctx context.Context, limit int) ([]Payment, error)
}

// PaymentRecorder stores a payment, the confirmed booking and the booking's
// pending domain events in one transaction. created is false when a payment
// for the same checkout session already exists, in which case nothing is written.
type PaymentRecorder interface {
	RecordPayment(ctx context.Context, b *Booking, p *Payment) (created bool, err error)
}
