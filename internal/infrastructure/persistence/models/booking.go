package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/booking"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// BookingModel is the persistence model for consultation bookings.
// The unique partial index on (slot_date, slot_time) lives in the migrations.
type BookingModel struct {
	AggregateModel
	Reference         string                   `gorm:"type:varchar(20);not null;uniqueIndex:idx_bookings_reference"`
	ClientName        string                   `gorm:"type:varchar(100);not null"`
	ClientEmail       string                   `gorm:"type:varchar(200);not null;index"`
	ClientPhone       string                   `gorm:"type:varchar(30)"`
	PracticeArea      string                   `gorm:"type:varchar(100)"`
	ConsultationType  booking.ConsultationType `gorm:"type:varchar(20);not null"`
	SlotDate          string                   `gorm:"type:varchar(10);not null;index:idx_bookings_slot,priority:1"`
	SlotTime          string                   `gorm:"type:varchar(5);not null;index:idx_bookings_slot,priority:2"`
	Notes             string                   `gorm:"type:text"`
	FeeAmount         decimal.Decimal          `gorm:"type:decimal(12,2);not null"`
	FeeCurrency       string                   `gorm:"type:varchar(3);not null"`
	Status            booking.Status           `gorm:"type:varchar(20);not null;index"`
	CheckoutSessionID string                   `gorm:"type:varchar(255);index"`
	CheckoutURL       string                   `gorm:"type:text"`
	ExpiresAt         time.Time                `gorm:"not null"`
	PaidAt            *time.Time
	CancelledAt       *time.Time
	CancelReason      string `gorm:"type:varchar(500)"`
	LateConfirmation  bool   `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BookingModel) TableName() string {
	return "bookings"
}

// ToDomain converts the persistence model to a domain Booking
func (m *BookingModel) ToDomain() *booking.Booking {
	fee, _ := valueobject.NewMoney(m.FeeAmount, valueobject.Currency(m.FeeCurrency))
	return &booking.Booking{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Reference:         m.Reference,
		ClientName:        m.ClientName,
		ClientEmail:       m.ClientEmail,
		ClientPhone:       m.ClientPhone,
		PracticeArea:      m.PracticeArea,
		ConsultationType:  m.ConsultationType,
		Slot:              booking.Slot{Date: m.SlotDate, Time: m.SlotTime},
		Notes:             m.Notes,
		Fee:               fee,
		Status:            m.Status,
		CheckoutSessionID: m.CheckoutSessionID,
		CheckoutURL:       m.CheckoutURL,
		ExpiresAt:         m.ExpiresAt,
		PaidAt:            m.PaidAt,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
		LateConfirmation:  m.LateConfirmation,
	}
}

// BookingModelFromDomain creates a persistence model from a domain Booking
func BookingModelFromDomain(b *booking.Booking) *BookingModel {
	m := &BookingModel{
		Reference:         b.Reference,
		ClientName:        b.ClientName,
		ClientEmail:       b.ClientEmail,
		ClientPhone:       b.ClientPhone,
		PracticeArea:      b.PracticeArea,
		ConsultationType:  b.ConsultationType,
		SlotDate:          b.Slot.Date,
		SlotTime:          b.Slot.Time,
		Notes:             b.Notes,
		FeeAmount:         b.Fee.Amount(),
		FeeCurrency:       string(b.Fee.Currency()),
		Status:            b.Status,
		CheckoutSessionID: b.CheckoutSessionID,
		CheckoutURL:       b.CheckoutURL,
		ExpiresAt:         b.ExpiresAt.UTC(),
		PaidAt:            utcPtr(b.PaidAt),
		CancelledAt:       utcPtr(b.CancelledAt),
		CancelReason:      b.CancelReason,
		LateConfirmation:  b.LateConfirmation,
	}
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	return m
}

// BookingsToDomain converts a slice of models
func BookingsToDomain(ms []BookingModel) []booking.Booking {
	out := make([]booking.Booking, len(ms))
	for i := range ms {
		out[i] = *ms[i].ToDomain()
	}
	return out
}

// PaymentModel is the persistence model for settled checkout sessions
type PaymentModel struct {
	BaseModel
	BookingID          uuid.UUID             `gorm:"type:uuid;not null;index"`
	CheckoutSessionID  string                `gorm:"type:varchar(255);not null;uniqueIndex:idx_payments_checkout_session"`
	PaymentIntentID    string                `gorm:"type:varchar(255)"`
	Amount             decimal.Decimal       `gorm:"type:decimal(12,2);not null"`
	Currency           string                `gorm:"type:varchar(3);not null"`
	CustomerEmail      string                `gorm:"type:varchar(200)"`
	Status             booking.PaymentStatus `gorm:"type:varchar(20);not null"`
	PaidAt             time.Time             `gorm:"not null;index"`
	ReceiptSentAt      *time.Time
	NotificationSentAt *time.Time
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment
func (m *PaymentModel) ToDomain() *booking.Payment {
	amount, _ := valueobject.NewMoney(m.Amount, valueobject.Currency(m.Currency))
	return &booking.Payment{
		BaseEntity:         shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		BookingID:          m.BookingID,
		CheckoutSessionID:  m.CheckoutSessionID,
		PaymentIntentID:    m.PaymentIntentID,
		Amount:             amount,
		CustomerEmail:      m.CustomerEmail,
		Status:             m.Status,
		PaidAt:             m.PaidAt,
		ReceiptSentAt:      m.ReceiptSentAt,
		NotificationSentAt: m.NotificationSentAt,
	}
}

// PaymentModelFromDomain creates a persistence model from a domain Payment
func PaymentModelFromDomain(p *booking.Payment) *PaymentModel {
	m := &PaymentModel{
		BookingID:          p.BookingID,
		CheckoutSessionID:  p.CheckoutSessionID,
		PaymentIntentID:    p.PaymentIntentID,
		Amount:             p.Amount.Amount(),
		Currency:           string(p.Amount.Currency()),
		CustomerEmail:      p.CustomerEmail,
		Status:             p.Status,
		PaidAt:             p.PaidAt.UTC(),
		ReceiptSentAt:      utcPtr(p.ReceiptSentAt),
		NotificationSentAt: utcPtr(p.NotificationSentAt),
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}
