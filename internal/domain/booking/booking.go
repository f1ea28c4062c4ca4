// Package booking models paid consultation bookings and their payments.
package booking

import (
	"crypto/rand"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared/valueobject"
)

// AggregateTypeBooking is the outbox aggregate type for bookings
const AggregateTypeBooking = "Booking"

// Status is the lifecycle state of a booking
type Status string

const (
	StatusPendingPayment Status = "pending_payment"
	StatusConfirmed      Status = "confirmed"
	StatusExpired        Status = "expired"
	StatusCancelled      Status = "cancelled"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusPendingPayment, StatusConfirmed, StatusExpired, StatusCancelled:
		return true
	}
	return false
}

// ConsultationType is how the consultation is held
type ConsultationType string

const (
	ConsultationInPerson ConsultationType = "in_person"
	ConsultationPhone    ConsultationType = "phone"
	ConsultationVideo    ConsultationType = "video"
)

// IsValid reports whether t is a known consultation type
func (t ConsultationType) IsValid() bool {
	switch t {
	case ConsultationInPerson, ConsultationPhone, ConsultationVideo:
		return true
	}
	return false
}

// Label is the human name used on invoices and in notifications
func (t ConsultationType) Label() string {
	switch t {
	case ConsultationInPerson:
		return "In-person"
	case ConsultationPhone:
		return "Phone"
	case ConsultationVideo:
		return "Video"
	}
	return string(t)
}

var (
	ErrBookingNotFound       = shared.NewDomainError("NOT_FOUND", "Booking not found")
	ErrSlotUnavailable       = shared.NewDomainError("SLOT_UNAVAILABLE", "This time slot is no longer available")
	ErrInvalidConsultation   = shared.NewDomainError("INVALID_CONSULTATION_TYPE", "Consultation type must be in_person, phone or video")
	ErrUnknownPracticeArea   = shared.NewDomainError("INVALID_PRACTICE_AREA", "Unknown practice area")
	ErrBookingNotCancellable = shared.NewDomainError("INVALID_STATE", "Booking can no longer be cancelled")
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^[0-9+()\-\s]+$`)
)

// Client identifies who booked
type Client struct {
	Name  string
	Email string
	Phone string
}

// Normalize trims fields and lower-cases the email
func (c Client) Normalize() Client {
	return Client{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.ToLower(strings.TrimSpace(c.Email)),
		Phone: strings.TrimSpace(c.Phone),
	}
}

// Validate checks a normalised client
func (c Client) Validate() error {
	if n := utf8.RuneCountInString(c.Name); n < 2 || n > 100 {
		return shared.NewDomainError("INVALID_NAME", "Name must be between 2 and 100 characters")
	}
	if len(c.Email) > 200 || !emailRegex.MatchString(c.Email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if c.Phone != "" && (len(c.Phone) > 30 || !phoneRegex.MatchString(c.Phone)) {
		return shared.NewDomainError("INVALID_PHONE", "Phone may only contain digits, spaces and +()-")
	}
	return nil
}

// Booking is a consultation held against a slot until it is paid or lapses
type Booking struct {
	shared.BaseAggregateRoot
	Reference         string
	ClientName        string
	ClientEmail       string
	ClientPhone       string
	PracticeArea      string
	ConsultationType  ConsultationType
	Slot              Slot
	Notes             string
	Fee               valueobject.Money
	Status            Status
	CheckoutSessionID string
	CheckoutURL       string
	ExpiresAt         time.Time
	PaidAt            *time.Time
	CancelledAt       *time.Time
	CancelReason      string
	// LateConfirmation marks a booking paid after it lapsed. It no longer
	// reserves the slot exclusively and needs manual follow-up.
	LateConfirmation bool
}

// NewBooking creates a booking awaiting payment until expiresAt
func NewBooking(client Client, practiceArea string, ctype ConsultationType, slot Slot, notes string, fee valueobject.Money, expiresAt time.Time) (*Booking, error) {
	c := client.Normalize()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if !ctype.IsValid() {
		return nil, ErrInvalidConsultation
	}
	if !fee.IsPositive() {
		return nil, shared.NewDomainError("INVALID_FEE", "Consultation fee must be positive")
	}
	notes = strings.TrimSpace(notes)
	if utf8.RuneCountInString(notes) > 2000 {
		return nil, shared.NewDomainError("INVALID_NOTES", "Notes must be at most 2000 characters")
	}

	b := &Booking{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ClientName:        c.Name,
		ClientEmail:       c.Email,
		ClientPhone:       c.Phone,
		PracticeArea:      strings.TrimSpace(practiceArea),
		ConsultationType:  ctype,
		Slot:              slot,
		Notes:             notes,
		Fee:               fee,
		Status:            StatusPendingPayment,
		ExpiresAt:         expiresAt,
	}
	b.Reference = NewReference(b.CreatedAt)
	return b, nil
}

// IsActive reports whether the booking holds its slot at now
func (b *Booking) IsActive(now time.Time) bool {
	switch b.Status {
	case StatusConfirmed:
		return true
	case StatusPendingPayment:
		return b.ExpiresAt.After(now)
	}
	return false
}

// AttachCheckoutSession records the hosted checkout the client pays through
func (b *Booking) AttachCheckoutSession(sessionID, url string) {
	b.CheckoutSessionID = sessionID
	b.CheckoutURL = url
	b.Touch()
	b.IncrementVersion()
}

// Confirm marks the booking paid. late is true when the payment arrived after
// the booking had already lapsed or been cancelled, so the slot may clash.
// Confirming a confirmed booking is a no-op.
func (b *Booking) Confirm(paidAt time.Time) (late bool) {
	if b.Status == StatusConfirmed {
		return false
	}
	late = b.Status == StatusExpired || b.Status == StatusCancelled
	b.Status = StatusConfirmed
	b.LateConfirmation = late
	b.PaidAt = &paidAt
	b.CancelledAt = nil
	b.CancelReason = ""
	b.Touch()
	b.IncrementVersion()
	return late
}

// Expire lapses a pending booking. It reports whether anything changed.
func (b *Booking) Expire() bool {
	if b.Status != StatusPendingPayment {
		return false
	}
	b.Status = StatusExpired
	b.Touch()
	b.IncrementVersion()
	return true
}

// Cancel releases the slot. Confirmed bookings can be cancelled; no refund is raised.
func (b *Booking) Cancel(reason string, now time.Time) error {
	switch b.Status {
	case StatusCancelled:
		return nil
	case StatusExpired:
		return ErrBookingNotCancellable
	}
	b.Status = StatusCancelled
	b.CancelledAt = &now
	b.CancelReason = strings.TrimSpace(reason)
	b.Touch()
	b.IncrementVersion()
	return nil
}

// ProductName is the line item shown on the hosted checkout page
func (b *Booking) ProductName() string {
	return b.ConsultationType.Label() + " consultation"
}

const referenceAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// NewReference generates a human booking code like PL-20240501-K7QZ
func NewReference(at time.Time) string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		// fall back to the clock so a reference is always produced
		n := at.UnixNano()
		for i := range buf {
			buf[i] = byte(n >> (8 * i))
		}
	}
	code := make([]byte, len(buf))
	for i, v := range buf {
		code[i] = referenceAlphabet[int(v)%len(referenceAlphabet)]
	}
	return fmt.Sprintf("PL-%s-%s", at.Format("20060102"), code)
}

var referenceRegex = regexp.MustCompile(`^PL-\d{8}-[A-Z0-9]{4}$`)

// IsValidReference reports whether s has the booking reference shape
func IsValidReference(s string) bool {
	return referenceRegex.MatchString(s)
}
