package booking

import (
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/booking"
)

// CheckoutRequest is the public booking form
type CheckoutRequest struct {
	Name             string `json:"name" binding:"required,max=100"`
	Email            string `json:"email" binding:"required,max=200"`
	Phone            string `json:"phone" binding:"max=30"`
	PracticeArea     string `json:"practice_area" binding:"max=100"`
	ConsultationType string `json:"consultation_type" binding:"required,oneof=in_person phone video"`
	Date             string `json:"date" binding:"required,slotdate"`
	Time             string `json:"time" binding:"required,slottime"`
	Notes            string `json:"notes" binding:"max=2000"`
}

// CheckoutResult points the client at the hosted checkout page
type CheckoutResult struct {
	BookingID   uuid.UUID `json:"booking_id"`
	Reference   string    `json:"reference"`
	CheckoutURL string    `json:"checkout_url"`
	SessionID   string    `json:"session_id"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// SlotTime is one configured time on a date
type SlotTime struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// SlotAvailability lists a day's slots. Booked holds times taken by active bookings.
type SlotAvailability struct {
	Date     string     `json:"date"`
	Timezone string     `json:"timezone"`
	Times    []SlotTime `json:"times"`
	Booked   []string   `json:"booked"`
}

// LookupRequest is the public status lookup
type LookupRequest struct {
	Reference string `form:"reference" binding:"required"`
	Email     string `form:"email" binding:"required"`
}

// PublicBookingResponse is what a client may see of their own booking
type PublicBookingResponse struct {
	Reference        string     `json:"reference"`
	Status           string     `json:"status"`
	ConsultationType string     `json:"consultation_type"`
	PracticeArea     string     `json:"practice_area,omitempty"`
	Date             string     `json:"date"`
	Time             string     `json:"time"`
	Fee              string     `json:"fee"`
	Currency         string     `json:"currency"`
	ExpiresAt        *time.Time `json:"expires_at,omitempty"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	CheckoutURL      string     `json:"checkout_url,omitempty"`
}

// BookingResponse is the admin view of a booking
type BookingResponse struct {
	ID                uuid.UUID  `json:"id"`
	Reference         string     `json:"reference"`
	ClientName        string     `json:"client_name"`
	ClientEmail       string     `json:"client_email"`
	ClientPhone       string     `json:"client_phone,omitempty"`
	PracticeArea      string     `json:"practice_area,omitempty"`
	ConsultationType  string     `json:"consultation_type"`
	Date              string     `json:"date"`
	Time              string     `json:"time"`
	Notes             string     `json:"notes,omitempty"`
	Fee               string     `json:"fee"`
	Currency          string     `json:"currency"`
	Status            string     `json:"status"`
	CheckoutSessionID string     `json:"checkout_session_id,omitempty"`
	ExpiresAt         time.Time  `json:"expires_at"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`
	CancelledAt       *time.Time `json:"cancelled_at,omitempty"`
	CancelReason      string     `json:"cancel_reason,omitempty"`
	LateConfirmation  bool       `json:"late_confirmation"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
	Version           int        `json:"version"`
}

// PaymentResponse is the admin view of a payment
type PaymentResponse struct {
	ID                 uuid.UUID  `json:"id"`
	BookingID          uuid.UUID  `json:"booking_id"`
	CheckoutSessionID  string     `json:"checkout_session_id"`
	PaymentIntentID    string     `json:"payment_intent_id,omitempty"`
	Amount             string     `json:"amount"`
	Currency           string     `json:"currency"`
	CustomerEmail      string     `json:"customer_email"`
	Status             string     `json:"status"`
	PaidAt             time.Time  `json:"paid_at"`
	ReceiptSentAt      *time.Time `json:"receipt_sent_at,omitempty"`
	NotificationSentAt *time.Time `json:"notification_sent_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// ListFilter represents admin filter options for the booking list
type ListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=pending_payment confirmed expired cancelled"`
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PaymentListFilter represents admin filter options for the payment list
type PaymentListFilter struct {
	Search    string `form:"search"`
	BookingID string `form:"booking_id" binding:"omitempty,uuid"`
	PaidFrom  string `form:"paid_from"`
	PaidTo    string `form:"paid_to"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// CancelRequest is an admin cancellation
type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// WebhookResult reports what a processor event did
type WebhookResult struct {
	EventID   string `json:"event_id"`
	EventType string `json:"event_type"`
	Processed bool   `json:"processed"`
	Duplicate bool   `json:"duplicate"`
	Message   string `json:"message,omitempty"`
}

// ToBookingResponse converts a domain booking
func ToBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:                b.ID,
		Reference:         b.Reference,
		ClientName:        b.ClientName,
		ClientEmail:       b.ClientEmail,
		ClientPhone:       b.ClientPhone,
		PracticeArea:      b.PracticeArea,
		ConsultationType:  string(b.ConsultationType),
		Date:              b.Slot.Date,
		Time:              b.Slot.Time,
		Notes:             b.Notes,
		Fee:               b.Fee.StringFixed(),
		Currency:          string(b.Fee.Currency()),
		Status:            string(b.Status),
		CheckoutSessionID: b.CheckoutSessionID,
		ExpiresAt:         b.ExpiresAt,
		PaidAt:            b.PaidAt,
		CancelledAt:       b.CancelledAt,
		CancelReason:      b.CancelReason,
		LateConfirmation:  b.LateConfirmation,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
		Version:           b.Version,
	}
}

// ToBookingResponses converts a page of bookings
func ToBookingResponses(items []booking.Booking) []BookingResponse {
	out := make([]BookingResponse, len(items))
	for i := range items {
		out[i] = ToBookingResponse(&items[i])
	}
	return out
}

// ToPublicBookingResponse converts a booking for its client.
// The checkout link is only offered while the hold is live.
func ToPublicBookingResponse(b *booking.Booking, now time.Time) PublicBookingResponse {
	resp := PublicBookingResponse{
		Reference:        b.Reference,
		Status:           string(b.Status),
		ConsultationType: string(b.ConsultationType),
		PracticeArea:     b.PracticeArea,
		Date:             b.Slot.Date,
		Time:             b.Slot.Time,
		Fee:              b.Fee.StringFixed(),
		Currency:         string(b.Fee.Currency()),
		PaidAt:           b.PaidAt,
	}
	if b.Status == booking.StatusPendingPayment && b.IsActive(now) {
		expires := b.ExpiresAt
		resp.ExpiresAt = &expires
		resp.CheckoutURL = b.CheckoutURL
	}
	return resp
}

// ToPaymentResponse converts a domain payment
func ToPaymentResponse(p *booking.Payment) PaymentResponse {
	return PaymentResponse{
		ID:                 p.ID,
		BookingID:          p.BookingID,
		CheckoutSessionID:  p.CheckoutSessionID,
		PaymentIntentID:    p.PaymentIntentID,
		Amount:             p.Amount.StringFixed(),
		Currency:           string(p.Amount.Currency()),
		CustomerEmail:      p.CustomerEmail,
		Status:             string(p.Status),
		PaidAt:             p.PaidAt,
		ReceiptSentAt:      p.ReceiptSentAt,
		NotificationSentAt: p.NotificationSentAt,
		CreatedAt:          p.CreatedAt,
	}
}

// ToPaymentResponses converts a page of payments
func ToPaymentResponses(items []booking.Payment) []PaymentResponse {
	out := make([]PaymentResponse, len(items))
	for i := range items {
		out[i] = ToPaymentResponse(&items[i])
	}
	return out
}
