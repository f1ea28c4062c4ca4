// Package booking runs paid consultation bookings from checkout to receipt.
package booking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/booking"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared/valueobject"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// PracticeAreaCatalog validates the practice area a client picked
type PracticeAreaCatalog interface {
	HasPracticeArea(slug string) bool
	PracticeAreaCount() int
}

// Config holds pricing and hold settings
type Config struct {
	Fee         valueobject.Money
	CheckoutTTL time.Duration
}

// Repositories groups the booking stores
type Repositories struct {
	Bookings booking.Repository
	Payments booking.PaymentRepository
	Recorder booking.PaymentRecorder
}

// Service handles checkout, availability and the back-office booking views
type Service struct {
	bookings booking.Repository
	payments booking.PaymentRepository
	recorder booking.PaymentRecorder
	gateway  booking.PaymentGateway
	schedule *booking.Schedule
	areas    PracticeAreaCatalog
	notifier *PaymentNotifier
	config   Config
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new booking Service
func NewService(
	repos Repositories,
	gateway booking.PaymentGateway,
	schedule *booking.Schedule,
	areas PracticeAreaCatalog,
	notifier *PaymentNotifier,
	config Config,
	logger *zap.Logger,
) *Service {
	if config.CheckoutTTL <= 0 {
		config.CheckoutTTL = 30 * time.Minute
	}
	return &Service{
		bookings: repos.Bookings,
		payments: repos.Payments,
		recorder: repos.Recorder,
		gateway:  gateway,
		schedule: schedule,
		areas:    areas,
		notifier: notifier,
		config:   config,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateCheckout holds a slot and opens a hosted checkout for it
func (s *Service) CreateCheckout(ctx context.Context, req CheckoutRequest) (_ *CheckoutResult, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "booking", "create_checkout",
		telemetry.SpanAttrPracticeArea, req.PracticeArea)
	defer func() { telemetry.EndSpan(span, err) }()

	now := s.now()

	slot, err := booking.ParseSlot(req.Date, req.Time)
	if err != nil {
		return nil, err
	}
	if err := s.schedule.Validate(slot, now); err != nil {
		return nil, err
	}
	area := strings.TrimSpace(req.PracticeArea)
	if area != "" && s.areas != nil && s.areas.PracticeAreaCount() > 0 && !s.areas.HasPracticeArea(area) {
		return nil, booking.ErrUnknownPracticeArea
	}

	b, err := booking.NewBooking(
		booking.Client{Name: req.Name, Email: req.Email, Phone: req.Phone},
		area,
		booking.ConsultationType(req.ConsultationType),
		slot,
		req.Notes,
		s.config.Fee,
		now.Add(s.config.CheckoutTTL),
	)
	if err != nil {
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrBookingID, b.ID,
		telemetry.SpanAttrReference, b.Reference,
		telemetry.SpanAttrSlot, slot.String())

	s.expireStale(ctx, now)

	taken, err := s.bookings.ExistsActiveForSlot(ctx, slot, now)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, booking.ErrSlotUnavailable
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	sess, err := s.gateway.CreateCheckoutSession(ctx, booking.CheckoutRequest{
		BookingID:     b.ID,
		Reference:     b.Reference,
		Amount:        b.Fee,
		ProductName:   b.ProductName(),
		CustomerEmail: b.ClientEmail,
		ExpiresAt:     b.ExpiresAt,
	})
	if err != nil {
		s.logger.Error("Checkout session creation failed, releasing slot",
			zap.String("booking_id", b.ID.String()),
			zap.String("reference", b.Reference),
			zap.Error(err))
		s.release(ctx, b, now)
		return nil, booking.ErrPaymentProvider
	}

	if !sess.ExpiresAt.IsZero() {
		b.ExpiresAt = sess.ExpiresAt
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrSessionID, sess.ID)
	b.AttachCheckoutSession(sess.ID, sess.URL)
	if err := s.bookings.Save(ctx, b); err != nil {
		// the webhook still finds the booking through the session metadata
		s.logger.Error("Failed to link checkout session to booking",
			zap.String("booking_id", b.ID.String()),
			zap.String("session_id", sess.ID),
			zap.Error(err))
	}

	s.logger.Info("Checkout created",
		zap.String("booking_id", b.ID.String()),
		zap.String("reference", b.Reference),
		zap.String("slot", slot.String()))

	return &CheckoutResult{
		BookingID:   b.ID,
		Reference:   b.Reference,
		CheckoutURL: sess.URL,
		SessionID:   sess.ID,
		ExpiresAt:   b.ExpiresAt,
	}, nil
}

func (s *Service) release(ctx context.Context, b *booking.Booking, now time.Time) {
	if err := b.Cancel("checkout session could not be created", now); err != nil {
		return
	}
	if err := s.bookings.Save(ctx, b); err != nil {
		s.logger.Error("Failed to release slot after checkout failure",
			zap.String("booking_id", b.ID.String()),
			zap.Error(err))
	}
}

func (s *Service) expireStale(ctx context.Context, now time.Time) {
	n, err := s.bookings.ExpireStale(ctx, now)
	if err != nil {
		s.logger.Warn("Failed to expire stale bookings", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("Expired stale bookings", zap.Int64("count", n))
	}
}

// ExpireStale lapses every pending booking whose hold ran out
func (s *Service) ExpireStale(ctx context.Context) (int64, error) {
	return s.bookings.ExpireStale(ctx, s.now())
}

// Slots lists a day's configured times with their availability
func (s *Service) Slots(ctx context.Context, date string) (*SlotAvailability, error) {
	now := s.now()
	slots, open, err := s.schedule.DayTimes(date, now)
	if err != nil {
		return nil, err
	}
	day := strings.TrimSpace(date)
	if len(slots) > 0 {
		day = slots[0].Date
	}

	booked, err := s.bookings.FindActiveTimesOn(ctx, day, now)
	if err != nil {
		return nil, err
	}
	held := make(map[string]bool, len(booked))
	for _, t := range booked {
		held[t] = true
	}

	times := make([]SlotTime, len(slots))
	for i, slot := range slots {
		times[i] = SlotTime{Time: slot.Time, Available: open[i] && !held[slot.Time]}
	}
	return &SlotAvailability{
		Date:     day,
		Timezone: s.schedule.Location().String(),
		Times:    times,
		Booked:   booked,
	}, nil
}

// Lookup finds a client's booking by reference. The email must match.
func (s *Service) Lookup(ctx context.Context, req LookupRequest) (*PublicBookingResponse, error) {
	ref := strings.ToUpper(strings.TrimSpace(req.Reference))
	if !booking.IsValidReference(ref) {
		return nil, booking.ErrBookingNotFound
	}
	b, err := s.bookings.FindByReference(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(b.ClientEmail, strings.TrimSpace(req.Email)) {
		return nil, booking.ErrBookingNotFound
	}
	resp := ToPublicBookingResponse(b, s.now())
	return &resp, nil
}

// List returns a page of bookings for the back office
func (s *Service) List(ctx context.Context, filter ListFilter) ([]BookingResponse, int64, error) {
	for _, d := range []string{filter.DateFrom, filter.DateTo} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(booking.DateLayout, d); err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Dates must be YYYY-MM-DD")
		}
	}
	domainFilter := booking.Filter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		Status:   booking.Status(filter.Status),
		DateFrom: filter.DateFrom,
		DateTo:   filter.DateTo,
	}
	if domainFilter.OrderBy == "" {
		domainFilter.OrderBy = "created_at"
	}

	items, total, err := s.bookings.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToBookingResponses(items), total, nil
}

// Get returns one booking
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*BookingResponse, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBookingResponse(b)
	return &resp, nil
}

// Cancel releases a booking's slot. Payments are not refunded.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, req CancelRequest) (*BookingResponse, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	version := b.Version
	wasConfirmed := b.Status == booking.StatusConfirmed
	if err := b.Cancel(req.Reason, s.now()); err != nil {
		return nil, err
	}
	if b.Version != version {
		if err := s.bookings.Save(ctx, b); err != nil {
			return nil, err
		}
		s.logger.Info("Booking cancelled",
			zap.String("booking_id", b.ID.String()),
			zap.String("reference", b.Reference),
			zap.Bool("was_paid", wasConfirmed))
	}
	resp := ToBookingResponse(b)
	return &resp, nil
}

// ListPayments returns a page of payments. Dates are days in the firm timezone, both inclusive.
func (s *Service) ListPayments(ctx context.Context, filter PaymentListFilter) ([]PaymentResponse, int64, error) {
	domainFilter := booking.PaymentFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
	}
	if filter.BookingID != "" {
		id, err := uuid.Parse(filter.BookingID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "booking_id must be a UUID")
		}
		domainFilter.BookingID = &id
	}
	loc := s.schedule.Location()
	if filter.PaidFrom != "" {
		from, err := time.ParseInLocation(booking.DateLayout, filter.PaidFrom, loc)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Dates must be YYYY-MM-DD")
		}
		domainFilter.PaidFrom = &from
	}
	if filter.PaidTo != "" {
		to, err := time.ParseInLocation(booking.DateLayout, filter.PaidTo, loc)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Dates must be YYYY-MM-DD")
		}
		to = to.AddDate(0, 0, 1)
		domainFilter.PaidTo = &to
	}

	items, total, err := s.payments.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPaymentResponses(items), total, nil
}

// ResendReceipt emails the receipt again regardless of whether one went out
func (s *Service) ResendReceipt(ctx context.Context, paymentID uuid.UUID) (*PaymentResponse, error) {
	p, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	b, err := s.bookings.FindByID(ctx, p.BookingID)
	if err != nil {
		return nil, err
	}
	if !s.notifier.emailEnabled() {
		return nil, shared.NewDomainError("EMAIL_DISABLED", "Email delivery is not configured")
	}
	evt := booking.NewPaymentCompletedEvent(b, p, b.LateConfirmation)
	if err := s.notifier.SendReceipt(ctx, evt); err != nil {
		s.logger.Error("Failed to resend receipt",
			zap.String("payment_id", p.ID.String()),
			zap.Error(err))
		return nil, shared.NewDomainError("EMAIL_FAILED", "The receipt could not be sent")
	}

	sent := s.now()
	p.ReceiptSentAt = &sent
	resp := ToPaymentResponse(p)
	return &resp, nil
}
