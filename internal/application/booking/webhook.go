package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/booking"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared/valueobject"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ErrWebhookRetry marks a processor event that failed on a transient storage error.
// The processor should deliver it again.
var ErrWebhookRetry = errors.New("webhook processing failed, retry later")

// HandleWebhook verifies a processor event and applies it.
// Only signature failures and transient storage errors are returned as errors;
// anything else is acknowledged with Processed=false so the processor stops retrying.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) (_ *WebhookResult, retErr error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "booking", "handle_webhook")
	defer func() { telemetry.EndSpan(span, retErr) }()

	evt, err := s.gateway.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, booking.ErrInvalidWebhookSignature) {
			s.logger.Warn("Rejected webhook with invalid signature")
			return nil, booking.ErrInvalidWebhookSignature
		}
		s.logger.Error("Failed to decode verified webhook", zap.Error(err))
		return &WebhookResult{Message: "payload could not be decoded"}, nil
	}

	result := &WebhookResult{EventID: evt.ID, EventType: evt.Type}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrEventType, evt.Type,
		telemetry.SpanAttrSessionID, evt.SessionID)
	log := s.logger.With(
		zap.String("event_id", evt.ID),
		zap.String("event_type", evt.Type),
		zap.String("session_id", evt.SessionID))

	switch evt.Type {
	case booking.GatewayEventCheckoutCompleted:
		if !evt.IsPaid() {
			// async methods settle later through async_payment_succeeded
			result.Message = "awaiting payment: " + evt.PaymentStatus
			log.Info("Checkout completed without payment yet", zap.String("payment_status", evt.PaymentStatus))
			return result, nil
		}
		err = s.reconcilePayment(ctx, evt, result, log)
	case booking.GatewayEventAsyncPaymentSucceeded:
		err = s.reconcilePayment(ctx, evt, result, log)
	case booking.GatewayEventCheckoutExpired:
		err = s.lapse(ctx, evt, result, log, func(b *booking.Booking) bool { return b.Expire() })
	case booking.GatewayEventAsyncPaymentFailed:
		err = s.lapse(ctx, evt, result, log, func(b *booking.Booking) bool {
			if b.Status != booking.StatusPendingPayment {
				return false
			}
			return b.Cancel("payment failed", s.now()) == nil
		})
	default:
		result.Message = "ignored"
		return result, nil
	}

	if err != nil {
		telemetry.RecordError(span, err)
		if isTransient(err) {
			log.Error("Webhook processing hit a transient error", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrWebhookRetry, err)
		}
		log.Error("Webhook processing failed", zap.Error(err))
		result.Processed = false
		if result.Message == "" {
			result.Message = err.Error()
		}
	}
	return result, nil
}

// reconcilePayment records the payment, confirms the booking and queues the
// payment event in one transaction
func (s *Service) reconcilePayment(ctx context.Context, evt *booking.GatewayEvent, result *WebhookResult, log *zap.Logger) error {
	if existing, err := s.payments.FindByCheckoutSessionID(ctx, evt.SessionID); err == nil {
		log.Info("Payment already recorded", zap.String("payment_id", existing.ID.String()))
		result.Processed = true
		result.Duplicate = true
		return nil
	} else if !shared.IsNotFound(err) {
		return err
	}

	b, err := s.findBookingFor(ctx, evt)
	if err != nil {
		return err
	}

	amount, err := paidAmount(evt, b.Fee)
	if err != nil {
		return err
	}
	if !amount.Equals(b.Fee) {
		log.Warn("Paid amount differs from booking fee",
			zap.String("reference", b.Reference),
			zap.String("paid", amount.String()),
			zap.String("fee", b.Fee.String()))
	}

	now := s.now()
	alreadyConfirmed := b.Status == booking.StatusConfirmed
	late := b.Confirm(now)
	if alreadyConfirmed {
		// a second session paid for the same booking; record it but keep the booking as is
		log.Warn("Booking already paid through another session",
			zap.String("reference", b.Reference),
			zap.String("booking_session_id", b.CheckoutSessionID))
		b.Touch()
		b.IncrementVersion()
		late = b.LateConfirmation
	}
	if late {
		log.Warn("Payment received for a lapsed booking, slot may clash",
			zap.String("reference", b.Reference),
			zap.String("slot", b.Slot.String()))
	}

	p := booking.NewPayment(b, evt.SessionID, evt.PaymentIntentID, amount, evt.CustomerEmail, now)
	b.AddDomainEvent(booking.NewPaymentCompletedEvent(b, p, late))

	created, err := s.recorder.RecordPayment(ctx, b, p)
	if err != nil {
		return err
	}
	result.Processed = true
	if !created {
		result.Duplicate = true
		log.Info("Payment recorded concurrently by another delivery")
		return nil
	}

	telemetry.AddEvent(telemetry.SpanFromContext(ctx), "payment_recorded",
		telemetry.SpanAttrPaymentID, p.ID,
		telemetry.SpanAttrReference, b.Reference,
		"late", late)
	log.Info("Payment recorded",
		zap.String("payment_id", p.ID.String()),
		zap.String("booking_id", b.ID.String()),
		zap.String("reference", b.Reference),
		zap.String("amount", amount.String()))
	return nil
}

// lapse applies an expiry or failure to a still pending booking
func (s *Service) lapse(ctx context.Context, evt *booking.GatewayEvent, result *WebhookResult, log *zap.Logger, apply func(*booking.Booking) bool) error {
	b, err := s.findBookingFor(ctx, evt)
	if err != nil {
		return err
	}
	if !apply(b) {
		result.Processed = true
		result.Message = "booking is " + string(b.Status)
		return nil
	}
	if err := s.bookings.Save(ctx, b); err != nil {
		return err
	}
	result.Processed = true
	log.Info("Booking lapsed",
		zap.String("reference", b.Reference),
		zap.String("status", string(b.Status)))
	return nil
}

func (s *Service) findBookingFor(ctx context.Context, evt *booking.GatewayEvent) (*booking.Booking, error) {
	if id, ok := evt.BookingID(); ok {
		b, err := s.bookings.FindByID(ctx, id)
		if err == nil {
			return b, nil
		}
		if !shared.IsNotFound(err) {
			return nil, err
		}
	}
	if evt.SessionID == "" {
		return nil, booking.ErrBookingNotFound
	}
	return s.bookings.FindByCheckoutSessionID(ctx, evt.SessionID)
}

// paidAmount converts the processor total, falling back to the booking fee when absent
func paidAmount(evt *booking.GatewayEvent, fee valueobject.Money) (valueobject.Money, error) {
	if evt.AmountTotal <= 0 {
		return fee, nil
	}
	currency := fee.Currency()
	if evt.Currency != "" {
		c, err := valueobject.ParseCurrency(strings.ToUpper(evt.Currency))
		if err != nil {
			return valueobject.Money{}, shared.NewDomainError("INVALID_INPUT", err.Error())
		}
		currency = c
	}
	return valueobject.NewMoneyFromMinor(evt.AmountTotal, currency)
}

// isTransient reports whether err came from storage rather than from the event itself
func isTransient(err error) bool {
	if errors.Is(err, shared.ErrConcurrencyConflict) {
		return true
	}
	var de *shared.DomainError
	return !errors.As(err, &de)
}
