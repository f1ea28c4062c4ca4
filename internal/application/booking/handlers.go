package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/manutdmohit/proficientlegal-sub000/internal/application/notification"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/booking"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// PaymentNotifier sends the messages that follow a completed payment
type PaymentNotifier struct {
	payments        booking.PaymentRepository
	mailer          shared.Mailer
	chat            shared.ChatNotifier
	renderer        *notification.Renderer
	staffRecipients []string
	logger          *zap.Logger
	now             func() time.Time
}

// NewPaymentNotifier creates a new PaymentNotifier
func NewPaymentNotifier(
	payments booking.PaymentRepository,
	mailer shared.Mailer,
	chat shared.ChatNotifier,
	renderer *notification.Renderer,
	staffRecipients []string,
	logger *zap.Logger,
) *PaymentNotifier {
	return &PaymentNotifier{
		payments:        payments,
		mailer:          mailer,
		chat:            chat,
		renderer:        renderer,
		staffRecipients: staffRecipients,
		logger:          logger,
		now:             time.Now,
	}
}

func (n *PaymentNotifier) emailEnabled() bool {
	return n.mailer != nil && n.mailer.Enabled()
}

// SendReceipt emails the client and stamps the payment
func (n *PaymentNotifier) SendReceipt(ctx context.Context, evt *booking.PaymentCompletedEvent) error {
	msg, err := n.renderer.Receipt(evt)
	if err != nil {
		return err
	}
	if err := n.mailer.Send(ctx, msg); err != nil {
		return fmt.Errorf("send receipt: %w", err)
	}
	if err := n.payments.MarkReceiptSent(ctx, evt.PaymentID, n.now()); err != nil {
		// the email went out; a retry would send it twice
		n.logger.Error("Receipt sent but stamp failed",
			zap.String("payment_id", evt.PaymentID.String()),
			zap.Error(err))
	}
	n.logger.Info("Receipt sent",
		zap.String("payment_id", evt.PaymentID.String()),
		zap.String("reference", evt.Reference))
	return nil
}

// NotifyStaff posts to chat and emails the firm. It fails only when every
// configured channel failed, so a retry never repeats a delivered notice.
func (n *PaymentNotifier) NotifyStaff(ctx context.Context, evt *booking.PaymentCompletedEvent) error {
	var errs []error
	delivered := false

	if n.chat != nil && n.chat.Enabled() {
		if err := n.chat.Notify(ctx, n.renderer.PaymentChat(evt)); err != nil && !errors.Is(err, shared.ErrChannelDisabled) {
			errs = append(errs, fmt.Errorf("chat: %w", err))
		} else if err == nil {
			delivered = true
		}
	}

	if n.emailEnabled() && len(n.staffRecipients) > 0 {
		msg, err := n.renderer.StaffPaymentNotice(evt, n.staffRecipients)
		if err == nil {
			err = n.mailer.Send(ctx, msg)
		}
		if err != nil && !errors.Is(err, shared.ErrChannelDisabled) {
			errs = append(errs, fmt.Errorf("email: %w", err))
		} else if err == nil {
			delivered = true
		}
	}

	if !delivered && len(errs) > 0 {
		return errors.Join(errs...)
	}
	for _, err := range errs {
		n.logger.Warn("Staff payment notice partly failed",
			zap.String("payment_id", evt.PaymentID.String()),
			zap.Error(err))
	}
	if !delivered {
		n.logger.Warn("No staff notification channel configured",
			zap.String("payment_id", evt.PaymentID.String()))
		return nil
	}

	if err := n.payments.MarkNotificationSent(ctx, evt.PaymentID, n.now()); err != nil {
		n.logger.Error("Staff notified but stamp failed",
			zap.String("payment_id", evt.PaymentID.String()),
			zap.Error(err))
	}
	return nil
}

// ReceiptEmailHandler sends the client receipt for booking.payment_completed
type ReceiptEmailHandler struct {
	notifier *PaymentNotifier
	logger   *zap.Logger
}

// NewReceiptEmailHandler creates a new ReceiptEmailHandler
func NewReceiptEmailHandler(notifier *PaymentNotifier, logger *zap.Logger) *ReceiptEmailHandler {
	return &ReceiptEmailHandler{notifier: notifier, logger: logger}
}

func (h *ReceiptEmailHandler) Name() string { return "receipt_email" }

func (h *ReceiptEmailHandler) EventTypes() []string {
	return []string{booking.EventTypePaymentCompleted}
}

// Handle skips payments already stamped as receipted
func (h *ReceiptEmailHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	evt, ok := event.(*booking.PaymentCompletedEvent)
	if !ok {
		return fmt.Errorf("receipt handler: unexpected event %T", event)
	}
	p, err := h.notifier.payments.FindByID(ctx, evt.PaymentID)
	if err != nil {
		if shared.IsNotFound(err) {
			h.logger.Error("Receipt requested for unknown payment", zap.String("payment_id", evt.PaymentID.String()))
			return nil
		}
		return err
	}
	if p.ReceiptSent() {
		h.logger.Debug("Receipt already sent", zap.String("payment_id", p.ID.String()))
		return nil
	}
	if !h.notifier.emailEnabled() {
		h.logger.Warn("Email disabled, receipt not sent", zap.String("reference", evt.Reference))
		return nil
	}
	return h.notifier.SendReceipt(ctx, evt)
}

// PaymentNotificationHandler tells staff about booking.payment_completed
type PaymentNotificationHandler struct {
	notifier *PaymentNotifier
	logger   *zap.Logger
}

// NewPaymentNotificationHandler creates a new PaymentNotificationHandler
func NewPaymentNotificationHandler(notifier *PaymentNotifier, logger *zap.Logger) *PaymentNotificationHandler {
	return &PaymentNotificationHandler{notifier: notifier, logger: logger}
}

func (h *PaymentNotificationHandler) Name() string { return "payment_staff_notification" }

func (h *PaymentNotificationHandler) EventTypes() []string {
	return []string{booking.EventTypePaymentCompleted}
}

func (h *PaymentNotificationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	evt, ok := event.(*booking.PaymentCompletedEvent)
	if !ok {
		return fmt.Errorf("notification handler: unexpected event %T", event)
	}
	p, err := h.notifier.payments.FindByID(ctx, evt.PaymentID)
	if err != nil {
		if shared.IsNotFound(err) {
			h.logger.Error("Notification requested for unknown payment", zap.String("payment_id", evt.PaymentID.String()))
			return nil
		}
		return err
	}
	if p.NotificationSent() {
		return nil
	}
	return h.notifier.NotifyStaff(ctx, evt)
}

var (
	_ shared.EventHandler = (*ReceiptEmailHandler)(nil)
	_ shared.EventHandler = (*PaymentNotificationHandler)(nil)
)
