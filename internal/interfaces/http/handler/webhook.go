package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	bookingapp "github.com/manutdmohit/proficientlegal-sub000/internal/application/booking"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/booking"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Maximum webhook payload size (64KB, processor events are small)
const maxWebhookPayloadSize = 65536

// WebhookProcessor applies verified payment processor events
type WebhookProcessor interface {
	HandleWebhook(ctx context.Context, payload []byte, signature string) (*bookingapp.WebhookResult, error)
}

// StripeWebhookHandler handles the payment processor webhook.
// It is called by Stripe and sits outside the JWT group.
type StripeWebhookHandler struct {
	BaseHandler
	processor WebhookProcessor
}

// NewStripeWebhookHandler creates a new StripeWebhookHandler
func NewStripeWebhookHandler(processor WebhookProcessor) *StripeWebhookHandler {
	return &StripeWebhookHandler{processor: processor}
}

// StripeWebhookResponse is the acknowledgement body
type StripeWebhookResponse struct {
	Received  bool   `json:"received"`
	EventID   string `json:"event_id,omitempty"`
	EventType string `json:"event_type,omitempty"`
	Processed bool   `json:"processed"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Message   string `json:"message,omitempty"`
}

// HandleStripeWebhook handles POST /webhooks/stripe.
// 200 acknowledges the event, 500 asks the processor to redeliver it.
func (h *StripeWebhookHandler) HandleStripeWebhook(c *gin.Context) {
	// signature verification needs the raw body
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, StripeWebhookResponse{Message: "Failed to read request body"})
		return
	}
	if len(payload) > maxWebhookPayloadSize {
		c.JSON(http.StatusRequestEntityTooLarge, StripeWebhookResponse{Message: "Payload too large"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusUnauthorized, StripeWebhookResponse{Message: "Missing Stripe-Signature header"})
		return
	}

	result, err := h.processor.HandleWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrInvalidWebhookSignature):
			c.JSON(http.StatusUnauthorized, StripeWebhookResponse{Message: "Webhook signature verification failed"})
		default:
			if !errors.Is(err, bookingapp.ErrWebhookRetry) {
				logger.Ctx(c.Request.Context()).Error("Unexpected webhook failure", zap.Error(err))
			}
			c.JSON(http.StatusInternalServerError, StripeWebhookResponse{Message: "Temporary failure, please retry"})
		}
		return
	}

	c.JSON(http.StatusOK, StripeWebhookResponse{
		Received:  true,
		EventID:   result.EventID,
		EventType: result.EventType,
		Processed: result.Processed,
		Duplicate: result.Duplicate,
		Message:   result.Message,
	})
}
