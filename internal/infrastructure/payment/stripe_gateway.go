// Package payment adapts hosted-checkout payment processors to the booking flow.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"strings"
	"time"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/booking"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/config"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

// Placeholders accepted in the redirect URLs. Stripe fills in the session ID itself.
const (
	PlaceholderSessionID = "{CHECKOUT_SESSION_ID}"
	PlaceholderReference = "{REFERENCE}"
)

// minCheckoutTTL is the shortest expiry Stripe accepts for a checkout session
const minCheckoutTTL = 30 * time.Minute

// StripeGateway creates Stripe Checkout sessions and verifies Stripe webhooks
type StripeGateway struct {
	secretKey     string
	webhookSecret string
	successURL    string
	cancelURL     string
	logger        *zap.Logger
	now           func() time.Time
}

// NewStripeGateway creates a gateway from the stripe configuration section
func NewStripeGateway(cfg config.StripeConfig, logger *zap.Logger) (*StripeGateway, error) {
	if err := validateStripeConfig(cfg); err != nil {
		return nil, err
	}
	if cfg.SecretKey == "" {
		logger.Warn("Stripe secret key not configured, checkout creation will fail")
	}
	return &StripeGateway{
		secretKey:     cfg.SecretKey,
		webhookSecret: cfg.WebhookSecret,
		successURL:    cfg.SuccessURL,
		cancelURL:     cfg.CancelURL,
		logger:        logger,
		now:           time.Now,
	}, nil
}

func validateStripeConfig(cfg config.StripeConfig) error {
	if cfg.SecretKey != "" && !strings.HasPrefix(cfg.SecretKey, "sk_") && !strings.HasPrefix(cfg.SecretKey, "rk_") {
		return fmt.Errorf("stripe: secret key must start with sk_ or rk_")
	}
	if cfg.WebhookSecret != "" && !strings.HasPrefix(cfg.WebhookSecret, "whsec_") {
		return fmt.Errorf("stripe: webhook secret must start with whsec_")
	}
	if cfg.SuccessURL == "" || cfg.CancelURL == "" {
		return fmt.Errorf("stripe: success and cancel URLs are required")
	}
	if !strings.Contains(cfg.SuccessURL, PlaceholderSessionID) && !strings.Contains(cfg.SuccessURL, PlaceholderReference) {
		return fmt.Errorf("stripe: success URL must contain %s or %s", PlaceholderSessionID, PlaceholderReference)
	}
	return nil
}

// CreateCheckoutSession opens a one-off payment checkout for a booking
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, req booking.CheckoutRequest) (*booking.CheckoutSession, error) {
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("stripe: checkout amount must be positive")
	}

	expiresAt := req.ExpiresAt
	if floor := g.now().Add(minCheckoutTTL); expiresAt.Before(floor) {
		expiresAt = floor
	}

	g.logger.Debug("Creating Stripe checkout session",
		zap.String("booking_id", req.BookingID.String()),
		zap.String("reference", req.Reference),
		zap.Int64("amount", req.Amount.MinorUnits()))

	metadata := map[string]string{
		booking.MetadataBookingID: req.BookingID.String(),
		booking.MetadataReference: req.Reference,
	}
	maps.Copy(metadata, req.Metadata)

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(string(req.Amount.Currency()))),
					UnitAmount: stripe.Int64(req.Amount.MinorUnits()),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.ProductName),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		ClientReferenceID: stripe.String(req.BookingID.String()),
		SuccessURL:        stripe.String(expandRedirect(g.successURL, req.Reference)),
		CancelURL:         stripe.String(expandRedirect(g.cancelURL, req.Reference)),
		ExpiresAt:         stripe.Int64(expiresAt.Unix()),
		Metadata:          metadata,
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Description: stripe.String(req.ProductName + " " + req.Reference),
			Metadata:    metadata,
		},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.Context = ctx

	sc := session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: g.secretKey}
	sess, err := sc.New(params)
	if err != nil {
		g.logger.Error("Failed to create Stripe checkout session",
			zap.String("booking_id", req.BookingID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("stripe: failed to create checkout session: %w", err)
	}

	g.logger.Info("Created Stripe checkout session",
		zap.String("booking_id", req.BookingID.String()),
		zap.String("session_id", sess.ID))

	out := &booking.CheckoutSession{
		ID:        sess.ID,
		URL:       sess.URL,
		ExpiresAt: expiresAt,
	}
	if sess.ExpiresAt > 0 {
		out.ExpiresAt = time.Unix(sess.ExpiresAt, 0)
	}
	return out, nil
}

// expandRedirect fills {REFERENCE}. {CHECKOUT_SESSION_ID} is left for Stripe.
func expandRedirect(raw, reference string) string {
	return strings.ReplaceAll(raw, PlaceholderReference, url.QueryEscape(reference))
}

// ParseWebhook verifies the Stripe-Signature header and decodes checkout session events.
// Events that are not about checkout sessions come back with only ID and Type set.
func (g *StripeGateway) ParseWebhook(payload []byte, signature string) (*booking.GatewayEvent, error) {
	if g.webhookSecret == "" {
		g.logger.Error("Stripe webhook secret not configured")
		return nil, booking.ErrInvalidWebhookSignature
	}

	// the endpoint may be pinned to an older API version than the SDK
	event, err := webhook.ConstructEventWithOptions(payload, signature, g.webhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		if isSignatureError(err) {
			g.logger.Warn("Failed to verify webhook signature", zap.Error(err))
			return nil, booking.ErrInvalidWebhookSignature
		}
		return nil, fmt.Errorf("%w: %v", booking.ErrInvalidWebhookPayload, err)
	}

	out := &booking.GatewayEvent{
		ID:      event.ID,
		Type:    string(event.Type),
		Created: time.Unix(event.Created, 0),
	}
	if !strings.HasPrefix(out.Type, "checkout.session.") || event.Data == nil {
		return out, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("%w: checkout session: %v", booking.ErrInvalidWebhookPayload, err)
	}

	out.SessionID = sess.ID
	out.PaymentStatus = string(sess.PaymentStatus)
	out.ClientReferenceID = sess.ClientReferenceID
	out.AmountTotal = sess.AmountTotal
	out.Currency = strings.ToUpper(string(sess.Currency))
	out.Metadata = sess.Metadata
	if out.Metadata == nil {
		out.Metadata = map[string]string{}
	}
	out.CustomerEmail = sess.CustomerEmail
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		out.CustomerEmail = sess.CustomerDetails.Email
	}
	if sess.PaymentIntent != nil {
		out.PaymentIntentID = sess.PaymentIntent.ID
	}
	return out, nil
}

func isSignatureError(err error) bool {
	return errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrNoValidSignature) ||
		errors.Is(err, webhook.ErrInvalidHeader) ||
		errors.Is(err, webhook.ErrTooOld)
}

var _ booking.PaymentGateway = (*StripeGateway)(nil)
