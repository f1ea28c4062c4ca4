package telemetry

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/booking"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when no meter is supplied
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// OutboxCounter reports outbox entries per status
type OutboxCounter interface {
	CountByStatus(ctx context.Context) (map[shared.OutboxStatus]int64, error)
}

// SiteMetrics records booking revenue and delivery health.
type SiteMetrics struct {
	logger *zap.Logger

	paymentsTotal      *Counter
	paymentAmountTotal *Counter
	bookingsExpired    *Counter
	outboxEntries      *Gauge

	outbox OutboxCounter

	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once
}

// SiteMetricsConfig holds configuration for SiteMetrics
type SiteMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
	Outbox OutboxCounter
}

// NewSiteMetrics creates the site instruments on cfg.Meter
func NewSiteMetrics(cfg SiteMetricsConfig) (*SiteMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	sm := &SiteMetrics{
		logger:   logger,
		outbox:   cfg.Outbox,
		stopChan: make(chan struct{}),
	}

	var err error
	if sm.paymentsTotal, err = NewCounter(cfg.Meter,
		"legal_payments_completed_total", "Consultation payments recorded", "{payments}"); err != nil {
		return nil, err
	}
	if sm.paymentAmountTotal, err = NewCounter(cfg.Meter,
		"legal_payment_amount_total", "Consultation revenue in minor currency units", "{cents}"); err != nil {
		return nil, err
	}
	if sm.bookingsExpired, err = NewCounter(cfg.Meter,
		"legal_bookings_expired_total", "Pending bookings released by the expiry sweep", "{bookings}"); err != nil {
		return nil, err
	}
	if sm.outboxEntries, err = NewGauge(cfg.Meter,
		"legal_outbox_entries", "Outbox entries by status", "{entries}"); err != nil {
		return nil, err
	}

	return sm, nil
}

// RecordPayment counts a payment and adds its amount in cents
func (sm *SiteMetrics) RecordPayment(ctx context.Context, amount, currency, practiceArea string) {
	attrs := AttrCurrency.String(currency)
	area := AttrPracticeArea.String(practiceArea)
	if practiceArea == "" {
		area = AttrPracticeArea.String("general")
	}
	sm.paymentsTotal.Inc(ctx, attrs, area)

	d, err := decimal.NewFromString(amount)
	if err != nil {
		sm.logger.Warn("Unparseable payment amount in metrics", zap.String("amount", amount))
		return
	}
	sm.paymentAmountTotal.Add(ctx, d.Shift(2).IntPart(), attrs)
}

// RecordExpired counts bookings released by one sweep
func (sm *SiteMetrics) RecordExpired(ctx context.Context, n int64) {
	if n > 0 {
		sm.bookingsExpired.Add(ctx, n)
	}
}

// StartPeriodicCollection samples the outbox gauge every interval until Stop
func (sm *SiteMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	sm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = time.Minute
		}
		go sm.runPeriodicCollection(ctx, interval)
	})
}

func (sm *SiteMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	sm.collectOutbox(ctx)
	for {
		select {
		case <-sm.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			sm.collectOutbox(ctx)
		}
	}
}

func (sm *SiteMetrics) collectOutbox(ctx context.Context) {
	if sm.outbox == nil {
		return
	}
	counts, err := sm.outbox.CountByStatus(ctx)
	if err != nil {
		sm.logger.Warn("Failed to collect outbox metrics", zap.Error(err))
		return
	}
	for _, status := range []shared.OutboxStatus{
		shared.OutboxStatusPending,
		shared.OutboxStatusProcessing,
		shared.OutboxStatusSent,
		shared.OutboxStatusFailed,
		shared.OutboxStatusDead,
	} {
		sm.outboxEntries.Record(ctx, counts[status], AttrOutboxStatus.String(string(status)))
	}
}

// Stop ends periodic collection
func (sm *SiteMetrics) Stop() {
	sm.stopOnce.Do(func() {
		close(sm.stopChan)
	})
}

// PaymentMetricsHandler feeds booking.payment_completed into SiteMetrics
type PaymentMetricsHandler struct {
	metrics *SiteMetrics
}

// NewPaymentMetricsHandler creates a new PaymentMetricsHandler
func NewPaymentMetricsHandler(metrics *SiteMetrics) *PaymentMetricsHandler {
	return &PaymentMetricsHandler{metrics: metrics}
}

func (h *PaymentMetricsHandler) Name() string { return "payment_metrics" }

func (h *PaymentMetricsHandler) EventTypes() []string {
	return []string{booking.EventTypePaymentCompleted}
}

func (h *PaymentMetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	evt, ok := event.(*booking.PaymentCompletedEvent)
	if !ok {
		return fmt.Errorf("payment metrics: unexpected event %T", event)
	}
	h.metrics.RecordPayment(ctx, evt.Amount, evt.Currency, evt.PracticeArea)
	return nil
}
