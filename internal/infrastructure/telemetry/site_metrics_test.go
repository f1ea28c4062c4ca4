package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/booking"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap/zaptest"
)

type fakeOutboxCounter struct {
	counts map[shared.OutboxStatus]int64
	err    error
}

func (f fakeOutboxCounter) CountByStatus(context.Context) (map[shared.OutboxStatus]int64, error) {
	return f.counts, f.err
}

func newTestSiteMetrics(t *testing.T, outbox telemetry.OutboxCounter) (*telemetry.SiteMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	sm, err := telemetry.NewSiteMetrics(telemetry.SiteMetricsConfig{
		Meter:  provider.Meter("test"),
		Logger: zaptest.NewLogger(t),
		Outbox: outbox,
	})
	require.NoError(t, err)
	t.Cleanup(sm.Stop)
	return sm, reader
}

func findMetric(t *testing.T, reader *sdkmetric.ManualReader, name string) (metricdata.Metrics, bool) {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func sumValue(t *testing.T, reader *sdkmetric.ManualReader, name string) int64 {
	t.Helper()
	m, ok := findMetric(t, reader, name)
	require.True(t, ok, "metric %s not recorded", name)
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestNewSiteMetrics_NilMeter(t *testing.T) {
	_, err := telemetry.NewSiteMetrics(telemetry.SiteMetricsConfig{})
	assert.ErrorIs(t, err, telemetry.ErrMeterNil)
}

func TestSiteMetrics_RecordPayment(t *testing.T) {
	sm, reader := newTestSiteMetrics(t, nil)
	ctx := context.Background()

	sm.RecordPayment(ctx, "220.00", "AUD", "family-law")
	sm.RecordPayment(ctx, "110.50", "AUD", "")
	sm.RecordPayment(ctx, "not-money", "AUD", "")

	assert.Equal(t, int64(3), sumValue(t, reader, "legal_payments_completed_total"))
	assert.Equal(t, int64(33050), sumValue(t, reader, "legal_payment_amount_total"))
}

func TestSiteMetrics_RecordExpired(t *testing.T) {
	sm, reader := newTestSiteMetrics(t, nil)
	ctx := context.Background()

	sm.RecordExpired(ctx, 0)
	_, recorded := findMetric(t, reader, "legal_bookings_expired_total")
	assert.False(t, recorded)

	sm.RecordExpired(ctx, 4)
	assert.Equal(t, int64(4), sumValue(t, reader, "legal_bookings_expired_total"))
}

func TestSiteMetrics_PeriodicOutboxCollection(t *testing.T) {
	sm, reader := newTestSiteMetrics(t, fakeOutboxCounter{counts: map[shared.OutboxStatus]int64{
		shared.OutboxStatusPending: 3,
		shared.OutboxStatusDead:    1,
	}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sm.StartPeriodicCollection(ctx, time.Hour)

	var gauge metricdata.Gauge[int64]
	require.Eventually(t, func() bool {
		m, ok := findMetric(t, reader, "legal_outbox_entries")
		if !ok {
			return false
		}
		gauge = m.Data.(metricdata.Gauge[int64])
		return len(gauge.DataPoints) == 5
	}, 2*time.Second, 10*time.Millisecond)

	byStatus := map[string]int64{}
	for _, dp := range gauge.DataPoints {
		v, _ := dp.Attributes.Value(attribute.Key("outbox.status"))
		byStatus[v.AsString()] = dp.Value
	}
	assert.Equal(t, int64(3), byStatus["PENDING"])
	assert.Equal(t, int64(1), byStatus["DEAD"])
	assert.Equal(t, int64(0), byStatus["SENT"])
}

func TestSiteMetrics_OutboxErrorRecordsNothing(t *testing.T) {
	sm, reader := newTestSiteMetrics(t, fakeOutboxCounter{err: errors.New("db down")})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sm.StartPeriodicCollection(ctx, time.Hour)
	time.Sleep(50 * time.Millisecond)

	_, recorded := findMetric(t, reader, "legal_outbox_entries")
	assert.False(t, recorded)
}

func TestPaymentMetricsHandler(t *testing.T) {
	sm, reader := newTestSiteMetrics(t, nil)
	h := telemetry.NewPaymentMetricsHandler(sm)

	assert.Equal(t, []string{booking.EventTypePaymentCompleted}, h.EventTypes())

	evt := &booking.PaymentCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(booking.EventTypePaymentCompleted, booking.AggregateTypeBooking, uuid.New()),
		Amount:          "220.00",
		Currency:        "AUD",
	}
	require.NoError(t, h.Handle(context.Background(), evt))
	assert.Equal(t, int64(22000), sumValue(t, reader, "legal_payment_amount_total"))
}
