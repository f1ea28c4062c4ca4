package telemetry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// recordSpans installs a recording tracer provider for the duration of the test
func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrMap(kvs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(kvs))
	for _, kv := range kvs {
		m[string(kv.Key)] = kv.Value
	}
	return m
}

func TestStartServiceSpan(t *testing.T) {
	sr := recordSpans(t)
	bookingID := uuid.New()

	_, span := telemetry.StartServiceSpan(context.Background(), "booking", "create_checkout",
		telemetry.SpanAttrBookingID, bookingID,
		telemetry.SpanAttrSlot, "2026-11-02 10:00",
		"attempt", 2,
		42, "non-string key",
		"dangling",
	)
	telemetry.EndSpan(span, nil)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	got := spans[0]
	assert.Equal(t, "booking.create_checkout", got.Name())
	assert.Equal(t, trace.SpanKindInternal, got.SpanKind())
	assert.Equal(t, codes.Unset, got.Status().Code)

	attrs := attrMap(got.Attributes())
	assert.Len(t, attrs, 3)
	assert.Equal(t, bookingID.String(), attrs[telemetry.SpanAttrBookingID].AsString())
	assert.Equal(t, "2026-11-02 10:00", attrs[telemetry.SpanAttrSlot].AsString())
	assert.Equal(t, int64(2), attrs["attempt"].AsInt64())
}

func TestEndSpan_RecordsError(t *testing.T) {
	sr := recordSpans(t)

	_, span := telemetry.StartServiceSpan(context.Background(), "enquiry", "submit")
	telemetry.EndSpan(span, errors.New("slot unavailable"))

	got := sr.Ended()[0]
	assert.Equal(t, codes.Error, got.Status().Code)
	assert.Equal(t, "slot unavailable", got.Status().Description)
	require.Len(t, got.Events(), 1)
	assert.Equal(t, "exception", got.Events()[0].Name)
}

func TestEndSpan_KeepsEarlierError(t *testing.T) {
	sr := recordSpans(t)

	ctx, span := telemetry.StartServiceSpan(context.Background(), "booking", "handle_webhook")
	telemetry.RecordError(telemetry.SpanFromContext(ctx), errors.New("booking not found"))
	telemetry.EndSpan(span, nil)

	assert.Equal(t, codes.Error, sr.Ended()[0].Status().Code)
}

func TestEndSpan_NilSpan(t *testing.T) {
	assert.NotPanics(t, func() { telemetry.EndSpan(nil, errors.New("x")) })
}

func TestSpanHelpers(t *testing.T) {
	sr := recordSpans(t)

	ctx, parent := telemetry.StartServiceSpan(context.Background(), "booking", "webhook")
	_, child := telemetry.StartServiceSpan(ctx, "booking", "reconcile_payment")

	telemetry.SetAttributes(child,
		"late", true,
		"hold", 90*time.Second,
		"ratio", 0.5,
		"tags", []string{"family-law", "video"},
		"count", int64(7),
	)
	telemetry.AddEvent(child, "payment_recorded", telemetry.SpanAttrPaymentID, "pay_1")
	telemetry.RecordError(child, nil)
	child.End()
	parent.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	reconcile := spans[0]
	assert.Equal(t, spans[1].SpanContext().SpanID(), reconcile.Parent().SpanID())
	assert.Equal(t, codes.Unset, reconcile.Status().Code)

	attrs := attrMap(reconcile.Attributes())
	assert.True(t, attrs["late"].AsBool())
	assert.Equal(t, int64(90000), attrs["hold_ms"].AsInt64())
	assert.Equal(t, 0.5, attrs["ratio"].AsFloat64())
	assert.Equal(t, []string{"family-law", "video"}, attrs["tags"].AsStringSlice())
	assert.Equal(t, int64(7), attrs["count"].AsInt64())

	require.Len(t, reconcile.Events(), 1)
	assert.Equal(t, "payment_recorded", reconcile.Events()[0].Name)
	assert.Equal(t, "pay_1", attrMap(reconcile.Events()[0].Attributes)[telemetry.SpanAttrPaymentID].AsString())
}

func TestSpanHelpers_NilSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		telemetry.SetAttributes(nil, "k", "v")
		telemetry.AddEvent(nil, "e")
		telemetry.RecordError(nil, errors.New("x"))
	})
}
