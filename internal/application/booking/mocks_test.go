package booking

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/application/notification"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/booking"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockBookingRepository is a mock implementation of booking.Repository
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByReference(ctx context.Context, reference string) (*booking.Booking, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) FindByCheckoutSessionID(ctx context.Context, sessionID string) (*booking.Booking, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Booking), args.Error(1)
}

func (m *MockBookingRepository) ExistsActiveForSlot(ctx context.Context, slot booking.Slot, now time.Time) (bool, error) {
	args := m.Called(ctx, slot, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) FindActiveTimesOn(ctx context.Context, date string, now time.Time) ([]string, error) {
	args := m.Called(ctx, date, now)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockBookingRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) FindAll(ctx context.Context, filter booking.Filter) ([]booking.Booking, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]booking.Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookingRepository) CountConfirmedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookingRepository) CountUpcomingConfirmed(ctx context.Context, date string) (int64, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(int64), args.Error(1)
}

// MockPaymentRepository is a mock implementation of booking.PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByCheckoutSessionID(ctx context.Context, sessionID string) (*booking.Payment, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Payment), args.Error(1)
}

func (m *MockPaymentRepository) MarkReceiptSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockPaymentRepository) MarkNotificationSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockPaymentRepository) FindAll(ctx context.Context, filter booking.PaymentFilter) ([]booking.Payment, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]booking.Payment), args.Get(1).(int64), args.Error(2)
}

func (m *MockPaymentRepository) SumPaidBetween(ctx context.Context, from, to time.Time, currency valueobject.Currency) (valueobject.Money, error) {
	args := m.Called(ctx, from, to, currency)
	return args.Get(0).(valueobject.Money), args.Error(1)
}

func (m *MockPaymentRepository) FindRecent(ctx context.Context, limit int) ([]booking.Payment, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]booking.Payment), args.Error(1)
}

// MockRecorder is a mock implementation of booking.PaymentRecorder
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordPayment(ctx context.Context, b *booking.Booking, p *booking.Payment) (bool, error) {
	args := m.Called(ctx, b, p)
	return args.Bool(0), args.Error(1)
}

// MockGateway is a mock implementation of booking.PaymentGateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateCheckoutSession(ctx context.Context, req booking.CheckoutRequest) (*booking.CheckoutSession, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.CheckoutSession), args.Error(1)
}

func (m *MockGateway) ParseWebhook(payload []byte, signature string) (*booking.GatewayEvent, error) {
	args := m.Called(payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.GatewayEvent), args.Error(1)
}

// MockMailer is a mock implementation of shared.Mailer
type MockMailer struct {
	mock.Mock
	enabled bool
}

func (m *MockMailer) Send(ctx context.Context, msg shared.EmailMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMailer) Enabled() bool { return m.enabled }

// MockChat is a mock implementation of shared.ChatNotifier
type MockChat struct {
	mock.Mock
	enabled bool
}

func (m *MockChat) Notify(ctx context.Context, msg shared.ChatMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockChat) Enabled() bool { return m.enabled }

// stubAreas is a fixed practice area catalog
type stubAreas map[string]bool

func (a stubAreas) HasPracticeArea(slug string) bool { return a[slug] }

func (a stubAreas) PracticeAreaCount() int { return len(a) }

// testNow is a Monday morning in UTC
var testNow = time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

var staffRecipients = []string{"office@firm.example"}

type fixture struct {
	bookings *MockBookingRepository
	payments *MockPaymentRepository
	recorder *MockRecorder
	gateway  *MockGateway
	mailer   *MockMailer
	chat     *MockChat
	notifier *PaymentNotifier
	svc      *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		bookings: new(MockBookingRepository),
		payments: new(MockPaymentRepository),
		recorder: new(MockRecorder),
		gateway:  new(MockGateway),
		mailer:   &MockMailer{enabled: true},
		chat:     &MockChat{enabled: true},
	}

	schedule, err := booking.NewSchedule(time.UTC, []string{"09:00", "14:00"},
		[]time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		2*time.Hour, 60)
	require.NoError(t, err)

	renderer, err := notification.NewRenderer(notification.FirmInfo{
		Name:     "Test Firm",
		AdminURL: "https://firm.example/admin",
	}, time.UTC, nil)
	require.NoError(t, err)

	f.notifier = NewPaymentNotifier(f.payments, f.mailer, f.chat, renderer, staffRecipients, zap.NewNop())
	f.notifier.now = func() time.Time { return testNow }

	f.svc = NewService(
		Repositories{Bookings: f.bookings, Payments: f.payments, Recorder: f.recorder},
		f.gateway,
		schedule,
		stubAreas{"family-law": true, "property": true},
		f.notifier,
		Config{Fee: testFee(t)},
		zap.NewNop(),
	)
	f.svc.now = func() time.Time { return testNow }
	return f
}

func testFee(t *testing.T) valueobject.Money {
	t.Helper()
	fee, err := valueobject.NewMoneyFromString("220.00", valueobject.Currency("AUD"))
	require.NoError(t, err)
	return fee
}

// pendingBooking is a held booking for Wednesday 09:00 with a linked session
func pendingBooking(t *testing.T) *booking.Booking {
	t.Helper()
	slot, err := booking.ParseSlot("2026-03-04", "09:00")
	require.NoError(t, err)
	b, err := booking.NewBooking(
		booking.Client{Name: "Jane Citizen", Email: "jane@example.com", Phone: "0400 000 000"},
		"family-law",
		booking.ConsultationVideo,
		slot,
		"",
		testFee(t),
		testNow.Add(30*time.Minute),
	)
	require.NoError(t, err)
	b.AttachCheckoutSession("cs_test_1", "https://checkout.example/cs_test_1")
	return b
}
