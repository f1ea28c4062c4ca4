package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/booking"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type mockOutboxSaver struct {
	mock.Mock
}

func (m *mockOutboxSaver) SaveEvents(ctx context.Context, txProvider any, events ...shared.DomainEvent) error {
	args := m.Called(ctx, txProvider, events)
	return args.Error(0)
}

// confirmForPayment mirrors what the webhook handler does before recording
func confirmForPayment(t *testing.T, b *booking.Booking, sessionID string, paidAt time.Time) *booking.Payment {
	t.Helper()
	amount, err := valueobject.NewMoneyFromString("150.00", valueobject.AUD)
	require.NoError(t, err)

	late := b.Confirm(paidAt)
	p := booking.NewPayment(b, sessionID, "pi_"+sessionID, amount, "", paidAt)
	b.AddDomainEvent(booking.NewPaymentCompletedEvent(b, p, late))
	return p
}

func TestGormPaymentRecorder_RecordPayment(t *testing.T) {
	db := newSQLiteDB(t)
	bookings := NewGormBookingRepository(db)
	payments := NewGormPaymentRepository(db)
	ctx := context.Background()

	b := newTestBooking(t, "2025-03-12", "10:00", testNow.Add(30*time.Minute))
	insertBooking(t, bookings, b)

	saver := new(mockOutboxSaver)
	saver.On("SaveEvents", mock.Anything, mock.AnythingOfType("*gorm.DB"), mock.MatchedBy(func(events []shared.DomainEvent) bool {
		return len(events) == 1 && events[0].EventType() == booking.EventTypePaymentCompleted
	})).Return(nil).Once()
	recorder := NewGormPaymentRecorder(db, saver)

	p := confirmForPayment(t, b, "cs_test_1", testNow)
	created, err := recorder.RecordPayment(ctx, b, p)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Empty(t, b.GetDomainEvents())

	stored, err := payments.FindByCheckoutSessionID(ctx, "cs_test_1")
	require.NoError(t, err)
	assert.Equal(t, b.ID, stored.BookingID)
	assert.Equal(t, "jane@example.com", stored.CustomerEmail)
	assert.Equal(t, "150.00", stored.Amount.StringFixed())
	assert.False(t, stored.ReceiptSent())

	confirmed, err := bookings.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusConfirmed, confirmed.Status)

	t.Run("replay is swallowed", func(t *testing.T) {
		again, err := bookings.FindByID(ctx, b.ID)
		require.NoError(t, err)
		dup := confirmForPayment(t, again, "cs_test_1", testNow)

		created, err := recorder.RecordPayment(ctx, again, dup)
		require.NoError(t, err)
		assert.False(t, created)
		saver.AssertExpectations(t)
	})
}

func TestGormPaymentRecorder_RollsBackOnOutboxFailure(t *testing.T) {
	db := newSQLiteDB(t)
	bookings := NewGormBookingRepository(db)
	ctx := context.Background()

	b := newTestBooking(t, "2025-03-12", "10:00", testNow.Add(30*time.Minute))
	insertBooking(t, bookings, b)

	saver := new(mockOutboxSaver)
	saver.On("SaveEvents", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("outbox down"))

	p := confirmForPayment(t, b, "cs_test_2", testNow)
	created, err := NewGormPaymentRecorder(db, saver).RecordPayment(ctx, b, p)
	assert.Error(t, err)
	assert.False(t, created)
	assert.Len(t, b.GetDomainEvents(), 1)

	_, err = NewGormPaymentRepository(db).FindByCheckoutSessionID(ctx, "cs_test_2")
	assert.ErrorIs(t, err, booking.ErrPaymentNotFound)

	found, err := bookings.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPendingPayment, found.Status)
}

func TestGormPaymentRecorder_StaleBooking(t *testing.T) {
	db := newSQLiteDB(t)
	bookings := NewGormBookingRepository(db)
	ctx := context.Background()

	b := newTestBooking(t, "2025-03-12", "10:00", testNow.Add(30*time.Minute))
	insertBooking(t, bookings, b)
	stale := *b
	b.AttachCheckoutSession("cs_test_3", "https://checkout.example/cs_test_3")
	require.NoError(t, bookings.Save(ctx, b))

	p := confirmForPayment(t, &stale, "cs_test_3", testNow)
	_, err := NewGormPaymentRecorder(db, new(mockOutboxSaver)).RecordPayment(ctx, &stale, p)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func seedPayments(t *testing.T, db *gorm.DB) []*booking.Payment {
	t.Helper()
	bookings := NewGormBookingRepository(db)
	saver := new(mockOutboxSaver)
	saver.On("SaveEvents", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	recorder := NewGormPaymentRecorder(db, saver)

	paidAt := []time.Time{
		time.Date(2025, 2, 28, 23, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 2, 10, 0, 0, 0, time.UTC),
		time.Date(2025, 3, 9, 10, 0, 0, 0, time.UTC),
	}
	var out []*booking.Payment
	for i, at := range paidAt {
		b := newTestBooking(t, "2025-03-2"+string(rune('0'+i)), "10:00", testNow.Add(time.Hour))
		insertBooking(t, bookings, b)
		p := confirmForPayment(t, b, "cs_seed_"+string(rune('a'+i)), at)
		created, err := recorder.RecordPayment(context.Background(), b, p)
		require.NoError(t, err)
		require.True(t, created)
		out = append(out, p)
	}
	return out
}

func TestGormPaymentRepository_Queries(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()
	seeded := seedPayments(t, db)
	march := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("sum paid in month", func(t *testing.T) {
		sum, err := repo.SumPaidBetween(ctx, march, march.AddDate(0, 1, 0), valueobject.AUD)
		require.NoError(t, err)
		assert.Equal(t, "300.00", sum.StringFixed())
		assert.Equal(t, valueobject.AUD, sum.Currency())
	})

	t.Run("sum with no rows is zero", func(t *testing.T) {
		sum, err := repo.SumPaidBetween(ctx, march, march.AddDate(0, 1, 0), valueobject.NZD)
		require.NoError(t, err)
		assert.True(t, sum.IsZero())
		assert.Equal(t, valueobject.NZD, sum.Currency())
	})

	t.Run("find all by paid window", func(t *testing.T) {
		from, to := march, march.AddDate(0, 1, 0)
		items, total, err := repo.FindAll(ctx, booking.PaymentFilter{PaidFrom: &from, PaidTo: &to})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, items, 2)
		// newest first by default
		assert.Equal(t, seeded[2].ID, items[0].ID)
	})

	t.Run("find all by booking", func(t *testing.T) {
		items, total, err := repo.FindAll(ctx, booking.PaymentFilter{BookingID: &seeded[0].BookingID})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, seeded[0].ID, items[0].ID)
	})

	t.Run("recent", func(t *testing.T) {
		items, err := repo.FindRecent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, seeded[2].ID, items[0].ID)
		assert.Equal(t, seeded[1].ID, items[1].ID)
	})
}

func TestGormPaymentRepository_MarkSent(t *testing.T) {
	db := newSQLiteDB(t)
	repo := NewGormPaymentRepository(db)
	ctx := context.Background()
	p := seedPayments(t, db)[0]
	at := testNow.Add(time.Minute)

	require.NoError(t, repo.MarkReceiptSent(ctx, p.ID, at))
	found, err := repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, found.ReceiptSent())
	assert.False(t, found.NotificationSent())

	require.NoError(t, repo.MarkNotificationSent(ctx, p.ID, at))
	found, err = repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, found.NotificationSent())
	assert.True(t, found.NotificationSentAt.Equal(at))

	assert.ErrorIs(t, repo.MarkReceiptSent(ctx, uuid.New(), at), booking.ErrPaymentNotFound)
}
