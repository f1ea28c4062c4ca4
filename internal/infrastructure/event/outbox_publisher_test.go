package event

import (
	"context"
	"errors"
	"testing"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/booking"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestPublisher(types ...string) *OutboxPublisher {
	s := NewEventSerializer()
	for _, t := range types {
		RegisterEvent[testEvent](s, t)
	}
	return NewOutboxPublisher(s)
}

func TestOutboxPublisher_SaveEvents(t *testing.T) {
	repo := newOutboxTestRepo(t)
	publisher := newTestPublisher("TestEvent")
	ctx := context.Background()

	events := []shared.DomainEvent{newTestEvent("TestEvent"), newTestEvent("TestEvent")}
	err := repo.db.Transaction(func(tx *gorm.DB) error {
		return publisher.SaveEvents(ctx, tx, events...)
	})
	require.NoError(t, err)

	pending, err := repo.FindPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	for _, e := range pending {
		assert.Equal(t, "TestEvent", e.EventType)
		assert.Contains(t, string(e.Payload), `"data":"test data"`)
	}
}

func TestOutboxPublisher_SaveEvents_RollsBackWithCaller(t *testing.T) {
	repo := newOutboxTestRepo(t)
	publisher := newTestPublisher("TestEvent")
	ctx := context.Background()

	boom := errors.New("payment insert failed")
	err := repo.db.Transaction(func(tx *gorm.DB) error {
		if err := publisher.SaveEvents(ctx, tx, newTestEvent("TestEvent")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	pending, err := repo.FindPending(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestOutboxPublisher_SaveEvents_Refusals(t *testing.T) {
	repo := newOutboxTestRepo(t)
	publisher := newTestPublisher("TestEvent")
	ctx := context.Background()

	t.Run("no events", func(t *testing.T) {
		assert.NoError(t, publisher.SaveEvents(ctx, "ignored"))
	})

	t.Run("unregistered type", func(t *testing.T) {
		err := publisher.SaveEvents(ctx, repo.db, newTestEvent("TestEvent"), newTestEvent("NotRegistered"))
		require.ErrorIs(t, err, ErrUnknownEventType)

		// nothing from the batch is written
		pending, err := repo.FindPending(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})

	t.Run("wrong tx type", func(t *testing.T) {
		err := publisher.SaveEvents(ctx, "not a tx", newTestEvent("TestEvent"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "*gorm.DB")
	})
}

func TestRegisterAllEvents(t *testing.T) {
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)

	assert.True(t, serializer.IsRegistered(booking.EventTypePaymentCompleted))
}
