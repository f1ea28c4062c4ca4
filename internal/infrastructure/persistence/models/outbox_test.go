package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestOutboxEntryModel_Conversion(t *testing.T) {
	ev := shared.NewBaseDomainEvent("booking.payment_completed", "Booking", uuid.New())
	entry := shared.NewOutboxEntry(&ev, []byte(`{}`))
	entry.MarkFailed("smtp: timeout")

	m := OutboxEntryModelFromDomain(entry)
	assert.Equal(t, entry.NextRetryAt, m.NextRetryAt)
	assert.Equal(t, entry, m.ToDomain())
	assert.Equal(t, []*shared.OutboxEntry{entry}, OutboxEntriesToDomain([]OutboxEntryModel{*m}))
}
