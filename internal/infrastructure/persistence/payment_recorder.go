package persistence

import (
	"context"
	"fmt"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/booking"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPaymentRecorder writes a payment, its booking and the booking's
// events to the outbox in a single transaction
type GormPaymentRecorder struct {
	db     *gorm.DB
	outbox shared.OutboxEventSaver
}

// NewGormPaymentRecorder creates a new GormPaymentRecorder
func NewGormPaymentRecorder(db *gorm.DB, outbox shared.OutboxEventSaver) *GormPaymentRecorder {
	return &GormPaymentRecorder{db: db, outbox: outbox}
}

// RecordPayment implements booking.PaymentRecorder. A second payment for the
// same checkout session is swallowed by the unique session index.
func (r *GormPaymentRecorder) RecordPayment(ctx context.Context, b *booking.Booking, p *booking.Payment) (bool, error) {
	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "checkout_session_id"}},
			DoNothing: true,
		}).Create(models.PaymentModelFromDomain(p))
		if result.Error != nil {
			return fmt.Errorf("insert payment: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil
		}

		if err := updateWithLock(tx, models.BookingModelFromDomain(b), b.ID, b.Version); err != nil {
			return err
		}
		if events := b.GetDomainEvents(); len(events) > 0 {
			if err := r.outbox.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("save events: %w", err)
			}
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if created {
		b.ClearDomainEvents()
	}
	return created, nil
}

// Ensure GormPaymentRecorder implements booking.PaymentRecorder
var _ booking.PaymentRecorder = (*GormPaymentRecorder)(nil)
