package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/booking"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared/valueobject"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormPaymentRepository implements booking.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// FindByID finds a payment by ID
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err, booking.ErrPaymentNotFound)
	}
	return model.ToDomain(), nil
}

// FindByCheckoutSessionID finds the payment recorded for a checkout session
func (r *GormPaymentRepository) FindByCheckoutSessionID(ctx context.Context, sessionID string) (*booking.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).First(&model, "checkout_session_id = ?", sessionID).Error; err != nil {
		return nil, translateNotFound(err, booking.ErrPaymentNotFound)
	}
	return model.ToDomain(), nil
}

// MarkReceiptSent stamps the receipt delivery time
func (r *GormPaymentRepository) MarkReceiptSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.markSent(ctx, id, "receipt_sent_at", at)
}

// MarkNotificationSent stamps the staff notification delivery time
func (r *GormPaymentRepository) MarkNotificationSent(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.markSent(ctx, id, "notification_sent_at", at)
}

func (r *GormPaymentRepository) markSent(ctx context.Context, id uuid.UUID, column string, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{column: at.UTC(), "updated_at": at.UTC()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return booking.ErrPaymentNotFound
	}
	return nil
}

// FindAll lists payments matching the filter with the total count before paging
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter booking.PaymentFilter) ([]booking.Payment, int64, error) {
	f := filter.Filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.PaymentModel{})
	if filter.BookingID != nil {
		query = query.Where("booking_id = ?", *filter.BookingID)
	}
	if filter.PaidFrom != nil {
		query = query.Where("paid_at >= ?", filter.PaidFrom.UTC())
	}
	if filter.PaidTo != nil {
		query = query.Where("paid_at < ?", filter.PaidTo.UTC())
	}
	if f.Search != "" {
		clause, args := searchClause(r.db, f.Search, "customer_email", "checkout_session_id", "payment_intent_id")
		query = query.Where(clause, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.PaymentModel
	order := paymentSort.order(f.OrderBy, f.OrderDir)
	if err := paginate(query.Order(order), f).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return paymentsToDomain(rows), total, nil
}

// SumPaidBetween totals payments in currency with from <= paid_at < to
func (r *GormPaymentRepository) SumPaidBetween(ctx context.Context, from, to time.Time, currency valueobject.Currency) (valueobject.Money, error) {
	var row struct {
		Total decimal.NullDecimal
	}
	err := r.db.WithContext(ctx).Model(&models.PaymentModel{}).
		Select("SUM(amount) AS total").
		Where("status = ? AND currency = ? AND paid_at >= ? AND paid_at < ?",
			booking.PaymentStatusPaid, string(currency), from.UTC(), to.UTC()).
		Scan(&row).Error
	if err != nil {
		return valueobject.Money{}, err
	}
	if !row.Total.Valid {
		return valueobject.Zero(currency), nil
	}
	return valueobject.NewMoney(row.Total.Decimal, currency)
}

// FindRecent returns the latest payments, newest first
func (r *GormPaymentRepository) FindRecent(ctx context.Context, limit int) ([]booking.Payment, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []models.PaymentModel
	if err := r.db.WithContext(ctx).Order("paid_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return paymentsToDomain(rows), nil
}

func paymentsToDomain(rows []models.PaymentModel) []booking.Payment {
	payments := make([]booking.Payment, len(rows))
	for i := range rows {
		payments[i] = *rows[i].ToDomain()
	}
	return payments
}

// Ensure GormPaymentRepository implements booking.PaymentRepository
var _ booking.PaymentRepository = (*GormPaymentRepository)(nil)
