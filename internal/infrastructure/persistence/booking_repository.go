package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/booking"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormBookingRepository implements booking.Repository using GORM
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// Create inserts a new booking. The active-slot index turns a race into ErrSlotUnavailable.
func (r *GormBookingRepository) Create(ctx context.Context, b *booking.Booking) error {
	err := r.db.WithContext(ctx).Create(models.BookingModelFromDomain(b)).Error
	if isUniqueViolation(err, "slot") {
		return booking.ErrSlotUnavailable
	}
	return err
}

// Save updates a booking under an optimistic lock
func (r *GormBookingRepository) Save(ctx context.Context, b *booking.Booking) error {
	err := updateWithLock(r.db.WithContext(ctx), models.BookingModelFromDomain(b), b.ID, b.Version)
	if isUniqueViolation(err, "slot") {
		return booking.ErrSlotUnavailable
	}
	return err
}

// FindByID finds a booking by ID
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByReference finds a booking by its human reference
func (r *GormBookingRepository) FindByReference(ctx context.Context, reference string) (*booking.Booking, error) {
	return r.findOne(ctx, "reference = ?", strings.ToUpper(strings.TrimSpace(reference)))
}

// FindByCheckoutSessionID finds the booking a checkout session was created for
func (r *GormBookingRepository) FindByCheckoutSessionID(ctx context.Context, sessionID string) (*booking.Booking, error) {
	if sessionID == "" {
		return nil, booking.ErrBookingNotFound
	}
	return r.findOne(ctx, "checkout_session_id = ?", sessionID)
}

func (r *GormBookingRepository) findOne(ctx context.Context, cond string, arg any) (*booking.Booking, error) {
	var model models.BookingModel
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&model).Error; err != nil {
		return nil, translateNotFound(err, booking.ErrBookingNotFound)
	}
	return model.ToDomain(), nil
}

// active restricts to bookings holding their slot at now
func active(query *gorm.DB, now time.Time) *gorm.DB {
	return query.Where("(status = ? OR (status = ? AND expires_at > ?))",
		booking.StatusConfirmed, booking.StatusPendingPayment, now.UTC())
}

// ExistsActiveForSlot reports whether a confirmed, or unexpired pending, booking holds slot
func (r *GormBookingRepository) ExistsActiveForSlot(ctx context.Context, slot booking.Slot, now time.Time) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.BookingModel{}).
		Where("slot_date = ? AND slot_time = ?", slot.Date, slot.Time)
	if err := active(query, now).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindActiveTimesOn returns the held slot times for a date
func (r *GormBookingRepository) FindActiveTimesOn(ctx context.Context, date string, now time.Time) ([]string, error) {
	var times []string
	query := r.db.WithContext(ctx).Model(&models.BookingModel{}).Where("slot_date = ?", date)
	if err := active(query, now).Distinct().Order("slot_time").Pluck("slot_time", &times).Error; err != nil {
		return nil, err
	}
	if times == nil {
		times = []string{}
	}
	return times, nil
}

// ExpireStale moves pending bookings whose checkout lapsed to expired
func (r *GormBookingRepository) ExpireStale(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.BookingModel{}).
		Where("status = ? AND expires_at <= ?", booking.StatusPendingPayment, now.UTC()).
		Updates(map[string]any{
			"status":     booking.StatusExpired,
			"updated_at": now.UTC(),
			"version":    gorm.Expr("version + 1"),
		})
	return result.RowsAffected, result.Error
}

// FindAll lists bookings matching the filter with the total count before paging
func (r *GormBookingRepository) FindAll(ctx context.Context, filter booking.Filter) ([]booking.Booking, int64, error) {
	f := filter.Filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.BookingModel{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.DateFrom != "" {
		query = query.Where("slot_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query = query.Where("slot_date <= ?", filter.DateTo)
	}
	if f.Search != "" {
		clause, args := searchClause(r.db, f.Search, "reference", "client_name", "client_email")
		query = query.Where(clause, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := bookingSort.order(f.OrderBy, f.OrderDir)
	if strings.HasPrefix(order, "slot_date ") {
		order += ", slot_time " + sortDirection(f.OrderDir)
	}
	var rows []models.BookingModel
	if err := paginate(query.Order(order), f).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return models.BookingsToDomain(rows), total, nil
}

// CountConfirmedBetween counts bookings paid with from <= paid_at < to
func (r *GormBookingRepository) CountConfirmedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BookingModel{}).
		Where("status = ? AND paid_at >= ? AND paid_at < ?", booking.StatusConfirmed, from.UTC(), to.UTC()).
		Count(&count).Error
	return count, err
}

// CountUpcomingConfirmed counts confirmed bookings on or after date
func (r *GormBookingRepository) CountUpcomingConfirmed(ctx context.Context, date string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.BookingModel{}).
		Where("status = ? AND slot_date >= ?", booking.StatusConfirmed, date).
		Count(&count).Error
	return count, err
}

// Ensure GormBookingRepository implements booking.Repository
var _ booking.Repository = (*GormBookingRepository)(nil)
