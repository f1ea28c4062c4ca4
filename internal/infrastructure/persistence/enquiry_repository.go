package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/enquiry"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormEnquiryRepository implements enquiry.Repository using GORM
type GormEnquiryRepository struct {
	db *gorm.DB
}

// NewGormEnquiryRepository creates a new GormEnquiryRepository
func NewGormEnquiryRepository(db *gorm.DB) *GormEnquiryRepository {
	return &GormEnquiryRepository{db: db}
}

// Save inserts a new enquiry at version 1, otherwise updates it under an optimistic lock
func (r *GormEnquiryRepository) Save(ctx context.Context, e *enquiry.Enquiry) error {
	model := models.EnquiryModelFromDomain(e)
	if e.Version <= 1 {
		return r.db.WithContext(ctx).Create(model).Error
	}
	return updateWithLock(r.db.WithContext(ctx), model, e.ID, e.Version)
}

// FindByID finds an enquiry by ID
func (r *GormEnquiryRepository) FindByID(ctx context.Context, id uuid.UUID) (*enquiry.Enquiry, error) {
	var model models.EnquiryModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err, enquiry.ErrEnquiryNotFound)
	}
	return model.ToDomain(), nil
}

// FindAll lists enquiries matching the filter with the total count before paging
func (r *GormEnquiryRepository) FindAll(ctx context.Context, filter enquiry.Filter) ([]enquiry.Enquiry, int64, error) {
	f := filter.Filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.EnquiryModel{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if f.Search != "" {
		clause, args := searchClause(r.db, f.Search, "name", "email", "subject", "message")
		query = query.Where(clause, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.EnquiryModel
	if err := paginate(query.Order(enquirySort.order(f.OrderBy, f.OrderDir)), f).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return enquiriesToDomain(rows), total, nil
}

// Delete removes an enquiry
func (r *GormEnquiryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.EnquiryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return enquiry.ErrEnquiryNotFound
	}
	return nil
}

// CountCreatedBetween counts enquiries with from <= created_at < to
func (r *GormEnquiryRepository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.EnquiryModel{}).
		Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC()).
		Count(&count).Error
	return count, err
}

// CountByStatus counts enquiries in a status
func (r *GormEnquiryRepository) CountByStatus(ctx context.Context, status enquiry.Status) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.EnquiryModel{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// FindRecent returns the newest enquiries
func (r *GormEnquiryRepository) FindRecent(ctx context.Context, limit int) ([]enquiry.Enquiry, error) {
	var rows []models.EnquiryModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return enquiriesToDomain(rows), nil
}

func enquiriesToDomain(rows []models.EnquiryModel) []enquiry.Enquiry {
	out := make([]enquiry.Enquiry, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// Ensure GormEnquiryRepository implements enquiry.Repository
var _ enquiry.Repository = (*GormEnquiryRepository)(nil)
