package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/identity"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAdminUserRepository implements identity.AdminUserRepository using GORM
type GormAdminUserRepository struct {
	db *gorm.DB
}

// NewGormAdminUserRepository creates a new GormAdminUserRepository
func NewGormAdminUserRepository(db *gorm.DB) *GormAdminUserRepository {
	return &GormAdminUserRepository{db: db}
}

// Create inserts a new admin
func (r *GormAdminUserRepository) Create(ctx context.Context, user *identity.AdminUser) error {
	err := r.db.WithContext(ctx).Create(models.AdminUserModelFromDomain(user)).Error
	if isUniqueViolation(err, "email") {
		return shared.ErrAlreadyExists
	}
	return err
}

// Update saves an admin under an optimistic lock
func (r *GormAdminUserRepository) Update(ctx context.Context, user *identity.AdminUser) error {
	return updateWithLock(r.db.WithContext(ctx), models.AdminUserModelFromDomain(user), user.ID, user.Version)
}

// FindByID finds an admin by ID
func (r *GormAdminUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.AdminUser, error) {
	var model models.AdminUserModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err, identity.ErrAdminNotFound)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds an admin by email, ignoring case
func (r *GormAdminUserRepository) FindByEmail(ctx context.Context, email string) (*identity.AdminUser, error) {
	var model models.AdminUserModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err, identity.ErrAdminNotFound)
	}
	return model.ToDomain(), nil
}

// Count counts all admins
func (r *GormAdminUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.AdminUserModel{}).Count(&count).Error
	return count, err
}

// Ensure GormAdminUserRepository implements identity.AdminUserRepository
var _ identity.AdminUserRepository = (*GormAdminUserRepository)(nil)
