package models

import (
	"time"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/identity"
)

// AdminUserModel is the persistence model for back-office administrators
type AdminUserModel struct {
	AggregateModel
	Email             string          `gorm:"type:varchar(200);not null;uniqueIndex:idx_admin_users_email"`
	Name              string          `gorm:"type:varchar(100);not null"`
	PasswordHash      string          `gorm:"type:varchar(255);not null"`
	Status            identity.Status `gorm:"type:varchar(20);not null"`
	FailedAttempts    int             `gorm:"not null"`
	LockedUntil       *time.Time
	LastLoginAt       *time.Time
	LastLoginIP       string `gorm:"type:varchar(45)"`
	PasswordChangedAt *time.Time
}

// TableName returns the table name for GORM
func (AdminUserModel) TableName() string {
	return "admin_users"
}

// ToDomain converts the persistence model to a domain AdminUser
func (m *AdminUserModel) ToDomain() *identity.AdminUser {
	return &identity.AdminUser{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Email:             m.Email,
		Name:              m.Name,
		PasswordHash:      m.PasswordHash,
		Status:            m.Status,
		FailedAttempts:    m.FailedAttempts,
		LockedUntil:       m.LockedUntil,
		LastLoginAt:       m.LastLoginAt,
		LastLoginIP:       m.LastLoginIP,
		PasswordChangedAt: m.PasswordChangedAt,
	}
}

// AdminUserModelFromDomain creates a persistence model from a domain AdminUser
func AdminUserModelFromDomain(u *identity.AdminUser) *AdminUserModel {
	m := &AdminUserModel{
		Email:             u.Email,
		Name:              u.Name,
		PasswordHash:      u.PasswordHash,
		Status:            u.Status,
		FailedAttempts:    u.FailedAttempts,
		LockedUntil:       utcPtr(u.LockedUntil),
		LastLoginAt:       utcPtr(u.LastLoginAt),
		LastLoginIP:       u.LastLoginIP,
		PasswordChangedAt: utcPtr(u.PasswordChangedAt),
	}
	m.FromDomainAggregateRoot(u.BaseAggregateRoot)
	return m
}
