// Package identity models the back-office administrators.
package identity

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Status of an admin account
type Status string

const (
	StatusActive   Status = "active"
	StatusDisabled Status = "disabled"
)

// Password cost for bcrypt
const bcryptCost = 12

var (
	ErrAdminNotFound      = shared.NewDomainError("NOT_FOUND", "Admin user not found")
	ErrInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	ErrAccountLocked      = shared.NewDomainError("ACCOUNT_LOCKED", "Account is temporarily locked")
	ErrAccountDisabled    = shared.NewDomainError("ACCOUNT_DISABLED", "Account is disabled")
	ErrInvalidPassword    = shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
)

var (
	emailRegex  = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	letterRegex = regexp.MustCompile(`[a-zA-Z]`)
	digitRegex  = regexp.MustCompile(`[0-9]`)
)

// AdminUser can sign in to the back office
type AdminUser struct {
	shared.BaseAggregateRoot
	Email             string
	Name              string
	PasswordHash      string
	Status            Status
	FailedAttempts    int
	LockedUntil       *time.Time
	LastLoginAt       *time.Time
	LastLoginIP       string
	PasswordChangedAt *time.Time
}

// NewAdminUser creates an active admin with a hashed password
func NewAdminUser(email, name, password string) (*AdminUser, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = email
	}
	if utf8.RuneCountInString(name) > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot exceed 100 characters")
	}

	u := &AdminUser{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		Name:              name,
		Status:            StatusActive,
	}
	if err := u.setPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// ChangePassword verifies the current password before replacing it
func (u *AdminUser) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return ErrInvalidPassword
	}
	if err := u.setPassword(newPassword); err != nil {
		return err
	}
	u.IncrementVersion()
	return nil
}

func (u *AdminUser) setPassword(password string) error {
	if err := ValidatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = string(hash)
	now := time.Now()
	u.PasswordChangedAt = &now
	u.UpdatedAt = now
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *AdminUser) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// IsLocked reports whether a lockout is in force at now
func (u *AdminUser) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// CheckCanLogin returns the reason the account cannot sign in, if any
func (u *AdminUser) CheckCanLogin(now time.Time) error {
	if u.Status == StatusDisabled {
		return ErrAccountDisabled
	}
	if u.IsLocked(now) {
		return ErrAccountLocked
	}
	return nil
}

// RecordLoginSuccess clears failure counters
func (u *AdminUser) RecordLoginSuccess(ip string, now time.Time) {
	u.LastLoginAt = &now
	u.LastLoginIP = truncate(ip, 45)
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.UpdatedAt = now
	u.IncrementVersion()
}

// RecordLoginFailure counts a bad password.
// Returns true if the account is now locked.
func (u *AdminUser) RecordLoginFailure(maxAttempts int, lockDuration time.Duration, now time.Time) bool {
	// an expired lock starts a fresh window
	if u.LockedUntil != nil && !now.Before(*u.LockedUntil) {
		u.LockedUntil = nil
		u.FailedAttempts = 0
	}
	u.FailedAttempts++
	u.UpdatedAt = now
	u.IncrementVersion()

	if maxAttempts > 0 && u.FailedAttempts >= maxAttempts {
		until := now.Add(lockDuration)
		u.LockedUntil = &until
		return true
	}
	return false
}

// Disable blocks sign-in
func (u *AdminUser) Disable() {
	u.Status = StatusDisabled
	u.Touch()
	u.IncrementVersion()
}

// Enable re-allows sign-in and clears any lockout
func (u *AdminUser) Enable() {
	u.Status = StatusActive
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.Touch()
	u.IncrementVersion()
}

// ValidatePassword enforces the admin password policy
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("WEAK_PASSWORD", "Password must be at least 8 characters")
	}
	// bcrypt ignores everything past 72 bytes
	if len(password) > 72 {
		return shared.NewDomainError("WEAK_PASSWORD", "Password cannot exceed 72 characters")
	}
	if !letterRegex.MatchString(password) || !digitRegex.MatchString(password) {
		return shared.NewDomainError("WEAK_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
