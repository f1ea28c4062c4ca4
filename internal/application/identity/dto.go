package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/auth"
)

type LoginInput struct {
	Email    string
	Password string
	// IP is recorded on the admin as the last login address
	IP string
}

// Session is what a successful login hands back
type Session struct {
	auth.TokenPair
	Admin AdminInfo
}

// AdminInfo is the admin profile safe to show the client
type AdminInfo struct {
	ID          uuid.UUID
	Email       string
	Name        string
	LastLoginAt *time.Time
}

// LogoutInput names the tokens to revoke. RefreshToken is optional.
type LogoutInput struct {
	UserID       uuid.UUID
	TokenJTI     string
	TokenTTL     time.Duration
	RefreshToken string
}

type ChangePasswordInput struct {
	UserID      uuid.UUID
	OldPassword string
	NewPassword string
}

// BootstrapInput describes the first admin created on an empty store
type BootstrapInput struct {
	Email    string
	Password string
	Name     string
}
