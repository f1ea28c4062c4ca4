package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/application/identity"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/auth"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,max=128"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally carries the refresh token to revoke with the session
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// AdminUserResponse is the signed-in admin, never with credentials
type AdminUserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

func newAdminUserResponse(info identity.AdminInfo) AdminUserResponse {
	return AdminUserResponse(info)
}

// SessionResponse answers login and refresh. User is left out on refresh.
type SessionResponse struct {
	Token auth.TokenPair     `json:"token"`
	User  *AdminUserResponse `json:"user,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
