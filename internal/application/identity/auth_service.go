// Package identity contains the back-office authentication use cases.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/identity"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// Token errors returned to clients
var (
	ErrTokenExpired    = shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	ErrTokenInvalid    = shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	ErrTokenMaxRefresh = shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	ErrTokenRevoked    = shared.NewDomainError("TOKEN_REVOKED", "Token has been revoked")
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // Maximum failed login attempts before lock
	LockDuration     time.Duration // How long to lock account after max attempts
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.AdminUserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	config     AuthServiceConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.AdminUserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	if config.MaxLoginAttempts <= 0 {
		config.MaxLoginAttempts = DefaultAuthServiceConfig().MaxLoginAttempts
	}
	if config.LockDuration <= 0 {
		config.LockDuration = DefaultAuthServiceConfig().LockDuration
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		config:     config,
		logger:     logger,
		now:        time.Now,
	}
}

// Bootstrap creates the first admin when the store has none.
// It does nothing when credentials are not configured or an admin already exists.
func (s *AuthService) Bootstrap(ctx context.Context, input BootstrapInput) error {
	if input.Email == "" || input.Password == "" {
		s.logger.Debug("Admin bootstrap skipped: no credentials configured")
		return nil
	}

	count, err := s.userRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admin users: %w", err)
	}
	if count > 0 {
		return nil
	}

	user, err := identity.NewAdminUser(input.Email, input.Name, input.Password)
	if err != nil {
		return fmt.Errorf("invalid bootstrap admin: %w", err)
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// another instance won the race
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("failed to create bootstrap admin: %w", err)
	}

	s.logger.Info("Bootstrap admin created", zap.String("email", user.Email))
	return nil
}

// Login authenticates an admin and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*Session, error) {
	s.logger.Info("Login attempt", zap.String("email", input.Email))
	now := s.now()

	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if shared.IsNotFound(err) {
			s.logger.Warn("Admin not found during login", zap.String("email", input.Email))
			return nil, identity.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}

	if err := user.CheckCanLogin(now); err != nil {
		s.logger.Warn("Login attempt for blocked account",
			zap.String("email", user.Email),
			zap.Error(err))
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration, now)
		if err := s.userRepo.Update(ctx, user); err != nil {
			s.logger.Error("Failed to update admin after login failure", zap.Error(err))
		}

		if locked {
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("email", user.Email),
				zap.Int("attempts", s.config.MaxLoginAttempts))
		} else {
			s.logger.Warn("Invalid password attempt",
				zap.String("email", user.Email),
				zap.Int("failed_attempts", user.FailedAttempts))
		}
		return nil, identity.ErrInvalidCredentials
	}

	tokenPair, err := s.jwtService.GenerateTokenPair(tokenInput(user))
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	user.RecordLoginSuccess(input.IP, now)
	if err := s.userRepo.Update(ctx, user); err != nil {
		// the tokens are already valid
		s.logger.Error("Failed to update admin after successful login", zap.Error(err))
	}

	s.logger.Info("Admin logged in",
		zap.String("email", user.Email),
		zap.String("user_id", user.ID.String()))

	return &Session{TokenPair: *tokenPair, Admin: toAdminInfo(user)}, nil
}

// RefreshToken exchanges a valid refresh token for a new pair and revokes the old one
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, ErrTokenInvalid
	}

	if err := s.checkNotRevoked(ctx, claims); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("failed to load admin: %w", err)
	}
	if err := user.CheckCanLogin(s.now()); err != nil {
		s.logger.Warn("Token refresh for blocked account", zap.String("user_id", userID.String()))
		return nil, err
	}

	tokenPair, err := s.jwtService.RefreshTokenPair(refreshToken, tokenInput(user))
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	// one use per refresh token
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		s.logger.Error("Failed to revoke used refresh token", zap.Error(err))
	}

	s.logger.Info("Token refreshed", zap.String("user_id", userID.String()))

	return tokenPair, nil
}

// Logout blacklists the presented access token, and the refresh token when given
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("Admin logout", zap.String("user_id", input.UserID.String()))

	if input.TokenJTI != "" {
		if err := s.blacklist.Revoke(ctx, input.TokenJTI, input.TokenTTL); err != nil {
			return fmt.Errorf("failed to revoke access token: %w", err)
		}
	}

	if input.RefreshToken == "" {
		return nil
	}
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		// nothing to revoke
		return nil
	}
	if claims.UserID != input.UserID.String() {
		s.logger.Warn("Logout with refresh token of another user", zap.String("user_id", input.UserID.String()))
		return nil
	}
	if err := s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// Me returns the profile of the signed-in admin
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*AdminInfo, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	info := toAdminInfo(user)
	return &info, nil
}

// ChangePassword changes the admin's password and revokes every token issued before it
func (s *AuthService) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, input.UserID)
	if err != nil {
		return err
	}

	if err := user.ChangePassword(input.OldPassword, input.NewPassword); err != nil {
		return err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update admin after password change", zap.Error(err))
		return fmt.Errorf("failed to update password: %w", err)
	}

	if err := s.blacklist.RevokeUser(ctx, user.ID.String(), s.jwtService.GetRefreshTokenExpiration()); err != nil {
		s.logger.Error("Failed to revoke tokens after password change",
			zap.String("user_id", user.ID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to revoke existing sessions: %w", err)
	}

	s.logger.Info("Admin password changed", zap.String("user_id", input.UserID.String()))
	return nil
}

func (s *AuthService) checkNotRevoked(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return fmt.Errorf("failed to check token blacklist: %w", err)
	}
	if revoked {
		return ErrTokenRevoked
	}
	revoked, err = s.blacklist.IsUserRevoked(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		return fmt.Errorf("failed to check token blacklist: %w", err)
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return ErrTokenExpired
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return ErrTokenMaxRefresh
	default:
		return ErrTokenInvalid
	}
}

func tokenInput(user *identity.AdminUser) auth.GenerateTokenInput {
	return auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}
}

func toAdminInfo(user *identity.AdminUser) AdminInfo {
	return AdminInfo{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		LastLoginAt: user.LastLoginAt,
	}
}
