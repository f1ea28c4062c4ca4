package identity

import (
	"context"

	"github.com/google/uuid"
)

// AdminUserRepository defines the interface for admin persistence
type AdminUserRepository interface {
	// Create inserts a new admin. A duplicate email returns shared.ErrAlreadyExists.
	Create(ctx context.Context, user *AdminUser) error

	// Update saves changes to an existing admin
	Update(ctx context.Context, user *AdminUser) error

	FindByID(ctx context.Context, id uuid.UUID) (*AdminUser, error)

	// FindByEmail looks up by the lower-cased email
	FindByEmail(ctx context.Context, email string) (*AdminUser, error)

	Count(ctx context.Context) (int64, error)
}
