package enquiry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
)

// Filter narrows an enquiry listing
type Filter struct {
	shared.Filter
	Status Status
}

// Repository persists enquiries
type Repository interface {
	Save(ctx context.Context, e *Enquiry) error
	FindByID(ctx context.Context, id uuid.UUID) (*Enquiry, error)
	FindAll(ctx context.Context, filter Filter) ([]Enquiry, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// CountCreatedBetween counts enquiries with from <= created_at < to
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
	FindRecent(ctx context.Context, limit int) ([]Enquiry, error)
}
