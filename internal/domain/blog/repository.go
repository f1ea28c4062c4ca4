package blog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
)

// PostFilter narrows a post listing
type PostFilter struct {
	shared.Filter
	Status PostStatus
	Tag    string
	// PublishedBefore, when set, restricts to published posts visible at that instant
	PublishedBefore *time.Time
}

// TagCount is a tag with the number of published posts carrying it
type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

// PostRepository persists posts
type PostRepository interface {
	Save(ctx context.Context, post *Post) error
	FindByID(ctx context.Context, id uuid.UUID) (*Post, error)
	FindBySlug(ctx context.Context, slug string) (*Post, error)
	ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error)
	FindAll(ctx context.Context, filter PostFilter) ([]Post, int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementViewCount(ctx context.Context, id uuid.UUID) error
	ListPublishedTags(ctx context.Context, now time.Time) ([]TagCount, error)
	// CountPublishedBetween counts posts whose published_at falls in [from, to)
	CountPublishedBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountByStatus(ctx context.Context, status PostStatus) (int64, error)
	FindRecent(ctx context.Context, limit int) ([]Post, error)
}

// CommentFilter narrows a comment listing for moderation
type CommentFilter struct {
	shared.Filter
	Status CommentStatus
	PostID *uuid.UUID
}

// CommentRepository persists comments
type CommentRepository interface {
	Save(ctx context.Context, c *Comment) error
	FindByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	FindByPost(ctx context.Context, postID uuid.UUID, status CommentStatus) ([]Comment, error)
	FindAll(ctx context.Context, filter CommentFilter) ([]Comment, int64, error)
	// DeleteWithReplies removes a comment and every descendant, returning how many rows went
	DeleteWithReplies(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteByPost(ctx context.Context, postID uuid.UUID) error
}
