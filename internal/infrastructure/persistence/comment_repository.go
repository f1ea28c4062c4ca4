package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/blog"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCommentRepository implements blog.CommentRepository using GORM
type GormCommentRepository struct {
	db *gorm.DB
}

// NewGormCommentRepository creates a new GormCommentRepository
func NewGormCommentRepository(db *gorm.DB) *GormCommentRepository {
	return &GormCommentRepository{db: db}
}

// Save creates or updates a comment
func (r *GormCommentRepository) Save(ctx context.Context, c *blog.Comment) error {
	return r.db.WithContext(ctx).Save(models.CommentModelFromDomain(c)).Error
}

// FindByID finds a comment by ID
func (r *GormCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*blog.Comment, error) {
	var model models.CommentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err, blog.ErrCommentNotFound)
	}
	return model.ToDomain(), nil
}

// FindByPost lists a post's comments oldest first. An empty status returns all.
func (r *GormCommentRepository) FindByPost(ctx context.Context, postID uuid.UUID, status blog.CommentStatus) ([]blog.Comment, error) {
	query := r.db.WithContext(ctx).Where("post_id = ?", postID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	var rows []models.CommentModel
	if err := query.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return commentsToDomain(rows), nil
}

// FindAll lists comments for moderation
func (r *GormCommentRepository) FindAll(ctx context.Context, filter blog.CommentFilter) ([]blog.Comment, int64, error) {
	f := filter.Filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.CommentModel{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PostID != nil {
		query = query.Where("post_id = ?", *filter.PostID)
	}
	if f.Search != "" {
		clause, args := searchClause(r.db, f.Search, "author_name", "author_email", "body")
		query = query.Where(clause, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CommentModel
	if err := paginate(query.Order(commentSort.order(f.OrderBy, f.OrderDir)), f).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return commentsToDomain(rows), total, nil
}

// DeleteWithReplies removes a comment and every descendant
func (r *GormCommentRepository) DeleteWithReplies(ctx context.Context, id uuid.UUID) (int64, error) {
	var deleted int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&models.CommentModel{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return blog.ErrCommentNotFound
		}

		ids := []uuid.UUID{id}
		frontier := []uuid.UUID{id}
		// one pass per nesting level
		for len(frontier) > 0 {
			var children []uuid.UUID
			if err := tx.Model(&models.CommentModel{}).
				Where("parent_id IN ?", frontier).
				Pluck("id", &children).Error; err != nil {
				return err
			}
			ids = append(ids, children...)
			frontier = children
		}

		result := tx.Where("id IN ?", ids).Delete(&models.CommentModel{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	return deleted, err
}

// DeleteByPost removes every comment on a post
func (r *GormCommentRepository) DeleteByPost(ctx context.Context, postID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("post_id = ?", postID).Delete(&models.CommentModel{}).Error
}

func commentsToDomain(rows []models.CommentModel) []blog.Comment {
	out := make([]blog.Comment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}

// Ensure GormCommentRepository implements blog.CommentRepository
var _ blog.CommentRepository = (*GormCommentRepository)(nil)
