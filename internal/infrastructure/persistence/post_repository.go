package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/blog"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPostRepository implements blog.PostRepository using GORM
type GormPostRepository struct {
	db *gorm.DB
}

// NewGormPostRepository creates a new GormPostRepository
func NewGormPostRepository(db *gorm.DB) *GormPostRepository {
	return &GormPostRepository{db: db}
}

// Save inserts a post at version 1, or updates it under an optimistic lock.
// The post's tags replace whatever was stored before.
func (r *GormPostRepository) Save(ctx context.Context, post *blog.Post) error {
	model := models.PostModelFromDomain(post)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if post.Version <= 1 {
			if err := tx.Create(model).Error; err != nil {
				return err
			}
		} else if err := updateWithLock(tx, model, post.ID, post.Version); err != nil {
			return err
		}

		if err := tx.Where("post_id = ?", post.ID).Delete(&models.PostTagModel{}).Error; err != nil {
			return err
		}
		if tags := models.PostTagModelsFromDomain(post); len(tags) > 0 {
			return tx.Create(&tags).Error
		}
		return nil
	})
	if isUniqueViolation(err, "slug") {
		return blog.ErrSlugTaken
	}
	return err
}

// FindByID finds a post by ID
func (r *GormPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*blog.Post, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindBySlug finds a post by slug regardless of status
func (r *GormPostRepository) FindBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	return r.findOne(ctx, "slug = ?", slug)
}

func (r *GormPostRepository) findOne(ctx context.Context, cond string, arg any) (*blog.Post, error) {
	var model models.PostModel
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&model).Error; err != nil {
		return nil, translateNotFound(err, blog.ErrPostNotFound)
	}
	tags, err := r.loadTags(ctx, []uuid.UUID{model.ID})
	if err != nil {
		return nil, err
	}
	return model.ToDomain(tags[model.ID]), nil
}

// ExistsBySlug reports whether another post already uses slug
func (r *GormPostRepository) ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PostModel{}).Where("slug = ?", slug)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAll lists posts matching the filter with the total count before paging
func (r *GormPostRepository) FindAll(ctx context.Context, filter blog.PostFilter) ([]blog.Post, int64, error) {
	f := filter.Filter.Normalize()
	query := r.db.WithContext(ctx).Model(&models.PostModel{})
	if filter.PublishedBefore != nil {
		query = query.Where("status = ? AND published_at IS NOT NULL AND published_at <= ?",
			blog.PostStatusPublished, filter.PublishedBefore.UTC())
	} else if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Tag != "" {
		query = query.Where("id IN (?)",
			r.db.Model(&models.PostTagModel{}).Select("post_id").Where("tag = ?", filter.Tag))
	}
	if f.Search != "" {
		clause, args := searchClause(r.db, f.Search, "title", "excerpt", "content")
		query = query.Where(clause, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.PostModel
	if err := paginate(query.Order(postSort.order(f.OrderBy, f.OrderDir)), f).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	posts, err := r.withTags(ctx, rows)
	if err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// Delete removes a post and its tags. Comments are removed by the comment repository.
func (r *GormPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.PostTagModel{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.PostModel{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return blog.ErrPostNotFound
		}
		return nil
	})
}

// IncrementViewCount bumps the counter without touching the version
func (r *GormPostRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&models.PostModel{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// ListPublishedTags counts visible posts per tag, most used first
func (r *GormPostRepository) ListPublishedTags(ctx context.Context, now time.Time) ([]blog.TagCount, error) {
	var out []blog.TagCount
	err := r.db.WithContext(ctx).Table("post_tags").
		Select("post_tags.tag AS tag, COUNT(*) AS count").
		Joins("JOIN posts ON posts.id = post_tags.post_id").
		Where("posts.status = ? AND posts.published_at IS NOT NULL AND posts.published_at <= ?",
			blog.PostStatusPublished, now.UTC()).
		Group("post_tags.tag").
		Order("count DESC, tag ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []blog.TagCount{}
	}
	return out, nil
}

// CountPublishedBetween counts posts whose published_at falls in [from, to)
func (r *GormPostRepository) CountPublishedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PostModel{}).
		Where("status = ? AND published_at >= ? AND published_at < ?", blog.PostStatusPublished, from.UTC(), to.UTC()).
		Count(&count).Error
	return count, err
}

// CountByStatus counts posts in a status
func (r *GormPostRepository) CountByStatus(ctx context.Context, status blog.PostStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.PostModel{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// FindRecent returns the most recently created posts in any status
func (r *GormPostRepository) FindRecent(ctx context.Context, limit int) ([]blog.Post, error) {
	var rows []models.PostModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.withTags(ctx, rows)
}

func (r *GormPostRepository) withTags(ctx context.Context, rows []models.PostModel) ([]blog.Post, error) {
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	tags, err := r.loadTags(ctx, ids)
	if err != nil {
		return nil, err
	}
	posts := make([]blog.Post, len(rows))
	for i := range rows {
		posts[i] = *rows[i].ToDomain(tags[rows[i].ID])
	}
	return posts, nil
}

func (r *GormPostRepository) loadTags(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]string, error) {
	out := make(map[uuid.UUID][]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []models.PostTagModel
	if err := r.db.WithContext(ctx).
		Where("post_id IN ?", ids).
		Order("post_id, position").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, t := range rows {
		out[t.PostID] = append(out[t.PostID], t.Tag)
	}
	return out, nil
}

// Ensure GormPostRepository implements blog.PostRepository
var _ blog.PostRepository = (*GormPostRepository)(nil)
