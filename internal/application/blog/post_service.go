package blog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/blog"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// maxSlugAttempts bounds the numeric suffix search on slug collisions
const maxSlugAttempts = 100

// PostService handles blog post operations
type PostService struct {
	postRepo    blog.PostRepository
	commentRepo blog.CommentRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewPostService creates a new PostService
func NewPostService(postRepo blog.PostRepository, commentRepo blog.CommentRepository, logger *zap.Logger) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// Create creates a draft post, publishing it straight away when requested
func (s *PostService) Create(ctx context.Context, req CreatePostRequest) (*PostResponse, error) {
	post, err := blog.NewPost(req.Title, req.Slug, req.Content, req.AuthorName)
	if err != nil {
		return nil, err
	}
	if err := post.SetDetails(req.Excerpt, req.CoverImageURL); err != nil {
		return nil, err
	}
	if err := post.SetTags(req.Tags); err != nil {
		return nil, err
	}
	if req.SEO != nil {
		if err := post.SetSEO(toDomainSEO(*req.SEO)); err != nil {
			return nil, err
		}
	}

	slug, err := s.uniqueSlug(ctx, post.Slug, nil)
	if err != nil {
		return nil, err
	}
	post.Slug = slug

	if err := s.postRepo.Save(ctx, post); err != nil {
		return nil, err
	}
	s.logger.Info("Post created", zap.String("post_id", post.ID.String()), zap.String("slug", post.Slug))

	if req.Publish {
		if err := post.Publish(s.now()); err != nil {
			return nil, err
		}
		if err := s.postRepo.Save(ctx, post); err != nil {
			return nil, err
		}
	}

	resp := ToPostResponse(post)
	return &resp, nil
}

// GetByID retrieves a post in any status
func (s *PostService) GetByID(ctx context.Context, id uuid.UUID) (*PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPostResponse(post)
	return &resp, nil
}

// List lists posts for the back office
func (s *PostService) List(ctx context.Context, filter PostListFilter) ([]PostListItem, int64, error) {
	domainFilter := blog.PostFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		Status: blog.PostStatus(filter.Status),
		Tag:    normalizeTagFilter(filter.Tag),
	}
	if domainFilter.OrderBy == "" {
		domainFilter.OrderBy = "created_at"
	}

	posts, total, err := s.postRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPostListItems(posts), total, nil
}

// Update applies a partial update
func (s *PostService) Update(ctx context.Context, id uuid.UUID, req UpdatePostRequest) (*PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	title := pick(req.Title, post.Title)
	content := pick(req.Content, post.Content)
	excerpt := pick(req.Excerpt, post.Excerpt)
	cover := pick(req.CoverImageURL, post.CoverImageURL)
	author := pick(req.AuthorName, post.AuthorName)
	if err := post.Update(title, content, excerpt, cover, author); err != nil {
		return nil, err
	}

	if req.Slug != nil {
		if err := post.SetSlug(*req.Slug); err != nil {
			return nil, err
		}
		slug, err := s.uniqueSlug(ctx, post.Slug, &post.ID)
		if err != nil {
			return nil, err
		}
		post.Slug = slug
	}
	if req.Tags != nil {
		if err := post.SetTags(req.Tags); err != nil {
			return nil, err
		}
	}
	if req.SEO != nil {
		if err := post.SetSEO(toDomainSEO(*req.SEO)); err != nil {
			return nil, err
		}
	}

	if err := s.postRepo.Save(ctx, post); err != nil {
		return nil, err
	}
	s.logger.Info("Post updated", zap.String("post_id", post.ID.String()))

	resp := ToPostResponse(post)
	return &resp, nil
}

// Publish makes a post visible to readers
func (s *PostService) Publish(ctx context.Context, id uuid.UUID) (*PostResponse, error) {
	return s.transition(ctx, id, "published", func(p *blog.Post) error {
		return p.Publish(s.now())
	})
}

// Unpublish returns a post to draft
func (s *PostService) Unpublish(ctx context.Context, id uuid.UUID) (*PostResponse, error) {
	return s.transition(ctx, id, "unpublished", func(p *blog.Post) error {
		return p.Unpublish()
	})
}

// Archive hides a post permanently
func (s *PostService) Archive(ctx context.Context, id uuid.UUID) (*PostResponse, error) {
	return s.transition(ctx, id, "archived", func(p *blog.Post) error {
		if p.Status == blog.PostStatusArchived {
			return nil
		}
		p.Archive()
		return nil
	})
}

func (s *PostService) transition(ctx context.Context, id uuid.UUID, action string, apply func(*blog.Post) error) (*PostResponse, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	before := post.Version
	if err := apply(post); err != nil {
		return nil, err
	}
	// no-op transitions leave the version alone and need no write
	if post.Version != before {
		if err := s.postRepo.Save(ctx, post); err != nil {
			return nil, err
		}
		s.logger.Info("Post "+action, zap.String("post_id", post.ID.String()))
	}

	resp := ToPostResponse(post)
	return &resp, nil
}

// Delete removes a post with all its comments
func (s *PostService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.postRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.commentRepo.DeleteByPost(ctx, id); err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Post deleted", zap.String("post_id", id.String()))
	return nil
}

// ListPublished lists posts visible to readers, newest first
func (s *PostService) ListPublished(ctx context.Context, filter PublicPostFilter) ([]PostListItem, int64, error) {
	now := s.now()
	domainFilter := blog.PostFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "published_at",
			OrderDir: "desc",
			Search:   filter.Search,
		},
		Status:          blog.PostStatusPublished,
		Tag:             normalizeTagFilter(filter.Tag),
		PublishedBefore: &now,
	}

	posts, total, err := s.postRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	return ToPostListItems(posts), total, nil
}

// GetPublishedBySlug returns a visible post and counts the view
func (s *PostService) GetPublishedBySlug(ctx context.Context, slug string) (*PostResponse, error) {
	post, err := s.findPublic(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.IncrementViewCount(ctx, post.ID); err != nil {
		s.logger.Warn("Failed to increment view count",
			zap.String("post_id", post.ID.String()),
			zap.Error(err))
	} else {
		post.ViewCount++
	}

	resp := ToPostResponse(post)
	return &resp, nil
}

// ListTags returns the tags of visible posts with their counts
func (s *PostService) ListTags(ctx context.Context) ([]blog.TagCount, error) {
	return s.postRepo.ListPublishedTags(ctx, s.now())
}

// findPublic loads a post by slug, hiding drafts, archived and scheduled posts
func (s *PostService) findPublic(ctx context.Context, slug string) (*blog.Post, error) {
	post, err := s.postRepo.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, err
	}
	if !post.IsPublic(s.now()) {
		return nil, blog.ErrPostNotFound
	}
	return post, nil
}

// uniqueSlug returns base, or base-2, base-3… when taken by another post
func (s *PostService) uniqueSlug(ctx context.Context, base string, excludeID *uuid.UUID) (string, error) {
	candidate := base
	for n := 2; n <= maxSlugAttempts+1; n++ {
		taken, err := s.postRepo.ExistsBySlug(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("failed to check slug: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = blog.WithSuffix(base, n)
	}
	return "", blog.ErrSlugTaken
}

func toDomainSEO(r SEORequest) blog.SEO {
	return blog.SEO{
		MetaTitle:       r.MetaTitle,
		MetaDescription: r.MetaDescription,
		Keywords:        r.Keywords,
		CanonicalURL:    r.CanonicalURL,
	}
}

func normalizeTagFilter(tag string) string {
	if tag == "" {
		return ""
	}
	return blog.Slugify(tag)
}

func pick(v *string, current string) string {
	if v == nil {
		return current
	}
	return *v
}
