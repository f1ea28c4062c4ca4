// Package blog models articles, their comments and their SEO metadata.
package blog

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
)

// PostStatus is the publication state of a post
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
	PostStatusArchived  PostStatus = "archived"
)

// IsValid reports whether s is a known status
func (s PostStatus) IsValid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

// Limits
const (
	MaxTitleLength           = 200
	MaxExcerptLength         = 500
	MaxTags                  = 10
	MaxTagLength             = 50
	MaxMetaTitleLength       = 70
	MaxMetaDescriptionLength = 160
)

var (
	ErrPostNotFound  = shared.NewDomainError("NOT_FOUND", "Post not found")
	ErrSlugTaken     = shared.NewDomainError("ALREADY_EXISTS", "A post with this slug already exists")
	ErrPostArchived  = shared.NewDomainError("INVALID_STATE", "Archived posts cannot be published")
	ErrPostNotPublic = shared.NewDomainError("INVALID_STATE", "Post is not published")
)

// SEO holds search-engine metadata
type SEO struct {
	MetaTitle       string
	MetaDescription string
	Keywords        []string
	CanonicalURL    string
}

// Validate checks SEO field lengths
func (s SEO) Validate() error {
	if utf8.RuneCountInString(s.MetaTitle) > MaxMetaTitleLength {
		return shared.NewDomainError("INVALID_SEO", "Meta title cannot exceed 70 characters")
	}
	if utf8.RuneCountInString(s.MetaDescription) > MaxMetaDescriptionLength {
		return shared.NewDomainError("INVALID_SEO", "Meta description cannot exceed 160 characters")
	}
	if len(s.CanonicalURL) > 500 {
		return shared.NewDomainError("INVALID_SEO", "Canonical URL cannot exceed 500 characters")
	}
	return nil
}

// Post is a blog article and the aggregate root for its metadata
type Post struct {
	shared.BaseAggregateRoot
	Title         string
	Slug          string
	Excerpt       string
	Content       string
	CoverImageURL string
	AuthorName    string
	Tags          []string
	SEO           SEO
	Status        PostStatus
	PublishedAt   *time.Time
	ViewCount     int64
}

// NewPost creates a draft post. The slug is derived from the title when empty.
func NewPost(title, slug, content, authorName string) (*Post, error) {
	p := &Post{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            PostStatusDraft,
		Tags:              []string{},
	}
	if err := p.setTitle(title); err != nil {
		return nil, err
	}
	if err := p.SetSlug(slug); err != nil {
		return nil, err
	}
	if err := p.setContent(content); err != nil {
		return nil, err
	}
	p.AuthorName = strings.TrimSpace(authorName)
	return p, nil
}

func (p *Post) setTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title is required")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return shared.NewDomainError("INVALID_TITLE", "Title cannot exceed 200 characters")
	}
	p.Title = title
	return nil
}

func (p *Post) setContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return shared.NewDomainError("INVALID_CONTENT", "Content is required")
	}
	p.Content = content
	return nil
}

// SetSlug sets an explicit slug, or derives one from the title when slug is empty
func (p *Post) SetSlug(slug string) error {
	if strings.TrimSpace(slug) == "" {
		slug = p.Title
	}
	s := Slugify(slug)
	if s == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug must contain at least one letter or digit")
	}
	p.Slug = s
	p.Touch()
	return nil
}

// Update replaces the editable body fields
func (p *Post) Update(title, content, excerpt, coverImageURL, authorName string) error {
	if err := p.setTitle(title); err != nil {
		return err
	}
	if err := p.setContent(content); err != nil {
		return err
	}
	if err := p.SetDetails(excerpt, coverImageURL); err != nil {
		return err
	}
	if a := strings.TrimSpace(authorName); a != "" {
		p.AuthorName = a
	}
	p.IncrementVersion()
	return nil
}

// SetDetails sets the excerpt and cover image without bumping the version
func (p *Post) SetDetails(excerpt, coverImageURL string) error {
	excerpt = strings.TrimSpace(excerpt)
	if utf8.RuneCountInString(excerpt) > MaxExcerptLength {
		return shared.NewDomainError("INVALID_EXCERPT", "Excerpt cannot exceed 500 characters")
	}
	coverImageURL = strings.TrimSpace(coverImageURL)
	if len(coverImageURL) > 500 {
		return shared.NewDomainError("INVALID_COVER_IMAGE", "Cover image URL cannot exceed 500 characters")
	}
	p.Excerpt = excerpt
	p.CoverImageURL = coverImageURL
	p.Touch()
	return nil
}

// SetTags normalises, de-duplicates and stores the tags
func (p *Post) SetTags(tags []string) error {
	normalized := NormalizeTags(tags)
	if len(normalized) > MaxTags {
		return shared.NewDomainError("INVALID_TAGS", "A post can have at most 10 tags")
	}
	p.Tags = normalized
	p.Touch()
	return nil
}

// NormalizeTags slugifies each tag, drops empties and duplicates, and keeps input order
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		n := Slugify(t)
		if len(n) > MaxTagLength {
			n = strings.TrimRight(n[:MaxTagLength], "-")
		}
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// SetSEO validates and stores SEO metadata
func (p *Post) SetSEO(seo SEO) error {
	seo.MetaTitle = strings.TrimSpace(seo.MetaTitle)
	seo.MetaDescription = strings.TrimSpace(seo.MetaDescription)
	seo.CanonicalURL = strings.TrimSpace(seo.CanonicalURL)
	keywords := make([]string, 0, len(seo.Keywords))
	for _, k := range seo.Keywords {
		if k = strings.TrimSpace(k); k != "" {
			keywords = append(keywords, k)
		}
	}
	seo.Keywords = keywords
	if err := seo.Validate(); err != nil {
		return err
	}
	p.SEO = seo
	p.Touch()
	return nil
}

// EffectiveSEO fills blank SEO fields from the post itself
func (p *Post) EffectiveSEO() SEO {
	seo := p.SEO
	if seo.MetaTitle == "" {
		seo.MetaTitle = truncateRunes(p.Title, MaxMetaTitleLength)
	}
	if seo.MetaDescription == "" {
		seo.MetaDescription = truncateRunes(p.Excerpt, MaxMetaDescriptionLength)
	}
	if len(seo.Keywords) == 0 {
		seo.Keywords = p.Tags
	}
	return seo
}

// Publish makes the post publicly visible. PublishedAt keeps its first value on re-publish.
func (p *Post) Publish(now time.Time) error {
	if p.Status == PostStatusArchived {
		return ErrPostArchived
	}
	if p.Status == PostStatusPublished {
		return nil
	}
	p.Status = PostStatusPublished
	if p.PublishedAt == nil {
		t := now
		p.PublishedAt = &t
	}
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Unpublish returns the post to draft
func (p *Post) Unpublish() error {
	if p.Status != PostStatusPublished {
		return ErrPostNotPublic
	}
	p.Status = PostStatusDraft
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Archive hides the post permanently
func (p *Post) Archive() {
	p.Status = PostStatusArchived
	p.Touch()
	p.IncrementVersion()
}

// IsPublic reports whether readers may see the post at now
func (p *Post) IsPublic(now time.Time) bool {
	return p.Status == PostStatusPublished && p.PublishedAt != nil && !p.PublishedAt.After(now)
}

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:max]))
}
