package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/blog"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
)

// PostModel is the persistence model for blog posts. Tags live in post_tags.
type PostModel struct {
	AggregateModel
	Title           string          `gorm:"type:varchar(200);not null"`
	Slug            string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_posts_slug"`
	Excerpt         string          `gorm:"type:varchar(500)"`
	Content         string          `gorm:"type:text;not null"`
	CoverImageURL   string          `gorm:"type:varchar(500)"`
	AuthorName      string          `gorm:"type:varchar(100)"`
	MetaTitle       string          `gorm:"type:varchar(70)"`
	MetaDescription string          `gorm:"type:varchar(160)"`
	MetaKeywords    pq.StringArray  `gorm:"type:text[]"`
	CanonicalURL    string          `gorm:"type:varchar(500)"`
	Status          blog.PostStatus `gorm:"type:varchar(20);not null;index:idx_posts_status_published,priority:1"`
	PublishedAt     *time.Time      `gorm:"index:idx_posts_status_published,priority:2"`
	ViewCount       int64           `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PostModel) TableName() string {
	return "posts"
}

// PostTagModel links a post to one normalised tag
type PostTagModel struct {
	PostID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Tag      string    `gorm:"type:varchar(50);primaryKey;index"`
	Position int       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PostTagModel) TableName() string {
	return "post_tags"
}

// ToDomain converts the persistence model to a domain Post with the given tags
func (m *PostModel) ToDomain(tags []string) *blog.Post {
	if tags == nil {
		tags = []string{}
	}
	keywords := []string(m.MetaKeywords)
	if keywords == nil {
		keywords = []string{}
	}
	return &blog.Post{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Title:             m.Title,
		Slug:              m.Slug,
		Excerpt:           m.Excerpt,
		Content:           m.Content,
		CoverImageURL:     m.CoverImageURL,
		AuthorName:        m.AuthorName,
		Tags:              tags,
		SEO: blog.SEO{
			MetaTitle:       m.MetaTitle,
			MetaDescription: m.MetaDescription,
			Keywords:        keywords,
			CanonicalURL:    m.CanonicalURL,
		},
		Status:      m.Status,
		PublishedAt: m.PublishedAt,
		ViewCount:   m.ViewCount,
	}
}

// PostModelFromDomain creates a persistence model from a domain Post
func PostModelFromDomain(p *blog.Post) *PostModel {
	m := &PostModel{
		Title:           p.Title,
		Slug:            p.Slug,
		Excerpt:         p.Excerpt,
		Content:         p.Content,
		CoverImageURL:   p.CoverImageURL,
		AuthorName:      p.AuthorName,
		MetaTitle:       p.SEO.MetaTitle,
		MetaDescription: p.SEO.MetaDescription,
		MetaKeywords:    pq.StringArray(p.SEO.Keywords),
		CanonicalURL:    p.SEO.CanonicalURL,
		Status:          p.Status,
		PublishedAt:     utcPtr(p.PublishedAt),
		ViewCount:       p.ViewCount,
	}
	if m.MetaKeywords == nil {
		m.MetaKeywords = pq.StringArray{}
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}

// PostTagModelsFromDomain builds the join rows for a post's tags in order
func PostTagModelsFromDomain(p *blog.Post) []PostTagModel {
	rows := make([]PostTagModel, len(p.Tags))
	for i, t := range p.Tags {
		rows[i] = PostTagModel{PostID: p.ID, Tag: t, Position: i}
	}
	return rows
}

// CommentModel is the persistence model for post comments
type CommentModel struct {
	BaseModel
	PostID      uuid.UUID          `gorm:"type:uuid;not null;index"`
	ParentID    *uuid.UUID         `gorm:"type:uuid;index"`
	Depth       int                `gorm:"not null"`
	AuthorName  string             `gorm:"type:varchar(100);not null"`
	AuthorEmail string             `gorm:"type:varchar(200);not null"`
	Body        string             `gorm:"type:text;not null"`
	Status      blog.CommentStatus `gorm:"type:varchar(20);not null;index"`
}

// TableName returns the table name for GORM
func (CommentModel) TableName() string {
	return "comments"
}

// ToDomain converts the persistence model to a domain Comment
func (m *CommentModel) ToDomain() *blog.Comment {
	return &blog.Comment{
		BaseEntity:  shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		PostID:      m.PostID,
		ParentID:    m.ParentID,
		Depth:       m.Depth,
		AuthorName:  m.AuthorName,
		AuthorEmail: m.AuthorEmail,
		Body:        m.Body,
		Status:      m.Status,
	}
}

// CommentModelFromDomain creates a persistence model from a domain Comment
func CommentModelFromDomain(c *blog.Comment) *CommentModel {
	m := &CommentModel{
		PostID:      c.PostID,
		ParentID:    c.ParentID,
		Depth:       c.Depth,
		AuthorName:  c.AuthorName,
		AuthorEmail: c.AuthorEmail,
		Body:        c.Body,
		Status:      c.Status,
	}
	m.FromDomainBaseEntity(c.BaseEntity)
	return m
}
