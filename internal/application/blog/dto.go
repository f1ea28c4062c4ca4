package blog

import (
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/blog"
)

// SEORequest carries SEO metadata for a post
type SEORequest struct {
	MetaTitle       string   `json:"meta_title" binding:"max=70"`
	MetaDescription string   `json:"meta_description" binding:"max=160"`
	Keywords        []string `json:"keywords" binding:"max=20,dive,max=50"`
	CanonicalURL    string   `json:"canonical_url" binding:"omitempty,url,max=500"`
}

// CreatePostRequest represents a request to create a post
type CreatePostRequest struct {
	Title         string      `json:"title" binding:"required,min=1,max=200"`
	Slug          string      `json:"slug" binding:"max=100"`
	Excerpt       string      `json:"excerpt" binding:"max=500"`
	Content       string      `json:"content" binding:"required"`
	CoverImageURL string      `json:"cover_image_url" binding:"omitempty,url,max=500"`
	AuthorName    string      `json:"author_name" binding:"max=100"`
	Tags          []string    `json:"tags" binding:"max=10,dive,max=50"`
	SEO           *SEORequest `json:"seo"`
	Publish       bool        `json:"publish"`
}

// UpdatePostRequest represents a partial update of a post
type UpdatePostRequest struct {
	Title         *string     `json:"title" binding:"omitempty,min=1,max=200"`
	Slug          *string     `json:"slug" binding:"omitempty,max=100"`
	Excerpt       *string     `json:"excerpt" binding:"omitempty,max=500"`
	Content       *string     `json:"content" binding:"omitempty,min=1"`
	CoverImageURL *string     `json:"cover_image_url" binding:"omitempty,max=500"`
	AuthorName    *string     `json:"author_name" binding:"omitempty,max=100"`
	Tags          []string    `json:"tags" binding:"omitempty,max=10,dive,max=50"`
	SEO           *SEORequest `json:"seo"`
}

// PostListFilter represents admin filter options for the post list
type PostListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=draft published archived"`
	Tag      string `form:"tag"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// PublicPostFilter represents reader filter options for the post list
type PublicPostFilter struct {
	Search   string `form:"search"`
	Tag      string `form:"tag"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=50"`
}

// SEOResponse is SEO metadata with blanks filled from the post
type SEOResponse struct {
	MetaTitle       string   `json:"meta_title"`
	MetaDescription string   `json:"meta_description"`
	Keywords        []string `json:"keywords"`
	CanonicalURL    string   `json:"canonical_url,omitempty"`
}

// PostResponse represents a post in API responses
type PostResponse struct {
	ID            uuid.UUID   `json:"id"`
	Title         string      `json:"title"`
	Slug          string      `json:"slug"`
	Excerpt       string      `json:"excerpt"`
	Content       string      `json:"content"`
	CoverImageURL string      `json:"cover_image_url,omitempty"`
	AuthorName    string      `json:"author_name"`
	Tags          []string    `json:"tags"`
	SEO           SEOResponse `json:"seo"`
	Status        string      `json:"status"`
	PublishedAt   *time.Time  `json:"published_at"`
	ViewCount     int64       `json:"view_count"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Version       int         `json:"version"`
}

// PostListItem represents a post in list responses, without the body
type PostListItem struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Slug          string     `json:"slug"`
	Excerpt       string     `json:"excerpt"`
	CoverImageURL string     `json:"cover_image_url,omitempty"`
	AuthorName    string     `json:"author_name"`
	Tags          []string   `json:"tags"`
	Status        string     `json:"status"`
	PublishedAt   *time.Time `json:"published_at"`
	ViewCount     int64      `json:"view_count"`
	CreatedAt     time.Time  `json:"created_at"`
}

// ToPostResponse converts a domain Post to PostResponse
func ToPostResponse(p *blog.Post) PostResponse {
	seo := p.EffectiveSEO()
	return PostResponse{
		ID:            p.ID,
		Title:         p.Title,
		Slug:          p.Slug,
		Excerpt:       p.Excerpt,
		Content:       p.Content,
		CoverImageURL: p.CoverImageURL,
		AuthorName:    p.AuthorName,
		Tags:          nonNil(p.Tags),
		SEO: SEOResponse{
			MetaTitle:       seo.MetaTitle,
			MetaDescription: seo.MetaDescription,
			Keywords:        nonNil(seo.Keywords),
			CanonicalURL:    seo.CanonicalURL,
		},
		Status:      string(p.Status),
		PublishedAt: p.PublishedAt,
		ViewCount:   p.ViewCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
}

// ToPostListItems converts domain posts to list items
func ToPostListItems(posts []blog.Post) []PostListItem {
	items := make([]PostListItem, len(posts))
	for i := range posts {
		p := &posts[i]
		items[i] = PostListItem{
			ID:            p.ID,
			Title:         p.Title,
			Slug:          p.Slug,
			Excerpt:       p.Excerpt,
			CoverImageURL: p.CoverImageURL,
			AuthorName:    p.AuthorName,
			Tags:          nonNil(p.Tags),
			Status:        string(p.Status),
			PublishedAt:   p.PublishedAt,
			ViewCount:     p.ViewCount,
			CreatedAt:     p.CreatedAt,
		}
	}
	return items
}

// AddCommentRequest represents a reader's comment
type AddCommentRequest struct {
	ParentID    *uuid.UUID `json:"parent_id"`
	AuthorName  string     `json:"author_name" binding:"required,min=2,max=100"`
	AuthorEmail string     `json:"author_email" binding:"required,email,max=200"`
	Body        string     `json:"body" binding:"required,min=2,max=2000"`
}

// ModerateCommentRequest approves or rejects a comment
type ModerateCommentRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject"`
}

// CommentListFilter represents admin filter options for comments
type CommentListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	PostID   string `form:"post_id" binding:"omitempty,uuid"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// CommentResponse represents a comment for moderation
type CommentResponse struct {
	ID          uuid.UUID  `json:"id"`
	PostID      uuid.UUID  `json:"post_id"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Depth       int        `json:"depth"`
	AuthorName  string     `json:"author_name"`
	AuthorEmail string     `json:"author_email,omitempty"`
	Body        string     `json:"body"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
}

// CommentNodeResponse is a public comment with its replies. Emails are never exposed.
type CommentNodeResponse struct {
	ID         uuid.UUID              `json:"id"`
	ParentID   *uuid.UUID             `json:"parent_id"`
	AuthorName string                 `json:"author_name"`
	Body       string                 `json:"body"`
	CreatedAt  time.Time              `json:"created_at"`
	Replies    []*CommentNodeResponse `json:"replies"`
}

// ToCommentResponse converts a domain Comment
func ToCommentResponse(c *blog.Comment) CommentResponse {
	return CommentResponse{
		ID:          c.ID,
		PostID:      c.PostID,
		ParentID:    c.ParentID,
		Depth:       c.Depth,
		AuthorName:  c.AuthorName,
		AuthorEmail: c.AuthorEmail,
		Body:        c.Body,
		Status:      string(c.Status),
		CreatedAt:   c.CreatedAt,
	}
}

// ToCommentTree converts a thread into public nodes
func ToCommentTree(nodes []*blog.CommentNode) []*CommentNodeResponse {
	out := make([]*CommentNodeResponse, len(nodes))
	for i, n := range nodes {
		out[i] = &CommentNodeResponse{
			ID:         n.ID,
			ParentID:   n.ParentID,
			AuthorName: n.AuthorName,
			Body:       n.Body,
			CreatedAt:  n.CreatedAt,
			Replies:    ToCommentTree(n.Replies),
		}
	}
	return out
}

// UploadURLRequest asks for a presigned upload URL
type UploadURLRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size" binding:"required,min=1"`
}

// UploadURLResponse is a presigned upload target
type UploadURLResponse struct {
	Key       string    `json:"key"`
	UploadURL string    `json:"upload_url"`
	PublicURL string    `json:"public_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// MediaResponse describes stored media
type MediaResponse struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
