package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	blogapp "github.com/manutdmohit/proficientlegal-sub000/internal/application/blog"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/blog"
)

// PostService is the blog post use-case surface
type PostService interface {
	Create(ctx context.Context, req blogapp.CreatePostRequest) (*blogapp.PostResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*blogapp.PostResponse, error)
	List(ctx context.Context, filter blogapp.PostListFilter) ([]blogapp.PostListItem, int64, error)
	Update(ctx context.Context, id uuid.UUID, req blogapp.UpdatePostRequest) (*blogapp.PostResponse, error)
	Publish(ctx context.Context, id uuid.UUID) (*blogapp.PostResponse, error)
	Unpublish(ctx context.Context, id uuid.UUID) (*blogapp.PostResponse, error)
	Archive(ctx context.Context, id uuid.UUID) (*blogapp.PostResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListPublished(ctx context.Context, filter blogapp.PublicPostFilter) ([]blogapp.PostListItem, int64, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*blogapp.PostResponse, error)
	ListTags(ctx context.Context) ([]blog.TagCount, error)
}

// CommentService is the blog comment use-case surface
type CommentService interface {
	AddComment(ctx context.Context, slug string, req blogapp.AddCommentRequest) (*blogapp.CommentResponse, error)
	ListComments(ctx context.Context, slug string) ([]*blogapp.CommentNodeResponse, error)
	List(ctx context.Context, filter blogapp.CommentListFilter) ([]blogapp.CommentResponse, int64, error)
	Moderate(ctx context.Context, id uuid.UUID, req blogapp.ModerateCommentRequest) (*blogapp.CommentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// BlogHandler handles public reading and back-office editing of posts and comments
type BlogHandler struct {
	BaseHandler
	posts    PostService
	comments CommentService
}

// NewBlogHandler creates a new blog handler
func NewBlogHandler(posts PostService, comments CommentService) *BlogHandler {
	return &BlogHandler{posts: posts, comments: comments}
}

// ListPublished handles GET /blog/posts
func (h *BlogHandler) ListPublished(c *gin.Context) {
	var filter blogapp.PublicPostFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, err := h.posts.ListPublished(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// GetPublished handles GET /blog/posts/:slug
func (h *BlogHandler) GetPublished(c *gin.Context) {
	post, err := h.posts.GetPublishedBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}

// ListTags handles GET /blog/tags
func (h *BlogHandler) ListTags(c *gin.Context) {
	tags, err := h.posts.ListTags(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if tags == nil {
		tags = []blog.TagCount{}
	}
	h.Success(c, tags)
}

// ListComments handles GET /blog/posts/:slug/comments
func (h *BlogHandler) ListComments(c *gin.Context) {
	tree, err := h.comments.ListComments(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tree)
}

// AddComment handles POST /blog/posts/:slug/comments.
// New comments wait for moderation, so the reply is 202.
func (h *BlogHandler) AddComment(c *gin.Context) {
	var req blogapp.AddCommentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	comment, err := h.comments.AddComment(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Accepted(c, gin.H{
		"id":     comment.ID,
		"status": comment.Status,
	})
}

// ListPosts handles GET /admin/posts
func (h *BlogHandler) ListPosts(c *gin.Context) {
	var filter blogapp.PostListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, err := h.posts.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// CreatePost handles POST /admin/posts
func (h *BlogHandler) CreatePost(c *gin.Context) {
	var req blogapp.CreatePostRequest
	if !h.BindJSON(c, &req) {
		return
	}

	post, err := h.posts.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, post)
}

// GetPost handles GET /admin/posts/:id
func (h *BlogHandler) GetPost(c *gin.Context) {
	h.withPostID(c, h.posts.GetByID)
}

// UpdatePost handles PUT /admin/posts/:id
func (h *BlogHandler) UpdatePost(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req blogapp.UpdatePostRequest
	if !h.BindJSON(c, &req) {
		return
	}

	post, err := h.posts.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}

// PublishPost handles POST /admin/posts/:id/publish
func (h *BlogHandler) PublishPost(c *gin.Context) {
	h.withPostID(c, h.posts.Publish)
}

// UnpublishPost handles POST /admin/posts/:id/unpublish
func (h *BlogHandler) UnpublishPost(c *gin.Context) {
	h.withPostID(c, h.posts.Unpublish)
}

// ArchivePost handles POST /admin/posts/:id/archive
func (h *BlogHandler) ArchivePost(c *gin.Context) {
	h.withPostID(c, h.posts.Archive)
}

// DeletePost handles DELETE /admin/posts/:id
func (h *BlogHandler) DeletePost(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	if err := h.posts.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *BlogHandler) withPostID(c *gin.Context, fn func(context.Context, uuid.UUID) (*blogapp.PostResponse, error)) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	post, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, post)
}

// ListAllComments handles GET /admin/comments
func (h *BlogHandler) ListAllComments(c *gin.Context) {
	var filter blogapp.CommentListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	items, total, err := h.comments.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// ModerateComment handles PATCH /admin/comments/:id/moderate
func (h *BlogHandler) ModerateComment(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}
	var req blogapp.ModerateCommentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	comment, err := h.comments.Moderate(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, comment)
}

// DeleteComment handles DELETE /admin/comments/:id. Replies go with it.
func (h *BlogHandler) DeleteComment(c *gin.Context) {
	id, ok := h.ParamUUID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.comments.Delete(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"deleted": deleted})
}
