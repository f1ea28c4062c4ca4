package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	blogapp "github.com/manutdmohit/proficientlegal-sub000/internal/application/blog"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/blog"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/manutdmohit/proficientlegal-sub000/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPostService struct {
	mock.Mock
}

func (m *MockPostService) post(args mock.Arguments) (*blogapp.PostResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blogapp.PostResponse), args.Error(1)
}

func (m *MockPostService) list(args mock.Arguments) ([]blogapp.PostListItem, int64, error) {
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]blogapp.PostListItem), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostService) Create(ctx context.Context, req blogapp.CreatePostRequest) (*blogapp.PostResponse, error) {
	return m.post(m.Called(ctx, req))
}

func (m *MockPostService) GetByID(ctx context.Context, id uuid.UUID) (*blogapp.PostResponse, error) {
	return m.post(m.Called(ctx, id))
}

func (m *MockPostService) List(ctx context.Context, filter blogapp.PostListFilter) ([]blogapp.PostListItem, int64, error) {
	return m.list(m.Called(ctx, filter))
}

func (m *MockPostService) Update(ctx context.Context, id uuid.UUID, req blogapp.UpdatePostRequest) (*blogapp.PostResponse, error) {
	return m.post(m.Called(ctx, id, req))
}

func (m *MockPostService) Publish(ctx context.Context, id uuid.UUID) (*blogapp.PostResponse, error) {
	return m.post(m.Called(ctx, id))
}

func (m *MockPostService) Unpublish(ctx context.Context, id uuid.UUID) (*blogapp.PostResponse, error) {
	return m.post(m.Called(ctx, id))
}

func (m *MockPostService) Archive(ctx context.Context, id uuid.UUID) (*blogapp.PostResponse, error) {
	return m.post(m.Called(ctx, id))
}

func (m *MockPostService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockPostService) ListPublished(ctx context.Context, filter blogapp.PublicPostFilter) ([]blogapp.PostListItem, int64, error) {
	return m.list(m.Called(ctx, filter))
}

func (m *MockPostService) GetPublishedBySlug(ctx context.Context, slug string) (*blogapp.PostResponse, error) {
	return m.post(m.Called(ctx, slug))
}

func (m *MockPostService) ListTags(ctx context.Context) ([]blog.TagCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]blog.TagCount), args.Error(1)
}

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) AddComment(ctx context.Context, slug string, req blogapp.AddCommentRequest) (*blogapp.CommentResponse, error) {
	args := m.Called(ctx, slug, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blogapp.CommentResponse), args.Error(1)
}

func (m *MockCommentService) ListComments(ctx context.Context, slug string) ([]*blogapp.CommentNodeResponse, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*blogapp.CommentNodeResponse), args.Error(1)
}

func (m *MockCommentService) List(ctx context.Context, filter blogapp.CommentListFilter) ([]blogapp.CommentResponse, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]blogapp.CommentResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockCommentService) Moderate(ctx context.Context, id uuid.UUID, req blogapp.ModerateCommentRequest) (*blogapp.CommentResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blogapp.CommentResponse), args.Error(1)
}

func (m *MockCommentService) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func newBlogRouter(posts PostService, comments CommentService) *gin.Engine {
	middleware.SetupValidator()
	h := NewBlogHandler(posts, comments)

	router := gin.New()
	pub := router.Group("/api/v1/blog")
	pub.GET("/posts", h.ListPublished)
	pub.GET("/posts/:slug", h.GetPublished)
	pub.GET("/posts/:slug/comments", h.ListComments)
	pub.POST("/posts/:slug/comments", h.AddComment)
	pub.GET("/tags", h.ListTags)

	admin := router.Group("/api/v1/admin")
	admin.GET("/posts", h.ListPosts)
	admin.POST("/posts", h.CreatePost)
	admin.GET("/posts/:id", h.GetPost)
	admin.PUT("/posts/:id", h.UpdatePost)
	admin.DELETE("/posts/:id", h.DeletePost)
	admin.POST("/posts/:id/publish", h.PublishPost)
	admin.POST("/posts/:id/unpublish", h.UnpublishPost)
	admin.POST("/posts/:id/archive", h.ArchivePost)
	admin.GET("/comments", h.ListAllComments)
	admin.PATCH("/comments/:id/moderate", h.ModerateComment)
	admin.DELETE("/comments/:id", h.DeleteComment)
	return router
}

func TestBlogHandler_ListPublished(t *testing.T) {
	posts := new(MockPostService)
	posts.On("ListPublished", mock.Anything, blogapp.PublicPostFilter{Tag: "family-law", Page: 1, PageSize: 5}).
		Return([]blogapp.PostListItem{{Slug: "custody-basics", Tags: []string{"family-law"}}}, int64(1), nil)

	w := getJSON(newBlogRouter(posts, new(MockCommentService)), "/api/v1/blog/posts?tag=family-law&page=1&page_size=5")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "custody-basics")
	assert.Equal(t, 5, decodeResponse(t, w).Meta.PageSize)
	posts.AssertExpectations(t)
}

func TestBlogHandler_ListPublishedRejectsHugePage(t *testing.T) {
	w := getJSON(newBlogRouter(new(MockPostService), new(MockCommentService)), "/api/v1/blog/posts?page_size=500")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBlogHandler_GetPublished(t *testing.T) {
	posts := new(MockPostService)
	posts.On("GetPublishedBySlug", mock.Anything, "custody-basics").
		Return(&blogapp.PostResponse{Slug: "custody-basics", Title: "Custody basics"}, nil)
	posts.On("GetPublishedBySlug", mock.Anything, "draft-post").Return(nil, shared.ErrNotFound)
	router := newBlogRouter(posts, new(MockCommentService))

	assert.Equal(t, http.StatusOK, getJSON(router, "/api/v1/blog/posts/custody-basics").Code)
	assert.Equal(t, http.StatusNotFound, getJSON(router, "/api/v1/blog/posts/draft-post").Code)
}

func TestBlogHandler_ListTagsNeverNull(t *testing.T) {
	posts := new(MockPostService)
	posts.On("ListTags", mock.Anything).Return(nil, nil)

	w := getJSON(newBlogRouter(posts, new(MockCommentService)), "/api/v1/blog/tags")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, string(rawData(t, w)))
}

func TestBlogHandler_AddComment(t *testing.T) {
	comments := new(MockCommentService)
	id := uuid.New()
	comments.On("AddComment", mock.Anything, "custody-basics", mock.MatchedBy(func(r blogapp.AddCommentRequest) bool {
		return r.AuthorName == "Alex" && r.ParentID == nil
	})).Return(&blogapp.CommentResponse{ID: id, Status: "pending", AuthorEmail: "alex@example.com"}, nil)
	router := newBlogRouter(new(MockPostService), comments)

	w := sendJSON(router, http.MethodPost, "/api/v1/blog/posts/custody-basics/comments",
		`{"author_name":"Alex","author_email":"alex@example.com","body":"Very helpful, thanks."}`)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"pending"`)
	assert.NotContains(t, w.Body.String(), "alex@example.com")
}

func TestBlogHandler_AddCommentTooDeep(t *testing.T) {
	comments := new(MockCommentService)
	comments.On("AddComment", mock.Anything, "custody-basics", mock.Anything).
		Return(nil, shared.NewDomainError("COMMENT_TOO_DEEP", "Replies are limited"))
	router := newBlogRouter(new(MockPostService), comments)

	parent := uuid.New()
	w := sendJSON(router, http.MethodPost, "/api/v1/blog/posts/custody-basics/comments",
		`{"parent_id":"`+parent.String()+`","author_name":"Alex","author_email":"alex@example.com","body":"A reply."}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestBlogHandler_AdminPostLifecycle(t *testing.T) {
	posts := new(MockPostService)
	id := uuid.New()
	now := time.Now()
	posts.On("Create", mock.Anything, mock.MatchedBy(func(r blogapp.CreatePostRequest) bool {
		return r.Title == "Buying your first home"
	})).Return(&blogapp.PostResponse{ID: id, Status: "draft"}, nil)
	posts.On("Publish", mock.Anything, id).Return(&blogapp.PostResponse{ID: id, Status: "published", PublishedAt: &now}, nil)
	posts.On("Archive", mock.Anything, id).Return(nil, shared.ErrInvalidState)
	posts.On("Delete", mock.Anything, id).Return(nil)
	router := newBlogRouter(posts, new(MockCommentService))

	w := sendJSON(router, http.MethodPost, "/api/v1/admin/posts", `{"title":"Buying your first home","content":"Start here."}`)
	assert.Equal(t, http.StatusCreated, w.Code)

	w = sendJSON(router, http.MethodPost, "/api/v1/admin/posts/"+id.String()+"/publish", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"published"`)

	w = sendJSON(router, http.MethodPost, "/api/v1/admin/posts/"+id.String()+"/archive", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = sendJSON(router, http.MethodDelete, "/api/v1/admin/posts/"+id.String(), "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	posts.AssertExpectations(t)
}

func TestBlogHandler_CreatePostValidation(t *testing.T) {
	router := newBlogRouter(new(MockPostService), new(MockCommentService))
	w := sendJSON(router, http.MethodPost, "/api/v1/admin/posts", `{"content":"No title"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBlogHandler_ModerateAndDeleteComment(t *testing.T) {
	comments := new(MockCommentService)
	id := uuid.New()
	comments.On("Moderate", mock.Anything, id, blogapp.ModerateCommentRequest{Action: "approve"}).
		Return(&blogapp.CommentResponse{ID: id, Status: "approved"}, nil)
	comments.On("Delete", mock.Anything, id).Return(int64(3), nil)
	router := newBlogRouter(new(MockPostService), comments)

	w := sendJSON(router, http.MethodPatch, "/api/v1/admin/comments/"+id.String()+"/moderate", `{"action":"approve"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = sendJSON(router, http.MethodPatch, "/api/v1/admin/comments/"+id.String()+"/moderate", `{"action":"delete"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = sendJSON(router, http.MethodDelete, "/api/v1/admin/comments/"+id.String(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":3}`, string(rawData(t, w)))
}

type MockMediaService struct {
	mock.Mock
}

func (m *MockMediaService) RequestUpload(ctx context.Context, req blogapp.UploadURLRequest) (*blogapp.UploadURLResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blogapp.UploadURLResponse), args.Error(1)
}

func (m *MockMediaService) Upload(ctx context.Context, fileName string, body io.Reader, size int64) (*blogapp.MediaResponse, error) {
	data, _ := io.ReadAll(body)
	args := m.Called(ctx, fileName, data, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blogapp.MediaResponse), args.Error(1)
}

func (m *MockMediaService) DeleteMedia(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockMediaService) MaxUploadSize() int64 {
	return 1 << 20
}

func newMediaRouter(svc MediaService) *gin.Engine {
	middleware.SetupValidator()
	h := NewMediaHandler(svc)
	router := gin.New()
	router.POST("/api/v1/admin/media/upload-url", h.RequestUploadURL)
	router.POST("/api/v1/admin/media", h.Upload)
	router.DELETE("/api/v1/admin/media/*key", h.Delete)
	return router
}

func TestMediaHandler_RequestUploadURL(t *testing.T) {
	svc := new(MockMediaService)
	svc.On("RequestUpload", mock.Anything, blogapp.UploadURLRequest{FileName: "a.svg", ContentType: "image/svg+xml", Size: 10}).
		Return(nil, blogapp.ErrUnsupportedMediaType)

	w := sendJSON(newMediaRouter(svc), http.MethodPost, "/api/v1/admin/media/upload-url",
		`{"file_name":"a.svg","content_type":"image/svg+xml","size":10}`)
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
}

func TestMediaHandler_Upload(t *testing.T) {
	svc := new(MockMediaService)
	payload := []byte("\x89PNG\r\n\x1a\nfake")
	svc.On("Upload", mock.Anything, "cover.png", payload, int64(len(payload))).
		Return(&blogapp.MediaResponse{Key: "blog/2026/03/x.png", ContentType: "image/png"}, nil)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "cover.png")
	require.NoError(t, err)
	_, _ = part.Write(payload)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	newMediaRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestMediaHandler_UploadWithoutFile(t *testing.T) {
	w := sendJSON(newMediaRouter(new(MockMediaService)), http.MethodPost, "/api/v1/admin/media", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMediaHandler_DeleteUsesWildcardKey(t *testing.T) {
	svc := new(MockMediaService)
	svc.On("DeleteMedia", mock.Anything, "blog/2026/03/x.png").Return(nil)

	w := sendJSON(newMediaRouter(svc), http.MethodDelete, "/api/v1/admin/media/blog/2026/03/x.png", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	svc.AssertExpectations(t)
}
