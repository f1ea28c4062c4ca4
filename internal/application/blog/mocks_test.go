package blog

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/blog"
	"github.com/stretchr/testify/mock"
)

// MockPostRepository is a mock implementation of blog.PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Save(ctx context.Context, post *blog.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) FindByID(ctx context.Context, id uuid.UUID) (*blog.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blog.Post), args.Error(1)
}

func (m *MockPostRepository) FindBySlug(ctx context.Context, slug string) (*blog.Post, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blog.Post), args.Error(1)
}

func (m *MockPostRepository) ExistsBySlug(ctx context.Context, slug string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) FindAll(ctx context.Context, filter blog.PostFilter) ([]blog.Post, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]blog.Post), args.Get(1).(int64), args.Error(2)
}

func (m *MockPostRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) ListPublishedTags(ctx context.Context, now time.Time) ([]blog.TagCount, error) {
	args := m.Called(ctx, now)
	return args.Get(0).([]blog.TagCount), args.Error(1)
}

func (m *MockPostRepository) CountPublishedBetween(ctx context.Context, from, to time.Time) (int64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) CountByStatus(ctx context.Context, status blog.PostStatus) (int64, error) {
	args := m.Called(ctx, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPostRepository) FindRecent(ctx context.Context, limit int) ([]blog.Post, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]blog.Post), args.Error(1)
}

// MockCommentRepository is a mock implementation of blog.CommentRepository
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Save(ctx context.Context, c *blog.Comment) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*blog.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blog.Comment), args.Error(1)
}

func (m *MockCommentRepository) FindByPost(ctx context.Context, postID uuid.UUID, status blog.CommentStatus) ([]blog.Comment, error) {
	args := m.Called(ctx, postID, status)
	return args.Get(0).([]blog.Comment), args.Error(1)
}

func (m *MockCommentRepository) FindAll(ctx context.Context, filter blog.CommentFilter) ([]blog.Comment, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]blog.Comment), args.Get(1).(int64), args.Error(2)
}

func (m *MockCommentRepository) DeleteWithReplies(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCommentRepository) DeleteByPost(ctx context.Context, postID uuid.UUID) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

// MockObjectStorage is a mock implementation of ObjectStorage
type MockObjectStorage struct {
	mock.Mock
	uploaded []byte
}

func (m *MockObjectStorage) GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, contentType, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockObjectStorage) Upload(ctx context.Context, storageKey string, body io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	m.uploaded = data
	args := m.Called(ctx, storageKey, size, contentType)
	return args.Error(0)
}

func (m *MockObjectStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

func (m *MockObjectStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	args := m.Called(ctx, storageKey)
	return args.Bool(0), args.Error(1)
}

func (m *MockObjectStorage) PublicURL(storageKey string) string {
	return "https://cdn.firm.example/" + storageKey
}
