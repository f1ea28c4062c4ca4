package blog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/blog"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCommentService(posts *MockPostRepository, comments *MockCommentRepository) *CommentService {
	svc := NewCommentService(posts, comments, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestCommentService_AddComment(t *testing.T) {
	ctx := context.Background()
	posts := new(MockPostRepository)
	comments := new(MockCommentRepository)
	post := publishedPost(t, "Tenancy rights")

	posts.On("FindBySlug", ctx, "tenancy-rights").Return(post, nil)
	comments.On("Save", ctx, mock.AnythingOfType("*blog.Comment")).Return(nil)

	svc := newTestCommentService(posts, comments)
	resp, err := svc.AddComment(ctx, "tenancy-rights", AddCommentRequest{
		AuthorName:  "Reader",
		AuthorEmail: "Reader@Example.com",
		Body:        "Very helpful, thanks.",
	})

	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, post.ID, resp.PostID)
	assert.Empty(t, resp.AuthorEmail)
}

func TestCommentService_AddReply(t *testing.T) {
	ctx := context.Background()
	post := publishedPost(t, "Tenancy rights")

	t.Run("nested under parent", func(t *testing.T) {
		posts := new(MockPostRepository)
		comments := new(MockCommentRepository)
		parent, err := blog.NewComment(post.ID, nil, "First", "first@example.com", "Question here")
		require.NoError(t, err)
		parent.Approve()

		posts.On("FindBySlug", ctx, "tenancy-rights").Return(post, nil)
		comments.On("FindByID", ctx, parent.ID).Return(parent, nil)
		comments.On("Save", ctx, mock.AnythingOfType("*blog.Comment")).Return(nil)

		svc := newTestCommentService(posts, comments)
		resp, err := svc.AddComment(ctx, "tenancy-rights", AddCommentRequest{
			ParentID:    &parent.ID,
			AuthorName:  "Second",
			AuthorEmail: "second@example.com",
			Body:        "An answer",
		})
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Depth)
		assert.Equal(t, &parent.ID, resp.ParentID)
	})

	t.Run("parent on another post", func(t *testing.T) {
		posts := new(MockPostRepository)
		comments := new(MockCommentRepository)
		other, err := blog.NewComment(uuid.New(), nil, "Other", "other@example.com", "Elsewhere")
		require.NoError(t, err)

		posts.On("FindBySlug", ctx, "tenancy-rights").Return(post, nil)
		comments.On("FindByID", ctx, other.ID).Return(other, nil)

		svc := newTestCommentService(posts, comments)
		_, err = svc.AddComment(ctx, "tenancy-rights", AddCommentRequest{
			ParentID:    &other.ID,
			AuthorName:  "Second",
			AuthorEmail: "second@example.com",
			Body:        "An answer",
		})
		assert.ErrorIs(t, err, blog.ErrParentMismatch)
	})

	t.Run("too deep", func(t *testing.T) {
		posts := new(MockPostRepository)
		comments := new(MockCommentRepository)
		deep, err := blog.NewComment(post.ID, nil, "Deep", "deep@example.com", "Deep down")
		require.NoError(t, err)
		deep.Depth = blog.MaxCommentDepth

		posts.On("FindBySlug", ctx, "tenancy-rights").Return(post, nil)
		comments.On("FindByID", ctx, deep.ID).Return(deep, nil)

		svc := newTestCommentService(posts, comments)
		_, err = svc.AddComment(ctx, "tenancy-rights", AddCommentRequest{
			ParentID:    &deep.ID,
			AuthorName:  "Second",
			AuthorEmail: "second@example.com",
			Body:        "Too far",
		})
		assert.ErrorIs(t, err, blog.ErrTooDeep)
	})

	t.Run("missing parent", func(t *testing.T) {
		posts := new(MockPostRepository)
		comments := new(MockCommentRepository)
		missing := uuid.New()

		posts.On("FindBySlug", ctx, "tenancy-rights").Return(post, nil)
		comments.On("FindByID", ctx, missing).Return(nil, blog.ErrCommentNotFound)

		svc := newTestCommentService(posts, comments)
		_, err := svc.AddComment(ctx, "tenancy-rights", AddCommentRequest{
			ParentID:    &missing,
			AuthorName:  "Second",
			AuthorEmail: "second@example.com",
			Body:        "Hello there",
		})
		assert.ErrorIs(t, err, ErrParentNotFound)
	})
}

func TestCommentService_AddComment_DraftPost(t *testing.T) {
	ctx := context.Background()
	posts := new(MockPostRepository)
	draft, err := blog.NewPost("Draft", "", "body", "")
	require.NoError(t, err)
	posts.On("FindBySlug", ctx, "draft").Return(draft, nil)

	svc := newTestCommentService(posts, new(MockCommentRepository))
	_, err = svc.AddComment(ctx, "draft", AddCommentRequest{AuthorName: "Reader", AuthorEmail: "r@example.com", Body: "Hi there"})
	assert.True(t, shared.IsNotFound(err))
}

func TestCommentService_ListComments(t *testing.T) {
	ctx := context.Background()
	posts := new(MockPostRepository)
	comments := new(MockCommentRepository)
	post := publishedPost(t, "Thread")

	root, err := blog.NewComment(post.ID, nil, "Root", "root@example.com", "Top level")
	require.NoError(t, err)
	root.CreatedAt = fixedNow.Add(-2 * time.Hour)
	reply, err := blog.NewComment(post.ID, root, "Reply", "reply@example.com", "Nested one")
	require.NoError(t, err)
	reply.CreatedAt = fixedNow.Add(-time.Hour)

	posts.On("FindBySlug", ctx, "thread").Return(post, nil)
	comments.On("FindByPost", ctx, post.ID, blog.CommentStatusApproved).Return([]blog.Comment{*reply, *root}, nil)

	svc := newTestCommentService(posts, comments)
	tree, err := svc.ListComments(ctx, "thread")
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, root.ID, tree[0].ID)
	require.Len(t, tree[0].Replies, 1)
	assert.Equal(t, reply.ID, tree[0].Replies[0].ID)
}

func TestCommentService_Moderate(t *testing.T) {
	ctx := context.Background()
	comments := new(MockCommentRepository)
	c, err := blog.NewComment(uuid.New(), nil, "Reader", "r@example.com", "Nice post")
	require.NoError(t, err)

	comments.On("FindByID", ctx, c.ID).Return(c, nil)
	comments.On("Save", ctx, c).Return(nil)

	svc := newTestCommentService(new(MockPostRepository), comments)

	resp, err := svc.Moderate(ctx, c.ID, ModerateCommentRequest{Action: "approve"})
	require.NoError(t, err)
	assert.Equal(t, "approved", resp.Status)

	resp, err = svc.Moderate(ctx, c.ID, ModerateCommentRequest{Action: "reject"})
	require.NoError(t, err)
	assert.Equal(t, "rejected", resp.Status)

	_, err = svc.Moderate(ctx, c.ID, ModerateCommentRequest{Action: "ban"})
	assert.Error(t, err)
}

func TestCommentService_Delete(t *testing.T) {
	ctx := context.Background()
	comments := new(MockCommentRepository)
	id := uuid.New()
	comments.On("DeleteWithReplies", ctx, id).Return(int64(3), nil)

	svc := newTestCommentService(new(MockPostRepository), comments)
	removed, err := svc.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), removed)
}
