package blog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/blog"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
	"go.uber.org/zap"
)

// ErrParentNotFound is returned when a reply targets a missing or rejected comment
var ErrParentNotFound = shared.NewDomainError("INVALID_PARENT", "Parent comment not found")

// CommentService handles reader comments and their moderation
type CommentService struct {
	postRepo    blog.PostRepository
	commentRepo blog.CommentRepository
	logger      *zap.Logger
	now         func() time.Time
}

// NewCommentService creates a new CommentService
func NewCommentService(postRepo blog.PostRepository, commentRepo blog.CommentRepository, logger *zap.Logger) *CommentService {
	return &CommentService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		logger:      logger,
		now:         time.Now,
	}
}

// AddComment records a pending comment on a visible post
func (s *CommentService) AddComment(ctx context.Context, slug string, req AddCommentRequest) (*CommentResponse, error) {
	post, err := s.publicPost(ctx, slug)
	if err != nil {
		return nil, err
	}

	var parent *blog.Comment
	if req.ParentID != nil {
		parent, err = s.commentRepo.FindByID(ctx, *req.ParentID)
		if err != nil {
			if shared.IsNotFound(err) {
				return nil, ErrParentNotFound
			}
			return nil, err
		}
		if parent.Status == blog.CommentStatusRejected {
			return nil, ErrParentNotFound
		}
	}

	comment, err := blog.NewComment(post.ID, parent, req.AuthorName, req.AuthorEmail, req.Body)
	if err != nil {
		return nil, err
	}
	if err := s.commentRepo.Save(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("Comment submitted",
		zap.String("post_id", post.ID.String()),
		zap.String("comment_id", comment.ID.String()),
		zap.Int("depth", comment.Depth))

	resp := ToCommentResponse(comment)
	resp.AuthorEmail = ""
	return &resp, nil
}

// ListComments returns the approved thread of a visible post, oldest first
func (s *CommentService) ListComments(ctx context.Context, slug string) ([]*CommentNodeResponse, error) {
	post, err := s.publicPost(ctx, slug)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.FindByPost(ctx, post.ID, blog.CommentStatusApproved)
	if err != nil {
		return nil, err
	}
	return ToCommentTree(blog.BuildThread(comments)), nil
}

// List lists comments for moderation
func (s *CommentService) List(ctx context.Context, filter CommentListFilter) ([]CommentResponse, int64, error) {
	var postID *uuid.UUID
	if filter.PostID != "" {
		id, err := uuid.Parse(filter.PostID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Invalid post_id")
		}
		postID = &id
	}

	comments, total, err := s.commentRepo.FindAll(ctx, blog.CommentFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "created_at",
			OrderDir: "desc",
			Search:   filter.Search,
		},
		Status: blog.CommentStatus(filter.Status),
		PostID: postID,
	})
	if err != nil {
		return nil, 0, err
	}

	out := make([]CommentResponse, len(comments))
	for i := range comments {
		out[i] = ToCommentResponse(&comments[i])
	}
	return out, total, nil
}

// Moderate approves or rejects a comment
func (s *CommentService) Moderate(ctx context.Context, id uuid.UUID, req ModerateCommentRequest) (*CommentResponse, error) {
	comment, err := s.commentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch req.Action {
	case "approve":
		comment.Approve()
	case "reject":
		comment.Reject()
	default:
		return nil, shared.NewDomainError("INVALID_ACTION", "Action must be approve or reject")
	}

	if err := s.commentRepo.Save(ctx, comment); err != nil {
		return nil, err
	}
	s.logger.Info("Comment moderated",
		zap.String("comment_id", id.String()),
		zap.String("status", string(comment.Status)))

	resp := ToCommentResponse(comment)
	return &resp, nil
}

// Delete removes a comment and all replies under it
func (s *CommentService) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	removed, err := s.commentRepo.DeleteWithReplies(ctx, id)
	if err != nil {
		return 0, err
	}
	s.logger.Info("Comment deleted", zap.String("comment_id", id.String()), zap.Int64("removed", removed))
	return removed, nil
}

func (s *CommentService) publicPost(ctx context.Context, slug string) (*blog.Post, error) {
	post, err := s.postRepo.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, err
	}
	if !post.IsPublic(s.now()) {
		return nil, blog.ErrPostNotFound
	}
	return post, nil
}
