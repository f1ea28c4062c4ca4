package blog

import (
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/manutdmohit/proficientlegal-sub000/internal/domain/shared"
)

// CommentStatus is the moderation state of a comment
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusRejected CommentStatus = "rejected"
)

// MaxCommentDepth is the deepest nesting level; top-level comments are depth 0
const MaxCommentDepth = 3

var (
	ErrCommentNotFound = shared.NewDomainError("NOT_FOUND", "Comment not found")
	ErrParentMismatch  = shared.NewDomainError("INVALID_PARENT", "Parent comment belongs to a different post")
	ErrTooDeep         = shared.NewDomainError("COMMENT_TOO_DEEP", "Replies cannot be nested any deeper")
)

var commentEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Comment is a reader comment on a post, optionally replying to another comment
type Comment struct {
	shared.BaseEntity
	PostID      uuid.UUID
	ParentID    *uuid.UUID
	Depth       int
	AuthorName  string
	AuthorEmail string
	Body        string
	Status      CommentStatus
}

// NewComment creates a pending comment. parent may be nil for a top-level comment.
func NewComment(postID uuid.UUID, parent *Comment, authorName, authorEmail, body string) (*Comment, error) {
	authorName = strings.TrimSpace(authorName)
	authorEmail = strings.ToLower(strings.TrimSpace(authorEmail))
	body = strings.TrimSpace(body)

	if n := utf8.RuneCountInString(authorName); n < 2 || n > 100 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name must be between 2 and 100 characters")
	}
	if !commentEmailRegex.MatchString(authorEmail) || len(authorEmail) > 200 {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if n := utf8.RuneCountInString(body); n < 2 || n > 2000 {
		return nil, shared.NewDomainError("INVALID_BODY", "Comment must be between 2 and 2000 characters")
	}

	c := &Comment{
		BaseEntity:  shared.NewBaseEntity(),
		PostID:      postID,
		AuthorName:  authorName,
		AuthorEmail: authorEmail,
		Body:        body,
		Status:      CommentStatusPending,
	}

	if parent != nil {
		if parent.PostID != postID {
			return nil, ErrParentMismatch
		}
		if parent.Depth+1 > MaxCommentDepth {
			return nil, ErrTooDeep
		}
		pid := parent.ID
		c.ParentID = &pid
		c.Depth = parent.Depth + 1
	}
	return c, nil
}

// Approve makes the comment publicly visible
func (c *Comment) Approve() {
	c.Status = CommentStatusApproved
	c.UpdatedAt = time.Now()
}

// Reject hides the comment
func (c *Comment) Reject() {
	c.Status = CommentStatusRejected
	c.UpdatedAt = time.Now()
}

// CommentNode is a comment with its replies
type CommentNode struct {
	Comment
	Replies []*CommentNode
}

// BuildThread nests a flat list of comments by ParentID, ordering each level oldest first.
// Comments whose parent is missing from the list are dropped with their subtree.
func BuildThread(comments []Comment) []*CommentNode {
	nodes := make(map[uuid.UUID]*CommentNode, len(comments))
	for i := range comments {
		nodes[comments[i].ID] = &CommentNode{Comment: comments[i], Replies: []*CommentNode{}}
	}

	roots := make([]*CommentNode, 0)
	for i := range comments {
		n := nodes[comments[i].ID]
		if n.ParentID == nil {
			roots = append(roots, n)
			continue
		}
		if parent, ok := nodes[*n.ParentID]; ok {
			parent.Replies = append(parent.Replies, n)
		}
	}

	sortNodes(roots)
	return roots
}

func sortNodes(nodes []*CommentNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].CreatedAt.Before(nodes[j].CreatedAt)
	})
	for _, n := range nodes {
		sortNodes(n.Replies)
	}
}
