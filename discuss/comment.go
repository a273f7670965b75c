package discuss

import (
	"context"
	"fmt"
	"time"

	"github.com/nasermirzaei89/pressroom/contents"
)

type Comment struct {
	ID        string
	PostID    string
	Commenter string
	Text      string
	AddedAt   time.Time
	UpdatedAt time.Time
}

type CommentRepository interface {
	Insert(ctx context.Context, comment *Comment) (err error)
	Find(ctx context.Context, commentID string) (comment *Comment, err error)
	List(ctx context.Context, params *ListCommentsParams) (comments []*Comment, err error)
	Update(ctx context.Context, comment *Comment) (err error)
	Delete(ctx context.Context, commentID string) (err error)
}

type ListCommentsParams struct {
	PostID string
}

// PostFinder checks posts in the post store.
type PostFinder interface {
	FindPost(ctx context.Context, postID string) (post *contents.Post, err error)
}

type CommentNotFoundError struct {
	ID string
}

func (err CommentNotFoundError) Error() string {
	return fmt.Sprintf("comment with id %q not found", err.ID)
}

type CommentsNotFoundError struct {
	PostID string
}

func (err CommentsNotFoundError) Error() string {
	return fmt.Sprintf("no comments found for post %q", err.PostID)
}

type NotCommentAuthorError struct {
	CommentID string
	User      string
}

func (err NotCommentAuthorError) Error() string {
	return fmt.Sprintf("user %q is not the author of comment %q", err.User, err.CommentID)
}

type InvalidArgumentError struct {
	Name   string
	Reason string
}

func (err InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", err.Name, err.Reason)
}
