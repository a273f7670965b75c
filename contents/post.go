package contents

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type PostStatus string

const (
	PostStatusDraft     PostStatus = "DRAFT"
	PostStatusApproved  PostStatus = "APPROVED"
	PostStatusRejected  PostStatus = "REJECTED"
	PostStatusPublished PostStatus = "PUBLISHED"
)

// legacyDraftStatus is what older clients send for drafts.
const legacyDraftStatus = "CONCEPT"

func (status PostStatus) IsValid() bool {
	switch status {
	case PostStatusDraft, PostStatusApproved, PostStatusRejected, PostStatusPublished:
		return true
	default:
		return false
	}
}

func ParsePostStatus(s string) (PostStatus, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	if normalized == legacyDraftStatus {
		return PostStatusDraft, nil
	}

	status := PostStatus(normalized)
	if !status.IsValid() {
		return "", &InvalidPostStatusError{Status: s}
	}

	return status, nil
}

// NotPublishedStatuses lists every status a post can have before it is published.
func NotPublishedStatuses() []PostStatus {
	return []PostStatus{PostStatusDraft, PostStatusApproved, PostStatusRejected}
}

type Post struct {
	ID            string
	Title         string
	Content       string
	Author        string
	Status        PostStatus
	ReviewComment *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PostComment is a comment as served by the comment store.
type PostComment struct {
	ID        string
	PostID    string
	Commenter string
	Text      string
	AddedAt   time.Time
}

type PostWithComments struct {
	Post

	Comments []*PostComment
}

type PostRepository interface {
	Insert(ctx context.Context, post *Post) (err error)
	Find(ctx context.Context, postID string) (post *Post, err error)
	List(ctx context.Context, params *ListPostsParams) (posts []*Post, err error)
	Update(ctx context.Context, post *Post) (err error)
}

type ListPostsParams struct {
	// Statuses filters posts by status. Empty means any status.
	Statuses []PostStatus
}

// CommentLister fetches the comments of a post from the comment store.
type CommentLister interface {
	ListComments(ctx context.Context, postID string) (comments []*PostComment, err error)
}

type Notifier interface {
	Notify(ctx context.Context, subject, body string) (err error)
}

type PostNotFoundError struct {
	ID string
}

func (err PostNotFoundError) Error() string {
	return fmt.Sprintf("post with id %q not found", err.ID)
}

type PostsNotFoundError struct {
	Statuses []PostStatus
}

func (err PostsNotFoundError) Error() string {
	if len(err.Statuses) == 0 {
		return "no posts found"
	}

	return fmt.Sprintf("no posts found with status %v", err.Statuses)
}

type NotPostAuthorError struct {
	PostID string
	User   string
}

func (err NotPostAuthorError) Error() string {
	return fmt.Sprintf("user %q is not the author of post %q", err.User, err.PostID)
}

type PostStatusConflictError struct {
	PostID string
	Status PostStatus
	Action string
}

func (err PostStatusConflictError) Error() string {
	return fmt.Sprintf("cannot %s post %q with status %s", err.Action, err.PostID, err.Status)
}

type InvalidPostStatusError struct {
	Status string
}

func (err InvalidPostStatusError) Error() string {
	return fmt.Sprintf("invalid post status: %q", err.Status)
}

type InvalidArgumentError struct {
	Name   string
	Reason string
}

func (err InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", err.Name, err.Reason)
}
