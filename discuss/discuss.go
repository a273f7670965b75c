package discuss

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

const ServiceName = "comments"

type Service interface {
	ListComments(ctx context.Context, postID string) (comments []*Comment, err error)
	CreateComment(ctx context.Context, req CreateCommentRequest) (comment *Comment, err error)
	UpdateComment(ctx context.Context, req UpdateCommentRequest) (comment *Comment, err error)
	DeleteComment(ctx context.Context, req DeleteCommentRequest) (err error)
}

type BaseService struct {
	commentRepo CommentRepository
	postFinder  PostFinder
}

var _ Service = (*BaseService)(nil)

func NewService(commentRepo CommentRepository, postFinder PostFinder) *BaseService {
	return &BaseService{
		commentRepo: commentRepo,
		postFinder:  postFinder,
	}
}

func (svc *BaseService) ListComments(ctx context.Context, postID string) ([]*Comment, error) {
	_, err := svc.postFinder.FindPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}

	comments, err := svc.commentRepo.List(ctx, &ListCommentsParams{PostID: postID})
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	if len(comments) == 0 {
		return nil, &CommentsNotFoundError{PostID: postID}
	}

	return comments, nil
}

type CreateCommentRequest struct {
	PostID    string
	Commenter string
	Text      string
}

func (svc *BaseService) CreateComment(ctx context.Context, req CreateCommentRequest) (*Comment, error) {
	switch {
	case isBlank(req.Text):
		return nil, &InvalidArgumentError{Name: "text", Reason: "must not be empty"}
	case isBlank(req.PostID):
		return nil, &InvalidArgumentError{Name: "postId", Reason: "must not be empty"}
	case isBlank(req.Commenter):
		return nil, &InvalidArgumentError{Name: "commenter", Reason: "must not be empty"}
	}

	_, err := svc.postFinder.FindPost(ctx, req.PostID)
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}

	timeNow := time.Now()

	comment := &Comment{
		ID:        uuid.NewString(),
		PostID:    req.PostID,
		Commenter: req.Commenter,
		Text:      req.Text,
		AddedAt:   timeNow,
		UpdatedAt: timeNow,
	}

	err = svc.commentRepo.Insert(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to insert comment: %w", err)
	}

	slog.InfoContext(ctx, "comment added", "commentId", comment.ID, "postId", comment.PostID)

	return comment, nil
}

type UpdateCommentRequest struct {
	ID        string
	Text      string
	Requester string
}

func (svc *BaseService) UpdateComment(ctx context.Context, req UpdateCommentRequest) (*Comment, error) {
	switch {
	case isBlank(req.Text):
		return nil, &InvalidArgumentError{Name: "text", Reason: "must not be empty"}
	case isBlank(req.Requester):
		return nil, &InvalidArgumentError{Name: "requester", Reason: "must not be empty"}
	}

	comment, err := svc.ownedComment(ctx, req.ID, req.Requester)
	if err != nil {
		return nil, err
	}

	comment.Text = req.Text
	comment.UpdatedAt = time.Now()

	err = svc.commentRepo.Update(ctx, comment)
	if err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return comment, nil
}

type DeleteCommentRequest struct {
	ID        string
	Requester string
}

func (svc *BaseService) DeleteComment(ctx context.Context, req DeleteCommentRequest) error {
	comment, err := svc.ownedComment(ctx, req.ID, req.Requester)
	if err != nil {
		return err
	}

	err = svc.commentRepo.Delete(ctx, comment.ID)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	slog.InfoContext(ctx, "comment deleted", "commentId", comment.ID)

	return nil
}

func (svc *BaseService) ownedComment(ctx context.Context, commentID, requester string) (*Comment, error) {
	comment, err := svc.commentRepo.Find(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}

	if comment.Commenter != requester {
		return nil, &NotCommentAuthorError{CommentID: comment.ID, User: requester}
	}

	return comment, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
