package discuss

import (
	"context"
	"fmt"

	"github.com/nasermirzaei89/pressroom/authorization"
)

const (
	ActionListComments  = "listComments"
	ActionCreateComment = "createComment"
	ActionUpdateComment = "updateComment"
	ActionDeleteComment = "deleteComment"
)

type AuthorizationMiddleware struct {
	authzClient *authorization.Client
	next        Service
}

var _ Service = (*AuthorizationMiddleware)(nil)

func NewAuthorizationMiddleware(authzClient *authorization.Client, next Service) *AuthorizationMiddleware {
	return &AuthorizationMiddleware{
		authzClient: authzClient,
		next:        next,
	}
}

func (mw *AuthorizationMiddleware) ListComments(ctx context.Context, postID string) ([]*Comment, error) {
	err := mw.authzClient.CheckAccess(ctx, ServiceName, postID, ActionListComments)
	if err != nil {
		return nil, fmt.Errorf("failed to check authorization: %w", err)
	}

	comments, err := mw.next.ListComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to call next method: %w", err)
	}

	return comments, nil
}

func (mw *AuthorizationMiddleware) CreateComment(ctx context.Context, req CreateCommentRequest) (*Comment, error) {
	err := mw.authzClient.CheckAccess(ctx, ServiceName, req.PostID, ActionCreateComment)
	if err != nil {
		return nil, fmt.Errorf("failed to check authorization: %w", err)
	}

	comment, err := mw.next.CreateComment(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to call next method: %w", err)
	}

	return comment, nil
}

func (mw *AuthorizationMiddleware) UpdateComment(ctx context.Context, req UpdateCommentRequest) (*Comment, error) {
	err := mw.authzClient.CheckAccess(ctx, ServiceName, req.ID, ActionUpdateComment)
	if err != nil {
		return nil, fmt.Errorf("failed to check authorization: %w", err)
	}

	comment, err := mw.next.UpdateComment(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to call next method: %w", err)
	}

	return comment, nil
}

func (mw *AuthorizationMiddleware) DeleteComment(ctx context.Context, req DeleteCommentRequest) error {
	err := mw.authzClient.CheckAccess(ctx, ServiceName, req.ID, ActionDeleteComment)
	if err != nil {
		return fmt.Errorf("failed to check authorization: %w", err)
	}

	err = mw.next.DeleteComment(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to call next method: %w", err)
	}

	return nil
}
