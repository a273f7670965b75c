package reviews

import (
	"context"
	"fmt"

	"github.com/nasermirzaei89/pressroom/authorization"
)

const (
	ActionSubmitReview = "submitReview"
	ActionGetReview    = "getReview"
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

func (mw *AuthorizationMiddleware) SubmitReview(ctx context.Context, req SubmitReviewRequest) (*Review, error) {
	err := mw.authzClient.CheckAccess(ctx, ServiceName, req.PostID, ActionSubmitReview)
	if err != nil {
		return nil, fmt.Errorf("failed to check authorization: %w", err)
	}

	review, err := mw.next.SubmitReview(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to call next method: %w", err)
	}

	return review, nil
}

func (mw *AuthorizationMiddleware) GetReview(ctx context.Context, postID string) (*Review, error) {
	err := mw.authzClient.CheckAccess(ctx, ServiceName, postID, ActionGetReview)
	if err != nil {
		return nil, fmt.Errorf("failed to check authorization: %w", err)
	}

	review, err := mw.next.GetReview(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to call next method: %w", err)
	}

	return review, nil
}
