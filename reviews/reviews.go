package reviews

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const ServiceName = "reviews"

type Service interface {
	SubmitReview(ctx context.Context, req SubmitReviewRequest) (review *Review, err error)
	GetReview(ctx context.Context, postID string) (review *Review, err error)
}

type BaseService struct {
	reviewRepo ReviewRepository
	postFinder PostFinder
	publisher  DecisionPublisher
}

var _ Service = (*BaseService)(nil)

func NewService(reviewRepo ReviewRepository, postFinder PostFinder, publisher DecisionPublisher) *BaseService {
	return &BaseService{
		reviewRepo: reviewRepo,
		postFinder: postFinder,
		publisher:  publisher,
	}
}

type SubmitReviewRequest struct {
	PostID   string
	Editor   string
	Approved bool
	Comment  string
}

// SubmitReview records the decision of an editor and forwards it to the post
// store. The post must exist before anything is stored.
func (svc *BaseService) SubmitReview(ctx context.Context, req SubmitReviewRequest) (*Review, error) {
	_, err := svc.postFinder.FindPost(ctx, req.PostID)
	if err != nil {
		return nil, fmt.Errorf("failed to find post: %w", err)
	}

	review, err := svc.upsertReview(ctx, req)
	if err != nil {
		return nil, err
	}

	err = svc.publisher.PublishDecision(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("failed to publish review decision: %w", err)
	}

	slog.InfoContext(ctx, "review submitted", "postId", review.PostID, "approved", review.Approved)

	return review, nil
}

func (svc *BaseService) upsertReview(ctx context.Context, req SubmitReviewRequest) (*Review, error) {
	timeNow := time.Now()

	review, err := svc.reviewRepo.FindByPostID(ctx, req.PostID)
	if err != nil {
		var notFoundErr *ReviewNotFoundError
		if !errors.As(err, &notFoundErr) {
			return nil, fmt.Errorf("failed to find review: %w", err)
		}

		review = &Review{
			ID:        uuid.NewString(),
			PostID:    req.PostID,
			Editor:    req.Editor,
			Approved:  req.Approved,
			Comment:   req.Comment,
			CreatedAt: timeNow,
			UpdatedAt: timeNow,
		}

		err = svc.reviewRepo.Insert(ctx, review)
		if err != nil {
			return nil, fmt.Errorf("failed to insert review: %w", err)
		}

		return review, nil
	}

	review.Editor = req.Editor
	review.Approved = req.Approved
	review.Comment = req.Comment
	review.UpdatedAt = timeNow

	err = svc.reviewRepo.Update(ctx, review)
	if err != nil {
		return nil, fmt.Errorf("failed to update review: %w", err)
	}

	return review, nil
}

func (svc *BaseService) GetReview(ctx context.Context, postID string) (*Review, error) {
	review, err := svc.reviewRepo.FindByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to find review: %w", err)
	}

	return review, nil
}
