package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/nasermirzaei89/pressroom/reviews"
)

const tableReviews = "reviews"

type ReviewRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ reviews.ReviewRepository = (*ReviewRepository)(nil)

func NewReviewRepository(db *sql.DB, dialect Dialect) *ReviewRepository {
	return &ReviewRepository{
		db:      db,
		builder: dialect.statementBuilder().RunWith(db),
	}
}

const (
	reviewFieldID        = "id"
	reviewFieldPostID    = "post_id"
	reviewFieldEditor    = "editor"
	reviewFieldApproved  = "approved"
	reviewFieldComment   = "review_comment"
	reviewFieldCreatedAt = "created_at"
	reviewFieldUpdatedAt = "updated_at"
)

func reviewColumns() []string {
	return []string{
		reviewFieldID,
		reviewFieldPostID,
		reviewFieldEditor,
		reviewFieldApproved,
		reviewFieldComment,
		reviewFieldCreatedAt,
		reviewFieldUpdatedAt,
	}
}

func scanReview(row sq.RowScanner) (*reviews.Review, error) {
	var review reviews.Review

	err := row.Scan(
		&review.ID,
		&review.PostID,
		&review.Editor,
		&review.Approved,
		&review.Comment,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	return &review, nil
}

func (repo *ReviewRepository) Insert(ctx context.Context, review *reviews.Review) error {
	q := repo.builder.Insert(tableReviews).
		Columns(reviewColumns()...).
		Values(
			review.ID,
			review.PostID,
			review.Editor,
			review.Approved,
			review.Comment,
			review.CreatedAt,
			review.UpdatedAt,
		)

	_, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec insert: %w", err)
	}

	return nil
}

func (repo *ReviewRepository) FindByPostID(ctx context.Context, postID string) (*reviews.Review, error) {
	q := repo.builder.Select(reviewColumns()...).
		From(tableReviews).
		Where(sq.Eq{reviewFieldPostID: postID})

	review, err := scanReview(q.QueryRowContext(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &reviews.ReviewNotFoundError{PostID: postID}
		}

		return nil, fmt.Errorf("failed to scan review: %w", err)
	}

	return review, nil
}

func (repo *ReviewRepository) Update(ctx context.Context, review *reviews.Review) error {
	q := repo.builder.Update(tableReviews).
		SetMap(map[string]any{
			reviewFieldEditor:    review.Editor,
			reviewFieldApproved:  review.Approved,
			reviewFieldComment:   review.Comment,
			reviewFieldUpdatedAt: review.UpdatedAt,
		}).
		Where(sq.Eq{reviewFieldID: review.ID})

	res, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec update: %w", err)
	}

	return requireAffected(res, &reviews.ReviewNotFoundError{PostID: review.PostID})
}
