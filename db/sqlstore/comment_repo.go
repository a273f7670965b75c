package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/nasermirzaei89/pressroom/discuss"
)

const tableComments = "comments"

type CommentRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ discuss.CommentRepository = (*CommentRepository)(nil)

func NewCommentRepository(db *sql.DB, dialect Dialect) *CommentRepository {
	return &CommentRepository{
		db:      db,
		builder: dialect.statementBuilder().RunWith(db),
	}
}

const (
	commentFieldID        = "id"
	commentFieldPostID    = "post_id"
	commentFieldCommenter = "commenter"
	commentFieldText      = "text"
	commentFieldAddedAt   = "added_at"
	commentFieldUpdatedAt = "updated_at"
)

func commentColumns() []string {
	return []string{
		commentFieldID,
		commentFieldPostID,
		commentFieldCommenter,
		commentFieldText,
		commentFieldAddedAt,
		commentFieldUpdatedAt,
	}
}

func scanComment(row sq.RowScanner) (*discuss.Comment, error) {
	var comment discuss.Comment

	err := row.Scan(
		&comment.ID,
		&comment.PostID,
		&comment.Commenter,
		&comment.Text,
		&comment.AddedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	return &comment, nil
}

func (repo *CommentRepository) Insert(ctx context.Context, comment *discuss.Comment) error {
	q := repo.builder.Insert(tableComments).
		Columns(commentColumns()...).
		Values(
			comment.ID,
			comment.PostID,
			comment.Commenter,
			comment.Text,
			comment.AddedAt,
			comment.UpdatedAt,
		)

	_, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec insert: %w", err)
	}

	return nil
}

func (repo *CommentRepository) Find(ctx context.Context, commentID string) (*discuss.Comment, error) {
	q := repo.builder.Select(commentColumns()...).
		From(tableComments).
		Where(sq.Eq{commentFieldID: commentID})

	comment, err := scanComment(q.QueryRowContext(ctx))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &discuss.CommentNotFoundError{ID: commentID}
		}

		return nil, fmt.Errorf("failed to scan comment: %w", err)
	}

	return comment, nil
}

func (repo *CommentRepository) List(
	ctx context.Context,
	params *discuss.ListCommentsParams,
) ([]*discuss.Comment, error) {
	query := repo.builder.Select(commentColumns()...).
		From(tableComments).
		OrderBy(commentFieldAddedAt + " ASC")

	if params != nil && params.PostID != "" {
		query = query.Where(sq.Eq{commentFieldPostID: params.PostID})
	}

	rows, err := query.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	defer closeRows(ctx, rows)

	comments := make([]*discuss.Comment, 0)

	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment failed: %w", err)
		}

		comments = append(comments, comment)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return comments, nil
}

func (repo *CommentRepository) Update(ctx context.Context, comment *discuss.Comment) error {
	q := repo.builder.Update(tableComments).
		Set(commentFieldText, comment.Text).
		Set(commentFieldUpdatedAt, comment.UpdatedAt).
		Where(sq.Eq{commentFieldID: comment.ID})

	res, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec update: %w", err)
	}

	return requireAffected(res, &discuss.CommentNotFoundError{ID: comment.ID})
}

func (repo *CommentRepository) Delete(ctx context.Context, commentID string) error {
	q := repo.builder.Delete(tableComments).
		Where(sq.Eq{commentFieldID: commentID})

	res, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec delete: %w", err)
	}

	return requireAffected(res, &discuss.CommentNotFoundError{ID: commentID})
}
