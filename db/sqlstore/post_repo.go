package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/nasermirzaei89/pressroom/contents"
)

const tablePosts = "posts"

type PostRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ contents.PostRepository = (*PostRepository)(nil)

func NewPostRepository(db *sql.DB, dialect Dialect) *PostRepository {
	return &PostRepository{
		db:      db,
		builder: dialect.statementBuilder().RunWith(db),
	}
}

const (
	postFieldID            = "id"
	postFieldTitle         = "title"
	postFieldContent       = "content"
	postFieldAuthor        = "author"
	postFieldStatus        = "status"
	postFieldReviewComment = "review_comment"
	postFieldCreatedAt     = "created_at"
	postFieldUpdatedAt     = "updated_at"
)

func postColumns() []string {
	return []string{
		postFieldID,
		postFieldTitle,
		postFieldContent,
		postFieldAuthor,
		postFieldStatus,
		postFieldReviewComment,
		postFieldCreatedAt,
		postFieldUpdatedAt,
	}
}

func scanPost(row sq.RowScanner) (*contents.Post, error) {
	var post contents.Post

	err := row.Scan(
		&post.ID,
		&post.Title,
		&post.Content,
		&post.Author,
		&post.Status,
		&post.ReviewComment,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	return &post, nil
}

func (repo *PostRepository) Insert(ctx context.Context, post *contents.Post) error {
	q := repo.builder.Insert(tablePosts).
		Columns(postColumns()...).
		Values(
			post.ID,
			post.Title,
			post.Content,
			post.Author,
			string(post.Status),
			post.ReviewComment,
			post.CreatedAt,
			post.UpdatedAt,
		)

	_, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec insert: %w", err)
	}

	return nil
}

func (repo *PostRepository) Find(ctx context.Context, postID string) (*contents.Post, error) {
	q := repo.builder.Select(postColumns()...).
		From(tablePosts).
		Where(sq.Eq{postFieldID: postID})

	row := q.QueryRowContext(ctx)

	post, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &contents.PostNotFoundError{ID: postID}
		}

		return nil, fmt.Errorf("failed to scan post: %w", err)
	}

	return post, nil
}

func (repo *PostRepository) List(ctx context.Context, params *contents.ListPostsParams) ([]*contents.Post, error) {
	q := repo.builder.Select(postColumns()...).
		From(tablePosts).
		OrderBy(postFieldCreatedAt+" DESC", postFieldID)

	if params != nil && len(params.Statuses) > 0 {
		statuses := make([]string, 0, len(params.Statuses))
		for _, status := range params.Statuses {
			statuses = append(statuses, string(status))
		}

		q = q.Where(sq.Eq{postFieldStatus: statuses})
	}

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}

	defer closeRows(ctx, rows)

	posts := make([]*contents.Post, 0)

	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}

		posts = append(posts, post)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return posts, nil
}

func (repo *PostRepository) Update(ctx context.Context, post *contents.Post) error {
	q := repo.builder.Update(tablePosts).
		SetMap(map[string]any{
			postFieldTitle:         post.Title,
			postFieldContent:       post.Content,
			postFieldStatus:        string(post.Status),
			postFieldReviewComment: post.ReviewComment,
			postFieldUpdatedAt:     post.UpdatedAt,
		}).
		Where(sq.Eq{postFieldID: post.ID})

	res, err := q.ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to exec update: %w", err)
	}

	return requireAffected(res, &contents.PostNotFoundError{ID: post.ID})
}

// requireAffected returns notFoundErr when the statement matched no row.
func requireAffected(res sql.Result, notFoundErr error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if n == 0 {
		return notFoundErr
	}

	return nil
}
