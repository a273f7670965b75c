package sqlstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nasermirzaei89/pressroom/db/sqlstore"
	"github.com/nasermirzaei89/pressroom/db/sqlstore/sqlstoretest"
	"github.com/nasermirzaei89/pressroom/reviews"
	"github.com/stretchr/testify/require"
)

func TestReviewRepository(t *testing.T) {
	ctx := context.Background()

	db := sqlstoretest.NewDB(t, sqlstore.MigrationsReviews)
	repo := sqlstore.NewReviewRepository(db, sqlstore.DialectSQLite)

	now := time.Now().UTC().Truncate(time.Second)

	review := &reviews.Review{
		ID:        uuid.NewString(),
		PostID:    uuid.NewString(),
		Editor:    "erin",
		Approved:  false,
		Comment:   "too short",
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := repo.Insert(ctx, review)
	require.NoError(t, err)

	t.Run("find by post", func(t *testing.T) {
		found, err := repo.FindByPostID(ctx, review.PostID)
		require.NoError(t, err)
		require.Equal(t, review.ID, found.ID)
		require.False(t, found.Approved)
		require.Equal(t, "too short", found.Comment)
	})

	t.Run("one review per post", func(t *testing.T) {
		err := repo.Insert(ctx, &reviews.Review{
			ID:        uuid.NewString(),
			PostID:    review.PostID,
			Editor:    "frank",
			CreatedAt: now,
			UpdatedAt: now,
		})
		require.Error(t, err)
	})

	t.Run("update", func(t *testing.T) {
		review.Approved = true
		review.Editor = "frank"

		err := repo.Update(ctx, review)
		require.NoError(t, err)

		found, err := repo.FindByPostID(ctx, review.PostID)
		require.NoError(t, err)
		require.True(t, found.Approved)
		require.Equal(t, "frank", found.Editor)
	})

	t.Run("find missing", func(t *testing.T) {
		_, err := repo.FindByPostID(ctx, uuid.NewString())

		notFoundErr := &reviews.ReviewNotFoundError{}
		require.ErrorAs(t, err, &notFoundErr)
	})
}

func TestParseDialect(t *testing.T) {
	dialect, err := sqlstore.ParseDialect("postgres")
	require.NoError(t, err)
	require.Equal(t, sqlstore.DialectPostgres, dialect)

	_, err = sqlstore.ParseDialect("oracle")
	unsupportedErr := &sqlstore.UnsupportedDialectError{}
	require.ErrorAs(t, err, &unsupportedErr)
}
