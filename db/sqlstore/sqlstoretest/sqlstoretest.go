// Package sqlstoretest opens migrated in-memory databases for tests.
package sqlstoretest

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/nasermirzaei89/pressroom/db/sqlstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func NewDB(t *testing.T, sets ...sqlstore.MigrationSet) *sql.DB {
	t.Helper()

	ctx := context.Background()

	db, err := sqlstore.NewDB(ctx, sqlstore.DialectSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err, "failed to open database")

	// a shared in-memory database lives as long as one connection does
	db.SetMaxOpenConns(1)

	t.Cleanup(func() {
		assert.NoError(t, db.Close(), "failed to close database")
	})

	for _, set := range sets {
		err = sqlstore.MigrateUp(ctx, db, sqlstore.DialectSQLite, set)
		require.NoError(t, err, "failed to migrate %s", set)
	}

	return db
}
