package casbin_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/nasermirzaei89/pressroom/authorization"
	"github.com/nasermirzaei89/pressroom/authorization/casbin"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestAuthorizationProvider_AddPolicyFromCSV(t *testing.T) {
	ctx := context.Background()

	db, err := sql.Open("sqlite", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err)

	db.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = db.Close() })

	adapter, err := casbin.NewSQLAdapter(db, "sqlite3", "casbin_rule")
	require.NoError(t, err)

	provider, err := casbin.NewAuthorizationProvider(adapter)
	require.NoError(t, err)

	policy := `# readers
g, editor, user

p, user, posts, *, getPost
`

	err = provider.AddPolicyFromCSV(ctx, policy)
	require.NoError(t, err)

	// seeding twice keeps existing rules
	err = provider.AddPolicyFromCSV(ctx, policy)
	require.NoError(t, err)

	res, err := provider.CheckAccess(ctx, authorization.CheckAccessRequest{
		Role:   "editor",
		Domain: "posts",
		Object: "post1",
		Action: "getPost",
	})
	require.NoError(t, err)
	require.True(t, res.Allowed)

	t.Run("reload from database", func(t *testing.T) {
		adapter, err := casbin.NewSQLAdapter(db, "sqlite3", "casbin_rule")
		require.NoError(t, err)

		reloaded, err := casbin.NewAuthorizationProvider(adapter)
		require.NoError(t, err)

		res, err := reloaded.CheckAccess(ctx, authorization.CheckAccessRequest{
			Role:   "user",
			Domain: "posts",
			Action: "getPost",
		})
		require.NoError(t, err)
		require.True(t, res.Allowed)
		require.Equal(t, []string{"user", "posts", "*", "getPost"}, res.Rule)
	})

	t.Run("unknown policy type", func(t *testing.T) {
		err := provider.AddPolicyFromCSV(ctx, "x, user, posts, *, getPost")
		require.Error(t, err)

		unknownErr := casbin.UnknownPolicyTypeError{}
		require.ErrorAs(t, err, &unknownErr)
	})

	t.Run("invalid record", func(t *testing.T) {
		err := provider.AddPolicyFromCSV(ctx, "p")
		require.Error(t, err)

		invalidErr := casbin.InvalidPolicyRecordError{}
		require.ErrorAs(t, err, &invalidErr)
	})
}

func TestNewAuthorizationProvider(t *testing.T) {
	_, err := casbin.NewAuthorizationProvider(nil)
	require.Error(t, err)
}
